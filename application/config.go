package application

// Options configures the few behavioral knobs the core exposes: how many
// loader-list entries a PEB walk tolerates before declaring the list
// corrupt, and the optional PEReader attached to walked modules.
type Options struct {
	// MaxLoaderListEntries bounds the PEB walker (§4.7): the walk fails
	// with LoaderListCorrupt rather than looping forever on a malformed
	// list.
	MaxLoaderListEntries int

	// PEReader, if non-nil, is attached to every LoadedModule a walk
	// produces so LoadedModule.PE() can lazily parse the module's PE
	// headers. Left nil, PE() reports werrors.Unsupported.
	PEReader PEReader
}

// Default returns the default Options: a 4096-entry loader-list bound and
// no PEReader. Constructors take Options as a parameter and do not call
// Default themselves.
func Default() Options {
	return Options{
		MaxLoaderListEntries: 4096,
	}
}
