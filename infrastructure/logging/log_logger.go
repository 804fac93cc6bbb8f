package logging

import (
	"log"

	"wincore/application"
)

// LogLogger adapts the standard log package to application.Logger.
type LogLogger struct{}

func NewLogLogger() application.Logger {
	return &LogLogger{}
}

func (l LogLogger) Printf(format string, v ...any) {
	log.Printf(format, v...)
}
