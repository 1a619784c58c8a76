package cmd

import (
	"io"
	"slices"

	"github.com/MarcinMoskala/kscript/pkg/events"
	"github.com/charmbracelet/log"
)

func newLogger(out io.Writer, verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}

	return log.NewWithOptions(out, log.Options{
		Level:  level,
		Prefix: "expandcp",
	})
}

// eventLogger forwards expand events to a charmbracelet logger.
type eventLogger struct {
	logger *log.Logger
}

func newEventLogger(logger *log.Logger) *eventLogger {
	return &eventLogger{logger: logger}
}

func (l *eventLogger) Handle(event events.Event) {
	kv := event.Fields
	if event.Error != nil {
		kv = append(slices.Clone(kv), "err", event.Error)
	}

	switch event.Level {
	case events.Debug:
		l.logger.Debug(event.Message, kv...)
	case events.Info:
		l.logger.Info(event.Message, kv...)
	case events.Warn:
		l.logger.Warn(event.Message, kv...)
	default:
		l.logger.Error(event.Message, kv...)
	}
}
