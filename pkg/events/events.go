package events

type Level uint8

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "debug"
	case Info:
		return "info"
	case Warn:
		return "warn"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Event is a progress or diagnostic message published while resolving.
// Fields holds alternating key/value pairs.
type Event struct {
	Level   Level
	Message string
	Error   error
	Fields  []any
}

type Handler interface {
	Handle(event Event)
}

// Emit sends an event to h, ignoring a nil handler.
func Emit(h Handler, level Level, msg string, fields ...any) {
	if h == nil {
		return
	}
	h.Handle(Event{Level: level, Message: msg, Fields: fields})
}
