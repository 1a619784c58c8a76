package events

// NewCollector records events and forwards them to handler, which may be nil.
func NewCollector(handler Handler) *Collector {
	return &Collector{
		Events:  make([]Event, 0),
		handler: handler,
	}
}

type Collector struct {
	Events  []Event
	handler Handler
}

func (c *Collector) Handle(event Event) {
	c.Events = append(c.Events, event)
	if c.handler != nil {
		c.handler.Handle(event)
	}
}

func (c *Collector) AtLevel(level Level) []Event {
	out := make([]Event, 0)
	for _, event := range c.Events {
		if event.Level >= level {
			out = append(out, event)
		}
	}
	return out
}

// Messages returns the messages of all recorded events, in order.
func (c *Collector) Messages() []string {
	out := make([]string, len(c.Events))
	for i, event := range c.Events {
		out[i] = event.Message
	}
	return out
}
