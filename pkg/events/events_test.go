package events

import (
	"slices"
	"testing"
)

func TestCollector(t *testing.T) {
	var forwarded int
	c := NewCollector(NewHandlerFunc(func(Event) { forwarded++ }))

	Emit(c, Debug, "resolver output", "line", "[INFO] x")
	Emit(c, Info, "cache hit")
	Emit(c, Warn, "cache write failed")

	if forwarded != 3 {
		t.Errorf("forwarded %d events, want 3", forwarded)
	}
	if got := c.Messages(); !slices.Equal(got, []string{"resolver output", "cache hit", "cache write failed"}) {
		t.Errorf("Messages() = %q", got)
	}
	if got := len(c.AtLevel(Info)); got != 2 {
		t.Errorf("AtLevel(Info) = %d events, want 2", got)
	}
	if got := c.Events[0].Fields; len(got) != 2 || got[0] != "line" {
		t.Errorf("Fields = %v", got)
	}
}

func TestEmitNilHandler(t *testing.T) {
	Emit(nil, Error, "dropped")
	Emit(NewNoopHandler(), Error, "dropped")
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{Debug, "debug"},
		{Info, "info"},
		{Warn, "warn"},
		{Error, "error"},
		{Level(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}
