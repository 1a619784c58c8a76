package locator

import (
	"errors"
	"fmt"
	"strings"
)

// Separator splits the segments of a locator.
const Separator = ":"

// KeySeparator joins raw locators into a cache key.
const KeySeparator = ";"

var ErrInvalidFormat = errors.New("invalid dependency id")

// Locator is a single group:artifact:version[:classifier] coordinate.
type Locator struct {
	Raw        string
	Group      string
	Artifact   string
	Version    string
	Classifier string
}

// Set is the ordered list of locators requested in one invocation.
type Set []Locator

// Parse splits raw on ':' and requires exactly 3 or 4 segments. Segment
// contents are not checked.
func Parse(raw string) (Locator, error) {
	parts := strings.Split(raw, Separator)
	if len(parts) != 3 && len(parts) != 4 {
		return Locator{}, fmt.Errorf("%w: %s (expected group:artifact:version[:classifier])", ErrInvalidFormat, raw)
	}

	l := Locator{
		Raw:      raw,
		Group:    parts[0],
		Artifact: parts[1],
		Version:  parts[2],
	}
	if len(parts) == 4 {
		l.Classifier = parts[3]
	}

	return l, nil
}

// ParseAll parses every raw locator in order and stops at the first invalid one.
func ParseAll(raw []string) (Set, error) {
	set := make(Set, 0, len(raw))
	for _, r := range raw {
		l, err := Parse(r)
		if err != nil {
			return nil, err
		}
		set = append(set, l)
	}
	return set, nil
}

// HasClassifier reports whether the locator had a fourth segment.
func (l Locator) HasClassifier() bool {
	return l.Classifier != ""
}

func (l Locator) String() string {
	return l.Raw
}

// Key joins raw locators into the cache key. Order matters.
func Key(raw []string) string {
	return strings.Join(raw, KeySeparator)
}

// Key returns the cache key for the set.
func (s Set) Key() string {
	raw := make([]string, len(s))
	for i, l := range s {
		raw[i] = l.Raw
	}
	return Key(raw)
}
