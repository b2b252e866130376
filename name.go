package emitter

import "strings"

const (
	// Separator splits an event name into segments.
	Separator = "."

	// Wildcard matches exactly one segment of a triggered name.
	Wildcard = "*"
)

// CleanName normalizes an event name.
// The name is lower-cased, empty or blank segments are dropped (so runs of
// dots collapse and leading/trailing dots disappear) and surrounding
// whitespace is trimmed. Returns a *NameError if nothing is left.
//
//	CleanName("FOO..bar.") // "foo.bar"
//	CleanName("   ")       // error
func CleanName(name string) (string, error) {
	lower := strings.ToLower(name)
	segments := strings.Split(lower, Separator)
	kept := segments[:0]
	for _, seg := range segments {
		if strings.TrimSpace(seg) == "" {
			continue
		}
		kept = append(kept, seg)
	}
	cleaned := strings.TrimSpace(strings.Join(kept, Separator))
	if cleaned == "" {
		return "", &NameError{Name: name}
	}
	return cleaned, nil
}

// MustCleanName is like CleanName but panics on an invalid name.
func MustCleanName(name string) string {
	cleaned, err := CleanName(name)
	if err != nil {
		panic("emitter: " + err.Error())
	}
	return cleaned
}

// pattern is a normalized registration key with its segments split once.
type pattern struct {
	name     string
	segments []string
	wildcard bool
}

func newPattern(name string) pattern {
	return pattern{
		name:     name,
		segments: strings.Split(name, Separator),
		wildcard: strings.Contains(name, Wildcard),
	}
}

// matches reports whether a triggered name qualifies for this pattern.
// name must already be normalized and segments must be its split form.
// A wildcard segment matches exactly one segment, so the segment counts
// have to be equal.
func (p pattern) matches(name string, segments []string) bool {
	if p.name == name {
		return true
	}
	if !p.wildcard || len(p.segments) != len(segments) {
		return false
	}
	for i, seg := range p.segments {
		if seg != Wildcard && seg != segments[i] {
			return false
		}
	}
	return true
}
