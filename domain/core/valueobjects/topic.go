package valueobjects

import "strings"

// Topic is the caller-supplied economics question or subject.
// Surrounding whitespace is trimmed; nothing else is normalized and an
// empty topic is allowed through to the LLM steps.
type Topic struct {
	value string
}

// NewTopic creates a Topic from raw user input
func NewTopic(raw string) Topic {
	return Topic{value: strings.TrimSpace(raw)}
}

// String returns the topic text
func (t Topic) String() string {
	return t.value
}

// IsEmpty reports whether the trimmed topic has no text
func (t Topic) IsEmpty() bool {
	return t.value == ""
}

// Equals checks if two topics are equal
func (t Topic) Equals(other Topic) bool {
	return t.value == other.value
}
