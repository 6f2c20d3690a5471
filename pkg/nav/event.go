package nav

import "unicode/utf8"

// Key is a navigation key understood by the machine.
type Key int

const (
	KeyNone Key = iota
	KeyLeft
	KeyRight
	KeyBackspace
	KeyEscape
	KeyEnter
)

var keyNames = map[Key]string{
	KeyNone:      "none",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyBackspace: "backspace",
	KeyEscape:    "esc",
	KeyEnter:     "enter",
}

func (k Key) String() string {
	if s, ok := keyNames[k]; ok {
		return s
	}
	return keyNames[KeyNone]
}

// Event is one key press together with the text surface it happened in.
// Caret is measured in runes from the start of Text.
type Event struct {
	Key   Key
	Text  string
	Caret int
}

// Press builds an event for a key pressed with the caret at the end of text.
func Press(key Key, text string) Event {
	return Event{Key: key, Text: text, Caret: utf8.RuneCountInString(text)}
}

// CaretAtStart reports whether the caret sits before the first rune.
func (e Event) CaretAtStart() bool { return e.Caret <= 0 }

// CaretAtEnd reports whether the caret sits after the last rune.
func (e Event) CaretAtEnd() bool { return e.Caret >= utf8.RuneCountInString(e.Text) }

// Empty reports whether the text surface is empty.
func (e Event) Empty() bool { return e.Text == "" }
