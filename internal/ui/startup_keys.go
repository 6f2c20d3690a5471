package ui

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
)

// SettleTimeout bounds how long ApplyStartupKeys waits for option loads
// between keys.
var SettleTimeout = 5 * time.Second

// ApplyStartupKeys feeds Vim-like key tokens and literal text to the model,
// waiting for option loads after each key so that later keys see the
// suggestions a user would have seen. It stops when a key quits the model.
func ApplyStartupKeys(m *Model, keys []string) {
	if len(keys) == 0 || m == nil {
		return
	}
	for _, raw := range keys {
		token := strings.TrimSpace(raw)
		if token == "" {
			continue
		}
		// Leading backslash forces literal text (e.g., "\\<left>").
		if strings.HasPrefix(token, `\`) {
			if !pressText(m, strings.TrimPrefix(token, `\`)) {
				return
			}
			continue
		}
		for _, segment := range parseTokenSegments(token) {
			if !segment.isVimKey {
				if !pressText(m, segment.text) {
					return
				}
				continue
			}
			msgs, ok := keyMsgsFromToken(segment.text)
			if !ok {
				// Unknown tokens are typed as they are.
				if !pressText(m, segment.text) {
					return
				}
				continue
			}
			for _, msg := range msgs {
				if !press(m, msg) {
					return
				}
			}
		}
	}
}

func pressText(m *Model, text string) bool {
	for _, r := range text {
		if !press(m, tea.KeyPressMsg{Code: r, Text: string(r)}) {
			return false
		}
	}
	return true
}

// press delivers one key and reports whether the model is still running.
func press(m *Model, msg tea.KeyPressMsg) bool {
	m.Update(msg)
	m.Settle(SettleTimeout)
	return !m.Finished && !m.Cancelled
}

// tokenSegment is either a <key> token or a run of literal text.
type tokenSegment struct {
	text     string
	isVimKey bool
}

// parseTokenSegments splits a token into key tokens and literal text.
// Example: "sta<CR>" -> [segment{text: "sta"}, segment{text: "<CR>", isVimKey: true}]
func parseTokenSegments(token string) []tokenSegment {
	var segments []tokenSegment
	remaining := token

	for len(remaining) > 0 {
		startIdx := strings.Index(remaining, "<")
		if startIdx == -1 {
			segments = append(segments, tokenSegment{text: remaining})
			break
		}
		if startIdx > 0 {
			segments = append(segments, tokenSegment{text: remaining[:startIdx]})
		}
		endIdx := strings.Index(remaining[startIdx:], ">")
		if endIdx == -1 {
			// No closing >, the rest is literal.
			segments = append(segments, tokenSegment{text: remaining[startIdx:]})
			break
		}
		segments = append(segments, tokenSegment{text: remaining[startIdx : startIdx+endIdx+1], isVimKey: true})
		remaining = remaining[startIdx+endIdx+1:]
	}
	return segments
}

// keyMsgsFromToken parses a Vim-like token into key messages.
// Examples: "<Esc>", "<CR>", "<Tab>", "<Space>", "<BS>", "<Down>", "<C-d>".
func keyMsgsFromToken(token string) ([]tea.KeyPressMsg, bool) {
	if !strings.HasPrefix(token, "<") || !strings.HasSuffix(token, ">") {
		return nil, false
	}
	inner := strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(token, "<"), ">"))
	switch inner {
	case "esc", "c-[", "escape":
		return []tea.KeyPressMsg{{Code: tea.KeyEscape}}, true
	case "cr", "enter", "return":
		return []tea.KeyPressMsg{{Code: tea.KeyEnter}}, true
	case "tab":
		return []tea.KeyPressMsg{{Code: tea.KeyTab}}, true
	case "space":
		return []tea.KeyPressMsg{{Code: ' ', Text: " "}}, true
	case "bs", "backspace":
		return []tea.KeyPressMsg{{Code: tea.KeyBackspace}}, true
	case "left":
		return []tea.KeyPressMsg{{Code: tea.KeyLeft}}, true
	case "right":
		return []tea.KeyPressMsg{{Code: tea.KeyRight}}, true
	case "up":
		return []tea.KeyPressMsg{{Code: tea.KeyUp}}, true
	case "down":
		return []tea.KeyPressMsg{{Code: tea.KeyDown}}, true
	case "c-c":
		return []tea.KeyPressMsg{{Code: 'c', Mod: tea.ModCtrl}}, true
	case "c-d":
		return []tea.KeyPressMsg{{Code: 'd', Mod: tea.ModCtrl}}, true
	}
	return nil, false
}
