package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/icco/midireg/internal/notes"
	"github.com/icco/midireg/internal/piano"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	noteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700"))

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#444444")).
			Padding(0, 1)

	activeButtonStyle = buttonStyle.
				Background(lipgloss.Color("#7D56F4")).
				Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	logStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	logHighlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
)

// Key styles: plain, "highlight" and "registered-highlight".
var (
	whiteStyle      = lipgloss.NewStyle().Background(lipgloss.Color("#FFFFFF")).Foreground(lipgloss.Color("#000000"))
	blackStyle      = lipgloss.NewStyle().Background(lipgloss.Color("#000000")).Foreground(lipgloss.Color("#FFFFFF"))
	highlightWhite  = lipgloss.NewStyle().Background(lipgloss.Color("#00FF00")).Foreground(lipgloss.Color("#000000"))
	highlightBlack  = lipgloss.NewStyle().Background(lipgloss.Color("#00AA00")).Foreground(lipgloss.Color("#FFFFFF"))
	registeredWhite = lipgloss.NewStyle().Background(lipgloss.Color("#00AAFF")).Foreground(lipgloss.Color("#000000"))
	registeredBlack = lipgloss.NewStyle().Background(lipgloss.Color("#0066AA")).Foreground(lipgloss.Color("#FFFFFF"))
)

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title) + "\n\n")

	// Status
	if m.connected {
		b.WriteString(statusStyle.Render("● "+m.status) + "  " + subtitleStyle.Render(m.sourceName()) + "\n")
	} else {
		b.WriteString(errorStyle.Render(m.status) + "\n")
	}
	if m.err != nil {
		b.WriteString(subtitleStyle.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n")

	// Controls
	b.WriteString(renderCheckbox(m.router.Beep()) + " Beep on unregistered notes   ")
	if m.router.Registering() {
		b.WriteString(activeButtonStyle.Render(m.registrationLabel))
	} else {
		b.WriteString(buttonStyle.Render(m.registrationLabel))
	}
	b.WriteString(" " + buttonStyle.Render("Clear Registered") + "\n\n")

	// Registered notes
	b.WriteString(subtitleStyle.Render("Registered Notes:") + "\n")
	if m.registered == "" {
		b.WriteString("  (none)\n")
	} else {
		b.WriteString("  " + noteStyle.Render(m.registered) + "\n")
	}

	// Keyboard
	b.WriteString("\n" + renderKeyboard(m.router.Keyboard(), m.keys) + "\n")

	// Message log
	b.WriteString("\n" + subtitleStyle.Render(fmt.Sprintf("Message Log: [%d total]", m.messageCount)) + "\n")
	if len(m.messageHistory) == 0 {
		b.WriteString("  " + logStyle.Render("(waiting for input)") + "\n")
	} else {
		displayCount := len(m.messageHistory)
		if displayCount > 10 {
			displayCount = 10
		}
		for i := 0; i < displayCount; i++ {
			msg := m.messageHistory[i]
			if i == 0 {
				b.WriteString("  " + logHighlightStyle.Render("▶ "+msg) + "\n")
			} else {
				b.WriteString("  " + logStyle.Render("  "+msg) + "\n")
			}
		}
	}

	b.WriteString("\n" + helpStyle.Render("b/space: beep • r: start/stop registration • c: clear registered • q: quit"))

	return b.String()
}

func renderCheckbox(checked bool) string {
	if checked {
		return "[x]"
	}
	return "[ ]"
}

// renderKeyboard draws black keys on the top row and white keys below, with
// the C of every octave labelled.
func renderKeyboard(kb piano.Keyboard, states map[int]piano.KeyState) string {
	var top, bottom, labels strings.Builder

	keys := kb.Keys()
	for i, note := range keys {
		if notes.IsAccidental(note) {
			// Only a black key at the very start of the range needs its own column.
			if i == 0 {
				top.WriteString(keyCell(note, states[note]) + " ")
				bottom.WriteString("  ")
				labels.WriteString("  ")
			}
			continue
		}

		next := note + 1
		if next <= kb.High && notes.IsAccidental(next) {
			top.WriteString(keyCell(next, states[next]))
		} else {
			top.WriteString(" ")
		}
		top.WriteString(" ")

		bottom.WriteString(keyCell(note, states[note]) + " ")

		label := "  "
		if notes.PitchClass(note) == 0 {
			if name := notes.Name(note); len(name) == 2 {
				label = name
			}
		}
		labels.WriteString(label)
	}

	return top.String() + "\n" + bottom.String() + "\n" + subtitleStyle.Render(labels.String())
}

func keyCell(note int, state piano.KeyState) string {
	black := notes.IsAccidental(note)
	var style lipgloss.Style
	switch {
	case state == piano.KeyRegistered && black:
		style = registeredBlack
	case state == piano.KeyRegistered:
		style = registeredWhite
	case state == piano.KeyHighlight && black:
		style = highlightBlack
	case state == piano.KeyHighlight:
		style = highlightWhite
	case black:
		style = blackStyle
	default:
		style = whiteStyle
	}
	return style.Render("█")
}
