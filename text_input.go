package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TextInput is the single-line cell editor shown under the grid. For
// closed-choice columns it carries the option list and Tab cycles through it.
type TextInput struct {
	value       []rune
	cursor      int
	width       int
	placeholder string
	options     []string
}

func NewTextInput() *TextInput {
	return &TextInput{width: 60}
}

func (ti *TextInput) SetPlaceholder(placeholder string) {
	ti.placeholder = placeholder
}

func (ti *TextInput) SetWidth(width int) {
	if width < 10 {
		width = 10
	}
	ti.width = width
}

func (ti *TextInput) SetValue(value string) {
	ti.value = []rune(value)
	ti.cursor = len(ti.value)
}

func (ti *TextInput) Value() string {
	return string(ti.value)
}

func (ti *TextInput) SetOptions(options []string) {
	ti.options = options
}

func (ti *TextInput) Reset() {
	ti.value = nil
	ti.cursor = 0
	ti.placeholder = ""
	ti.options = nil
}

// cycleOption replaces the value with the option after the current one.
func (ti *TextInput) cycleOption() {
	if len(ti.options) == 0 {
		return
	}
	current := string(ti.value)
	next := ti.options[0]
	for i, opt := range ti.options {
		if opt == current {
			next = ti.options[(i+1)%len(ti.options)]
			break
		}
	}
	ti.SetValue(next)
}

func (ti *TextInput) HandleKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyTab:
		ti.cycleOption()
		return true
	case tea.KeyLeft:
		if ti.cursor > 0 {
			ti.cursor--
		}
		return true
	case tea.KeyRight:
		if ti.cursor < len(ti.value) {
			ti.cursor++
		}
		return true
	case tea.KeyHome:
		ti.cursor = 0
		return true
	case tea.KeyEnd:
		ti.cursor = len(ti.value)
		return true
	case tea.KeyBackspace:
		if ti.cursor > 0 {
			ti.value = append(ti.value[:ti.cursor-1], ti.value[ti.cursor:]...)
			ti.cursor--
		}
		return true
	case tea.KeyDelete:
		if ti.cursor < len(ti.value) {
			ti.value = append(ti.value[:ti.cursor], ti.value[ti.cursor+1:]...)
		}
		return true
	case tea.KeySpace:
		ti.insert([]rune{' '})
		return true
	}

	if len(msg.Runes) > 0 {
		ti.insert(msg.Runes)
		return true
	}

	return false
}

func (ti *TextInput) insert(runes []rune) {
	tail := append([]rune{}, ti.value[ti.cursor:]...)
	ti.value = append(append(ti.value[:ti.cursor], runes...), tail...)
	ti.cursor += len(runes)
}

func (ti *TextInput) View(prompt string) string {
	display := ti.value
	if len(display) == 0 && ti.placeholder != "" {
		display = []rune(ti.placeholder)
	}
	if len(display) > ti.width {
		display = display[len(display)-ti.width:]
	}

	style := lipgloss.NewStyle().
		Width(ti.width+2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#00FF00")).
		Padding(0, 1)

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Render(prompt),
		style.Render(string(display)))
}
