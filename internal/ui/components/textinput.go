package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/examiz/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with the app's styling and an inline
// result line shown after Submit.
type TextInput struct {
	Model     textinput.Model
	submitted bool
	err       error
	message   string
}

// NewTextInput creates a focused text input prefilled with value.
func NewTextInput(placeholder, value string, width int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	ti.CharLimit = 512
	if width > 0 {
		ti.SetWidth(width)
	}
	ti.SetValue(value)
	ti.Focus()

	return TextInput{Model: ti}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages. Editing clears any earlier result.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		t.submitted = false
	}
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the text input.
func (t TextInput) View() string {
	view := t.Model.View()
	if !t.submitted {
		return view
	}
	if t.err != nil {
		return view + "\n" + theme.Incorrect.Render("✗ "+t.err.Error())
	}
	return view + "\n" + theme.Correct.Render("✓ "+t.message)
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// Submit records the outcome of acting on the value. A nil err shows message.
func (t *TextInput) Submit(err error, message string) {
	t.submitted = true
	t.err = err
	t.message = message
}

// Submitted reports whether a result is showing, and whether it succeeded.
func (t TextInput) Submitted() (done, ok bool) {
	return t.submitted, t.submitted && t.err == nil
}
