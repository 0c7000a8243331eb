package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/subcrack/internal/cipher"
	"github.com/verte-zerg/subcrack/internal/model"
	"github.com/verte-zerg/subcrack/internal/session"
	"github.com/verte-zerg/subcrack/internal/watch"
)

const (
	focusCalibration = iota
	focusCipher
	focusMapping
	focusOutput
	focusCount
)

const inputHeight = 6

// editorLineLimit is the most lines the bubbles textarea keeps; longer text is
// cut off when set into it.
const editorLineLimit = 9999

// Inputs seeds a new workspace.
type Inputs struct {
	CalibrationText string
	CipherText      string
	Profile         *model.Profile
	Mapping         *cipher.Mapping
}

// FileLoadedMsg delivers a reloaded input file.
type FileLoadedMsg struct {
	Field watch.Field
	Text  string
}

// WatchErrorMsg reports a non-fatal file watch error.
type WatchErrorMsg struct {
	Err error
}

// textChangedMsg fires once a text field has been quiet for the debounce window.
type textChangedMsg struct {
	field watch.Field
	seq   uint64
	text  string
}

// Model implements the Bubble Tea decoding workspace.
type Model struct {
	config  model.Config
	session *session.Session
	snap    session.Snapshot

	inputs   [2]textarea.Model
	lastText [2]string
	applied  [2]string
	// fileBacked marks fields whose text is longer than the editor can hold.
	// The session keeps the full text and the pane is read-only.
	fileBacked [2]bool
	seq      [2]uint64
	output   viewport.Model

	focus    int
	selected int

	status    string
	statusErr bool

	width  int
	height int
}

// NewModel constructs a decoding workspace.
func NewModel(cfg model.Config, in Inputs) *Model {
	m := &Model{config: cfg}
	if m.config.Debounce <= 0 {
		m.config.Debounce = watch.DefaultDebounce
	}
	if m.config.Placeholder == 0 {
		m.config.Placeholder = cipher.DefaultPlaceholder
	}
	m.session = session.New(
		session.WithPlaceholder(m.config.Placeholder),
		session.WithListener(m.onSnapshot),
	)
	m.snap = m.session.Snapshot()

	m.inputs[watch.FieldCalibration] = newInput("Plaintext to calibrate letter frequency…")
	m.inputs[watch.FieldCipher] = newInput("Ciphertext to decode…")
	m.output = viewport.New(0, 0)

	if in.Profile != nil {
		m.session.SetCalibrationTable(in.Profile.Name, in.Profile.Table)
	}
	if in.CalibrationText != "" {
		m.setFieldText(watch.FieldCalibration, in.CalibrationText)
	}
	if in.CipherText != "" {
		m.setFieldText(watch.FieldCipher, in.CipherText)
	}
	if in.Mapping != nil {
		m.session.SetMapping(*in.Mapping)
	}
	m.inputs[watch.FieldCalibration].Focus()
	return m
}

func newInput(placeholder string) textarea.Model {
	input := textarea.New()
	input.Placeholder = placeholder
	input.ShowLineNumbers = false
	input.Prompt = ""
	input.CharLimit = 0
	input.MaxHeight = 0
	input.SetHeight(inputHeight)
	return input
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case textChangedMsg:
		m.applyTextChange(msg)
		return m, nil
	case FileLoadedMsg:
		m.setFieldText(msg.Field, msg.Text)
		if !m.fileBacked[msg.Field] {
			m.setStatus(fmt.Sprintf("Reloaded %s text", msg.Field), false)
		}
		return m, nil
	case WatchErrorMsg:
		m.setStatus(msg.Err.Error(), true)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m.updateFocused(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyTab:
		return m, m.setFocus(m.focus + 1)
	case tea.KeyShiftTab:
		return m, m.setFocus(m.focus - 1)
	case tea.KeyCtrlS:
		m.flushPending()
		m.session.RequestStraightMapping()
		m.setStatus("Straight letter mapping applied", false)
		return m, nil
	case tea.KeyCtrlR:
		m.session.ResetMapping()
		m.setStatus("Mapping reset to identity", false)
		return m, nil
	}
	if m.focus == focusMapping {
		m.handleMappingKey(msg)
		return m, nil
	}
	return m.updateFocused(msg)
}

func (m *Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.focus {
	case focusCalibration, focusCipher:
		field := fieldForFocus(m.focus)
		if m.fileBacked[field] {
			return m.updateReadOnly(field, msg)
		}
		var cmd tea.Cmd
		m.inputs[field], cmd = m.inputs[field].Update(msg)
		if text := m.inputs[field].Value(); text != m.lastText[field] {
			m.lastText[field] = text
			return m, tea.Batch(cmd, m.scheduleTextChange(field, text))
		}
		return m, cmd
	case focusOutput:
		var cmd tea.Cmd
		m.output, cmd = m.output.Update(msg)
		return m, cmd
	}
	return m, nil
}

// updateReadOnly lets the cursor move in a file-backed pane but rejects edits,
// which would replace the full text with the editor's truncated copy.
func (m *Model) updateReadOnly(field watch.Field, msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.inputs[field].Update(msg)
	if next.Value() != m.lastText[field] {
		m.setStatus(readOnlyStatus(field), true)
		return m, nil
	}
	m.inputs[field] = next
	return m, cmd
}

func readOnlyStatus(field watch.Field) string {
	return fmt.Sprintf("%s text is longer than %s lines; the pane shows the start and is read-only",
		field, humanize.Comma(editorLineLimit))
}

func (m *Model) handleMappingKey(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyLeft:
		m.moveSelection(-1)
	case tea.KeyRight:
		m.moveSelection(1)
	case tea.KeyHome:
		m.selected = 0
	case tea.KeyEnd:
		m.selected = cipher.AlphabetSize - 1
	case tea.KeyBackspace, tea.KeyDelete, tea.KeySpace:
		m.editSelected("")
	case tea.KeyRunes:
		if len(msg.Runes) == 0 {
			return
		}
		value := string(msg.Runes)
		m.editSelected(value)
		if cipher.NormalizeValue(value) != cipher.Undecided {
			m.moveSelection(1)
		}
	}
}

func (m *Model) editSelected(value string) {
	letter := rune(cipher.Alphabet[m.selected])
	if err := m.session.EditMappingLetter(letter, value); err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.setStatus("", false)
}

func (m *Model) moveSelection(delta int) {
	m.selected = (m.selected + delta + cipher.AlphabetSize) % cipher.AlphabetSize
}

func (m *Model) setFocus(idx int) tea.Cmd {
	idx = (idx + focusCount) % focusCount
	m.focus = idx
	var cmd tea.Cmd
	for _, field := range []watch.Field{watch.FieldCalibration, watch.FieldCipher} {
		if isInputFocus(idx) && fieldForFocus(idx) == field {
			cmd = m.inputs[field].Focus()
		} else {
			m.inputs[field].Blur()
		}
	}
	return cmd
}

func isInputFocus(focus int) bool {
	return focus == focusCalibration || focus == focusCipher
}

func fieldForFocus(focus int) watch.Field {
	if focus == focusCipher {
		return watch.FieldCipher
	}
	return watch.FieldCalibration
}

// scheduleTextChange supersedes any pending change for field.
func (m *Model) scheduleTextChange(field watch.Field, text string) tea.Cmd {
	m.seq[field]++
	seq := m.seq[field]
	return tea.Tick(m.config.Debounce, func(time.Time) tea.Msg {
		return textChangedMsg{field: field, seq: seq, text: text}
	})
}

func (m *Model) applyTextChange(msg textChangedMsg) {
	if msg.seq != m.seq[msg.field] {
		return
	}
	m.applyField(msg.field, msg.text)
}

// flushPending applies text still waiting in the debounce window so that an
// explicit action always sees what is on screen.
func (m *Model) flushPending() {
	for _, field := range []watch.Field{watch.FieldCalibration, watch.FieldCipher} {
		if m.fileBacked[field] {
			continue
		}
		text := m.inputs[field].Value()
		if text == m.applied[field] {
			continue
		}
		m.seq[field]++
		m.applyField(field, text)
	}
}

func (m *Model) applyField(field watch.Field, text string) {
	m.applied[field] = text
	switch field {
	case watch.FieldCalibration:
		m.session.SetCalibrationText(text)
	case watch.FieldCipher:
		m.session.SetCipherText(text)
	}
}

// setFieldText replaces a field's content and applies it without debouncing.
func (m *Model) setFieldText(field watch.Field, text string) {
	m.fileBacked[field] = lineCount(text) >= editorLineLimit
	m.inputs[field].SetValue(text)
	m.lastText[field] = m.inputs[field].Value()
	m.seq[field]++
	m.applyField(field, text)
	// The session keeps the exact file text; the editor may have normalized it.
	m.applied[field] = m.lastText[field]
	if m.fileBacked[field] {
		m.setStatus(readOnlyStatus(field), true)
	}
}

func lineCount(text string) int {
	return strings.Count(text, "\n") + 1
}

func (m *Model) onSnapshot(snap session.Snapshot) {
	m.snap = snap
	m.refreshOutput()
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.status = msg
	m.statusErr = isErr
}
