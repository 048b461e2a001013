package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/mympctl/internal/ligatures"
	"github.com/desertthunder/mympctl/internal/models"
)

// promptState is a single line text input with a continuation.
type promptState struct {
	label  string
	input  textinput.Model
	submit func(string) tea.Cmd
	prev   Screen
}

// confirmState is a yes/no question.
type confirmState struct {
	question string
	onYes    func() tea.Cmd
	prev     Screen
}

// outputState is the multi-select list of outputs that can move into the current partition.
type outputState struct {
	items    []models.Output
	selected map[int]bool
	cursor   int
}

func (o *outputState) set(outputs []models.Output) {
	o.items = outputs
	o.selected = map[int]bool{}
	o.cursor = max(min(o.cursor, len(outputs)-1), 0)
}

func (o *outputState) names() []string {
	var names []string
	for i, out := range o.items {
		if o.selected[i] {
			names = append(names, out.Name)
		}
	}
	return names
}

// pickerState chooses a ligature for icon. pos is -1 for a new icon.
type pickerState struct {
	input    textinput.Model
	category int
	matches  []ligatures.Ligature
	cursor   int
	icon     models.HomeIcon
	pos      int
}

func (m *Model) openPrompt(label, value string, submit func(string) tea.Cmd) {
	in := textinput.New()
	in.Prompt = label + ": "
	in.SetValue(value)
	in.CursorEnd()
	in.Focus()
	m.prompt = promptState{label: label, input: in, submit: submit, prev: m.screen}
	m.screen = PromptScreen
}

func (m *Model) handlePromptKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.screen = m.prompt.prev
		return nil
	case tea.KeyEnter:
		m.screen = m.prompt.prev
		return m.prompt.submit(m.prompt.input.Value())
	}
	var cmd tea.Cmd
	m.prompt.input, cmd = m.prompt.input.Update(msg)
	return cmd
}

func (m *Model) renderPrompt() string {
	return m.prompt.input.View()
}

func (m *Model) openConfirm(question string, onYes func() tea.Cmd) {
	m.confirm = confirmState{question: question, onYes: onYes, prev: m.screen}
	m.screen = ConfirmScreen
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.yes):
		m.screen = m.confirm.prev
		return m.confirm.onYes()
	case key.Matches(msg, m.keys.no):
		m.screen = m.confirm.prev
	}
	return nil
}

func (m *Model) loadPartitions() tea.Cmd {
	return func() tea.Msg {
		parts, err := m.parts.List(m.ctx)
		return partitionsLoadedMsg(parts, m.parts.Current(), err)
	}
}

func (m *Model) handlePartitionKeys(msg tea.KeyMsg) tea.Cmd {
	if m.partList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.partList, cmd = m.partList.Update(msg)
		return cmd
	}

	item, ok := m.partList.SelectedItem().(partitionItem)
	switch {
	case key.Matches(msg, m.keys.quit):
		return tea.Quit
	case key.Matches(msg, m.keys.back):
		m.screen = MainScreen
		return nil
	case key.Matches(msg, m.keys.enter):
		if ok && !item.current {
			name := item.partition.Name
			return func() tea.Msg {
				return partitionSwitchedMsg(name, m.parts.Switch(m.ctx, name))
			}
		}
		return nil
	case key.Matches(msg, m.keys.create):
		m.openPrompt("New partition", "", func(name string) tea.Cmd {
			if err := models.ValidatePartitionName(name); err != nil {
				m.setError(err)
				return nil
			}
			return func() tea.Msg {
				return actionDoneMsg("created partition "+name, m.parts.Create(m.ctx, name), false)
			}
		})
		return nil
	case key.Matches(msg, m.keys.remove):
		if !ok {
			return nil
		}
		name := item.partition.Name
		if err := models.CanRemovePartition(name, m.parts.Current()); err != nil {
			m.setError(err)
			return nil
		}
		m.openConfirm(fmt.Sprintf("Delete partition %q?", name), func() tea.Cmd {
			return func() tea.Msg {
				return actionDoneMsg("deleted partition "+name, m.parts.Remove(m.ctx, name), false)
			}
		})
		return nil
	case key.Matches(msg, m.keys.outputs):
		return m.openOutputs()
	}

	var cmd tea.Cmd
	m.partList, cmd = m.partList.Update(msg)
	return cmd
}

// openOutputs shows the outputs the current partition can take. The list is fetched fresh
// on every open.
func (m *Model) openOutputs() tea.Cmd {
	m.screen = OutputScreen
	m.outputs.set(nil)
	return m.loadOutputs()
}

func (m *Model) loadOutputs() tea.Cmd {
	return func() tea.Msg {
		outputs, err := m.parts.Assignable(m.ctx)
		return outputsLoadedMsg(outputs, err)
	}
}

func (m *Model) handleOutputKeys(msg tea.KeyMsg) tea.Cmd {
	o := &m.outputs
	switch {
	case key.Matches(msg, m.keys.quit):
		return tea.Quit
	case key.Matches(msg, m.keys.back):
		m.screen = MainScreen
	case key.Matches(msg, m.keys.up):
		o.cursor = max(o.cursor-1, 0)
	case key.Matches(msg, m.keys.down):
		o.cursor = max(min(o.cursor+1, len(o.items)-1), 0)
	case key.Matches(msg, m.keys.toggle):
		if len(o.items) > 0 {
			o.selected[o.cursor] = !o.selected[o.cursor]
		}
	case key.Matches(msg, m.keys.enter):
		names := o.names()
		if len(names) == 0 {
			m.setStatus("select outputs with space first")
			return nil
		}
		return func() tea.Msg {
			err := m.parts.MoveOutputs(m.ctx, names)
			return actionDoneMsg(fmt.Sprintf("moved %s", strings.Join(names, ", ")), err, false)
		}
	}
	return nil
}

func (m *Model) renderOutputs() string {
	title := m.styles.title.Render(fmt.Sprintf("Outputs for %s", m.parts.Current()))
	if len(m.outputs.items) == 0 {
		return title + "\n" + m.styles.help.Render("No outputs to move into this partition.")
	}
	var b strings.Builder
	b.WriteString(title + "\n")
	for i, out := range m.outputs.items {
		box := "[ ]"
		if m.outputs.selected[i] {
			box = "[x]"
		}
		line := fmt.Sprintf("%s %s (%s)", box, out.Name, out.Plugin)
		if i == m.outputs.cursor {
			line = m.styles.cursor.Render("› " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// openPicker chooses the ligature for icon and saves it at pos, or adds it when pos is -1.
func (m *Model) openPicker(icon models.HomeIcon, pos int) {
	if m.catalog == nil {
		m.setStatus("no ligature catalog loaded")
		return
	}
	in := textinput.New()
	in.Prompt = "Ligature: "
	in.Placeholder = "type to filter"
	in.SetValue(icon.Ligature)
	in.CursorEnd()
	in.Focus()
	m.picker = pickerState{input: in, category: -1, icon: icon, pos: pos}
	m.refilter()
	m.screen = LigatureScreen
}

func (m *Model) pickerCategory() string {
	cats := m.catalog.Categories()
	if m.picker.category < 0 || m.picker.category >= len(cats) {
		return ligatures.AllCategories
	}
	return cats[m.picker.category]
}

func (m *Model) refilter() {
	p := &m.picker
	p.matches = m.catalog.Filter(p.input.Value(), m.pickerCategory())
	p.cursor = 0
	for i, l := range p.matches {
		if l.Name == strings.TrimSpace(p.input.Value()) {
			p.cursor = i
			break
		}
	}
}

func (m *Model) handlePickerKeys(msg tea.KeyMsg) tea.Cmd {
	p := &m.picker
	switch msg.Type {
	case tea.KeyEsc:
		m.screen = MainScreen
		return nil
	case tea.KeyTab:
		p.category++
		if p.category >= len(m.catalog.Categories()) {
			p.category = -1
		}
		m.refilter()
		return nil
	case tea.KeyUp:
		p.cursor = max(p.cursor-1, 0)
		return nil
	case tea.KeyDown:
		p.cursor = max(min(p.cursor+1, len(p.matches)-1), 0)
		return nil
	case tea.KeyEnter:
		if len(p.matches) == 0 {
			return nil
		}
		icon := p.icon
		icon.Ligature = p.matches[p.cursor].Name
		icon.Image = ""
		m.screen = MainScreen
		if err := icon.Validate(); err != nil {
			m.setError(err)
			return nil
		}
		return m.saveIcon(icon, p.pos)
	}

	var cmd tea.Cmd
	before := p.input.Value()
	p.input, cmd = p.input.Update(msg)
	if p.input.Value() != before {
		m.refilter()
	}
	return cmd
}

func (m *Model) renderPicker() string {
	p := &m.picker
	var b strings.Builder
	b.WriteString(m.styles.title.Render(fmt.Sprintf("Ligature for %q", p.icon.Name)))
	b.WriteString("\n")
	b.WriteString(p.input.View())
	b.WriteString("  " + m.styles.help.Render(m.catalog.Title(m.pickerCategory())))
	b.WriteString("\n\n")

	rows := max(m.height-headerLines-8, 5)
	start := max(min(p.cursor-rows/2, len(p.matches)-rows), 0)
	end := min(start+rows, len(p.matches))
	for i := start; i < end; i++ {
		l := p.matches[i]
		line := fmt.Sprintf("%-28s %s", l.Name, m.styles.help.Render(m.catalog.Title(l.Category)))
		if i == p.cursor {
			line = m.styles.cursor.Render("› ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	if len(p.matches) == 0 {
		b.WriteString(m.styles.help.Render("no match"))
	}
	return strings.TrimRight(b.String(), "\n")
}
