package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/mympctl/internal/models"
	"github.com/desertthunder/mympctl/internal/reorder"
	"github.com/desertthunder/mympctl/internal/services"
	"github.com/desertthunder/mympctl/internal/shared"
	"github.com/desertthunder/mympctl/internal/viewstate"
)

// iconKey identifies a row for the drag coordinator. Home icons have no ID of their own;
// within one rendering the position is unique.
func iconKey(pos int) string {
	return strconv.Itoa(pos)
}

// renderIcons replaces the list with the backend's ordering.
func (m *Model) renderIcons(icons []models.HomeIcon) {
	m.icons = icons
	if m.cursor >= len(icons) {
		m.cursor = max(len(icons)-1, 0)
	}
	m.clampScroll()
}

// renderMoved shows the order the server reports after a move. The cursor follows a
// stepped icon only once the move is confirmed.
func (m *Model) renderMoved(icons []models.HomeIcon) {
	to := m.follow
	m.follow = -1
	if !m.onHome() {
		m.logger.Debug("move finished after leaving home", "icons", len(icons))
		return
	}
	if to >= 0 {
		m.cursor = to
	}
	m.renderIcons(icons)
}

func (m *Model) visibleRows() int {
	if m.height == 0 {
		return max(len(m.icons), 1)
	}
	return max(m.height-headerLines-4, 1)
}

func (m *Model) clampScroll() {
	rows := m.visibleRows()
	if m.cursor < m.scroll {
		m.scroll = m.cursor
	}
	if m.cursor >= m.scroll+rows {
		m.scroll = m.cursor - rows + 1
	}
	m.scroll = max(min(m.scroll, len(m.icons)-rows), 0)
}

// rowAt maps a screen line to an icon position, or -1.
func (m *Model) rowAt(y int) int {
	pos := y - headerLines + m.scroll
	if y < headerLines || pos < 0 || pos >= len(m.icons) || pos-m.scroll >= m.visibleRows() {
		return -1
	}
	return pos
}

func (m *Model) moveCursor(to int) {
	if len(m.icons) == 0 {
		return
	}
	m.cursor = max(min(to, len(m.icons)-1), 0)
	m.clampScroll()
	if m.coord.State() == reorder.Dragging {
		m.coord.Hover(iconKey(m.cursor))
	}
}

func (m *Model) handleHomeKeys(msg tea.KeyMsg) tea.Cmd {
	dragging := m.coord.State() == reorder.Dragging

	switch {
	case key.Matches(msg, m.keys.up):
		m.moveCursor(m.cursor - 1)
	case key.Matches(msg, m.keys.down):
		m.moveCursor(m.cursor + 1)
	case key.Matches(msg, m.keys.back):
		if dragging {
			m.coord.Cancel()
			m.mouseDrag = false
			m.setStatus("move cancelled")
		}
	case key.Matches(msg, m.keys.grab):
		if len(m.icons) == 0 {
			return nil
		}
		if dragging {
			m.drop(m.cursor)
			return nil
		}
		if m.coord.Begin(iconKey(m.cursor), m.cursor) {
			m.setStatus(fmt.Sprintf("moving %q, m to drop, esc to cancel", m.icons[m.cursor].Name))
		}
	case key.Matches(msg, m.keys.moveUp):
		m.step(-1)
	case key.Matches(msg, m.keys.moveDown):
		m.step(1)
	case key.Matches(msg, m.keys.refresh):
		return m.loadHome()
	}

	if dragging {
		if key.Matches(msg, m.keys.enter, m.keys.remove, m.keys.duplicate, m.keys.ligature) {
			m.setError(shared.ErrDragActive)
		}
		return nil
	}

	icon, pos, ok := m.selected()
	switch {
	case key.Matches(msg, m.keys.enter):
		if ok {
			return m.execute(icon)
		}
	case key.Matches(msg, m.keys.remove):
		if ok {
			m.openConfirm(fmt.Sprintf("Delete home icon %q?", icon.Name), func() tea.Cmd {
				return m.deleteIcon(pos)
			})
		}
	case key.Matches(msg, m.keys.duplicate):
		if ok {
			m.openPrompt("Name of the copy", icon.Name, func(name string) tea.Cmd {
				return m.duplicateIcon(pos, name)
			})
		}
	case key.Matches(msg, m.keys.ligature):
		if ok {
			m.openPicker(icon, pos)
		}
	}
	return nil
}

// step moves the selected icon one place, as a drag that is dropped right away.
func (m *Model) step(delta int) {
	to := m.cursor + delta
	if to < 0 || to >= len(m.icons) || m.coord.State() == reorder.Dragging {
		return
	}
	if m.coord.Begin(iconKey(m.cursor), m.cursor) {
		m.follow = to
		m.drop(to)
	}
}

func (m *Model) drop(pos int) {
	switch m.coord.Drop(pos) {
	case reorder.NoOp:
		m.setStatus("")
	case reorder.Requested:
		m.setStatus("saving order...")
	}
	m.mouseDrag = false
}

// handleHomeMouse maps press, motion and release of the left button onto a drag.
func (m *Model) handleHomeMouse(msg tea.MouseMsg) tea.Cmd {
	row := m.rowAt(msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || row < 0 {
			return nil
		}
		m.cursor = row
		if m.coord.Begin(iconKey(row), row) {
			m.mouseDrag = true
		}
	case tea.MouseActionMotion:
		if !m.mouseDrag {
			return nil
		}
		if row < 0 {
			m.coord.Hover("")
			return nil
		}
		m.coord.Hover(iconKey(row))
	case tea.MouseActionRelease:
		if !m.mouseDrag {
			return nil
		}
		if row < 0 {
			m.coord.Cancel()
			m.mouseDrag = false
			return nil
		}
		m.cursor = row
		m.drop(row)
	}
	return nil
}

func (m *Model) selected() (models.HomeIcon, int, bool) {
	if m.cursor < 0 || m.cursor >= len(m.icons) {
		return models.HomeIcon{}, -1, false
	}
	return m.icons[m.cursor], m.cursor, true
}

// execute runs an icon. Goto icons only move the view state, which belongs to this loop,
// so they are applied here rather than in a command.
func (m *Model) execute(icon models.HomeIcon) tea.Cmd {
	if icon.Cmd == models.CmdGoto {
		if _, err := m.state.Goto(icon.Options); err != nil {
			m.setError(err)
			return nil
		}
		m.setStatus("")
		return m.afterNavigate()
	}
	return func() tea.Msg {
		exec, err := m.home.Execute(m.ctx, icon, nil)
		return iconExecutedMsg(icon, exec, err)
	}
}

func (m *Model) deleteIcon(pos int) tea.Cmd {
	return func() tea.Msg {
		_, err := m.home.Delete(m.ctx, pos)
		return actionDoneMsg("icon deleted", err, true)
	}
}

func (m *Model) duplicateIcon(pos int, name string) tea.Cmd {
	return func() tea.Msg {
		err := m.home.Duplicate(m.ctx, pos, name)
		return actionDoneMsg(fmt.Sprintf("duplicated as %q", name), err, true)
	}
}

func (m *Model) saveIcon(icon models.HomeIcon, pos int) tea.Cmd {
	return func() tea.Msg {
		var err error
		if pos < 0 {
			err = m.home.Add(m.ctx, icon)
		} else {
			err = m.home.Edit(m.ctx, pos, icon)
		}
		return actionDoneMsg(fmt.Sprintf("saved %q", icon.Name), err, true)
	}
}

// addCurrentView asks for a name and a ligature, then saves a goto icon for the screen in focus.
func (m *Model) addCurrentView() tea.Cmd {
	cur := m.state.Current()
	name := strings.TrimSpace(string(cur.Card) + " " + string(cur.Tab) + " " + string(cur.View))
	m.openPrompt("Name of the home icon", name, func(v string) tea.Cmd {
		if strings.TrimSpace(v) == "" {
			m.setError(fmt.Errorf("%w: name must not be blank", shared.ErrValidation))
			return nil
		}
		icon := models.NewHomeIcon(v, "", models.CmdGoto, viewstate.GotoOptions(cur)...)
		m.openPicker(icon, -1)
		return nil
	})
	return nil
}

func (m *Model) renderHome() string {
	if len(m.icons) == 0 {
		return m.styles.help.Render("No home icons. Press a on any other card to add one.")
	}

	sess, dragging := m.coord.Session()
	end := min(m.scroll+m.visibleRows(), len(m.icons))

	var b strings.Builder
	for i := m.scroll; i < end; i++ {
		icon := m.icons[i]
		line := fmt.Sprintf("%-20s %-16s %s", icon.Name, icon.Label(), describe(icon))
		switch {
		case dragging && iconKey(i) == sess.SourceKey:
			line = m.styles.dragging.Render("⇅ " + line)
		case m.highlight != "" && iconKey(i) == m.highlight:
			line = m.styles.target.Render("→ " + line)
		case i == m.cursor:
			line = m.styles.cursor.Render("› " + line)
		default:
			line = "  " + line
		}
		b.WriteString(line)
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	if m.coord.Pending() > 0 {
		b.WriteString("\n" + m.styles.help.Render("saving order..."))
	}
	return b.String()
}

func describe(icon models.HomeIcon) string {
	switch icon.Cmd {
	case models.CmdGoto:
		p, _, err := viewstate.ParseGoto(icon.Options)
		if err != nil {
			return "view"
		}
		return "→ " + p.String()
	case models.CmdExecScript:
		if len(icon.Options) > 0 {
			return "script " + icon.Options[0]
		}
		return "script"
	}
	if method, _, err := services.QueueRequest(icon); err == nil && method != "" {
		return fmt.Sprintf("%s %s", icon.Type().FriendlyName(), strings.Join(icon.Options[1:], " "))
	}
	return icon.Type().FriendlyName()
}
