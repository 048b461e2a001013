package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/mympctl/internal/formatter"
	"github.com/desertthunder/mympctl/internal/ligatures"
	"github.com/desertthunder/mympctl/internal/models"
	"github.com/desertthunder/mympctl/internal/reorder"
	"github.com/desertthunder/mympctl/internal/services"
	"github.com/desertthunder/mympctl/internal/shared"
	"github.com/desertthunder/mympctl/internal/viewstate"
)

// Screen is the overlay currently shown on top of the card view.
type Screen int

const (
	MainScreen Screen = iota
	PartitionScreen
	OutputScreen
	LigatureScreen
	PromptScreen
	ConfirmScreen
)

// headerLines is the number of lines above the first home icon row: card bar, tab bar and
// a blank line. Mouse rows are mapped to icons with it.
const headerLines = 3

// HomeAPI is the part of services.HomeService the TUI drives.
type HomeAPI interface {
	List(ctx context.Context) ([]models.HomeIcon, error)
	Add(ctx context.Context, icon models.HomeIcon) error
	Edit(ctx context.Context, pos int, icon models.HomeIcon) error
	Duplicate(ctx context.Context, pos int, name string) error
	Delete(ctx context.Context, pos int) ([]models.HomeIcon, error)
	Execute(ctx context.Context, icon models.HomeIcon, nav services.Navigator) (services.Execution, error)
}

// PartitionAPI is the part of services.PartitionService the TUI drives.
type PartitionAPI interface {
	Current() string
	List(ctx context.Context) ([]models.Partition, error)
	Create(ctx context.Context, name string) error
	Switch(ctx context.Context, name string) error
	Remove(ctx context.Context, name string) error
	Assignable(ctx context.Context) ([]models.Output, error)
	MoveOutputs(ctx context.Context, names []string) error
}

// Deps are the collaborators of a [Model].
type Deps struct {
	State      *viewstate.State
	Home       HomeAPI
	Mover      reorder.Mover[models.HomeIcon]
	Partitions PartitionAPI
	Ligatures  *ligatures.Catalog
	Palette    *Palette
	Logger     *log.Logger
	// OnSwitch is told the new partition after a successful switch, so event listeners
	// can follow it.
	OnSwitch func(partition string)
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	state    *viewstate.State
	home     HomeAPI
	parts    PartitionAPI
	catalog  *ligatures.Catalog
	styles   *Palette
	logger   *log.Logger
	onSwitch func(string)

	coord     *reorder.Coordinator[models.HomeIcon]
	icons     []models.HomeIcon
	cursor    int
	scroll    int
	highlight string
	mouseDrag bool
	follow    int

	screen     Screen
	partList   list.Model
	partitions []models.Partition
	outputs    outputState
	picker     pickerState
	prompt     promptState
	confirm    confirmState

	status    string
	statusErr bool
	width     int
	height    int
	help      help.Model
	keys      keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, deps Deps) *Model {
	logger := deps.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	styles := deps.Palette
	if styles == nil {
		styles = DefaultPalette("")
	}

	m := &Model{
		ctx:      ctx,
		state:    deps.State,
		home:     deps.Home,
		parts:    deps.Partitions,
		catalog:  deps.Ligatures,
		styles:   styles,
		logger:   logger,
		onSwitch: deps.OnSwitch,
		help:     help.New(),
		keys:     newKeyMap(),
		partList: list.New(nil, list.NewDefaultDelegate(), 0, 0),
		follow:   -1,
	}
	m.partList.Title = "Partitions"
	m.partList.SetShowHelp(false)

	m.coord = reorder.New(deps.Mover, reorder.RenderFunc[models.HomeIcon](m.renderMoved), logger)
	m.coord.OnHighlight = func(key string) { m.highlight = key }
	m.coord.OnError = func(err error) {
		m.follow = -1
		m.setError(err)
	}
	return m
}

// Init loads the home screen when the TUI starts on it.
func (m *Model) Init() tea.Cmd {
	return m.afterNavigate()
}

// Icons returns the home icons as last rendered.
func (m *Model) Icons() []models.HomeIcon {
	return slices.Clone(m.icons)
}

// Screen reports which overlay is showing.
func (m *Model) Screen() Screen {
	return m.screen
}

// Status returns the status line text and whether it reports an error.
func (m *Model) Status() (string, bool) {
	return m.status, m.statusErr
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.partList.SetSize(msg.Width-4, msg.Height-headerLines-4)
		return m, nil

	case tea.MouseMsg:
		if m.screen == MainScreen && m.onHome() {
			return m, m.handleHomeMouse(msg)
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) && msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.screen {
		case PartitionScreen:
			return m, m.handlePartitionKeys(msg)
		case OutputScreen:
			return m, m.handleOutputKeys(msg)
		case LigatureScreen:
			return m, m.handlePickerKeys(msg)
		case PromptScreen:
			return m, m.handlePromptKeys(msg)
		case ConfirmScreen:
			return m, m.handleConfirmKeys(msg)
		}
		return m, m.handleMainKeys(msg)

	case Msg:
		return m, m.handleMsg(msg)
	}

	if m.screen == PartitionScreen {
		var cmd tea.Cmd
		m.partList, cmd = m.partList.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleMsg(msg Msg) tea.Cmd {
	switch msg.kind {
	case MsgCallback:
		if fn, ok := msg.data.(func()); ok && fn != nil {
			fn()
		}

	case MsgHomeLoaded:
		d := msg.data.(homeLoaded)
		if !m.state.IsCurrent(d.path) {
			m.logger.Debug("home list arrived after navigating away", "path", d.path)
			return nil
		}
		if d.err != nil {
			m.setError(d.err)
			return nil
		}
		m.renderIcons(d.icons)

	case MsgIconExecuted:
		d := msg.data.(iconExecuted)
		switch {
		case d.err != nil:
			m.setError(d.err)
		case d.exec.Link != "":
			m.setStatus(fmt.Sprintf("link: %s", d.exec.Link))
		default:
			m.setStatus(fmt.Sprintf("%s: %s", d.icon.Name, d.exec.Method))
		}

	case MsgPartitionsLoaded:
		d := msg.data.(partitionsLoaded)
		if d.err != nil {
			m.setError(d.err)
			return nil
		}
		m.partitions = d.partitions
		return m.partList.SetItems(partitionItems(d.partitions, d.current))

	case MsgOutputsLoaded:
		d := msg.data.(outputsLoaded)
		if d.err != nil {
			m.setError(d.err)
			return nil
		}
		m.outputs.set(d.outputs)

	case MsgActionDone:
		d := msg.data.(actionDone)
		if d.err != nil {
			m.setError(d.err)
			return nil
		}
		m.setStatus(d.status)
		var cmds []tea.Cmd
		if d.switched != "" {
			if m.onSwitch != nil {
				m.onSwitch(d.switched)
			}
			cmds = append(cmds, m.loadPartitions())
		}
		if d.reloadHome && m.onHome() {
			cmds = append(cmds, m.loadHome())
		}
		if m.screen == PartitionScreen && d.switched == "" {
			cmds = append(cmds, m.loadPartitions())
		}
		if m.screen == OutputScreen {
			cmds = append(cmds, m.loadOutputs())
		}
		return tea.Batch(cmds...)

	case MsgEvent:
		ev := msg.data.(services.Event)
		m.logger.Debug("event", "method", ev.Method)
		switch ev.Method {
		case services.EventUpdateHome:
			if m.onHome() && m.coord.State() == reorder.Idle {
				return m.loadHome()
			}
		case services.EventUpdateOutputs:
			if m.screen == OutputScreen {
				return m.loadOutputs()
			}
		}
	}
	return nil
}

// View renders the UI based on the current screen.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderCardBar())
	b.WriteString("\n")
	b.WriteString(m.renderTabBar())
	b.WriteString("\n\n")

	var helpKeys []key.Binding
	switch m.screen {
	case PartitionScreen:
		b.WriteString(m.partList.View())
		helpKeys = []key.Binding{m.keys.enter, m.keys.create, m.keys.remove, m.keys.outputs, m.keys.back}
	case OutputScreen:
		b.WriteString(m.renderOutputs())
		helpKeys = []key.Binding{m.keys.toggle, m.keys.enter, m.keys.back}
	case LigatureScreen:
		b.WriteString(m.renderPicker())
		helpKeys = []key.Binding{m.keys.category, m.keys.enter, m.keys.back}
	case PromptScreen:
		b.WriteString(m.renderPrompt())
		helpKeys = []key.Binding{m.keys.enter, m.keys.back}
	case ConfirmScreen:
		b.WriteString(m.styles.warn.Render(m.confirm.question + " (y/n)"))
		helpKeys = []key.Binding{m.keys.yes, m.keys.no}
	default:
		if m.onHome() {
			b.WriteString(m.renderHome())
			helpKeys = []key.Binding{m.keys.enter, m.keys.grab, m.keys.moveUp, m.keys.moveDown, m.keys.remove, m.keys.duplicate, m.keys.ligature, m.keys.cards, m.keys.quit}
		} else {
			b.WriteString(m.renderContext())
			helpKeys = []key.Binding{m.keys.nextTab, m.keys.nextView, m.keys.nextPage, m.keys.prevPage, m.keys.search, m.keys.filter, m.keys.addView, m.keys.cards, m.keys.quit}
		}
	}

	b.WriteString("\n\n")
	if m.status != "" {
		if m.statusErr {
			b.WriteString(m.styles.err.Render(m.status))
		} else {
			b.WriteString(m.styles.ok.Render(m.status))
		}
		b.WriteString("\n")
	}
	b.WriteString(m.help.ShortHelpView(helpKeys))
	return b.String()
}

func (m *Model) handleMainKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.quit):
		return tea.Quit
	case key.Matches(msg, m.keys.cards):
		cards := m.state.Cards()
		i := int(msg.String()[0] - '1')
		if i >= 0 && i < len(cards) {
			return m.navigate(viewstate.Path{Card: cards[i]})
		}
		return nil
	case key.Matches(msg, m.keys.nextTab):
		return m.cycleTab(1)
	case key.Matches(msg, m.keys.prevTab):
		return m.cycleTab(-1)
	case key.Matches(msg, m.keys.nextView):
		return m.cycleView()
	case key.Matches(msg, m.keys.partitions):
		m.screen = PartitionScreen
		return m.loadPartitions()
	case key.Matches(msg, m.keys.outputs):
		return m.openOutputs()
	}

	if m.onHome() {
		return m.handleHomeKeys(msg)
	}
	return m.handleContextKeys(msg)
}

// handleContextKeys drives paging and refinement of a non-home card.
func (m *Model) handleContextKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.back):
		if last := m.state.Last(); !last.IsZero() {
			return m.navigate(last.Path)
		}
	case key.Matches(msg, m.keys.nextPage):
		m.state.NextPage(-1)
	case key.Matches(msg, m.keys.prevPage):
		m.state.PrevPage()
	case key.Matches(msg, m.keys.search):
		m.openPrompt("Search", m.state.Current().Search, func(v string) tea.Cmd {
			m.state.Refine(viewstate.Patch{Search: &v})
			return nil
		})
	case key.Matches(msg, m.keys.filter):
		cur := m.state.Current().Filter
		m.openPrompt("Filter", cur.String(), func(v string) tea.Cmd {
			f := viewstate.Text(v)
			if cur.IsStructured() {
				f = parseFieldFilter(v, cur)
			}
			m.state.Refine(viewstate.Patch{Filter: &f})
			return nil
		})
	case key.Matches(msg, m.keys.sort):
		s := m.state.Current().Sort
		s.Desc = !s.Desc
		m.state.Refine(viewstate.Patch{Sort: &s})
	case key.Matches(msg, m.keys.addView):
		return m.addCurrentView()
	}
	return nil
}

// parseFieldFilter reads "key=value,key=value" into a structured filter, keeping the keys
// of cur that were not mentioned.
func parseFieldFilter(s string, cur viewstate.Filter) viewstate.Filter {
	f := cur.Clone()
	for pair := range strings.SplitSeq(s, ",") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		f.Fields[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return f
}

func (m *Model) navigate(p viewstate.Path) tea.Cmd {
	if m.coord.State() == reorder.Dragging {
		m.coord.Cancel()
		m.mouseDrag = false
	}
	if _, err := m.state.Navigate(p); err != nil {
		m.setError(err)
		return nil
	}
	m.status = ""
	return m.afterNavigate()
}

func (m *Model) cycleTab(step int) tea.Cmd {
	cur := m.state.Current()
	tabs, err := m.state.Tabs(cur.Card)
	if err != nil || len(tabs) == 0 {
		return nil
	}
	i := slices.Index(tabs, cur.Tab)
	next := tabs[(i+step+len(tabs))%len(tabs)]
	return m.navigate(viewstate.Path{Card: cur.Card, Tab: next})
}

func (m *Model) cycleView() tea.Cmd {
	cur := m.state.Current()
	if cur.Tab == "" {
		return nil
	}
	views, err := m.state.Views(cur.Card, cur.Tab)
	if err != nil || len(views) == 0 {
		return nil
	}
	i := slices.Index(views, cur.View)
	return m.navigate(viewstate.Path{Card: cur.Card, Tab: cur.Tab, View: views[(i+1)%len(views)]})
}

// afterNavigate loads whatever the new screen shows.
func (m *Model) afterNavigate() tea.Cmd {
	if m.onHome() {
		return m.loadHome()
	}
	return nil
}

func (m *Model) onHome() bool {
	return m.state.Current().Card == viewstate.CardHome
}

func (m *Model) loadHome() tea.Cmd {
	path := m.state.Current().Path
	return func() tea.Msg {
		icons, err := m.home.List(m.ctx)
		return homeLoadedMsg(path, icons, err)
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.logger.Warn("tui error", "err", err)
	m.statusErr = true
	switch {
	case errors.Is(err, shared.ErrValidation):
		m.status = err.Error()
	case errors.Is(err, shared.ErrBackend):
		m.status = "myMPD: " + err.Error()
	default:
		m.status = "Error: " + err.Error()
	}
}

func (m *Model) renderCardBar() string {
	cur := m.state.Current()
	parts := make([]string, 0, len(m.state.Cards()))
	for i, c := range m.state.Cards() {
		label := fmt.Sprintf("%d %s", i+1, c)
		if c == cur.Card {
			label = m.styles.active.Render(label)
		} else {
			label = m.styles.muted.Render(label)
		}
		parts = append(parts, label)
	}
	partition := ""
	if m.parts != nil {
		partition = m.styles.help.Render("  [" + m.parts.Current() + "]")
	}
	return strings.Join(parts, "  ") + partition
}

func (m *Model) renderTabBar() string {
	cur := m.state.Current()
	tabs, _ := m.state.Tabs(cur.Card)
	if len(tabs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(tabs))
	for _, t := range tabs {
		if t == cur.Tab {
			parts = append(parts, m.styles.active.Render(string(t)))
		} else {
			parts = append(parts, m.styles.muted.Render(string(t)))
		}
	}
	line := strings.Join(parts, " | ")

	if views, _ := m.state.Views(cur.Card, cur.Tab); len(views) > 0 {
		vparts := make([]string, 0, len(views))
		for _, v := range views {
			if v == cur.View {
				vparts = append(vparts, m.styles.active.Render(string(v)))
			} else {
				vparts = append(vparts, m.styles.muted.Render(string(v)))
			}
		}
		line += "  ›  " + strings.Join(vparts, " | ")
	}
	return line
}

func (m *Model) renderContext() string {
	cur := m.state.Current()
	body := string(formatter.PointerToText("view", cur))
	page := m.styles.help.Render(fmt.Sprintf("page %d", m.state.Page()+1))
	return lipgloss.JoinVertical(lipgloss.Left, strings.TrimRight(body, "\n"), "", page)
}
