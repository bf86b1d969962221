// Package tui provides the BubbleTea-based terminal user interface.
package tui

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/spot/internal/dbus"
	"github.com/jmylchreest/spot/internal/model"
	"github.com/jmylchreest/spot/internal/platform"
)

// Mode represents the current UI mode.
type Mode int

const (
	ModeList Mode = iota
	ModeDetail
	ModeHelp
)

// Controller is the daemon surface the TUI drives. *dbus.Client
// implements it.
type Controller interface {
	Show(label string) error
	Hide(label string) error
	Toggle(label string) (bool, error)
	HideAll() error
	ListPanels() ([]model.PanelStatus, error)
}

// Model is the main TUI model.
type Model struct {
	client Controller

	// Current mode
	mode Mode

	// Components
	list     list.Model
	viewport viewport.Model
	help     help.Model

	// State
	panels   []model.PanelStatus
	selected *model.PanelStatus
	width    int
	height   int
	ready    bool

	// Key bindings
	keys KeyMap

	// Status message
	statusMsg string
	statusErr bool

	// Live updates from the daemon
	signals <-chan dbus.PanelSignal
}

// panelItem wraps a panel status for the list component.
type panelItem struct {
	status model.PanelStatus
}

func (i panelItem) Title() string {
	return i.status.Label
}

func (i panelItem) Description() string {
	return describePanel(i.status)
}

func (i panelItem) FilterValue() string {
	return i.status.Label + " " + i.status.Shortcut
}

// describePanel builds the one-line summary under a list entry.
func describePanel(ps model.PanelStatus) string {
	shortcut := ps.Shortcut
	if shortcut == "" {
		shortcut = "no shortcut"
	}

	desc := fmt.Sprintf("%s - %s - %s", visibilityWord(ps.Visible), shortcut, levelName(ps.StackingLevel))
	if ps.AutoHide {
		desc += " - auto-hide"
	}
	return desc
}

func visibilityWord(visible bool) string {
	if visible {
		return "shown"
	}
	return "hidden"
}

// levelName translates a stacking level to its layer name.
func levelName(level int) string {
	switch level {
	case platform.LevelBackground:
		return "background"
	case platform.LevelBottom:
		return "bottom"
	case platform.LevelTop:
		return "top"
	case platform.LevelOverlay:
		return "overlay"
	default:
		return fmt.Sprintf("level %d", level)
	}
}

// panelDelegate is a custom list delegate adding a visibility badge and
// dimming hidden panels.
type panelDelegate struct {
	list.DefaultDelegate
}

// newPanelDelegate creates a new panel delegate.
func newPanelDelegate() panelDelegate {
	d := list.NewDefaultDelegate()
	return panelDelegate{DefaultDelegate: d}
}

// Render renders a list item with a badge for visible panels.
// All items are rendered consistently to avoid visual glitches.
func (d panelDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	pi, ok := item.(panelItem)
	if !ok {
		d.DefaultDelegate.Render(w, m, index, item)
		return
	}

	isSelected := index == m.Index()
	isVisible := pi.status.Visible

	itemWidth := m.Width() - d.DefaultDelegate.Styles.NormalTitle.GetHorizontalPadding()

	var titleStyle, descStyle lipgloss.Style

	if isVisible {
		if isSelected {
			titleStyle = d.DefaultDelegate.Styles.SelectedTitle
			descStyle = d.DefaultDelegate.Styles.SelectedDesc
		} else {
			titleStyle = d.DefaultDelegate.Styles.NormalTitle
			descStyle = d.DefaultDelegate.Styles.NormalDesc
		}
	} else {
		// Hidden: dimmed/gray color
		if isSelected {
			titleStyle = d.DefaultDelegate.Styles.SelectedTitle.
				Foreground(lipgloss.Color("8"))
			descStyle = d.DefaultDelegate.Styles.SelectedDesc.
				Foreground(lipgloss.Color("8"))
		} else {
			titleStyle = d.DefaultDelegate.Styles.NormalTitle.
				Foreground(lipgloss.Color("8"))
			descStyle = d.DefaultDelegate.Styles.NormalDesc.
				Foreground(lipgloss.Color("8"))
		}
	}

	title := badge(isVisible) + " " + pi.Title()

	if itemWidth > 0 && len(title) > itemWidth {
		title = title[:itemWidth-1] + "…"
	}

	desc := pi.Description()
	if itemWidth > 0 && len(desc) > itemWidth {
		desc = desc[:itemWidth-1] + "…"
	}

	fmt.Fprint(w, titleStyle.Render(title))
	fmt.Fprint(w, "\n")
	fmt.Fprint(w, descStyle.Render(desc))
}

// badge returns the visibility marker shown before a panel label.
func badge(visible bool) string {
	if visible {
		return "●"
	}
	return "○"
}

// New creates a new TUI model.
func New(client Controller, signals <-chan dbus.PanelSignal) Model {
	delegate := newPanelDelegate()
	l := list.New(nil, delegate, 0, 0)
	l.Title = "Spotlight Panels"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	h := help.New()

	return Model{
		client:  client,
		mode:    ModeList,
		list:    l,
		help:    h,
		keys:    DefaultKeyMap(),
		signals: signals,
	}
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadPanels,
		m.waitForSignal,
	)
}

// loadPanels fetches the panel snapshot from the daemon.
func (m Model) loadPanels() tea.Msg {
	panels, err := m.client.ListPanels()
	return panelsLoadedMsg{panels: panels, err: err}
}

type panelsLoadedMsg struct {
	panels []model.PanelStatus
	err    error
}

// waitForSignal blocks on the next panel signal from the daemon.
func (m Model) waitForSignal() tea.Msg {
	if m.signals == nil {
		return nil
	}
	sig, ok := <-m.signals
	if !ok {
		return nil
	}
	return panelSignalMsg{sig: sig}
}

type panelSignalMsg struct {
	sig dbus.PanelSignal
}

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

type copyResultMsg struct {
	err error
}

// Panel operation actions for opResultMsg.
const (
	actionToggle  = "toggle"
	actionShow    = "show"
	actionHide    = "hide"
	actionHideAll = "hide-all"
)

type opResultMsg struct {
	action  string
	label   string
	visible bool
	err     error
}

// statusForOp turns a completed panel operation into a status line.
func statusForOp(msg opResultMsg) statusMsg {
	if msg.err != nil {
		return statusMsg{text: msg.err.Error(), isErr: true}
	}

	switch msg.action {
	case actionToggle:
		if msg.visible {
			return statusMsg{text: msg.label + " shown"}
		}
		return statusMsg{text: msg.label + " hidden"}
	case actionShow:
		return statusMsg{text: msg.label + " shown"}
	case actionHide:
		return statusMsg{text: msg.label + " hidden"}
	case actionHideAll:
		return statusMsg{text: "all panels hidden"}
	}
	return statusMsg{}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		m.list.SetSize(msg.Width, msg.Height-2)
		m.viewport = viewport.New(msg.Width, msg.Height-4)
		m.viewport.YPosition = 2
		if m.selected != nil {
			m.viewport.SetContent(m.renderDetail(*m.selected))
		}

		return m, nil

	case panelsLoadedMsg:
		if msg.err != nil {
			return m, func() tea.Msg {
				return statusMsg{text: "Failed to list panels: " + msg.err.Error(), isErr: true}
			}
		}
		m.panels = msg.panels
		m.list.SetItems(m.buildListItems())

		// Keep an open detail pane current
		if m.selected != nil {
			if ps, ok := findPanel(msg.panels, m.selected.Label); ok {
				m.selected = &ps
				m.viewport.SetContent(m.renderDetail(ps))
			}
		}
		return m, nil

	case panelSignalMsg:
		// Any transition invalidates the snapshot; re-arm the signal wait
		return m, tea.Batch(m.loadPanels, m.waitForSignal)

	case opResultMsg:
		status := statusForOp(msg)
		if status.isErr {
			return m, func() tea.Msg { return status }
		}
		return m, tea.Batch(m.loadPanels, func() tea.Msg { return status })

	case statusMsg:
		m.statusMsg = msg.text
		m.statusErr = msg.isErr
		return m, tea.Tick(3*time.Second, func(t time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			return m, func() tea.Msg {
				return statusMsg{text: "Copy failed: " + msg.err.Error(), isErr: true}
			}
		}
		return m, func() tea.Msg {
			return statusMsg{text: "Copied to clipboard", isErr: false}
		}
	}

	// Update child components
	switch m.mode {
	case ModeList:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
	case ModeDetail:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		if m.mode == ModeHelp {
			m.mode = ModeList
		} else {
			m.mode = ModeHelp
		}
		return m, nil
	}

	// Mode-specific keys
	switch m.mode {
	case ModeList:
		return m.handleListKey(msg)
	case ModeDetail:
		return m.handleDetailKey(msg)
	case ModeHelp:
		if key.Matches(msg, m.keys.Back) {
			m.mode = ModeList
		}
		return m, nil
	}

	return m, nil
}

// handleListKey handles keys in list mode.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Enter):
		if item, ok := m.list.SelectedItem().(panelItem); ok {
			m.selected = &item.status
			m.mode = ModeDetail
			m.viewport.SetContent(m.renderDetail(item.status))
			m.viewport.GotoTop()
		}
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		if item, ok := m.list.SelectedItem().(panelItem); ok {
			return m, m.toggleCmd(item.status.Label)
		}
		return m, nil

	case key.Matches(msg, m.keys.Show):
		if item, ok := m.list.SelectedItem().(panelItem); ok {
			return m, m.showCmd(item.status.Label)
		}
		return m, nil

	case key.Matches(msg, m.keys.Hide):
		if item, ok := m.list.SelectedItem().(panelItem); ok {
			return m, m.hideCmd(item.status.Label)
		}
		return m, nil

	case key.Matches(msg, m.keys.CloseAll):
		return m, m.hideAllCmd()

	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadPanels
	}

	// Pass to list
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleDetailKey handles keys in detail mode.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.mode = ModeList
		m.selected = nil
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		if m.selected != nil {
			return m, m.toggleCmd(m.selected.Label)
		}
		return m, nil

	case key.Matches(msg, m.keys.Show):
		if m.selected != nil {
			return m, m.showCmd(m.selected.Label)
		}
		return m, nil

	case key.Matches(msg, m.keys.Hide):
		if m.selected != nil {
			return m, m.hideCmd(m.selected.Label)
		}
		return m, nil

	case key.Matches(msg, m.keys.CloseAll):
		return m, m.hideAllCmd()

	case key.Matches(msg, m.keys.Copy):
		if m.selected != nil {
			data, err := yaml.Marshal(*m.selected)
			if err != nil {
				return m, func() tea.Msg { return copyResultMsg{err: err} }
			}
			return m, m.copyToClipboard(string(data))
		}
		return m, nil
	}

	// Pass to viewport
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// toggleCmd flips a panel's visibility over the bus.
func (m Model) toggleCmd(label string) tea.Cmd {
	return func() tea.Msg {
		visible, err := m.client.Toggle(label)
		return opResultMsg{action: actionToggle, label: label, visible: visible, err: err}
	}
}

func (m Model) showCmd(label string) tea.Cmd {
	return func() tea.Msg {
		err := m.client.Show(label)
		return opResultMsg{action: actionShow, label: label, err: err}
	}
}

func (m Model) hideCmd(label string) tea.Cmd {
	return func() tea.Msg {
		err := m.client.Hide(label)
		return opResultMsg{action: actionHide, label: label, err: err}
	}
}

func (m Model) hideAllCmd() tea.Cmd {
	return func() tea.Msg {
		err := m.client.HideAll()
		return opResultMsg{action: actionHideAll, err: err}
	}
}

// buildListItems creates list items from the current panel snapshot.
func (m Model) buildListItems() []list.Item {
	items := make([]list.Item, len(m.panels))
	for i, ps := range m.panels {
		items[i] = panelItem{status: ps}
	}
	return items
}

// findPanel returns the status entry for a label.
func findPanel(panels []model.PanelStatus, label string) (model.PanelStatus, bool) {
	for _, ps := range panels {
		if ps.Label == label {
			return ps, true
		}
	}
	return model.PanelStatus{}, false
}

// renderDetail renders the detail view for a panel as YAML.
func (m Model) renderDetail(ps model.PanelStatus) string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12"))

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8"))

	data, err := yaml.Marshal(ps)
	if err != nil {
		return "failed to render status: " + err.Error()
	}

	s := headerStyle.Render(badge(ps.Visible)+" "+ps.Label) + "\n\n"
	s += labelStyle.Render("status:") + "\n"
	s += string(data)

	return s
}

// copyToClipboard copies text to the system clipboard.
func (m Model) copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		err := copyText(text)
		return copyResultMsg{err: err}
	}
}

// View renders the TUI.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	switch m.mode {
	case ModeList:
		return m.viewList()
	case ModeDetail:
		return m.viewDetail()
	case ModeHelp:
		return m.viewHelp()
	default:
		return ""
	}
}

func (m Model) viewList() string {
	var s string
	s += m.list.View()

	// Status bar
	if m.statusMsg != "" {
		statusStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))
		if m.statusErr {
			statusStyle = statusStyle.Foreground(lipgloss.Color("9"))
		}
		s += "\n" + statusStyle.Render(m.statusMsg)
	} else {
		s += "\n" + m.buildKeybindBar(m.width, "list")
	}

	return s
}

func (m Model) viewDetail() string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1)

	header := headerStyle.Render("Panel Detail")

	return header + "\n" + m.viewport.View() + "\n" + m.buildKeybindBar(m.width, "detail")
}

func (m Model) viewHelp() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8"))

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	s := titleStyle.Render("Keyboard Shortcuts") + "\n\n"

	s += sectionStyle.Render("Navigation") + "\n"
	s += keyStyle.Render("  j/k, ↑/↓") + "     Move up/down\n"
	s += keyStyle.Render("  g/G") + "          Go to top/bottom\n"
	s += keyStyle.Render("  pgup/pgdn") + "    Page up/down\n"
	s += "\n"

	s += sectionStyle.Render("Panels") + "\n"
	s += keyStyle.Render("  enter") + "        View panel details\n"
	s += keyStyle.Render("  t, space") + "     Toggle selected panel\n"
	s += keyStyle.Render("  s") + "            Show selected panel\n"
	s += keyStyle.Render("  h") + "            Hide selected panel\n"
	s += keyStyle.Render("  c") + "            Close (hide) all panels\n"
	s += keyStyle.Render("  y") + "            Copy status as YAML (detail view)\n"
	s += keyStyle.Render("  r") + "            Refresh from daemon\n"
	s += "\n"

	s += sectionStyle.Render("General") + "\n"
	s += keyStyle.Render("  ?") + "            Toggle this help\n"
	s += keyStyle.Render("  esc") + "          Back / Cancel\n"
	s += keyStyle.Render("  q") + "            Quit\n"

	s += "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(
		"Press ? or esc to return")

	return s
}

// keybind represents a single keybind with priority for the status bar.
type keybind struct {
	key      string
	desc     string
	priority int // lower = more important (shown first)
}

// buildKeybindBar builds a keybind bar that fits within the given width.
// mode determines which keybinds are shown: "list", "detail"
func (m Model) buildKeybindBar(width int, mode string) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	var binds []keybind

	switch mode {
	case "list":
		// Priority order for list mode (most important first)
		binds = []keybind{
			{"q", "quit", 1},
			{"enter", "view", 2},
			{"?", "help", 3},
			{"t", "toggle", 4},
			{"s", "show", 5},
			{"h", "hide", 6},
			{"c", "close all", 7},
			{"r", "refresh", 8},
		}
	case "detail":
		binds = []keybind{
			{"q", "quit", 1},
			{"esc", "back", 2},
			{"t", "toggle", 3},
			{"y", "copy yaml", 4},
			{"j/k", "scroll", 5},
		}
	}

	// Build the bar, adding keybinds until we run out of space
	const separator = "  "
	result := ""
	for _, b := range binds {
		item := keyStyle.Render(b.key) + " " + b.desc
		plainItem := b.key + " " + b.desc
		testLen := len(result) + len(separator) + len(plainItem)
		if result != "" {
			testLen = len(stripANSI(result)) + len(separator) + len(plainItem)
		}

		if width > 0 && testLen > width {
			break
		}
		if result != "" {
			result += separator
		}
		result += item
	}

	return style.Render(result)
}

// stripANSI removes ANSI escape codes for length calculation.
func stripANSI(s string) string {
	result := make([]byte, 0, len(s))
	inEscape := false
	for i := 0; i < len(s); i++ {
		if s[i] == '\x1b' {
			inEscape = true
			continue
		}
		if inEscape {
			if s[i] == 'm' {
				inEscape = false
			}
			continue
		}
		result = append(result, s[i])
	}
	return string(result)
}

// RunOptions configures the TUI.
type RunOptions struct {
	Client *dbus.Client
	Logger *slog.Logger
}

// Run starts the TUI against a running daemon.
func Run(opts RunOptions) error {
	client := opts.Client
	if client == nil {
		var err error
		client, err = dbus.NewClient()
		if err != nil {
			return err
		}
	}

	// Nothing to show without a daemon; fail before taking the terminal
	if err := client.Ping(); err != nil {
		return err
	}

	var signals <-chan dbus.PanelSignal
	watcher, err := client.Watch(opts.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: live updates unavailable: %v\n", err)
	} else {
		signals = watcher.Signals()
	}

	m := New(client, signals)
	p := tea.NewProgram(m, tea.WithAltScreen())

	_, err = p.Run()

	if watcher != nil {
		_ = watcher.Close()
	}

	return err
}
