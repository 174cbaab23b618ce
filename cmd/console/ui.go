package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jwebster45206/gossip-village/internal/handlers"
	"github.com/jwebster45206/gossip-village/internal/services/events"
	"github.com/jwebster45206/gossip-village/pkg/actor"
	"github.com/jwebster45206/gossip-village/pkg/locale"
	"github.com/jwebster45206/gossip-village/pkg/state"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/message"
)

const (
	PlaceHolderText = "/help for commands..."
	maxNotices      = 30
)

var gameModes = []state.GameMode{state.ModeSandbox, state.ModeMatchmaker, state.ModeDetective, state.ModeChaos}

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	ctx       context.Context
	config    *ConsoleConfig
	client    *apiClient
	gameState *state.GameState
	events    chan events.Event

	logViewport  viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	err          error

	// console-only lines shown under the chronicle
	notices []string

	// busy is set while a request is in flight, simulating while a worker
	// owns the phase
	busy         bool
	simulating   bool
	progressTick int

	showModeModal bool
	selectedMode  int
	creating      bool

	showQuitModal bool
}

type gameStateMsg struct {
	gameState *state.GameState
	err       error
}

type gameCreatedMsg struct {
	gameState *state.GameState
	err       error
}

type actionMsg struct {
	resp *handlers.ActionResponse
	err  error
}

type undoMsg struct {
	resp *handlers.UndoResponse
	err  error
}

type endPhaseMsg struct {
	resp *handlers.EndPhaseResponse
	err  error
}

type eventMsg struct {
	event events.Event
}

type eventsClosedMsg struct{}

type progressTickMsg struct{}

var (
	logPanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingBottom(1).
			PaddingLeft(3)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	speakerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	systemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	thoughtStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	inactiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Strikethrough(true)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	modalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	modalSelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey
)

func NewConsoleUI(ctx context.Context, cfg *ConsoleConfig, client *apiClient) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 500
	ta.SetWidth(50)
	ta.SetHeight(2)
	ta.ShowLineNumbers = false

	logVp := viewport.New(50, 20)
	logVp.MouseWheelEnabled = true

	return ConsoleUI{
		ctx:           ctx,
		config:        cfg,
		client:        client,
		textarea:      ta,
		logViewport:   logVp,
		metaViewport:  viewport.New(20, 20),
		showModeModal: true,
	}
}

func (m ConsoleUI) printer() *message.Printer {
	if m.gameState != nil && m.gameState.Locale != "" {
		return locale.Printer(m.gameState.Locale)
	}
	return locale.Printer(m.config.Locale)
}

func (m *ConsoleUI) notice(style lipgloss.Style, text string) {
	m.notices = append(m.notices, style.Render(text))
	if len(m.notices) > maxNotices {
		m.notices = m.notices[len(m.notices)-maxNotices:]
	}
}

// writeChronicle renders the village log grouped by phase, then any console
// notices.
func (m *ConsoleUI) writeChronicle() {
	width := max(m.logViewport.Width-6, 20)
	p := m.printer()

	var content strings.Builder
	content.WriteString(titleStyle.Render("稻香村 · GOSSIP VILLAGE") + "\n\n")

	if m.gameState != nil {
		lastDay, lastPhase := 0, state.Phase("")
		for _, entry := range m.gameState.Logs {
			if entry.Day != lastDay || entry.Phase != lastPhase {
				header := fmt.Sprintf(" Day %d · %s ", entry.Day, locale.PhaseLabel(p, entry.Phase))
				content.WriteString("\n" + separatorStyle.Render("──"+header+"──") + "\n")
				lastDay, lastPhase = entry.Day, entry.Phase
			}
			content.WriteString(formatLogEntry(entry, width) + "\n")
		}
		if o := m.gameState.Outcome; o != nil {
			style := noticeStyle
			if o.Result == state.OutcomeDefeat {
				style = errorStyle
			}
			content.WriteString("\n" + style.Bold(true).Render(fmt.Sprintf("%s: %s", o.Result, o.Reason)) + "\n")
		}
		if msg := m.gameState.ErrorMessage; msg != "" {
			content.WriteString("\n" + errorStyle.Render(msg) + "\n")
		}
	}

	if len(m.notices) > 0 {
		content.WriteString("\n" + separatorStyle.Render(strings.Repeat("─", width)) + "\n")
		for _, n := range m.notices {
			content.WriteString(wordwrap.String(n, width) + "\n")
		}
	}

	if m.busy || m.simulating {
		content.WriteString("\n" + m.renderProgressBar())
	}

	m.logViewport.SetContent(content.String())
	m.logViewport.GotoBottom()
}

func formatLogEntry(entry state.LogEntry, width int) string {
	switch entry.Type {
	case state.LogSystem:
		return systemStyle.Render(wordwrap.String("» "+entry.Content, width))
	case state.LogThought:
		return thoughtStyle.Render(wordwrap.String(entry.NPCName+" ("+entry.Content+")", width))
	default:
		if entry.NPCName == "" {
			return wordwrap.String(entry.Content, width)
		}
		return speakerStyle.Render(entry.NPCName+": ") + wordwrap.String(entry.Content, width-len(entry.NPCName)-2)
	}
}

func writeMetadata(gs *state.GameState, p *message.Printer, width int) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("VILLAGE") + "\n\n")

	fmt.Fprintf(&content, "Game: %s...\n", gs.ID.String()[:8])
	fmt.Fprintf(&content, "Mode: %s\n", gs.Mode)
	fmt.Fprintf(&content, "Day %d · %s\n", gs.Day, locale.PhaseLabel(p, gs.Phase))
	fmt.Fprintf(&content, "AP: %s%s\n",
		strings.Repeat("●", gs.ActionPoints),
		strings.Repeat("○", max(state.MaxActionPoints-gs.ActionPoints, 0)))
	fmt.Fprintf(&content, "Queued: %d\n\n", len(gs.PendingActions))

	if gs.Objective != nil {
		content.WriteString("Objective:\n")
		content.WriteString(wordwrap.String(gs.Objective.Description, width) + "\n\n")
	}

	content.WriteString("Villagers:\n")
	for i := range gs.NPCs {
		npc := &gs.NPCs[i]
		line := fmt.Sprintf("%d. %s %s [%s]", i+1, npc.Name, npc.Role, npc.Status)
		if !npc.IsActive() {
			content.WriteString(inactiveStyle.Render(line) + "\n")
			continue
		}
		content.WriteString(line + "\n")
		if sheet, err := actor.NewSheet(npc); err == nil {
			content.WriteString(promptStyle.Render("   "+sheet.Summary()) + "\n")
		}
	}

	fmt.Fprintf(&content, "\nIntel: %d cards\n", len(gs.Intel))
	return content.String()
}

func (m *ConsoleUI) resize() {
	logWidth := int(float64(m.width)*0.65) - 4
	metaWidth := m.width - logWidth - 6

	m.logViewport.Width = logWidth - 2
	m.logViewport.Height = m.height - 6
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 2
	m.textarea.SetWidth(logWidth - 4)
}

func (m *ConsoleUI) refresh() {
	m.writeChronicle()
	if m.gameState != nil {
		m.metaViewport.SetContent(writeMetadata(m.gameState, m.printer(), max(m.metaViewport.Width-2, 10)))
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return textarea.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showModeModal {
		return m.updateModeModal(msg)
	}
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.logViewport, vpCmd = m.logViewport.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true
		m.refresh()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}
			m.textarea.Reset()
			return m.handleCommand(input)
		}

	case gameStateMsg:
		if msg.err != nil {
			m.notice(errorStyle, "Error: "+msg.err.Error())
		} else {
			m.gameState = msg.gameState
			m.simulating = m.gameState.IsSimulating
		}
		m.refresh()

	case actionMsg:
		m.busy = false
		if msg.err != nil {
			m.notice(errorStyle, "Error: "+msg.err.Error())
		} else {
			m.gameState = msg.resp.GameState
			if r := msg.resp.Interrogation; r != nil {
				m.notice(noticeStyle, fmt.Sprintf("You → %s: %s", r.NPCName, r.Question))
				m.notice(speakerStyle, fmt.Sprintf("%s: %s", r.NPCName, r.Reply))
			}
		}
		m.refresh()

	case undoMsg:
		m.busy = false
		if msg.err != nil {
			m.notice(errorStyle, "Error: "+msg.err.Error())
		} else {
			m.gameState = msg.resp.GameState
			if msg.resp.Refunded == 0 {
				m.notice(noticeStyle, "Nothing to undo.")
			} else {
				m.notice(noticeStyle, fmt.Sprintf("Refunded %d AP.", msg.resp.Refunded))
			}
		}
		m.refresh()

	case endPhaseMsg:
		m.busy = false
		if msg.err != nil {
			m.notice(errorStyle, "Error: "+msg.err.Error())
			m.refresh()
			return m, nil
		}
		m.gameState = msg.resp.GameState
		m.simulating = true
		m.progressTick = 0
		m.notice(noticeStyle, "The village stirs...")
		m.refresh()
		return m, progressTick()

	case eventMsg:
		cmd := m.handleEvent(msg.event)
		return m, tea.Batch(cmd, waitForEvent(m.events))

	case eventsClosedMsg:
		m.notice(errorStyle, "Event stream closed; use /npcs to refresh.")
		m.refresh()

	case progressTickMsg:
		if m.busy || m.simulating {
			m.progressTick++
			m.writeChronicle()
			return m, progressTick()
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.logViewport, vpCmd = m.logViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

// handleEvent reacts to a pushed game event and returns the follow-up
// command, if any.
func (m *ConsoleUI) handleEvent(ev events.Event) tea.Cmd {
	switch ev.Type {
	case events.EventTypePhaseProcessing:
		m.simulating = true
		return nil
	case events.EventTypePhaseCompleted:
		m.simulating = false
		return m.refreshGameState()
	case events.EventTypePhaseFailed:
		m.simulating = false
		if msg, ok := ev.Data["error"].(string); ok && msg != "" {
			m.notice(errorStyle, msg)
		}
		return m.refreshGameState()
	case events.EventTypeGameUpdated:
		return m.refreshGameState()
	}
	return nil
}

func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	cmd, err := parseCommand(input, m.gameState)
	if err != nil {
		m.notice(errorStyle, err.Error())
		m.refresh()
		return m, nil
	}

	if cmd.action != nil {
		if m.busy || m.simulating {
			m.notice(loadingStyle, "Wait for the village to settle.")
			m.refresh()
			return m, nil
		}
		m.busy = true
		m.progressTick = 0
		m.refresh()
		return m, tea.Batch(m.sendAction(*cmd.action), progressTick())
	}

	switch cmd.name {
	case "/help":
		m.notice(noticeStyle, helpText)
	case "/quit":
		m.showQuitModal = true
		return m, nil
	case "/undo":
		m.busy = true
		return m, m.sendUndo()
	case "/end":
		if m.simulating {
			m.notice(loadingStyle, "The phase is already being simulated.")
			break
		}
		m.busy = true
		m.refresh()
		return m, m.sendEndPhase()
	case "/paper":
		return m, m.sendCloseNewspaper()
	case "/npcs":
		return m, m.refreshGameState()
	case "/intel":
		if len(m.gameState.Intel) == 0 {
			m.notice(noticeStyle, "No intel yet.")
		}
		for _, card := range m.gameState.Intel {
			m.notice(noticeStyle, fmt.Sprintf("[%s · day %d] %s", card.Type, card.Timestamp, card.Content))
		}
	case "/copy":
		if err := clipboard.WriteAll(plainChronicle(m.gameState, m.printer())); err != nil {
			m.notice(errorStyle, "Clipboard unavailable: "+err.Error())
		} else {
			m.notice(noticeStyle, fmt.Sprintf("Chronicle of game %s copied.", m.gameState.ID))
		}
	}
	m.refresh()
	return m, nil
}

func (m ConsoleUI) sendAction(req handlers.ActionRequest) tea.Cmd {
	id := m.gameState.ID
	return func() tea.Msg {
		resp, err := m.client.act(id, req)
		return actionMsg{resp, err}
	}
}

func (m ConsoleUI) sendUndo() tea.Cmd {
	id := m.gameState.ID
	return func() tea.Msg {
		resp, err := m.client.undo(id)
		return undoMsg{resp, err}
	}
}

func (m ConsoleUI) sendEndPhase() tea.Cmd {
	id := m.gameState.ID
	return func() tea.Msg {
		resp, err := m.client.endPhase(id)
		return endPhaseMsg{resp, err}
	}
}

func (m ConsoleUI) sendCloseNewspaper() tea.Cmd {
	id := m.gameState.ID
	return func() tea.Msg {
		gs, err := m.client.closeNewspaper(id)
		return gameStateMsg{gs, err}
	}
}

func (m ConsoleUI) refreshGameState() tea.Cmd {
	id := m.gameState.ID
	return func() tea.Msg {
		gs, err := m.client.getGame(id)
		return gameStateMsg{gs, err}
	}
}

func (m ConsoleUI) createGame(mode state.GameMode) tea.Cmd {
	return func() tea.Msg {
		gs, err := m.client.createGame(mode, m.config.Locale)
		return gameCreatedMsg{gs, err}
	}
}

// subscribe starts streaming events for the current game.
func (m *ConsoleUI) subscribe() tea.Cmd {
	m.events = make(chan events.Event, 16)
	ch, id := m.events, m.gameState.ID
	go func() {
		_ = m.client.listen(m.ctx, id, ch)
	}()
	return waitForEvent(ch)
}

func waitForEvent(ch <-chan events.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg{event: ev}
	}
}

func (m ConsoleUI) updateModeModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case gameCreatedMsg:
		m.creating = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.gameState = msg.gameState
		m.showModeModal = false
		if m.width > 0 && m.height > 0 {
			m.resize()
		}
		m.ready = true
		m.refresh()
		m.textarea.Focus()
		listen := m.subscribe()
		return m, tea.Batch(textarea.Blink, listen)

	case tea.KeyMsg:
		if m.creating {
			if msg.Type == tea.KeyCtrlC {
				return m, tea.Quit
			}
			return m, nil
		}
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			if m.selectedMode > 0 {
				m.selectedMode--
			}
		case tea.KeyDown:
			if m.selectedMode < len(gameModes)-1 {
				m.selectedMode++
			}
		case tea.KeyEnter:
			m.creating = true
			m.err = nil
			return m, m.createGame(gameModes[m.selectedMode])
		}
	}

	return m, nil
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Leave the village?"))
	content.WriteString("\n\n")
	content.WriteString("Your game stays saved until it expires.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderModeModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	switch {
	case m.creating:
		content.WriteString(modalTitleStyle.Render("Generating village..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("The villagers are waking up..."))
	default:
		content.WriteString(modalTitleStyle.Render("Select a Mode"))
		content.WriteString("\n\n")
		for i, mode := range gameModes {
			if i == m.selectedMode {
				content.WriteString(modalSelectedItemStyle.Render(fmt.Sprintf("▶ %s", mode)))
			} else {
				content.WriteString(modalItemStyle.Render(fmt.Sprintf("  %s", mode)))
			}
			content.WriteString("\n")
		}
		if m.err != nil {
			content.WriteString("\n" + errorStyle.Render(fmt.Sprintf("Failed to start: %v", m.err)) + "\n")
		}
		content.WriteString("\n")
		content.WriteString(promptStyle.Render("Use ↑/↓ to navigate, Enter to select, Esc to exit"))
	}

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderNewspaper() string {
	paper := m.gameState.LastNewspaper
	var content strings.Builder
	content.WriteString(modalTitleStyle.Render(m.printer().Sprintf(locale.NewspaperTitle)) + "\n\n")
	content.WriteString(titleStyle.Render(paper.Headline) + "\n\n")
	for _, a := range paper.Articles {
		content.WriteString(wordwrap.String("• "+a, 50) + "\n")
	}
	content.WriteString("\n" + promptStyle.Render("/paper to dismiss"))
	return modalStyle.Width(56).Render(content.String())
}

func (m ConsoleUI) View() string {
	if m.showModeModal {
		return m.renderModeModal()
	}
	if m.showQuitModal {
		return m.renderQuitModal()
	}
	if !m.ready {
		return "\n  Initializing..."
	}

	logWidth := int(float64(m.width)*0.65) - 4
	metaWidth := m.width - logWidth - 6

	main := m.logViewport.View()
	if m.gameState != nil && m.gameState.LastNewspaper != nil {
		main = lipgloss.Place(m.logViewport.Width, m.logViewport.Height, lipgloss.Center, lipgloss.Center, m.renderNewspaper())
	}

	logPanel := logPanelStyle.Width(logWidth).Height(m.height - 2).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			main,
			separatorStyle.Render(strings.Repeat("─", max(logWidth-4, 1))),
			m.textarea.View(),
		),
	)
	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(m.metaViewport.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, logPanel, metaPanel)
}

// renderProgressBar creates an animated progress bar for loading states
func (m ConsoleUI) renderProgressBar() string {
	usable := min(max(m.logViewport.Width-6, 10), 80)

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		switch {
		case i < filled:
			bar.WriteString("█")
		case i == filled && frame%4 < 2:
			bar.WriteString("▓")
		default:
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
