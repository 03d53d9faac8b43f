// Command redking-client is a terminal debug client for the Red King
// server. It speaks the raw wire protocol: typed commands are translated
// to command frames, and every inbound event is appended to the log pane.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gorilla/websocket"
	"github.com/muesli/termenv"

	"github.com/redkinggame/redking/internal/server"
)

var CLI struct {
	URL string `short:"u" long:"url" default:"ws://localhost:3001/ws" help:"Server WebSocket URL"`
}

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#A4243B")).
			Bold(true)

	eventStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4"))

	commandStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

type eventMsg struct {
	msg *server.Message
}

type disconnectedMsg struct {
	err error
}

type model struct {
	conn   *websocket.Conn
	events chan eventMsg

	logViewport viewport.Model
	input       textinput.Model
	lines       []string

	width       int
	height      int
	initialized bool
	quitting    bool
}

func newModel(conn *websocket.Conn) *model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "host <name> | join <code> <name> | draw | keep <slot> | help"
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 100
	ti.Prompt = "> "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)

	m := &model{
		conn:        conn,
		events:      make(chan eventMsg, 64),
		logViewport: vp,
		input:       ti,
	}
	go m.readLoop()
	return m
}

func (m *model) readLoop() {
	defer close(m.events)
	for {
		var msg server.Message
		if err := m.conn.ReadJSON(&msg); err != nil {
			return
		}
		m.events <- eventMsg{msg: &msg}
	}
}

func (m *model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return disconnectedMsg{}
		}
		return ev
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForEvent())
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logViewport.Width = msg.Width
		m.logViewport.Height = msg.Height - 4
		m.input.Width = msg.Width - 4
		m.initialized = true
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			_ = m.conn.Close()
			return m, tea.Quit
		case tea.KeyEnter:
			line := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if line != "" {
				m.submit(line)
			}
			return m, nil
		}

	case eventMsg:
		m.appendLine(eventStyle.Render("<- " + formatEvent(msg.msg)))
		return m, m.waitForEvent()

	case disconnectedMsg:
		m.appendLine(errorStyle.Render("connection closed"))
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) View() string {
	if m.quitting {
		return ""
	}
	header := headerStyle.Render(" Red King debug client ")
	return fmt.Sprintf("%s\n%s\n\n%s", header, m.logViewport.View(), m.input.View())
}

func (m *model) submit(line string) {
	msg, err := parseCommand(line)
	if err != nil {
		m.appendLine(errorStyle.Render(err.Error()))
		return
	}
	if msg == nil {
		m.appendLine(infoStyle.Render(helpText))
		return
	}
	if err := m.conn.WriteJSON(msg); err != nil {
		m.appendLine(errorStyle.Render("write failed: " + err.Error()))
		return
	}
	m.appendLine(commandStyle.Render("-> " + msg.Event))
}

func (m *model) appendLine(line string) {
	m.lines = append(m.lines, line)
	if len(m.lines) > 500 {
		m.lines = m.lines[len(m.lines)-500:]
	}
	m.refresh()
}

func (m *model) refresh() {
	m.logViewport.SetContent(strings.Join(m.lines, "\n"))
	m.logViewport.GotoBottom()
}

const helpText = `commands:
  host <name>                join <code> <name>        rooms
  bot [easy|medium|hard]     start                     end
  leave                      peek-done                 draw
  keep <slot>                discard                   skip
  peek-own <slot>            peek-other <id> <slot>    finish
  switch <idA> <slotA> <idB> <slotB>
  bk-peek <idA> <slotA> <idB> <slotB>
  bk-switch <idA> <slotA> <idB> <slotB>
  bk-skip
  match <slot>               match-other <id> <slot>
  give <ownSlot> <id> <targetSlot>
  red-king`

// parseCommand translates a typed line into a wire command frame. A nil
// message with nil error means "show help".
func parseCommand(line string) (*server.Message, error) {
	fields := strings.Fields(line)
	verb := fields[0]
	args := fields[1:]

	atoi := func(s string) (int, error) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("not a number: %s", s)
		}
		return n, nil
	}

	switch verb {
	case "help":
		return nil, nil

	case "host":
		if len(args) < 1 {
			return nil, fmt.Errorf("usage: host <name>")
		}
		return server.NewMessage(server.CmdHostGame, server.HostGameData{Name: strings.Join(args, " ")})

	case "join":
		if len(args) < 2 {
			return nil, fmt.Errorf("usage: join <code> <name>")
		}
		return server.NewMessage(server.CmdJoinGame, server.JoinGameData{Code: args[0], Name: strings.Join(args[1:], " ")})

	case "rooms":
		return server.NewMessage(server.CmdListRooms, nil)

	case "bot":
		difficulty := "medium"
		if len(args) > 0 {
			difficulty = args[0]
		}
		return server.NewMessage(server.CmdAddCpuPlayer, server.AddCpuData{Difficulty: difficulty})

	case "start":
		return server.NewMessage(server.CmdStartGame, nil)
	case "end":
		return server.NewMessage(server.CmdEndGame, nil)
	case "leave":
		return server.NewMessage(server.CmdLeaveRoom, nil)
	case "peek-done":
		return server.NewMessage(server.CmdPeekDone, nil)
	case "draw":
		return server.NewMessage(server.CmdDrawCard, nil)
	case "discard":
		return server.NewMessage(server.CmdDiscardCard, nil)
	case "skip":
		return server.NewMessage(server.CmdSkipRule, nil)
	case "finish":
		return server.NewMessage(server.CmdFinishPeek, nil)
	case "bk-skip":
		return server.NewMessage(server.CmdUseBlackKingSkip, nil)
	case "red-king":
		return server.NewMessage(server.CmdCallRedKing, nil)

	case "keep", "peek-own", "match":
		if len(args) != 1 {
			return nil, fmt.Errorf("usage: %s <slot>", verb)
		}
		slot, err := atoi(args[0])
		if err != nil {
			return nil, err
		}
		cmd := map[string]string{
			"keep":     server.CmdKeepCard,
			"peek-own": server.CmdUsePeekOwn,
			"match":    server.CmdCallMatchOwn,
		}[verb]
		return server.NewMessage(cmd, server.SlotData{SlotIndex: slot})

	case "peek-other", "match-other":
		if len(args) != 2 {
			return nil, fmt.Errorf("usage: %s <id> <slot>", verb)
		}
		slot, err := atoi(args[1])
		if err != nil {
			return nil, err
		}
		cmd := server.CmdUsePeekOther
		if verb == "match-other" {
			cmd = server.CmdCallMatchOther
		}
		return server.NewMessage(cmd, server.TargetSlotData{TargetID: args[0], SlotIndex: slot})

	case "switch", "bk-peek", "bk-switch":
		if len(args) != 4 {
			return nil, fmt.Errorf("usage: %s <idA> <slotA> <idB> <slotB>", verb)
		}
		slotA, err := atoi(args[1])
		if err != nil {
			return nil, err
		}
		slotB, err := atoi(args[3])
		if err != nil {
			return nil, err
		}
		cmd := map[string]string{
			"switch":    server.CmdUseBlindSwitch,
			"bk-peek":   server.CmdUseBlackKingPeek,
			"bk-switch": server.CmdUseBlackKingSwitch,
		}[verb]
		return server.NewMessage(cmd, server.SwitchData{PlayerA: args[0], SlotA: slotA, PlayerB: args[2], SlotB: slotB})

	case "give":
		if len(args) != 3 {
			return nil, fmt.Errorf("usage: give <ownSlot> <id> <targetSlot>")
		}
		ownSlot, err := atoi(args[0])
		if err != nil {
			return nil, err
		}
		targetSlot, err := atoi(args[2])
		if err != nil {
			return nil, err
		}
		return server.NewMessage(server.CmdGiveCardAfterMatch, server.GiveCardData{
			OwnSlot: ownSlot, TargetID: args[1], TargetSlot: targetSlot,
		})
	}
	return nil, fmt.Errorf("unknown command %q (try help)", verb)
}

func formatEvent(msg *server.Message) string {
	if len(msg.Data) == 0 {
		return msg.Event
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, msg.Data); err != nil {
		return msg.Event
	}
	return msg.Event + " " + compact.String()
}

func main() {
	ctx := kong.Parse(&CLI)

	// Degrade styles gracefully on dumb terminals.
	lipgloss.SetColorProfile(termenv.ColorProfile())

	conn, _, err := websocket.DefaultDialer.Dial(CLI.URL, nil)
	if err != nil {
		fmt.Printf("Failed to connect to %s: %v\n", CLI.URL, err)
		ctx.Exit(1)
	}
	defer conn.Close()

	program := tea.NewProgram(newModel(conn), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
		ctx.Exit(1)
	}
}
