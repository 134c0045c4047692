// Package tui is the interactive terminal chat client.
//
// It is a thin view over controllers.ConversationController: key presses are
// forwarded to the controller, and every controller event re-renders the
// message list and scrolls it to the bottom.
package tui

import (
	"context"
	"fmt"
	"strings"

	"flashchat/flashchat/config"
	"flashchat/flashchat/controllers"
	"flashchat/flashchat/render"
	"flashchat/flashchat/types"
	"flashchat/flashchat/utils/logging"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	sidebarWidth    = 26
	sidebarBreak    = 80 // narrower terminals hide the sidebar
	headerHeight    = 3
	composerHeight  = 3
	statusHeight    = 1
	eventBufferSize = 64
)

// Options tune rendering; the zero value suits a real terminal.
type Options struct {
	Style     string
	Formatter string
}

// Messages for tea updates
type (
	eventMsg  types.Event
	closedMsg struct{}
)

type Model struct {
	ctx       context.Context
	ctrl      *controllers.ConversationController
	cfg       config.Config
	opts      Options
	clipboard *render.Clipboard

	events      <-chan types.Event
	unsubscribe func()

	// UI Components
	textinput textinput.Model
	viewport  viewport.Model
	spinner   spinner.Model
	renderer  *render.Renderer
	styles    styles

	// State
	snapshot types.Snapshot
	rendered map[uuid.UUID]string
	status   string
	width    int
	height   int
	ready    bool
}

func NewModel(ctx context.Context, ctrl *controllers.ConversationController, cfg config.Config, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask Gemini"
	ti.Prompt = ""
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Points

	events, unsubscribe := ctrl.Subscribe(eventBufferSize)

	return Model{
		ctx:         ctx,
		ctrl:        ctrl,
		cfg:         cfg,
		opts:        opts,
		clipboard:   render.NewClipboard(),
		events:      events,
		unsubscribe: unsubscribe,
		textinput:   ti,
		spinner:     sp,
		styles:      newStyles(),
		snapshot:    ctrl.Snapshot(),
		rendered:    make(map[uuid.UUID]string),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		waitForEvent(m.events),
	)
}

// waitForEvent blocks on the controller feed and hands the next event to
// the update loop.
func waitForEvent(events <-chan types.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return closedMsg{}
		}
		return eventMsg(ev)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.unsubscribe()
			return m, tea.Quit

		case "enter":
			m.ctrl.SetDraft(m.textinput.Value())
			m.ctrl.KeyPress(m.ctx, controllers.KeyEnter)
			return m, nil

		case "ctrl+y":
			m.copyCode(0)
			return m, nil

		case "alt+1", "alt+2", "alt+3", "alt+4", "alt+5", "alt+6", "alt+7", "alt+8", "alt+9":
			m.copyCode(int(msg.String()[len("alt+")] - '0'))
			return m, nil

		case "pgup", "pgdown", "up", "down":
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

		m.status = ""
		m.textinput, tiCmd = m.textinput.Update(msg)
		m.ctrl.SetDraft(m.textinput.Value())
		return m, tiCmd

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		var spCmd tea.Cmd
		m.spinner, spCmd = m.spinner.Update(msg)
		if m.snapshot.Pending {
			m.refreshViewport()
		}
		return m, spCmd

	case eventMsg:
		m.snapshot = m.ctrl.Snapshot()
		// the controller clears the draft in the same step that ends a
		// request; empty-draft events from our own SetDraft are ignored
		if msg.Type == types.EventPending && !msg.Pending && m.textinput.Value() != "" {
			m.textinput.Reset()
		}
		if msg.Type == types.EventMessage || msg.Type == types.EventPending {
			m.refreshViewport()
		}
		return m, waitForEvent(m.events)

	case closedMsg:
		return m, nil
	}

	m.textinput, tiCmd = m.textinput.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd)
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	mainWidth := m.mainWidth()
	vpHeight := height - headerHeight - composerHeight - statusHeight
	if vpHeight < 1 {
		vpHeight = 1
	}
	if !m.ready {
		m.viewport = viewport.New(mainWidth, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = mainWidth
		m.viewport.Height = vpHeight
	}
	m.textinput.Width = mainWidth - 12

	r, err := render.New(render.Options{Width: mainWidth - 2, Style: m.opts.Style, Formatter: m.opts.Formatter})
	if err != nil {
		logging.ErrorLogger.Error("failed to build renderer", zap.Error(err))
		return
	}
	m.renderer = r
	m.rendered = make(map[uuid.UUID]string)
	m.refreshViewport()
}

func (m Model) mainWidth() int {
	if m.width >= sidebarBreak {
		return m.width - sidebarWidth
	}
	return m.width
}

// refreshViewport re-renders the list and scrolls to the newest entry.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	var b strings.Builder
	for _, msg := range m.snapshot.Messages {
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n\n")
	}
	if m.snapshot.Pending {
		b.WriteString(m.styles.typing.Render(m.spinner.View()))
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

func (m *Model) renderMessage(msg types.Message) string {
	if out, ok := m.rendered[msg.ID]; ok {
		return out
	}
	if m.renderer == nil {
		return msg.Text
	}
	out, err := m.renderer.Render(msg)
	if err != nil {
		logging.ErrorLogger.Error("failed to render message",
			zap.String("message_id", msg.ID.String()), zap.Error(err))
		out = msg.Text
	}
	m.rendered[msg.ID] = out
	return out
}

// copyCode copies the n-th (1-based) code block of the latest answer that
// has any; n == 0 means its last block.
func (m *Model) copyCode(n int) {
	for i := len(m.snapshot.Messages) - 1; i >= 0; i-- {
		msg := m.snapshot.Messages[i]
		if msg.Kind != types.KindAnswer {
			continue
		}
		blocks := render.CodeBlocks(msg.Text)
		if len(blocks) == 0 {
			continue
		}
		if n == 0 {
			n = len(blocks)
		}
		if n > len(blocks) {
			return
		}
		if m.clipboard.Copy(blocks[n-1].Code) {
			m.status = fmt.Sprintf("Copied code block %d", n)
		}
		return
	}
}
