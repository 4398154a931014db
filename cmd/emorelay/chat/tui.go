package chatcmder

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/papercomputeco/emorelay/pkg/cliui"
	"github.com/papercomputeco/emorelay/pkg/emotion"
	"github.com/papercomputeco/emorelay/pkg/llm"
)

const greeting = "Hi! Tell me how your day is going."

// noContent stands in for an empty assistant reply.
const noContent = "(no content)"

const (
	headerHeight = 2
	footerHeight = 4
)

var (
	chatTitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213"))
	userLabelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	asstLabelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	chatMutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	chatSpinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
)

// entry is one line of the transcript as shown on screen.
type entry struct {
	role     llm.Role
	content  string
	failed   bool
	rendered string
}

type replyMsg struct {
	content string
	err     error
}

type chatModel struct {
	ctx         context.Context
	client      sender
	classifier  *emotion.Classifier
	emotionMode bool
	label       string

	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model

	entries []entry
	// history is what goes upstream; the greeting is never part of it.
	history []llm.Message
	waiting bool
	width   int
	height  int
}

func newChatModel(ctx context.Context, client sender, classifier *emotion.Classifier, emotionMode bool, label string) chatModel {
	input := textinput.New()
	input.Placeholder = "Type a message, /clear to reset, /exit to quit"
	input.Prompt = userLabelStyle.Render("you> ")
	input.CharLimit = 4000
	input.Focus()

	if classifier == nil {
		classifier = emotion.NewClassifier(nil)
	}

	m := chatModel{
		ctx:         ctx,
		client:      client,
		classifier:  classifier,
		emotionMode: emotionMode,
		label:       label,
		input:       input,
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(chatSpinnerStyle)),
		viewport:    viewport.New(80, 20),
		width:       80,
		height:      20 + headerHeight + footerHeight,
	}
	m.reset()
	return m
}

func (m *chatModel) reset() {
	m.entries = []entry{{role: llm.RoleAssistant, content: greeting}}
	m.history = nil
	m.refresh()
}

func (m chatModel) Init() bubbletea.Cmd {
	return textinput.Blink
}

func (m chatModel) Update(msg bubbletea.Msg) (bubbletea.Model, bubbletea.Cmd) {
	switch msg := msg.(type) {
	case bubbletea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-headerHeight-footerHeight, 1)
		m.input.Width = max(msg.Width-8, 10)
		for i := range m.entries {
			m.entries[i].rendered = ""
		}
		m.refresh()
		return m, nil
	case replyMsg:
		return m.handleReply(msg)
	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd bubbletea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case bubbletea.KeyMsg:
		switch msg.Type {
		case bubbletea.KeyCtrlC, bubbletea.KeyCtrlD:
			return m, bubbletea.Quit
		case bubbletea.KeyEnter:
			return m.submit()
		case bubbletea.KeyPgUp, bubbletea.KeyPgDown:
			var cmd bubbletea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd bubbletea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m chatModel) submit() (bubbletea.Model, bubbletea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.waiting {
		return m, nil
	}
	m.input.Reset()

	switch text {
	case "/exit", "/quit":
		return m, bubbletea.Quit
	case "/clear":
		m.reset()
		return m, nil
	}

	m.entries = append(m.entries, entry{role: llm.RoleUser, content: text})
	m.history = append(m.history, llm.NewTextMessage(llm.RoleUser, text))
	m.waiting = true
	m.refresh()

	return m, bubbletea.Batch(m.spinner.Tick, m.sendCmd(text))
}

func (m chatModel) sendCmd(text string) bubbletea.Cmd {
	ctx, client := m.ctx, m.client
	if m.emotionMode {
		return func() bubbletea.Msg {
			content, err := client.EmotionChat(ctx, text)
			return replyMsg{content: content, err: err}
		}
	}

	history := make([]llm.Message, len(m.history))
	copy(history, m.history)
	return func() bubbletea.Msg {
		content, err := client.Chat(ctx, history)
		return replyMsg{content: content, err: err}
	}
}

func (m chatModel) handleReply(msg replyMsg) (bubbletea.Model, bubbletea.Cmd) {
	m.waiting = false

	if msg.err != nil {
		// Drop the failed turn from what goes upstream so it can be retried.
		if n := len(m.history); n > 0 && m.history[n-1].Role == llm.RoleUser {
			m.history = m.history[:n-1]
		}
		m.entries = append(m.entries, entry{role: llm.RoleAssistant, content: msg.err.Error(), failed: true})
		m.refresh()
		return m, nil
	}

	shown := msg.content
	if strings.TrimSpace(shown) == "" {
		shown = noContent
	}
	m.entries = append(m.entries, entry{role: llm.RoleAssistant, content: shown})
	m.history = append(m.history, llm.NewTextMessage(llm.RoleAssistant, msg.content))
	m.refresh()
	return m, nil
}

func (m *chatModel) refresh() {
	var b strings.Builder
	for i := range m.entries {
		if m.entries[i].rendered == "" {
			m.entries[i].rendered = m.renderEntry(m.entries[i])
		}
		b.WriteString(m.entries[i].rendered)
		b.WriteString("\n")
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

func (m chatModel) renderEntry(e entry) string {
	switch {
	case e.role == llm.RoleUser:
		return userLabelStyle.Render("you> ") + e.content + "\n"
	case e.failed:
		return fmt.Sprintf("%s %s\n", cliui.FailMark, cliui.ErrorStyle.Render(e.content))
	}

	body, err := cliui.RenderMarkdownWidth(e.content, m.width-4)
	if err != nil {
		body = e.content + "\n"
	}
	return asstLabelStyle.Render("assistant>") + "\n" + body
}

func (m chatModel) View() string {
	var b strings.Builder

	mode := "chat"
	if m.emotionMode {
		mode = "emotion chat"
	}
	b.WriteString(chatTitleStyle.Render("emorelay") + " " + chatMutedStyle.Render(mode+" · "+m.label))
	b.WriteString("\n\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n\n")

	if m.waiting {
		b.WriteString(m.spinner.View() + " " + chatMutedStyle.Render("waiting for reply..."))
	} else {
		b.WriteString(m.badge())
	}
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	return b.String()
}

// badge tags the text being typed with the local classifier.
func (m chatModel) badge() string {
	result, ok := m.classifier.Classify(m.input.Value())
	if !ok {
		return chatMutedStyle.Render("pgup/pgdn scroll · ctrl+c quit")
	}
	return cliui.EmotionBadge(result)
}
