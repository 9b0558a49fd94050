package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/zarabot/crates/internal/handlers"
	"github.com/zarabot/crates/internal/session"
)

const pollInterval = 500 * time.Millisecond

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config       *ConsoleConfig
	client       *http.Client
	game         *handlers.GameResponse
	chatViewport viewport.Model
	metaViewport viewport.Model
	ready        bool
	width        int
	height       int
	err          error

	// pending is the action prompt currently awaiting the player.
	pending        *session.ActionPrompt
	selectedOption int
	acting         bool

	// Quit confirmation state
	showQuitModal bool

	// Progress bar state
	progressTick int
}

type gameMsg struct {
	game *handlers.GameResponse
	err  error
}

type actionSentMsg struct {
	err error
}

type pollTickMsg struct{}

type progressTickMsg struct{}

var (
	chatPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	narratorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	contextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")) // grey

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	optionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	selectedOptionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)

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

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey
)

var statusCaser = cases.Title(language.English)

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client, game *handlers.GameResponse) ConsoleUI {
	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		config:       cfg,
		client:       client,
		game:         game,
		chatViewport: chatVp,
		metaViewport: metaVp,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return tea.Batch(m.refreshGame(), pollTick(), progressTick())
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var vpCmd tea.Cmd

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.chatViewport, vpCmd = m.chatViewport.Update(msg)
		return m, vpCmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		chatWidth := int(float64(m.width)*0.75) - 4
		metaWidth := m.width - chatWidth - 6

		m.chatViewport.Width = chatWidth - 2
		m.chatViewport.Height = m.height - 5
		m.metaViewport.Width = metaWidth - 2
		m.metaViewport.Height = m.height - 4

		m.ready = true
		m.writeChatContent()
		m.metaViewport.SetContent(m.writeMetadata())

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil

		case tea.KeyUp:
			if m.pending != nil && m.selectedOption > 0 {
				m.selectedOption--
				m.writeChatContent()
			}

		case tea.KeyDown:
			if m.pending != nil && m.selectedOption < len(m.pending.Options)-1 {
				m.selectedOption++
				m.writeChatContent()
			}

		case tea.KeyEnter:
			if m.pending != nil && !m.acting && len(m.pending.Options) > 0 {
				m.acting = true
				m.err = nil
				option := m.pending.Options[m.selectedOption]
				return m, m.sendAction(*m.pending, option)
			}
		}

	case gameMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.game = msg.game
			m.syncPendingPrompt()
		}
		m.writeChatContent()
		m.metaViewport.SetContent(m.writeMetadata())

	case actionSentMsg:
		m.acting = false
		if msg.err != nil {
			m.err = msg.err
			m.writeChatContent()
		}
		return m, m.refreshGame()

	case pollTickMsg:
		if m.game != nil && m.game.Done {
			return m, nil
		}
		return m, tea.Batch(m.refreshGame(), pollTick())

	case progressTickMsg:
		if m.game != nil && !m.game.Done && m.pending == nil {
			m.progressTick++
			m.writeChatContent()
			return m, progressTick()
		}
		return m, progressTick()
	}

	m.chatViewport, vpCmd = m.chatViewport.Update(msg)
	return m, vpCmd
}

// syncPendingPrompt finds the action prompt awaiting the player, if
// any. Resolved prompts disappear from the transcript when the bot
// rewrites their messages.
func (m *ConsoleUI) syncPendingPrompt() {
	var pending *session.ActionPrompt
	for i := range m.game.Messages {
		if action := m.game.Messages[i].Action; action != nil {
			pending = action
		}
	}

	if pending == nil {
		m.pending = nil
		return
	}
	if m.pending == nil || m.pending.Token != pending.Token {
		m.pending = pending
		m.selectedOption = 0
	}
}

func (m *ConsoleUI) writeChatContent() {
	chatWidth := m.chatViewport.Width - 6
	if chatWidth < 20 {
		chatWidth = 20
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("ZARA'S CRATES") + "\n\n")
	content.WriteString("Three crates. One choice. Choose wisely.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", chatWidth-6)) + "\n\n")

	if m.game != nil {
		for _, msg := range m.game.Messages {
			content.WriteString(narratorStyle.Render(wordwrap.String(msg.Text, chatWidth)) + "\n")
			if msg.Context != "" {
				content.WriteString(contextStyle.Render(wordwrap.String(msg.Context, chatWidth)) + "\n")
			}
			content.WriteString("\n")
		}
	}

	if m.pending != nil && !m.acting {
		for i, option := range m.pending.Options {
			if i == m.selectedOption {
				content.WriteString(selectedOptionStyle.Render(fmt.Sprintf("▶ %s", option.Label)))
			} else {
				content.WriteString(optionStyle.Render(fmt.Sprintf("  %s", option.Label)))
			}
			content.WriteString("\n")
		}
		content.WriteString("\n")
		content.WriteString(promptStyle.Render("Use ↑/↓ to navigate, Enter to select") + "\n")
	} else if m.game != nil && !m.game.Done {
		content.WriteString(m.renderProgressBar() + "\n")
	}

	if m.err != nil {
		content.WriteString("\n" + errorStyle.Render("Error: "+m.err.Error()) + "\n")
	}

	m.chatViewport.SetContent(content.String())
	m.chatViewport.GotoBottom()
}

func (m *ConsoleUI) writeMetadata() string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("GAME") + "\n\n")

	if m.game != nil {
		content.WriteString("Game ID:\n")
		content.WriteString(m.game.ID[:8] + "...\n\n")

		content.WriteString("Player:\n")
		content.WriteString(m.game.User + "\n\n")

		content.WriteString("Status:\n")
		status := strings.ReplaceAll(string(m.game.Status), "_", " ")
		content.WriteString(statusCaser.String(status) + "\n\n")

		if m.game.Cost > 0 {
			content.WriteString("Cost:\n")
			content.WriteString(fmt.Sprintf("%d gp\n\n", m.game.Cost))
		}
	}

	content.WriteString("Commands:\n")
	content.WriteString("• Ctrl+C: Quit\n")
	content.WriteString("• ↑/↓: Navigate\n")
	content.WriteString("• Enter: Select\n")

	return content.String()
}

func (m ConsoleUI) refreshGame() tea.Cmd {
	return func() tea.Msg {
		game, err := getGame(m.client, m.config.APIBaseURL, m.game.ID)
		return gameMsg{game, err}
	}
}

func (m ConsoleUI) sendAction(prompt session.ActionPrompt, option session.Option) tea.Cmd {
	return func() tea.Msg {
		err := sendAction(m.client, m.config.APIBaseURL, handlers.ActionRequest{
			Token: prompt.Token,
			Kind:  prompt.Kind,
			User:  m.config.User,
			Value: option.Value,
		})
		return actionSentMsg{err}
	}
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
				return m, nil
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
	content.WriteString(modalTitleStyle.Render("Quit Game?"))
	content.WriteString("\n\n")
	content.WriteString("Walk away from Zara's cabin?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	chatWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - chatWidth - 6

	chatPanel := chatPanelStyle.Width(chatWidth).Height(m.height - 2).Render(
		m.chatViewport.View(),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, chatPanel, metaPanel)
}

// renderProgressBar creates an animated progress bar for loading states
func (m ConsoleUI) renderProgressBar() string {
	usable := m.chatViewport.Width - 6
	if usable <= 0 {
		usable = 30 // fallback before sizing
	}

	if usable > 80 {
		usable = 80
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		if i < filled {
			bar.WriteString("█")
		} else if i == filled && frame%4 < 2 {
			bar.WriteString("▓") // Blinking effect at the progress point
		} else {
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

func pollTick() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg {
		return pollTickMsg{}
	})
}

// progressTick creates a command that sends a progress tick message
func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
