package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

type styles struct {
	sidebar     lipgloss.Style
	statusDot   lipgloss.Style
	muted       lipgloss.Style
	title       lipgloss.Style
	accent      lipgloss.Style
	sessionItem lipgloss.Style
	composer    lipgloss.Style
	send        lipgloss.Style
	sendBusy    lipgloss.Style
	typing      lipgloss.Style
	status      lipgloss.Style
}

func newStyles() styles {
	return styles{
		sidebar: lipgloss.NewStyle().
			Width(sidebarWidth-1).
			Padding(0, 1).
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(lipgloss.Color("236")),
		statusDot:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		muted:       lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")),
		accent:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		sessionItem: lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		composer: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1),
		send:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		sendBusy: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		typing:   lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Padding(0, 1),
		status:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true),
	}
}

func (m Model) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	main := lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		m.viewport.View(),
		m.composerView(),
		m.styles.status.Render(m.status),
	)
	if m.width < sidebarBreak {
		return main
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.sidebarView(), main)
}

func (m Model) headerView() string {
	hello := m.styles.title.Render("Hello, ") + m.styles.accent.Render(m.cfg.UserName)
	return lipgloss.NewStyle().Padding(1, 2, 0, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, hello, m.styles.muted.Render("What can I help you with?")),
	)
}

func (m Model) sidebarView() string {
	lines := []string{
		m.styles.statusDot.Render("●") + " " + m.styles.muted.Render(m.cfg.ModelLabel),
		"",
		m.styles.title.Render("Sessions"),
	}

	sessions := m.snapshot.Sessions
	if len(sessions) == 0 {
		lines = append(lines, m.styles.muted.Render("No sessions yet"))
	} else {
		// newest sessions stay visible when the list outgrows the screen
		room := m.height - len(lines)
		if room > 0 && len(sessions) > room {
			sessions = sessions[len(sessions)-room:]
		}
		itemWidth := sidebarWidth - 4
		for _, s := range sessions {
			title := strings.Join(strings.Fields(s.Question), " ")
			lines = append(lines, m.styles.sessionItem.Render(runewidth.Truncate(title, itemWidth, "…")))
		}
	}

	return m.styles.sidebar.Height(m.height).Render(strings.Join(lines, "\n"))
}

func (m Model) composerView() string {
	send := m.styles.send.Render("Send")
	if m.snapshot.Pending {
		send = m.styles.sendBusy.Render("Send")
	}
	return m.styles.composer.Width(m.mainWidth() - 2).Render(m.textinput.View() + "  " + send)
}
