// Package render turns conversation messages into terminal output.
//
// Questions become right-aligned bubbles. Answers become a card with an
// "Answer" header; top-level fenced code blocks inside the answer get their
// own sub-card with a language label, chroma highlighting and a numbered
// copy hint matching CodeBlocks.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"flashchat/flashchat/types"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const (
	minWidth       = 24
	bubbleFraction = 0.7
	codeStyle      = "onedark"
)

type Options struct {
	// Width is the total columns available to one message.
	Width int
	// Style is a glamour standard style name; empty means "dark".
	Style string
	// Formatter is a chroma formatter name; empty means "terminal256".
	Formatter string
}

type Renderer struct {
	opts     Options
	question *glamour.TermRenderer
	answer   *glamour.TermRenderer
	styles   styles
}

// New builds a renderer for the given width. Width changes need a new
// Renderer; nothing else is kept between calls.
func New(opts Options) (*Renderer, error) {
	if opts.Width < minWidth {
		opts.Width = minWidth
	}
	if opts.Style == "" {
		opts.Style = "dark"
	}
	if opts.Formatter == "" {
		opts.Formatter = "terminal256"
	}

	question, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(opts.Style),
		glamour.WithWordWrap(bubbleWidth(opts.Width)-4),
	)
	if err != nil {
		return nil, fmt.Errorf("question renderer: %w", err)
	}
	answer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(opts.Style),
		glamour.WithWordWrap(opts.Width-4),
	)
	if err != nil {
		return nil, fmt.Errorf("answer renderer: %w", err)
	}
	return &Renderer{
		opts:     opts,
		question: question,
		answer:   answer,
		styles:   newStyles(),
	}, nil
}

func (r *Renderer) Width() int { return r.opts.Width }

func (r *Renderer) Render(msg types.Message) (string, error) {
	switch msg.Kind {
	case types.KindQuestion:
		return r.renderQuestion(msg.Text)
	case types.KindAnswer:
		return r.renderAnswer(msg.Text)
	}
	return "", fmt.Errorf("render: unknown message kind %s", msg.Kind)
}

func (r *Renderer) renderQuestion(text string) (string, error) {
	body, err := r.question.Render(text)
	if err != nil {
		return "", fmt.Errorf("render question: %w", err)
	}
	bubble := r.styles.bubble.
		MaxWidth(bubbleWidth(r.opts.Width)).
		Render(trimBlock(body))
	return lipgloss.PlaceHorizontal(r.opts.Width, lipgloss.Right, bubble), nil
}

func (r *Renderer) renderAnswer(text string) (string, error) {
	inner := r.opts.Width - 2
	parts := []string{r.styles.cardHeader.Width(inner).Render("Answer")}

	codeIndex := 0
	for _, seg := range split(text) {
		if seg.code == nil {
			out, err := r.answer.Render(seg.prose)
			if err != nil {
				return "", fmt.Errorf("render answer: %w", err)
			}
			parts = append(parts, trimBlock(out))
			continue
		}
		codeIndex++
		parts = append(parts, r.codeCard(codeIndex, *seg.code, inner-2))
	}

	return r.styles.card.Width(inner).Render(lipgloss.JoinVertical(lipgloss.Left, parts...)), nil
}

func (r *Renderer) codeCard(index int, block CodeBlock, width int) string {
	label := "Code"
	if block.Language != "" {
		label += " · " + block.Language
	}
	hint := fmt.Sprintf("[%d] copy", index)
	gap := width - 2 - lipgloss.Width(label) - lipgloss.Width(hint)
	if gap < 1 {
		gap = 1
	}
	header := r.styles.codeHeader.Width(width).Render(
		r.styles.codeLabel.Render(label) + strings.Repeat(" ", gap) + r.styles.copyHint.Render(hint),
	)

	code := block.Code
	var buf bytes.Buffer
	if err := quick.Highlight(&buf, block.Code, block.Language, r.opts.Formatter, codeStyle); err == nil {
		code = strings.TrimRight(buf.String(), "\n")
	}
	body := r.styles.codeBody.Width(width).Render(code)

	return r.styles.codeCard.Render(lipgloss.JoinVertical(lipgloss.Left, header, body))
}

func bubbleWidth(total int) int {
	return int(float64(total) * bubbleFraction)
}

// trimBlock drops the blank lines glamour puts around a document.
func trimBlock(s string) string {
	return strings.Trim(s, "\n")
}
