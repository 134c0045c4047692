// Command-line entrypoint for the flashchat terminal client
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"flashchat/flashchat/config"
	"flashchat/flashchat/controllers"
	"flashchat/flashchat/render"
	"flashchat/flashchat/services/llm"
	"flashchat/flashchat/tui"
	"flashchat/flashchat/utils/color"
	"flashchat/flashchat/utils/logging"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const plainWidth = 80

func main() {
	args := os.Args[1:]
	if len(args) < 1 || args[0] != "chat" {
		usage()
		os.Exit(1)
	}
	plain := false
	for _, a := range args[1:] {
		switch a {
		case "--plain":
			plain = true
		default:
			usage()
			os.Exit(1)
		}
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, color.ColorError(err.Error()))
		os.Exit(1)
	}
	if err := logging.InitLogger(cfg.LogDir); err != nil {
		fmt.Fprintln(os.Stderr, color.ColorError(err.Error()))
		os.Exit(1)
	}
	defer logging.Sync()

	runID := fmt.Sprintf("cli-%s", uuid.New().String()[:8])
	ctx := context.WithValue(context.Background(), logging.RunIDKey, runID)
	if cfg.URL == "" {
		logging.AppLogger.Warn("no endpoint configured, every question will fail",
			zap.String("run_id", runID))
	}

	ctrl := controllers.NewConversationController(llm.NewGeminiClient(cfg.URL, cfg.APIKey))
	logging.AppLogger.Info("flashchat client started",
		zap.String("run_id", runID), zap.Bool("plain", plain))

	if plain {
		if err := runPlain(ctx, ctrl, cfg, os.Stdin, os.Stdout); err != nil {
			logging.ErrorLogger.Error("plain client failed", zap.Error(err))
			os.Exit(1)
		}
		return
	}

	p := tea.NewProgram(tui.NewModel(ctx, ctrl, cfg, tui.Options{}), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logging.ErrorLogger.Error("terminal client failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, color.ColorError(err.Error()))
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("flashchat usage:")
	fmt.Println("  flashchat chat           # full-screen chat")
	fmt.Println("  flashchat chat --plain   # line-by-line chat for simple terminals")
}

// runPlain is a line REPL over the same controller: each line is one
// question, and the answer card is printed once it arrives.
func runPlain(ctx context.Context, ctrl *controllers.ConversationController, cfg config.Config, in io.Reader, out io.Writer) error {
	r, err := render.New(render.Options{Width: plainWidth})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nHello, %s\n", color.ColorAccent(cfg.UserName))
	fmt.Fprintln(out, color.ColorMuted("What can I help you with?  ("+cfg.ModelLabel+", type 'exit' to quit)"))
	fmt.Fprintln(out)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, color.ColorPrompt("you> "))
		if !scanner.Scan() {
			break // EOF or error
		}
		line := scanner.Text()
		switch strings.TrimSpace(line) {
		case "exit", "quit":
			fmt.Fprintln(out, "Goodbye!")
			return nil
		case "":
			continue
		}

		ctrl.SetDraft(line)
		done, ok := ctrl.KeyPress(ctx, controllers.KeyEnter)
		if !ok {
			continue
		}
		fmt.Fprintln(out, color.ColorPending("…thinking"))
		<-done

		msgs := ctrl.Messages()
		answer := msgs[len(msgs)-1]
		rendered, err := r.Render(answer)
		if err != nil {
			rendered = answer.Text
		}
		fmt.Fprintln(out, rendered)
		fmt.Fprintln(out, color.ColorInfo(fmt.Sprintf("%d session(s)", len(ctrl.Sessions()))))
	}
	return scanner.Err()
}
