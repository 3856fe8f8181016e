package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"claudechat/internal/session"
	"claudechat/pkg/chattypes"
)

var (
	promptStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("99"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// runREPL drives the interactive terminal loop. The loop is a thin
// presentation shell: all conversation state lives in the session.
func runREPL(sess *session.Session) error {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	cfg := sess.Config()
	fmt.Println(assistantStyle.Render("claudechat") + dimStyle.Render(" · "+cfg.ModelID))
	fmt.Println(dimStyle.Render("Type 'quit' to exit, 'clear' to clear history, 'config' to show settings."))

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print(promptStyle.Render("you> "))
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}

		input := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(input) {
		case "quit", "exit":
			fmt.Println(dimStyle.Render("Goodbye!"))
			return nil
		case "clear":
			sess.ClearHistory()
			fmt.Println(dimStyle.Render("Chat history cleared."))
			continue
		case "config":
			printConfig(sess)
			continue
		case "history":
			printHistory(sess)
			continue
		case "":
			continue
		}

		result, err := sess.SendWithMetadata(context.Background(), input)
		if err != nil {
			fmt.Println(errorStyle.Render("error: " + err.Error()))
			continue
		}

		rendered, err := renderer.Render(result.Response)
		if err != nil {
			// Fall back to plain text if rendering fails.
			rendered = result.Response + "\n"
		}
		fmt.Print(rendered)
		fmt.Println(dimStyle.Render(fmt.Sprintf("[%s · %d attempt(s) · %s]",
			result.ModelID, result.Attempts, result.Latency.Round(10*time.Millisecond))))
	}
}

func printConfig(sess *session.Session) {
	cfg := sess.Config()
	fmt.Println(dimStyle.Render(fmt.Sprintf(
		"model=%s temperature=%g max_tokens=%d history_window=%d",
		cfg.ModelID, cfg.Temperature, cfg.MaxTokens, cfg.HistoryWindow)))
	if cfg.SystemPrompt != "" {
		fmt.Println(dimStyle.Render("system: " + cfg.SystemPrompt))
	}
}

func printHistory(sess *session.Session) {
	messages := sess.HistorySnapshot()
	if len(messages) == 0 {
		fmt.Println(dimStyle.Render("(no messages)"))
		return
	}
	for _, msg := range messages {
		role := string(msg.Role)
		if msg.Role == chattypes.RoleUser {
			role = promptStyle.Render(role)
		} else {
			role = assistantStyle.Render(role)
		}
		fmt.Printf("%3d %s: %s\n", msg.Sequence, role, msg.Content)
	}
}
