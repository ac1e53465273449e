package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"kbassistant/client"
	"kbassistant/config"

	"github.com/spf13/cobra"
)

var serverURL string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the knowledge assistant from the terminal",
	Long: `Ask a question against a running kbassistant server.

With a question argument, prints the answer and exits.
Without one, starts an interactive chat. In the chat:
  /quick     list the quick questions
  /1 .. /5   ask a quick question
  /history   print the conversation so far
  /exit      leave`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		url := cfg.ServerURL
		if serverURL != "" {
			url = serverURL
		}
		session := client.NewSession(client.NewHTTPAsker(url))

		if len(args) > 0 {
			reply, ok := session.Submit(cmd.Context(), strings.Join(args, " "))
			if !ok {
				return fmt.Errorf("question is empty")
			}
			fmt.Fprintln(cmd.OutOrStdout(), reply.Content)
			return nil
		}

		return runChat(cmd.Context(), session, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	askCmd.Flags().StringVar(&serverURL, "server", "", "server URL (default from server_url)")
	rootCmd.AddCommand(askCmd)
}

// runChat reads questions line by line until EOF or /exit
func runChat(ctx context.Context, session *client.Session, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "Ask questions about company policies and procedures. Type /quick for suggestions, /exit to leave.")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "/exit" || line == "/quit":
			return nil
		case line == "/quick":
			for i, q := range client.QuickQuestions {
				fmt.Fprintf(out, "  /%d  %s\n", i+1, q)
			}
			continue
		case line == "/history":
			for _, m := range session.Messages() {
				fmt.Fprintf(out, "[%s] %s\n", m.Role, m.Content)
			}
			continue
		case strings.HasPrefix(line, "/"):
			n, err := strconv.Atoi(line[1:])
			if err != nil || n < 1 || n > len(client.QuickQuestions) {
				fmt.Fprintf(out, "Unknown command %q\n", line)
				continue
			}
			line = client.QuickQuestions[n-1]
			fmt.Fprintln(out, line)
		}

		if reply, ok := session.Submit(ctx, line); ok {
			fmt.Fprintln(out, reply.Content)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}
