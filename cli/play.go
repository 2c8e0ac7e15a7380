package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"adventure_shop/prompts"
	"adventure_shop/relay"
	"adventure_shop/session"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newPlayCommand() *cobra.Command {
	var relayURL string
	cmd := &cobra.Command{
		Use:   "play [theme]",
		Short: "Play an adventure in the terminal against a running relay",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if relayURL == "" {
				relayURL = cfg.RelayEndpoint()
			}
			theme := prompts.Catalog[0]
			if len(args) == 1 {
				theme = args[0]
			}
			ctrl := session.NewController(relay.NewClient(relayURL, nil), cfg.SessionOptions())
			return play(cmd.Context(), ctrl, theme, os.Stdin, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&relayURL, "relay-url", "", "relay endpoint (overrides RELAY_URL and ADDR)")
	return cmd
}

// play runs the read-eval-print loop until EOF or "quit".
// Failed calls are not fatal; their message is printed with the transcript.
func play(ctx context.Context, ctrl *session.Controller, theme string, in io.Reader, out io.Writer) error {
	s := ctrl.NewSession(theme)
	p := &transcriptPrinter{out: out}

	fmt.Fprintln(out, "Generating opening scene...")
	if err := ctrl.Start(ctx, s, theme); err != nil {
		log.Debug().Err(err).Msg("opening scene failed")
	}
	p.print(s.View())

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		input := scanner.Text()
		if strings.EqualFold(strings.TrimSpace(input), "quit") {
			break
		}
		if err := ctrl.Submit(ctx, s, input); err != nil {
			log.Debug().Err(err).Msg("turn failed")
		}
		p.print(s.View())
	}
	return scanner.Err()
}

// transcriptPrinter prints only the bot turns and errors not shown yet.
type transcriptPrinter struct {
	out     io.Writer
	printed int
}

func (p *transcriptPrinter) print(v session.View) {
	if p.printed > len(v.Turns) {
		p.printed = 0
	}
	for _, turn := range v.Turns[p.printed:] {
		if !turn.IsBot {
			continue
		}
		fmt.Fprintln(p.out, "--------------------------------------------------")
		fmt.Fprintln(p.out, turn.Text)
	}
	p.printed = len(v.Turns)
	if v.Error != "" {
		fmt.Fprintln(p.out, "!", v.Error)
	}
	fmt.Fprintln(p.out, "--------------------------------------------------")
}
