package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var auditTokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "List currently active tokens",
	Long: `Retrieves the list of currently active (non-expired) tokens issued by the
server: who requested them, for which repository, and when they expire.
Only metadata is stored server-side, never the token values themselves.

Requires an admin session (see 'tokengate login').`,
	Example: `  tokengate audit tokens`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := getClient()
		if err != nil {
			return err
		}

		log.Debug().Msg("Fetching active tokens...")
		tokens, correlation, err := cli.ListActiveTokens(cmd.Context())
		if err != nil {
			return logError(err, correlation, "fetching active tokens")
		}

		if len(tokens) == 0 {
			log.Info().Msg("No active tokens found")
			return nil
		}
		log.Debug().Msgf("Retrieved %d active token(s)", len(tokens))

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{
			"Issued", "Expires", "Subject", "Repository", "Permissions", "Fingerprint",
		})

		for _, tok := range tokens {
			timeLeft := time.Until(tok.ExpiresAt).Round(time.Minute)

			t.AppendRow(table.Row{
				tok.IssuedAt.Format(time.RFC3339),
				fmt.Sprintf("%s (%s)", tok.ExpiresAt.Format("15:04"), faint(timeLeft.String())),
				truncate(tok.Subject, 45),
				tok.Repository,
				fmt.Sprintf("(%d scopes)", len(tok.Permissions)),
				truncate(tok.Fingerprint, 16),
			})
		}

		applyTableFormat(t)
		t.Render()
		return nil
	},
}

func init() {
	auditCmd.AddCommand(auditTokensCmd)
}
