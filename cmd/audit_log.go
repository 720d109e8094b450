package cmd

import (
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tokengate/tokengate/pkg/client"
)

var (
	auditLogLimit         int
	auditLogCorrelationID string
	auditLogSubject       string
	auditLogFingerprint   string
)

// auditLogCmd represents the audit log command
var auditLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Retrieve and display authorization decision entries",
	Long: `Retrieves the audit trail of authorization decisions from the server.
Requires an admin session (see 'tokengate login').`,
	Example: `  tokengate audit log -n 50
  tokengate audit log --subject "repo:octo-org/octo-repo:ref:refs/heads/main"
  tokengate audit log --fingerprint "A1B2..."`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := getClient()
		if err != nil {
			return err
		}

		log.Debug().Msg("Fetching audit log...")
		entries, correlation, err := cli.ListAudits(cmd.Context(), client.ListAuditsOpts{
			Limit:         uint(auditLogLimit),
			CorrelationID: auditLogCorrelationID,
			Subject:       auditLogSubject,
			Fingerprint:   auditLogFingerprint,
		})
		if err != nil {
			return logError(err, correlation, "fetching audit log")
		}

		if len(entries) == 0 {
			log.Info().Msg("No audit entries found")
			return nil
		}
		log.Debug().Msgf("Retrieved %d audit entries", len(entries))

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{
			"Time", "Subject", "Target", "Granted", "Error", "Fingerprint",
		})

		for _, e := range entries {
			status := redCross
			if e.Granted {
				status = greenCheck
			}

			t.AppendRow(table.Row{
				e.Time.Format(time.RFC3339),
				truncate(e.Subject, 45),
				e.TargetRepository,
				status,
				e.Error,
				truncate(e.TokenFingerprint, 16),
			})
		}

		applyTableFormat(t)
		t.Render()
		return nil
	},
}

func init() {
	auditCmd.AddCommand(auditLogCmd)

	auditLogCmd.Flags().IntVarP(&auditLogLimit, "limit", "n", 25, "Number of audit entries to retrieve")
	auditLogCmd.Flags().StringVar(&auditLogCorrelationID, "correlation-id", "", "Filter by correlation ID")
	auditLogCmd.Flags().StringVar(&auditLogSubject, "subject", "", "Filter by subject")
	auditLogCmd.Flags().StringVar(&auditLogFingerprint, "fingerprint", "", "Filter by token fingerprint")
}
