package cmd

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"paidfor/internal/models"
	"paidfor/internal/parser"
)

type classifyOutput struct {
	Outcome     string                    `json:"outcome"`
	Transaction *models.ParsedTransaction `json:"transaction"`
}

func newClassifyCmd(a *app) *cobra.Command {
	var msg models.RawMessage

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify a single SMS and print the result as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if msg.Sender == "" || msg.Body == "" {
				return errors.New("--sender and --body are required")
			}
			if msg.ReceivedAt == 0 {
				msg.ReceivedAt = time.Now().UnixMilli()
			}

			tx, outcome := parser.Evaluate(msg)
			out := classifyOutput{Outcome: outcome.String()}
			if outcome == parser.OutcomeTransaction {
				out.Transaction = &tx
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	cmd.Flags().StringVar(&msg.Sender, "sender", "", "Sender address (e.g., 'VM-HDFCBK')")
	cmd.Flags().StringVar(&msg.Body, "body", "", "Message text")
	cmd.Flags().Int64Var(&msg.ReceivedAt, "received-at", 0, "Receive time in ms since epoch (default: now)")

	return cmd
}
