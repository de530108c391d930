package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"paidfor/internal/logging"
	"paidfor/internal/models"
	"paidfor/internal/parser"
	"paidfor/internal/writer"
)

func newParseCmd(a *app) *cobra.Command {
	var (
		outputDir  string
		senderName string
		startDate  string
		save       bool
	)

	cmd := &cobra.Command{
		Use:   "parse [xml-file]",
		Short: "Extract bank debits from an SMS backup",
		Long:  `Classifies every message in an SMS Backup & Restore XML file and writes the debits to a CSV file.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parser.ParseStartDate(startDate)
			if err != nil {
				return err
			}

			p := parser.New(a.logger)
			parsed, err := p.ParseFile(args[0], parser.Filter{Sender: senderName, From: from})
			if err != nil {
				return fmt.Errorf("failed to parse SMS backup: %w", err)
			}

			c, err := a.categorizer()
			if err != nil {
				return err
			}

			txs := make([]models.Transaction, 0, len(parsed))
			for _, pt := range parsed {
				tx := models.NewTransaction("", pt)
				tx.Category = c.Categorize(pt.Merchant, pt.RawText)
				txs = append(txs, tx)
			}

			if save {
				st, err := a.openStore()
				if err != nil {
					return err
				}
				for i, tx := range txs {
					if txs[i], err = st.Save(cmd.Context(), tx); err != nil {
						return fmt.Errorf("failed to save transaction: %w", err)
					}
				}
				a.logger.Info("Saved transactions",
					logging.F(logging.FieldCount, len(txs)),
					logging.F(logging.FieldFile, st.Path()))
			}

			w := writer.New(outputDir, a.cfg.Delimiter())
			filename, err := w.Write("transactions", txs)
			if err != nil {
				return fmt.Errorf("failed to write transactions: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s with %d transactions.\n", filename, len(txs))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", ".", "Output directory for the CSV file (created if not exists)")
	cmd.Flags().StringVarP(&senderName, "sender", "s", "", "Only classify messages from this exact sender (e.g., 'HDFCBK')")
	cmd.Flags().StringVarP(&startDate, "from", "f", "", "Only classify messages from this date onwards (format: YYYY-MM-DD)")
	cmd.Flags().BoolVar(&save, "save", false, "Also add the debits to the transaction store")

	return cmd
}
