package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"paidfor/internal/models"
	"paidfor/internal/store"
	"paidfor/internal/utils"
	"paidfor/internal/writer"
)

func newHistoryCmd(a *app) *cobra.Command {
	var (
		query  string
		amount string
		asCSV  bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			amt := decimal.Zero
			if amount != "" {
				var err error
				if amt, err = decimal.NewFromString(strings.ReplaceAll(amount, ",", "")); err != nil {
					return fmt.Errorf("invalid amount %q: %w", amount, err)
				}
			}

			st, err := a.openStore()
			if err != nil {
				return err
			}
			txs, err := st.Search(cmd.Context(), query, amt)
			if err != nil {
				return err
			}

			if asCSV {
				return writer.New("", a.cfg.Delimiter()).WriteTo(cmd.OutOrStdout(), txs)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, tx := range txs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					tx.ID,
					time.UnixMilli(tx.Timestamp).Format("2006-01-02 15:04"),
					tx.Merchant,
					utils.FormatAmount(tx.Amount),
					tx.Category,
					tx.Note)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Match merchant, note or category")
	cmd.Flags().StringVar(&amount, "amount", "", "Match an exact amount")
	cmd.Flags().BoolVar(&asCSV, "csv", false, "Print CSV instead of a table")

	return cmd
}

func newNoteCmd(a *app) *cobra.Command {
	var (
		note     string
		category string
	)

	cmd := &cobra.Command{
		Use:   "note [id]",
		Short: "Attach a note and/or category to a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch store.Patch
			if cmd.Flags().Changed("note") {
				patch.Note = &note
			}
			if cmd.Flags().Changed("category") {
				cat, err := models.ParseCategory(category)
				if err != nil {
					return err
				}
				patch.Category = &cat
			}

			st, err := a.openStore()
			if err != nil {
				return err
			}
			tx, err := st.Update(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s: %s %s [%s] %s\n",
				tx.ID, tx.Merchant, utils.FormatAmount(tx.Amount), tx.Category, tx.Note)
			return nil
		},
	}

	cmd.Flags().StringVarP(&note, "note", "n", "", "Free-text note")
	cmd.Flags().StringVarP(&category, "category", "c", "", "One of Rent, Food, Travel, Loan, Office, Other")

	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Remove a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore()
			if err != nil {
				return err
			}
			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}
