package cmd

import (
	"github.com/spf13/cobra"

	"paidfor/internal/categorizer"
	"paidfor/internal/config"
	"paidfor/internal/logging"
	"paidfor/internal/store"
)

// app carries what every subcommand needs once configuration is loaded
type app struct {
	configFile string
	storePath  string
	envFile    string

	cfg    *config.Config
	logger logging.Logger
}

func (a *app) openStore() (*store.Store, error) {
	path := a.cfg.Store.Path
	if a.storePath != "" {
		path = a.storePath
	}
	return store.Open(path)
}

func (a *app) categorizer() (*categorizer.Categorizer, error) {
	return categorizer.FromFile(a.cfg.Categories.File)
}

// NewRootCmd builds the paidfor command tree
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "paidfor",
		Short: "Capture bank debit SMS and note what they were for",
		Long: `paidfor reads bank SMS notifications, keeps the genuine debits (amount and
merchant) and lets you attach a category and a note to each one.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv(a.envFile)

			cfg, err := config.Load(a.configFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = cfg.Logger()
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "Config file (default: config.yaml in $HOME/.paidfor, .paidfor or .)")
	root.PersistentFlags().StringVar(&a.storePath, "store", "", "Transaction store file (overrides store.path)")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "Environment file loaded before configuration")

	root.AddCommand(
		newParseCmd(a),
		newClassifyCmd(a),
		newHistoryCmd(a),
		newNoteCmd(a),
		newDeleteCmd(a),
		newServeCmd(a),
	)

	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
