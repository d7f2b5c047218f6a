package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func huntCmd() *cobra.Command {
	var (
		targets int
		asJSON  bool
	)

	c := &cobra.Command{
		Use:   "hunt",
		Short: "Run a single hunt and print its summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if targets > 0 {
				cfg.Hunt.TargetsPerRun = targets
			}
			log := newLogger(cfg)

			a, err := newApp(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer a.close()

			summary, err := a.engine.RunHunt(cmd.Context())
			if err != nil {
				return fmt.Errorf("running hunt: %w", err)
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), summary)
			}
			return printSummary(cmd.OutOrStdout(), &summary)
		},
	}
	c.Flags().IntVar(&targets, "targets", 0, "override hunt.targets_per_run")
	c.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	return c
}
