package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zulandar/yardplan/internal/repair"
)

func newRepairCmd() *cobra.Command {
	var (
		configPath string
		org        string
	)

	cmd := &cobra.Command{
		Use:   "repair",
		Short: "Recompute every derived date from the leaves up",
		Long: `Refreshes every product, then every project, deepest first. Heals dates left
stale by an interrupted cascade. Without --org all organizations are repaired.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepair(cmd, configPath, org)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVarP(&org, "org", "o", "", "organization id or slug (default: all)")
	return cmd
}

func runRepair(cmd *cobra.Command, configPath, org string) error {
	s, err := openSession(cmd, configPath, org)
	if err != nil {
		return err
	}

	report, err := repair.Run(cmd.Context(), s.db, s.eng, s.orgID, s.logger)
	fmt.Fprintf(cmd.OutOrStdout(), "Checked %d nodes, updated %d, failed %d\n",
		report.Checked, report.Updated, report.Failed)
	return err
}
