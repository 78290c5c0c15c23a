package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "yp",
		Short: "Yardplan: hierarchical project and product scheduling",
		Long: `Yardplan keeps the derived dates of projects and products consistent.
Every change to a task, value chain or leaf node is propagated up through its
ancestors, across the product and project hierarchies.`,
	}

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newDBCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newRepairCmd())
	cmd.AddCommand(newOrgCmd())
	cmd.AddCommand(newCustomerCmd())
	cmd.AddCommand(newProjectCmd())
	cmd.AddCommand(newTaskCmd())
	cmd.AddCommand(newProductCmd())
	cmd.AddCommand(newChainCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "yp %s (commit: %s, built: %s)\n", Version, Commit, Date)
		},
	}
}

func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(newRootCmd()))
}
