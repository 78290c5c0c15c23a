package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zulandar/yardplan/internal/product"
)

func newChainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "chain",
		Aliases: []string{"value-chain"},
		Short:   "Value chain management commands",
	}

	cmd.AddCommand(newChainCreateCmd())
	cmd.AddCommand(newChainListCmd())
	cmd.AddCommand(newChainUpdateCmd())
	cmd.AddCommand(newChainDeleteCmd())
	return cmd
}

func newChainCreateCmd() *cobra.Command {
	var (
		configPath string
		org        string
		productID  string
		name       string
		dates      dateFlags
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a value chain under a product",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, configPath, org)
			if err != nil {
				return err
			}
			d, err := dates.dates()
			if err != nil {
				return err
			}
			v, err := product.CreateValueChain(cmd.Context(), s.db, s.eng, product.ValueChainOpts{
				OrganizationID: s.orgID,
				ProductID:      productID,
				Name:           name,
				Dates:          d,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created value chain %s in product %s\n", v.ID, v.ProductID)
			return nil
		},
	}

	addConfigFlag(cmd, &configPath)
	addOrgFlag(cmd, &org)
	cmd.Flags().StringVar(&productID, "product", "", "owning product ID (required)")
	cmd.Flags().StringVar(&name, "name", "", "value chain name (required)")
	dates.register(cmd)
	cmd.MarkFlagRequired("product")
	cmd.MarkFlagRequired("name")
	return cmd
}

func newChainListCmd() *cobra.Command {
	var (
		configPath string
		org        string
		productID  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the value chains of a product",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, configPath, org)
			if err != nil {
				return err
			}
			chains, err := product.ListValueChains(s.db, s.orgID, productID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(chains) == 0 {
				fmt.Fprintln(out, "No value chains found.")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tAVAILABLE\tSTART\tEND")
			for _, c := range chains {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					c.ID, c.Name, formatDate(c.AvailableDate), formatDate(c.StartDate), formatDate(c.EndDate))
			}
			return w.Flush()
		},
	}

	addConfigFlag(cmd, &configPath)
	addOrgFlag(cmd, &org)
	cmd.Flags().StringVar(&productID, "product", "", "product ID (required)")
	cmd.MarkFlagRequired("product")
	return cmd
}

func newChainUpdateCmd() *cobra.Command {
	var (
		configPath string
		org        string
		productID  string
		name       string
		dates      dateFlags
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a value chain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, configPath, org)
			if err != nil {
				return err
			}
			current, err := product.GetValueChain(s.db, s.orgID, args[0])
			if err != nil {
				return err
			}
			d, err := dates.overlay(cmd, current.Dates())
			if err != nil {
				return err
			}

			v, err := product.UpdateValueChain(cmd.Context(), s.db, s.eng, s.orgID, args[0], product.ValueChainUpdateOpts{
				Name:      optionalString(cmd, "name", name),
				ProductID: optionalString(cmd, "product", productID),
				Dates:     d,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated value chain %s (version %d)\n", v.ID, v.Version)
			return nil
		},
	}

	addConfigFlag(cmd, &configPath)
	addOrgFlag(cmd, &org)
	cmd.Flags().StringVar(&productID, "product", "", "move to product ID")
	cmd.Flags().StringVar(&name, "name", "", "new name")
	dates.register(cmd)
	return cmd
}

func newChainDeleteCmd() *cobra.Command {
	var (
		configPath string
		org        string
	)

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a value chain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, configPath, org)
			if err != nil {
				return err
			}
			if err := product.DeleteValueChain(cmd.Context(), s.db, s.eng, s.orgID, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted value chain %s\n", args[0])
			return nil
		},
	}

	addConfigFlag(cmd, &configPath)
	addOrgFlag(cmd, &org)
	return cmd
}
