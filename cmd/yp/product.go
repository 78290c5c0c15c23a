package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zulandar/yardplan/internal/product"
	"github.com/zulandar/yardplan/internal/schedule"
)

func newProductCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Product management commands",
	}

	cmd.AddCommand(newProductCreateCmd())
	cmd.AddCommand(newProductListCmd())
	cmd.AddCommand(newProductShowCmd())
	cmd.AddCommand(newProductUpdateCmd())
	cmd.AddCommand(newProductDeleteCmd())
	return cmd
}

func newProductCreateCmd() *cobra.Command {
	var (
		configPath  string
		org         string
		name        string
		description string
		parentID    string
		projectID   string
		deadline    string
		dates       dateFlags
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product",
		Long: `Creates a product. Use --parent for a subproduct or --project for a root
product contained in a project, not both.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, configPath, org)
			if err != nil {
				return err
			}
			d, err := dates.dates()
			if err != nil {
				return err
			}
			dl, err := schedule.ParseDate(deadline)
			if err != nil {
				return fmt.Errorf("--deadline: %w", err)
			}

			p, err := product.Create(cmd.Context(), s.db, s.eng, product.CreateOpts{
				OrganizationID: s.orgID,
				ParentID:       parentID,
				ProjectID:      projectID,
				Name:           name,
				Description:    description,
				Dates:          d,
				Deadline:       dl,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created product %s\n", p.ID)
			return nil
		},
	}

	addConfigFlag(cmd, &configPath)
	addOrgFlag(cmd, &org)
	cmd.Flags().StringVar(&name, "name", "", "product name (required)")
	cmd.Flags().StringVar(&description, "description", "", "description")
	cmd.Flags().StringVar(&parentID, "parent", "", "parent product ID")
	cmd.Flags().StringVar(&projectID, "project", "", "containing project ID")
	cmd.Flags().StringVar(&deadline, "deadline", "", "deadline (YYYY-MM-DD)")
	dates.register(cmd)
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagsMutuallyExclusive("parent", "project")
	return cmd
}

func newProductListCmd() *cobra.Command {
	var (
		configPath string
		org        string
		filters    product.ListFilters
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, configPath, org)
			if err != nil {
				return err
			}
			products, err := product.List(s.db, s.orgID, filters)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(products) == 0 {
				fmt.Fprintln(out, "No products found.")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPARENT\tPROJECT\tAVAILABLE\tSTART\tEND")
			for _, p := range products {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					p.ID, p.Name, deref(p.ParentID), deref(p.ProjectID),
					formatDate(p.AvailableDate), formatDate(p.StartDate), formatDate(p.EndDate))
			}
			return w.Flush()
		},
	}

	addConfigFlag(cmd, &configPath)
	addOrgFlag(cmd, &org)
	cmd.Flags().StringVar(&filters.ParentID, "parent", "", "filter by parent product")
	cmd.Flags().StringVar(&filters.ProjectID, "project", "", "filter by containing project")
	cmd.Flags().BoolVar(&filters.RootsOnly, "roots", false, "only products without a parent product")
	return cmd
}

func newProductShowCmd() *cobra.Command {
	var (
		configPath string
		org        string
	)

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a product and its value chains",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, configPath, org)
			if err != nil {
				return err
			}
			p, err := product.Get(s.db, s.orgID, args[0])
			if err != nil {
				return err
			}
			chains, err := product.ListValueChains(s.db, s.orgID, p.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:          %s\n", p.ID)
			fmt.Fprintf(out, "Name:        %s\n", p.Name)
			fmt.Fprintf(out, "Parent:      %s\n", deref(p.ParentID))
			fmt.Fprintf(out, "Project:     %s\n", deref(p.ProjectID))
			fmt.Fprintf(out, "Available:   %s\n", formatDate(p.AvailableDate))
			fmt.Fprintf(out, "Start:       %s\n", formatDate(p.StartDate))
			fmt.Fprintf(out, "End:         %s\n", formatDate(p.EndDate))
			fmt.Fprintf(out, "Deadline:    %s\n", formatDate(p.Deadline))
			fmt.Fprintf(out, "Version:     %d\n", p.Version)
			if p.Description != "" {
				fmt.Fprintf(out, "\n%s\n", p.Description)
			}
			if len(chains) > 0 {
				fmt.Fprintf(out, "\nValue chains (%d):\n", len(chains))
				for _, c := range chains {
					fmt.Fprintf(out, "  %s  %s  %s..%s\n", c.ID, c.Name,
						formatDate(c.StartDate), formatDate(c.EndDate))
				}
			}
			return nil
		},
	}

	addConfigFlag(cmd, &configPath)
	addOrgFlag(cmd, &org)
	return cmd
}

func newProductUpdateCmd() *cobra.Command {
	var (
		configPath  string
		org         string
		name        string
		description string
		parentID    string
		projectID   string
		deadline    string
		dates       dateFlags
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a product",
		Long: `Updates the given fields of a product. --parent makes it a subproduct and
--project makes it a root product of that project; an empty value clears the link.
Date flags only apply to products without children.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, configPath, org)
			if err != nil {
				return err
			}
			current, err := product.Get(s.db, s.orgID, args[0])
			if err != nil {
				return err
			}
			d, err := dates.overlay(cmd, current.Dates())
			if err != nil {
				return err
			}
			dl, clearDeadline, err := deadlineFlag(cmd, deadline)
			if err != nil {
				return err
			}

			p, err := product.Update(cmd.Context(), s.db, s.eng, s.orgID, args[0], product.UpdateOpts{
				Name:          optionalString(cmd, "name", name),
				Description:   optionalString(cmd, "description", description),
				ParentID:      optionalString(cmd, "parent", parentID),
				ProjectID:     optionalString(cmd, "project", projectID),
				Deadline:      dl,
				ClearDeadline: clearDeadline,
				Dates:         d,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated product %s (version %d)\n", p.ID, p.Version)
			return nil
		},
	}

	addConfigFlag(cmd, &configPath)
	addOrgFlag(cmd, &org)
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&parentID, "parent", "", "new parent product ID")
	cmd.Flags().StringVar(&projectID, "project", "", "new containing project ID")
	cmd.Flags().StringVar(&deadline, "deadline", "", "new deadline (empty to clear)")
	dates.register(cmd)
	cmd.MarkFlagsMutuallyExclusive("parent", "project")
	return cmd
}

func newProductDeleteCmd() *cobra.Command {
	var (
		configPath string
		org        string
	)

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product without children",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, configPath, org)
			if err != nil {
				return err
			}
			if err := product.Delete(cmd.Context(), s.db, s.eng, s.orgID, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted product %s\n", args[0])
			return nil
		},
	}

	addConfigFlag(cmd, &configPath)
	addOrgFlag(cmd, &org)
	return cmd
}
