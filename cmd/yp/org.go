package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zulandar/yardplan/internal/tenant"
)

func newOrgCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "org",
		Short: "Organization management commands",
	}

	cmd.AddCommand(newOrgCreateCmd())
	cmd.AddCommand(newOrgListCmd())
	return cmd
}

func newOrgCreateCmd() *cobra.Command {
	var (
		configPath string
		name       string
		slug       string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an organization",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			org, err := tenant.CreateOrganization(gormDB, name, slug)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created organization %s (%s)\n", org.Slug, org.ID)
			return nil
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&name, "name", "", "organization name (required)")
	cmd.Flags().StringVar(&slug, "slug", "", "URL slug (default: derived from name)")
	cmd.MarkFlagRequired("name")
	return cmd
}

func newOrgListCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List organizations",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			orgs, err := tenant.ListOrganizations(gormDB)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(orgs) == 0 {
				fmt.Fprintln(out, "No organizations found.")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SLUG\tNAME\tID")
			for _, o := range orgs {
				fmt.Fprintf(w, "%s\t%s\t%s\n", o.Slug, o.Name, o.ID)
			}
			return w.Flush()
		},
	}

	addConfigFlag(cmd, &configPath)
	return cmd
}

func newCustomerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customer",
		Short: "Customer management commands",
	}

	cmd.AddCommand(newCustomerCreateCmd())
	cmd.AddCommand(newCustomerListCmd())
	return cmd
}

func newCustomerCreateCmd() *cobra.Command {
	var (
		configPath string
		org        string
		name       string
		email      string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a customer to an organization",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, configPath, org)
			if err != nil {
				return err
			}
			c, err := tenant.CreateCustomer(s.db, s.orgID, name, email)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created customer %s\n", c.ID)
			return nil
		},
	}

	addConfigFlag(cmd, &configPath)
	addOrgFlag(cmd, &org)
	cmd.Flags().StringVar(&name, "name", "", "customer name (required)")
	cmd.Flags().StringVar(&email, "email", "", "contact email")
	cmd.MarkFlagRequired("name")
	return cmd
}

func newCustomerListCmd() *cobra.Command {
	var (
		configPath string
		org        string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List an organization's customers",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, configPath, org)
			if err != nil {
				return err
			}
			customers, err := tenant.ListCustomers(s.db, s.orgID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(customers) == 0 {
				fmt.Fprintln(out, "No customers found.")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tEMAIL")
			for _, c := range customers {
				fmt.Fprintf(w, "%s\t%s\t%s\n", c.ID, c.Name, c.Email)
			}
			return w.Flush()
		},
	}

	addConfigFlag(cmd, &configPath)
	addOrgFlag(cmd, &org)
	return cmd
}
