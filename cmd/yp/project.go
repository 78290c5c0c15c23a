package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zulandar/yardplan/internal/project"
	"github.com/zulandar/yardplan/internal/schedule"
)

func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project management commands",
	}

	cmd.AddCommand(newProjectCreateCmd())
	cmd.AddCommand(newProjectListCmd())
	cmd.AddCommand(newProjectShowCmd())
	cmd.AddCommand(newProjectUpdateCmd())
	cmd.AddCommand(newProjectDeleteCmd())
	cmd.AddCommand(newProjectTreeCmd())
	return cmd
}

func newProjectCreateCmd() *cobra.Command {
	var (
		configPath  string
		org         string
		name        string
		description string
		parentID    string
		customerID  string
		deadline    string
		dates       dateFlags
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		Long:  "Creates a project, optionally under a parent project. Its dates are propagated to every ancestor.",
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

			p, err := project.Create(cmd.Context(), s.db, s.eng, project.CreateOpts{
				OrganizationID: s.orgID,
				CustomerID:     customerID,
				ParentID:       parentID,
				Name:           name,
				Description:    description,
				Dates:          d,
				Deadline:       dl,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created project %s\n", p.ID)
			if p.ParentID != nil {
				fmt.Fprintf(out, "Parent: %s\n", *p.ParentID)
			}
			return nil
		},
	}

	addConfigFlag(cmd, &configPath)
	addOrgFlag(cmd, &org)
	cmd.Flags().StringVar(&name, "name", "", "project name (required)")
	cmd.Flags().StringVar(&description, "description", "", "description")
	cmd.Flags().StringVar(&parentID, "parent", "", "parent project ID")
	cmd.Flags().StringVar(&customerID, "customer", "", "customer ID")
	cmd.Flags().StringVar(&deadline, "deadline", "", "deadline (YYYY-MM-DD)")
	dates.register(cmd)
	cmd.MarkFlagRequired("name")
	return cmd
}

func newProjectListCmd() *cobra.Command {
	var (
		configPath string
		org        string
		filters    project.ListFilters
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, configPath, org)
			if err != nil {
				return err
			}
			projects, err := project.List(s.db, s.orgID, filters)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(projects) == 0 {
				fmt.Fprintln(out, "No projects found.")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPARENT\tAVAILABLE\tSTART\tEND")
			for _, p := range projects {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					p.ID, p.Name, deref(p.ParentID),
					formatDate(p.AvailableDate), formatDate(p.StartDate), formatDate(p.EndDate))
			}
			return w.Flush()
		},
	}

	addConfigFlag(cmd, &configPath)
	addOrgFlag(cmd, &org)
	cmd.Flags().StringVar(&filters.ParentID, "parent", "", "filter by parent project")
	cmd.Flags().StringVar(&filters.CustomerID, "customer", "", "filter by customer")
	cmd.Flags().BoolVar(&filters.RootsOnly, "roots", false, "only projects without a parent")
	return cmd
}

func newProjectShowCmd() *cobra.Command {
	var (
		configPath string
		org        string
	)

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, configPath, org)
			if err != nil {
				return err
			}
			p, err := project.Get(s.db, s.orgID, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:          %s\n", p.ID)
			fmt.Fprintf(out, "Name:        %s\n", p.Name)
			fmt.Fprintf(out, "Parent:      %s\n", deref(p.ParentID))
			fmt.Fprintf(out, "Customer:    %s\n", deref(p.CustomerID))
			fmt.Fprintf(out, "Available:   %s\n", formatDate(p.AvailableDate))
			fmt.Fprintf(out, "Start:       %s\n", formatDate(p.StartDate))
			fmt.Fprintf(out, "End:         %s\n", formatDate(p.EndDate))
			fmt.Fprintf(out, "Deadline:    %s\n", formatDate(p.Deadline))
			fmt.Fprintf(out, "Version:     %d\n", p.Version)
			if p.Description != "" {
				fmt.Fprintf(out, "\n%s\n", p.Description)
			}
			return nil
		},
	}

	addConfigFlag(cmd, &configPath)
	addOrgFlag(cmd, &org)
	return cmd
}

func newProjectUpdateCmd() *cobra.Command {
	var (
		configPath  string
		org         string
		name        string
		description string
		parentID    string
		customerID  string
		deadline    string
		dates       dateFlags
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a project",
		Long: `Updates the given fields of a project. Date flags only apply to projects
without children. An empty --parent moves the project to the root.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, configPath, org)
			if err != nil {
				return err
			}
			current, err := project.Get(s.db, s.orgID, args[0])
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

			p, err := project.Update(cmd.Context(), s.db, s.eng, s.orgID, args[0], project.UpdateOpts{
				Name:          optionalString(cmd, "name", name),
				Description:   optionalString(cmd, "description", description),
				CustomerID:    optionalString(cmd, "customer", customerID),
				ParentID:      optionalString(cmd, "parent", parentID),
				Deadline:      dl,
				ClearDeadline: clearDeadline,
				Dates:         d,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated project %s (version %d)\n", p.ID, p.Version)
			return nil
		},
	}

	addConfigFlag(cmd, &configPath)
	addOrgFlag(cmd, &org)
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&parentID, "parent", "", "new parent project ID (empty for root)")
	cmd.Flags().StringVar(&customerID, "customer", "", "new customer ID (empty to detach)")
	cmd.Flags().StringVar(&deadline, "deadline", "", "new deadline (empty to clear)")
	dates.register(cmd)
	return cmd
}

func newProjectDeleteCmd() *cobra.Command {
	var (
		configPath string
		org        string
	)

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a project without children",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, configPath, org)
			if err != nil {
				return err
			}
			if err := project.Delete(cmd.Context(), s.db, s.eng, s.orgID, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %s\n", args[0])
			return nil
		},
	}

	addConfigFlag(cmd, &configPath)
	addOrgFlag(cmd, &org)
	return cmd
}

func newProjectTreeCmd() *cobra.Command {
	var (
		configPath string
		org        string
	)

	cmd := &cobra.Command{
		Use:   "tree <id>",
		Short: "Show a project with all descendants and their dates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, configPath, org)
			if err != nil {
				return err
			}
			tree, err := project.Tree(s.db, s.orgID, args[0])
			if err != nil {
				return err
			}
			printTree(cmd.OutOrStdout(), tree, 0)
			return nil
		},
	}

	addConfigFlag(cmd, &configPath)
	addOrgFlag(cmd, &org)
	return cmd
}

func printTree(out io.Writer, n *project.TreeNode, depth int) {
	fmt.Fprintf(out, "%s%s %s [%s] available=%s start=%s end=%s\n",
		strings.Repeat("  ", depth), n.Kind, n.Name, n.ID,
		formatDate(n.AvailableDate), formatDate(n.StartDate), formatDate(n.EndDate))
	for _, c := range n.Children {
		printTree(out, c, depth+1)
	}
}
