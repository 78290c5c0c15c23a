package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zulandar/yardplan/internal/project"
	"github.com/zulandar/yardplan/internal/schedule"
)

func newTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Task management commands",
	}

	cmd.AddCommand(newTaskCreateCmd())
	cmd.AddCommand(newTaskListCmd())
	cmd.AddCommand(newTaskUpdateCmd())
	cmd.AddCommand(newTaskDeleteCmd())
	return cmd
}

func newTaskCreateCmd() *cobra.Command {
	var (
		configPath string
		org        string
		projectID  string
		title      string
		deadline   string
		dates      dateFlags
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task in a project",
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

			t, err := project.CreateTask(cmd.Context(), s.db, s.eng, project.TaskOpts{
				OrganizationID: s.orgID,
				ProjectID:      projectID,
				Title:          title,
				Dates:          d,
				Deadline:       dl,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created task %s in project %s\n", t.ID, t.ProjectID)
			return nil
		},
	}

	addConfigFlag(cmd, &configPath)
	addOrgFlag(cmd, &org)
	cmd.Flags().StringVar(&projectID, "project", "", "owning project ID (required)")
	cmd.Flags().StringVar(&title, "title", "", "task title (required)")
	cmd.Flags().StringVar(&deadline, "deadline", "", "deadline (YYYY-MM-DD)")
	dates.register(cmd)
	cmd.MarkFlagRequired("project")
	cmd.MarkFlagRequired("title")
	return cmd
}

func newTaskListCmd() *cobra.Command {
	var (
		configPath string
		org        string
		projectID  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the tasks of a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, configPath, org)
			if err != nil {
				return err
			}
			tasks, err := project.ListTasks(s.db, s.orgID, projectID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(tasks) == 0 {
				fmt.Fprintln(out, "No tasks found.")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tAVAILABLE\tSTART\tEND\tDEADLINE")
			for _, t := range tasks {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					t.ID, t.Title, formatDate(t.AvailableDate), formatDate(t.StartDate),
					formatDate(t.EndDate), formatDate(t.Deadline))
			}
			return w.Flush()
		},
	}

	addConfigFlag(cmd, &configPath)
	addOrgFlag(cmd, &org)
	cmd.Flags().StringVar(&projectID, "project", "", "project ID (required)")
	cmd.MarkFlagRequired("project")
	return cmd
}

func newTaskUpdateCmd() *cobra.Command {
	var (
		configPath string
		org        string
		projectID  string
		title      string
		deadline   string
		dates      dateFlags
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a task",
		Long:  "Updates a task's title, dates or deadline, or moves it to another project with --project.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, configPath, org)
			if err != nil {
				return err
			}
			current, err := project.GetTask(s.db, s.orgID, args[0])
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

			t, err := project.UpdateTask(cmd.Context(), s.db, s.eng, s.orgID, args[0], project.TaskUpdateOpts{
				Title:         optionalString(cmd, "title", title),
				ProjectID:     optionalString(cmd, "project", projectID),
				Deadline:      dl,
				ClearDeadline: clearDeadline,
				Dates:         d,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s (version %d)\n", t.ID, t.Version)
			return nil
		},
	}

	addConfigFlag(cmd, &configPath)
	addOrgFlag(cmd, &org)
	cmd.Flags().StringVar(&projectID, "project", "", "move to project ID")
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&deadline, "deadline", "", "new deadline (empty to clear)")
	dates.register(cmd)
	return cmd
}

func newTaskDeleteCmd() *cobra.Command {
	var (
		configPath string
		org        string
	)

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, configPath, org)
			if err != nil {
				return err
			}
			if err := project.DeleteTask(cmd.Context(), s.db, s.eng, s.orgID, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", args[0])
			return nil
		},
	}

	addConfigFlag(cmd, &configPath)
	addOrgFlag(cmd, &org)
	return cmd
}
