package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zulandar/yardplan/internal/config"
	"github.com/zulandar/yardplan/internal/db"
	"golang.org/x/term"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database management commands",
	}

	cmd.AddCommand(newDBInitCmd())
	cmd.AddCommand(newDBResetCmd())
	return cmd
}

func newDBInitCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the yardplan database",
		Long:  "Creates the database when the MySQL driver is configured, then migrates all tables.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBInit(cmd, configPath)
		},
	}

	addConfigFlag(cmd, &configPath)
	return cmd
}

func runDBInit(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	fmt.Fprintf(out, "Loaded %s config from %s\n", cfg.Database.Driver, configPath)

	if cfg.Database.Driver == config.DriverMySQL {
		adminDB, err := db.ConnectAdmin(cfg.Database)
		if err != nil {
			return err
		}
		if err := db.CreateDatabase(adminDB, cfg.Database.Name); err != nil {
			return err
		}
		fmt.Fprintf(out, "Database %s ready\n", cfg.Database.Name)
	}

	return migrate(cmd, cfg)
}

func migrate(cmd *cobra.Command, cfg *config.Config) error {
	out := cmd.OutOrStdout()

	gormDB, err := db.Connect(cfg.Database)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(gormDB); err != nil {
		return err
	}
	fmt.Fprintf(out, "Migrated %d tables\n", len(db.AllModels()))
	fmt.Fprintln(out, "\nYardplan database initialized successfully.")
	return nil
}

func newDBResetCmd() *cobra.Command {
	var (
		configPath string
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Drop and re-initialize the yardplan database",
		Long: `Drops the configured database (or removes the SQLite file) and migrates a
fresh schema. Asks for confirmation unless --yes is given; without a terminal
on stdin, --yes is required.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBReset(cmd, configPath, yes)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation prompt")
	return cmd
}

func runDBReset(cmd *cobra.Command, configPath string, skipConfirm bool) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	target := cfg.Database.Path
	if cfg.Database.Driver == config.DriverMySQL {
		target = cfg.Database.Name
	}

	if !skipConfirm {
		if f, ok := cmd.InOrStdin().(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
			return fmt.Errorf("refusing to reset %s without --yes: stdin is not a terminal", target)
		}
		if !confirmReset(cmd, target) {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	switch cfg.Database.Driver {
	case config.DriverMySQL:
		adminDB, err := db.ConnectAdmin(cfg.Database)
		if err != nil {
			return err
		}
		if err := db.DropDatabase(adminDB, target); err != nil {
			return err
		}
		if err := db.CreateDatabase(adminDB, target); err != nil {
			return err
		}
	default:
		if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", target, err)
		}
	}
	fmt.Fprintf(out, "Dropped %s\n", target)

	return migrate(cmd, cfg)
}

func confirmReset(cmd *cobra.Command, target string) bool {
	out := cmd.OutOrStdout()
	in := cmd.InOrStdin()

	fmt.Fprintf(out, "WARNING: This will permanently delete all data in %q.\n", target)
	fmt.Fprintln(out, "This action cannot be undone.")
	fmt.Fprintln(out)
	fmt.Fprint(out, "Type \"yes\" to confirm: ")

	scanner := bufio.NewScanner(in)
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text()) == "yes"
	}
	return false
}
