package commands

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"text/tabwriter"

	_ "github.com/lib/pq"
	"github.com/safar/inventory-api/migrations"
	"github.com/spf13/cobra"
)

var (
	upSteps   int
	downSteps int
)

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	Long: `Apply pending migrations in version order.

Examples:
  migrate up              # Apply all pending migrations
  migrate up --steps 1    # Apply the next migration only`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd.Context(), migrations.Up, upSteps)
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert applied migrations",
	Long: `Revert applied migrations, newest first.

Examples:
  migrate down            # Revert the last migration
  migrate down --steps 0  # Revert every migration`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd.Context(), migrations.Down, downSteps)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which migrations are applied",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStatus(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(upCmd, downCmd, statusCmd)

	upCmd.Flags().IntVar(&upSteps, "steps", 0, "Number of migrations to apply (0 applies all)")
	downCmd.Flags().IntVar(&downSteps, "steps", 1, "Number of migrations to revert (0 reverts all)")
}

func openDB(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}

func runMigrate(ctx context.Context, direction migrations.Direction, steps int) error {
	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	applied, err := migrations.Run(ctx, db, direction, steps)
	if err != nil {
		return err
	}

	if len(applied) == 0 {
		fmt.Println("Nothing to do")
		return nil
	}
	for _, version := range applied {
		fmt.Printf("%s %s\n", direction, version)
	}
	return nil
}

func runStatus(ctx context.Context) error {
	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	statuses, err := migrations.Statuses(ctx, db)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tSTATUS\tAPPLIED AT")
	for _, s := range statuses {
		state, at := "pending", "-"
		if s.Applied {
			state, at = "applied", s.AppliedAt.Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.Version, state, at)
	}
	return w.Flush()
}
