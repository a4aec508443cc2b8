// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/canonical/gym-membership-service/migrations"
)

// migrateCmd performs DB migrations
var migrateCmd = &cobra.Command{
	Use:   "migrate [up|down [version]|status|check]",
	Short: "Run database migrations",
	Long: `Run database migrations, up is the default.
down without a version rolls back the last migration, with a version it rolls back to it.
check fails when migrations are pending.`,
	Args: func(cmd *cobra.Command, args []string) error {
		_, err := parseMigrateArgs(args)
		return err
	},
	RunE: runMigrate,
}

const noVersion int64 = -1

type migrateArgs struct {
	command string
	version int64
}

func parseMigrateArgs(args []string) (*migrateArgs, error) {
	a := &migrateArgs{command: "up", version: noVersion}

	if len(args) > 2 {
		return nil, fmt.Errorf("accepts at most 2 arg(s), received %d", len(args))
	}
	if len(args) == 0 {
		return a, nil
	}

	switch args[0] {
	case "up", "down", "status", "check":
		a.command = args[0]
	default:
		return nil, fmt.Errorf("invalid first argument: %q", args[0])
	}

	if len(args) == 1 {
		return a, nil
	}

	if a.command != "down" {
		return nil, fmt.Errorf("invalid argument combination: %q", args)
	}

	v, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || v < 0 {
		return nil, fmt.Errorf("invalid version number: %q", args[1])
	}
	a.version = v

	return a, nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	a, err := parseMigrateArgs(args)
	if err != nil {
		return err
	}

	dsn, _ := cmd.Flags().GetString("dsn")
	if dsn == "" {
		dsn = os.Getenv("DSN")
	}
	if dsn == "" {
		return errors.New("a DSN is required, use --dsn or the DSN environment variable")
	}

	format, _ := cmd.Flags().GetString("format")
	r := &migrationReporter{out: cmd.OutOrStdout(), json: format == "json"}

	db, err := openMigrationDB(cmd.Context(), dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	var opts []goose.ProviderOption
	if r.json {
		opts = append(opts, goose.WithLogger(goose.NopLogger()))
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.EmbedMigrations, opts...)
	if err != nil {
		return fmt.Errorf("failed to create goose provider: %w", err)
	}

	return migrate(cmd.Context(), provider, a, r)
}

func openMigrationDB(ctx context.Context, dsn string) (*sql.DB, error) {
	config, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("DSN validation failed, shutting down, err: %v", err)
	}

	db := stdlib.OpenDB(*config)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("DB connection failed, shutting down, err: %v", err)
	}

	return db, nil
}

// migrationProvider is the part of goose.Provider the command drives.
type migrationProvider interface {
	Up(context.Context) ([]*goose.MigrationResult, error)
	Down(context.Context) (*goose.MigrationResult, error)
	DownTo(context.Context, int64) ([]*goose.MigrationResult, error)
	Status(context.Context) ([]*goose.MigrationStatus, error)
	HasPending(context.Context) (bool, error)
	GetDBVersion(context.Context) (int64, error)
}

func migrate(ctx context.Context, p migrationProvider, a *migrateArgs, r *migrationReporter) error {
	switch a.command {
	case "up":
		results, err := p.Up(ctx)
		if err != nil {
			return err
		}
		return r.results("applied", "OK  ", results)
	case "down":
		var results []*goose.MigrationResult
		if a.version == noVersion {
			result, err := p.Down(ctx)
			if err != nil {
				return err
			}
			results = append(results, result)
		} else {
			var err error
			if results, err = p.DownTo(ctx, a.version); err != nil {
				return err
			}
		}
		return r.results("rolled_back", "DOWN", results)
	case "status":
		statuses, err := p.Status(ctx)
		if err != nil {
			return err
		}
		return r.statuses(statuses)
	case "check":
		return check(ctx, p, r)
	}

	return fmt.Errorf("unknown migrate command %q", a.command)
}

func check(ctx context.Context, p migrationProvider, r *migrationReporter) error {
	pending, err := p.HasPending(ctx)
	if err != nil {
		return fmt.Errorf("failed to check pending migrations: %w", err)
	}

	current, versionErr := p.GetDBVersion(ctx)

	if pending {
		if versionErr != nil {
			return fmt.Errorf("migrations are pending (failed to get current version: %v)", versionErr)
		}
		if r.json {
			return r.encode(map[string]any{"status": "pending", "version": current})
		}
		return fmt.Errorf("migrations are pending: current version %d", current)
	}

	if r.json {
		status := "ok"
		if versionErr != nil {
			status = "unknown"
		}
		return r.encode(map[string]any{"status": status, "version": current})
	}

	if versionErr != nil {
		fmt.Fprintln(r.out, "Database is up to date")
	} else {
		fmt.Fprintf(r.out, "Database is up to date (version %d)\n", current)
	}
	return nil
}

// migrationReporter renders results as text for operators or as json for deploy tooling.
type migrationReporter struct {
	out  io.Writer
	json bool
}

func (r *migrationReporter) encode(v any) error {
	return json.NewEncoder(r.out).Encode(v)
}

func (r *migrationReporter) results(key, verb string, results []*goose.MigrationResult) error {
	if r.json {
		if results == nil {
			results = []*goose.MigrationResult{}
		}
		return r.encode(map[string]any{key: results})
	}

	if len(results) == 0 {
		fmt.Fprintln(r.out, "Nothing to do")
	}
	for _, res := range results {
		fmt.Fprintf(r.out, "%s %s (%s)\n", verb, res.Source.Path, res.Duration)
	}
	return nil
}

func (r *migrationReporter) statuses(statuses []*goose.MigrationStatus) error {
	if r.json {
		return r.encode(statuses)
	}

	fmt.Fprintln(r.out, "    Applied At                  Migration")
	fmt.Fprintln(r.out, "    =======================================")
	for _, s := range statuses {
		appliedAt := "Pending"
		if s.State == goose.StateApplied {
			appliedAt = s.AppliedAt.Format(time.RFC3339)
		}
		fmt.Fprintf(r.out, "    %-24s -- %s\n", appliedAt, s.Source.Path)
	}
	return nil
}

func init() {
	migrateCmd.Flags().String("dsn", "", "PostgreSQL DSN connection string, defaults to $DSN")
	migrateCmd.Flags().StringP("format", "f", "text", "Output format (text or json)")

	rootCmd.AddCommand(migrateCmd)
}
