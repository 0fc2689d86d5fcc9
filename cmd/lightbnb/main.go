package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"lightbnb/internal/adapters/observability"
	"lightbnb/internal/app"
	"lightbnb/internal/shared"
	"lightbnb/internal/storage/sqlstore"
)

// cli holds what every subcommand needs once the root pre-run has connected.
type cli struct {
	db  *sql.DB
	q   *app.QueryService
	cmd *app.CommandService
}

func main() {
	c := &cli{}
	err := newRootCmd(c).ExecuteContext(context.Background())
	c.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(c *cli) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "lightbnb",
		Short:         "LightBnB data access from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !needsDB(cmd) {
				return nil
			}
			return c.connect(cmd.Context())
		},
	}

	rootCmd.AddCommand(
		userCmd(c),
		reservationsCmd(c),
		propertiesCmd(c),
	)
	return rootCmd
}

// needsDB is false for cobra's help and shell completion commands.
func needsDB(cmd *cobra.Command) bool {
	for p := cmd; p != nil; p = p.Parent() {
		switch p.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}
	return true
}

func (c *cli) connect(ctx context.Context) error {
	cfg, err := shared.Load()
	if err != nil {
		return err
	}
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	db, dialect, err := sqlstore.Open(ctx, cfg.Database, log.Logger)
	if err != nil {
		return err
	}
	repo := sqlstore.New(db, dialect, log.Logger)

	c.db = db
	c.q = app.NewQueryService(repo)
	c.cmd = app.NewCommandService(repo)
	return nil
}

func (c *cli) close() {
	if c.db != nil {
		_ = c.db.Close()
		c.db = nil
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
