package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/dbcomp/internal/catalog"
	"github.com/leapstack-labs/dbcomp/internal/cli/config"
	"github.com/leapstack-labs/dbcomp/internal/completion"
	"github.com/leapstack-labs/dbcomp/pkg/driver"
)

// LookupOptions holds options for the lookup command.
type LookupOptions struct {
	DBURL         string
	Schema        string
	Table         string
	SchemaOrTable string
	Format        string
}

// NewLookupCommand creates the lookup command.
func NewLookupCommand() *cobra.Command {
	opts := &LookupOptions{}

	cmd := &cobra.Command{
		Use:   "lookup [prefix]",
		Short: "Query completions from the command line",
		Long: `Look up completion candidates directly, without the HTTP server.

Runs the same catalog queries the completions endpoint runs and prints
the matches. With no flags it lists tables and views in the public
schema; --table narrows to the columns of one table, and
--schema-or-table resolves the name as a schema first, then as a table.`,
		Example: `  # Tables and views in the public schema
  dbcomp lookup

  # Tables starting with "us"
  dbcomp lookup us

  # Columns of the users table
  dbcomp lookup --table users

  # Resolve a name that may be a schema or a table
  dbcomp lookup --schema-or-table sales

  # JSON output for scripting
  dbcomp lookup us --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.DBURL, "db-url", "", "Database URL (default: configured database_url)")
	cmd.Flags().StringVar(&opts.Schema, "schema", completion.DefaultSchema, "Schema to search")
	cmd.Flags().StringVar(&opts.Table, "table", "", "List columns of this table")
	cmd.Flags().StringVar(&opts.SchemaOrTable, "schema-or-table", "", "Name to resolve as a schema first, then as a table")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "table", "Output format: table, json, csv, md, yaml")

	return cmd
}

func runLookup(cmd *cobra.Command, args []string, opts *LookupOptions) error {
	cfg := getConfig()

	url := opts.DBURL
	if url == "" {
		url = cfg.DatabaseURL
	}
	if url == "" {
		return fmt.Errorf("no database URL configured (set POSTGRES_URL, database_url, or --db-url)")
	}

	drv, err := driver.Lookup("postgres")
	if err != nil {
		return fmt.Errorf("postgres driver unavailable: %w", err)
	}

	prefix := ""
	if len(args) > 0 {
		prefix = strings.ToLower(args[0])
	}

	params := completion.Params{
		DBURL:         url,
		Prefix:        prefix,
		Schema:        opts.Schema,
		Table:         opts.Table,
		SchemaOrTable: opts.SchemaOrTable,
	}

	ctx := cmd.Context()

	db, err := drv.Connect(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer func() { _ = db.Close() }()

	cat := catalog.New(db, config.GetLogger(ctx))

	var plan completion.Lookup
	if completion.NeedsSchemaProbe(params) {
		canonical, exists, err := cat.ResolveSchema(ctx, params.SchemaOrTable)
		if err != nil {
			return err
		}
		plan = completion.PlanLookup(params, canonical, exists)
	} else {
		plan = completion.PlanLookup(params, "", false)
	}

	if plan.Relations {
		tables, err := cat.Relations(ctx, plan.Schema, plan.Prefix)
		if err != nil {
			return err
		}
		return renderTableEntries(cmd.OutOrStdout(), tables, opts.Format)
	}

	columns, err := cat.Columns(ctx, plan.Schema, plan.Table, plan.Prefix)
	if err != nil {
		return err
	}
	return renderColumnEntries(cmd.OutOrStdout(), columns, opts.Format)
}
