package main

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/zeptools/gw-pgconn/db/sqldb"
	"github.com/zeptools/gw-pgconn/db/sqldb/impls/pgsql"
)

func newExecCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "exec SQL",
		Short: "Execute a statement and print its status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withConn(cmd, func(ctx context.Context, conn *pgsql.Connection) error {
				res, err := conn.Execute(ctx, args[0])
				if err != nil {
					return err
				}
				defer res.Release()
				return renderResult(cmd.OutOrStdout(), res)
			})
		},
	}
}

func newSelectCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "select SQL",
		Short: "Run a query and print its rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "table" && output != "json" {
				return fmt.Errorf("unknown output format %q (table|json)", output)
			}
			return a.withConn(cmd, func(ctx context.Context, conn *pgsql.Connection) error {
				rows, err := conn.Select(ctx, args[0])
				if err != nil {
					return err
				}
				defer rows.Close()
				if output == "json" {
					return renderJSON(cmd.OutOrStdout(), rows)
				}
				return renderRows(cmd.OutOrStdout(), rows)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format (table|json)")
	_ = cmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"table", "json"}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func newPrepareCmd(a *app) *cobra.Command {
	var nulls []int
	var repeat int
	cmd := &cobra.Command{
		Use:   "prepare SQL [PARAM...]",
		Short: "Prepare a statement with $n placeholders and run it",
		Long: `prepare creates a named server-side statement from SQL and runs it with the
given parameters. The parameter count is the highest $n in SQL.`,
		Example: `  pgexec prepare 'INSERT INTO users(name, email) VALUES ($1, $2)' ann ann@example.com
  pgexec prepare 'UPDATE users SET email = $2 WHERE id = $1' 7 '' --null 2`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, params := args[0], args[1:]
			paramCount := sqldb.MaxOrdinalPlaceholder(query, sqldb.PgPlaceholderPrefix)
			if len(params) != paramCount {
				return fmt.Errorf("statement takes %d parameters, got %d", paramCount, len(params))
			}
			if repeat < 1 {
				return fmt.Errorf("--repeat must be at least 1")
			}
			return a.withConn(cmd, func(ctx context.Context, conn *pgsql.Connection) error {
				p, err := conn.Prepare(ctx, query, paramCount)
				if err != nil {
					return err
				}
				defer p.Close()

				for i, v := range params {
					if slices.Contains(nulls, i+1) {
						err = p.BindNull(i)
					} else {
						err = p.Bind(i, v)
					}
					if err != nil {
						return err
					}
				}
				for range repeat {
					res, err := conn.Run(ctx, p)
					if err != nil {
						return err
					}
					if err := renderResult(cmd.OutOrStdout(), res); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().IntSliceVar(&nulls, "null", nil, "1-based positions of parameters to send as NULL")
	cmd.Flags().IntVar(&repeat, "repeat", 1, "number of times to run the statement")
	return cmd
}

func newEscapeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "escape STRING",
		Short: "Escape a string for use inside a single-quoted literal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withConn(cmd, func(_ context.Context, conn *pgsql.Connection) error {
				escaped, err := conn.Escape(args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), escaped)
				return err
			})
		},
	}
}

func newCurrvalCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "currval TABLE FIELD",
		Short: "Print the current value of the serial sequence TABLE_FIELD_seq",
		Long: `currval prints the last value generated in this session for a serial column.
A fresh connection has none, so this is mostly useful after a preceding
statement in the same script, e.g. with --dsn pointing at a pooled session.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withConn(cmd, func(ctx context.Context, conn *pgsql.Connection) error {
				id, err := conn.LastInsertID(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), id)
				return err
			})
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pgexec v%s\n", Version)
		},
	}
}
