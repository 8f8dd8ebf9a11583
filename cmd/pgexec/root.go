package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zeptools/gw-pgconn/db"
	"github.com/zeptools/gw-pgconn/db/sqldb"
	"github.com/zeptools/gw-pgconn/db/sqldb/impls/pgsql"
	"github.com/zeptools/gw-pgconn/dbg"
)

// Version information (set at build time).
var Version = "0.1.0"

const envPrefix = "PGCONN_"

type app struct {
	cfgFile string
	name    string
	dial    pgsql.Dialer
}

func newApp() *app {
	return &app{dial: pgsql.DialPgconn}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pgexec",
		Short: "Run SQL on a PostgreSQL connection",
		Long: `pgexec opens one PostgreSQL connection and runs a single command on it.

Connection settings are read, in increasing priority, from built-in defaults,
the --config file (one entry of it with --name), PGCONN_* environment
variables and the command-line flags.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "YAML config file")
	pf.StringVar(&a.name, "name", "", "entry to use from a multi-database config file")
	pf.String("dsn", "", "connection string; overrides host, port, user and db")
	pf.String("host", sqldb.DefaultHost, "server host")
	pf.Int("port", sqldb.DefaultPort, "server port")
	pf.String("user", "", "user name")
	pf.String("db", "", "database name")
	pf.Bool("debug", false, "mirror every SQL text to stderr")

	rootCmd.AddCommand(newExecCmd(a))
	rootCmd.AddCommand(newSelectCmd(a))
	rootCmd.AddCommand(newPrepareCmd(a))
	rootCmd.AddCommand(newEscapeCmd(a))
	rootCmd.AddCommand(newCurrvalCmd(a))
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// open loads the configuration for cmd and connects. Diagnostics go to the
// command's stderr.
func (a *app) open(cmd *cobra.Command) (*pgsql.Connection, error) {
	conf, err := sqldb.LoadConf(sqldb.ConfSource{
		Path:      a.cfgFile,
		Name:      a.name,
		EnvPrefix: envPrefix,
		Flags:     cmd.Root().PersistentFlags(),
	})
	if err != nil {
		return nil, err
	}
	if conf.Type != pgsql.DBType {
		return nil, fmt.Errorf("unsupported database type: %s", conf.Type)
	}
	return pgsql.Open(cmd.Context(), conf, dbg.NewWriterSink(cmd.ErrOrStderr()), pgsql.WithDialer(a.dial))
}

// withConn runs fn on a fresh connection and closes it afterwards.
func (a *app) withConn(cmd *cobra.Command, fn func(ctx context.Context, conn *pgsql.Connection) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
		cmd.SetContext(ctx)
	}
	conn, err := a.open(cmd)
	if err != nil {
		return err
	}
	debug := conn.Conf().Debug
	closeSink := dbg.Discard
	if debug {
		closeSink = dbg.NewWriterSink(cmd.ErrOrStderr())
	}
	defer func() {
		if err := db.CloseClient(ctx, pgsql.DBType, conn, closeSink); err != nil && !debug {
			fmt.Fprintf(cmd.ErrOrStderr(), "[WARN][pgexec] %v\n", err)
		}
	}()
	return fn(ctx, conn)
}
