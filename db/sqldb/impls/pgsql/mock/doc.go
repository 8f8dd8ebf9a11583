/*
Package mock provides a scripted, in-memory pgsql.Native for tests.

It understands just enough of the protocol boundary to exercise a
pgsql.Connection without a server: named statements must be prepared before
they run, a name cannot be prepared twice, and every result handed out is
tracked so tests can check it was cleared exactly once.

# Basic Usage

	n := mock.New()
	n.OnExec("SELECT 1", mock.Rows([]string{"?column?"}, []string{"1"}))
	n.OnExec("bad sql", mock.Fail(`ERROR:  syntax error at or near "bad"`))
	n.OnRun("INSERT INTO t(x) VALUES ($1)", func(params [][]byte) mock.Response {
		return mock.Command("INSERT 0 1")
	})

	conn, err := pgsql.Open(ctx, conf, sink, pgsql.WithDialer(n.Dialer()))

# Inspecting Calls

	for _, c := range n.Calls {
		// c.Op, c.Name, c.SQL, c.Params
	}

SQL that was not scripted succeeds with a command tag built from its first
word, so transaction commands need no setup.
*/
package mock
