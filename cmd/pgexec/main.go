// Command pgexec runs SQL against PostgreSQL through the pgsql connection core.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(newApp()).Execute(); err != nil {
		os.Exit(1)
	}
}
