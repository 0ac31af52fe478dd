// Command ordercheck classifies order response files against the reference
// dataset from the command line.
//
// Usage:
//
//	ordercheck check  --reference data.json orders.ppr [--mode not-available]
//	ordercheck export --reference data.json orders.ppr [--exclude-other-errors] [-o out.ppr]
//
// Settings not given as flags come from the same environment variables and
// .env file as the server.
package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Unlike the server, the CLI lets the real environment win over .env.
	_ = godotenv.Load()

	root := newRootCmd()
	if err := root.Execute(); err != nil {
		reportError(root.ErrOrStderr(), err)
		os.Exit(1)
	}
}
