// Command knowsync synchronises documents from external knowledge sources.
package main

import (
	"os"

	"github.com/objecta-labs/knowsync/internal/adapters/driving/cli"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	cli.SetVersion(Version)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
