// Command ampdesk runs the support bot, translator, and the ingestion
// tooling.
package main

import (
	"fmt"
	"os"

	"github.com/ampdesk/ampdesk/internal/adapters/driving/cli"
)

// version is injected via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
