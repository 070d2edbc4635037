// Command skilldex searches and publishes a catalog of AI coding skills.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/skilldex/internal/adapters/driving/cli"
)

// Set by goreleaser.
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
