// Command gobundle partitions a module dependency graph into bundles.
package main

import (
	"fmt"
	"os"

	"github.com/albertocavalcante/go-bundle/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
