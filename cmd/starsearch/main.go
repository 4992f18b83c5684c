// Command starsearch serves search over the readmes of a user's starred
// GitHub repositories.
package main

import (
	"os"

	"github.com/custodia-labs/starsearch/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
