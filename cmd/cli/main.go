// commitlens - commit history dashboard
//
// commitlens reads a line-level change log and shows when a repository's
// commits happened, what they changed and how the codebase grew.
package main

import (
	"os"

	"github.com/ccollicutt/commitlens/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
