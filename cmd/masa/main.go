// Command masa is the command-line interface to the manufactured
// solution registry.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/masa/internal/cli"
)

func main() {
	if err := cli.Execute(cli.NewRootCommand()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
