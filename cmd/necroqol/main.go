// Command necroqol runs campaign scenarios against the sample extension
// module and reads diagnostic journals.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/necroqol/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
