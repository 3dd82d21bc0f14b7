package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sszkit/sszkit/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Commands emit their own formatted output; only errors that
		// never reached a formatter (flag parsing, unknown commands)
		// still need printing here.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
