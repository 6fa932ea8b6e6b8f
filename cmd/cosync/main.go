package main

import (
	"fmt"
	"os"

	"github.com/roach88/cosync/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
