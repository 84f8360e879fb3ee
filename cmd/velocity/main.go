package main

import (
	"os"

	"github.com/naineet-code/engineer-velocity-view/internal/infrastructure/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
