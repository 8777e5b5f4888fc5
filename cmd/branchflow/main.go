package main

import (
	"os"

	"github.com/branchflow/branchflow/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
