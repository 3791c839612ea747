package main

import (
	"os"

	"github.com/brandonbloom/mkf/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.Report(os.Stderr, err))
	}
}
