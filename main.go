package main

import (
	"os"

	"github.com/sadopc/focuslock/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.New(version).Execute(); err != nil {
		os.Exit(1)
	}
}
