package main

import (
	"os"

	"github.com/toyz/wrapgen/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
