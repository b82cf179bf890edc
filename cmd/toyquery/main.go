package main

import (
	"os"

	"github.com/vegasq/toyquery/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
