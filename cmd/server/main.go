package main

import (
	"os"

	"github.com/yourusername/sheet-store/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
