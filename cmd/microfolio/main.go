package main

import (
	"os"

	"github.com/microfolio/microfolio/cmd/microfolio/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
