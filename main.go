package main

import (
	"os"

	"github.com/cmdtrainer/cmdtrainer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
