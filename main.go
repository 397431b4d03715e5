package main

import (
	"os"

	"github.com/dialogkit/replygen/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
