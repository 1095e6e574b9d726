package main

import (
	"os"

	"scanstation/cmd/scanstation/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
