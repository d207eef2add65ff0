package main

import (
	"os"

	"github.com/guilhermeoliveira05/Leading-Page-MFG/cmd/cartctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
