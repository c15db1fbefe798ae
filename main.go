package main

import (
	"os"

	"github.com/winkovo0818/boss-copilot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
