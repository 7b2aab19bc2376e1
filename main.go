package main

import (
	"os"

	"github.com/odysseyquest/odyssey/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
