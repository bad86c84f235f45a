package main

import (
	"os"

	"github.com/priyank/bookquiz/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
