// Package main is the entry point for bike-hunter.
package main

import (
	"os"

	"github.com/donaldgifford/bike-hunter/cmd/bike-hunter/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
