// Package main is the entry point for the go2hand API server.
package main

import (
	"os"

	"github.com/go2hand/go2hand/cmd/go2hand/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
