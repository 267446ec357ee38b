// Package main provides the cellscout CLI, a browser and cell counter
// for OMERO-style microscopy image repositories.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
