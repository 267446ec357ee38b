// Version command.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/omero-tools/cellscout"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("cellscout v%s\n", cellscout.Version)
	},
}
