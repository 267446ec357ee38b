// Show command: resolve one project's description fields and flattened
// annotation metadata.
package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <project-id>",
	Short: "Show a project's resolved metadata",
	Long: `Show fetches one project's detail record, resolves the publication
title and short description from its description text, and flattens the
attached annotations into a key-value listing. Duplicate annotation keys
keep the last occurrence.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	detail, metadata, err := scout.Describe(cmd.Context(), id)
	if err != nil {
		return err
	}

	fmt.Printf("project:     %d  %s\n", detail.ID, detail.Name)
	fmt.Printf("title:       %s\n", detail.PublicationTitle)
	fmt.Printf("description: %s\n", detail.ShortDescription)

	if len(metadata) == 0 {
		return nil
	}

	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Println("annotations:")
	for _, k := range keys {
		fmt.Printf("  %s: %s\n", k, metadata[k])
	}
	return nil
}
