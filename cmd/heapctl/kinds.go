package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/blockheap/heap/release"
	"github.com/joshuapare/blockheap/heap/search"
)

func init() {
	rootCmd.AddCommand(newKindsCmd())
}

func newKindsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the available search and release policies",
		Long: `The kinds command lists the policy names accepted by --search and
--release. Besides the listed search policies, "exact-fit" and
"exact-fit+<search>" are accepted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKinds()
		},
	}
}

type kindList struct {
	Search  []string `json:"search"`
	Release []string `json:"release"`
}

func runKinds() error {
	list := kindList{Search: search.Names()}
	for _, r := range release.Catalog() {
		list.Release = append(list.Release, r.Name())
	}

	if jsonOut {
		return printJSON(list)
	}

	printInfo("Search policies:\n")
	for _, name := range list.Search {
		printInfo("  %s\n", name)
	}
	printInfo("\nRelease policies:\n")
	for _, name := range list.Release {
		printInfo("  %s\n", name)
	}
	return nil
}
