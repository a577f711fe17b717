package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var itemListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all items",
	Run: func(cmd *cobra.Command, args []string) {
		items, err := connectItemsStore()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
			os.Exit(1)
		}

		all, err := items.GetItems()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list items: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("%-6s %-30s %s\n", "ID", "NAME", "PRICE")
		for _, item := range all {
			fmt.Printf("%-6d %-30s %d\n", item.ID, item.Name, item.Price)
		}
	},
}

func init() {
	itemCmd.AddCommand(itemListCmd)
}
