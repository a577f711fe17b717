package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var itemDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an item",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, "ID must be an integer")
			os.Exit(1)
		}

		items, err := connectItemsStore()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
			os.Exit(1)
		}

		deleted, err := items.DeleteItem(id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to delete item: %v\n", err)
			os.Exit(1)
		}
		if !deleted {
			fmt.Fprintf(os.Stderr, "No item with id %d\n", id)
			os.Exit(1)
		}

		fmt.Printf("Deleted item %d\n", id)
	},
}

func init() {
	itemCmd.AddCommand(itemDeleteCmd)
}
