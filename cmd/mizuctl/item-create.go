package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var itemCreateCmd = &cobra.Command{
	Use:   "create <name> <price>",
	Short: "Create an item",
	Long: `Create an item.

Example:
  mizuctl item create "Cherry Cola" 450`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]
		price, err := strconv.Atoi(args[1])
		if err != nil || price < 0 {
			fmt.Fprintln(os.Stderr, "Price must be a non-negative integer")
			os.Exit(1)
		}

		items, err := connectItemsStore()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
			os.Exit(1)
		}

		item, err := items.CreateItem(name, price)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create item: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Created item %d (%s) at a price of %d\n", item.ID, item.Name, item.Price)
	},
}

func init() {
	itemCmd.AddCommand(itemCreateCmd)
}
