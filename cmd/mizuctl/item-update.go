package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var itemUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update an item's name and/or price",
	Long: `Update an item's name and/or price.

Example:
  mizuctl item update 3 --price 500`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, "ID must be an integer")
			os.Exit(1)
		}

		var name *string
		var price *int
		if cmd.Flags().Changed("name") {
			v, _ := cmd.Flags().GetString("name")
			name = &v
		}
		if cmd.Flags().Changed("price") {
			v, _ := cmd.Flags().GetInt("price")
			if v < 0 {
				fmt.Fprintln(os.Stderr, "Price must be a non-negative integer")
				os.Exit(1)
			}
			price = &v
		}
		if name == nil && price == nil {
			fmt.Fprintln(os.Stderr, "Provide --name and/or --price")
			os.Exit(1)
		}

		items, err := connectItemsStore()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
			os.Exit(1)
		}

		item, err := items.UpdateItem(id, name, price)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to update item: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Updated item %d (%s) at a price of %d\n", item.ID, item.Name, item.Price)
	},
}

func init() {
	itemUpdateCmd.Flags().String("name", "", "New item name")
	itemUpdateCmd.Flags().Int("price", 0, "New item price")
	itemCmd.AddCommand(itemUpdateCmd)
}
