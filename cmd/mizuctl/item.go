package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mizu-in-go/pkg/db"
	gormstore "mizu-in-go/pkg/server/store/gorm"
)

// itemCmd represents the item command
var itemCmd = &cobra.Command{
	Use:   "item",
	Short: "Manage items",
	Long:  `Manage the drink items machines can be stocked with.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'item' requires a subcommand (list, create, update, delete)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(itemCmd)
}

// connectItemsStore connects to the database and returns an items store
func connectItemsStore() (*gormstore.ItemsStore, error) {
	database, err := db.Connect(db.Config{})
	if err != nil {
		return nil, err
	}
	return gormstore.NewItemsStore(database), nil
}
