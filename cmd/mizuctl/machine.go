package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mizu-in-go/pkg/db"
	gormstore "mizu-in-go/pkg/server/store/gorm"
)

// machineCmd represents the machine command
var machineCmd = &cobra.Command{
	Use:   "machine",
	Short: "Inspect machines",
	Long:  `Inspect the provisioned drink machines and their slots.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'machine' requires a subcommand (list, slots)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

var machineListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all machines",
	Run: func(cmd *cobra.Command, args []string) {
		machines, err := connectMachinesStore()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
			os.Exit(1)
		}

		all, err := machines.GetMachines()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list machines: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("%-6s %-20s %s\n", "ID", "NAME", "DISPLAY NAME")
		for _, m := range all {
			fmt.Printf("%-6d %-20s %s\n", m.ID, m.Name, m.DisplayName)
		}
	},
}

var machineSlotsCmd = &cobra.Command{
	Use:   "slots <machine>",
	Short: "List the slots of a machine",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		machines, err := connectMachinesStore()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
			os.Exit(1)
		}

		slots, err := machines.GetSlotsInMachine(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list slots: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("%-8s %-8s %s\n", "NUMBER", "ITEM", "ACTIVE")
		for _, slot := range slots {
			fmt.Printf("%-8d %-8d %v\n", slot.Number, slot.Item, slot.Active)
		}
	},
}

func init() {
	machineCmd.AddCommand(machineListCmd)
	machineCmd.AddCommand(machineSlotsCmd)
	rootCmd.AddCommand(machineCmd)
}

// connectMachinesStore connects to the database and returns a machines store
func connectMachinesStore() (*gormstore.MachinesStore, error) {
	database, err := db.Connect(db.Config{})
	if err != nil {
		return nil, err
	}
	return gormstore.NewMachinesStore(database), nil
}
