package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mizu-in-go/pkg/config"
)

// configurationCmd represents the configuration command
var configurationCmd = &cobra.Command{
	Use:   "configuration",
	Short: "Manage server configuration",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'configuration' requires a subcommand (show)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

var configurationShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current configuration and where each value came from",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			os.Exit(1)
		}

		output, _ := cmd.Flags().GetString("output")
		switch output {
		case "json":
			out, err := cfg.FormatJSON()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to format configuration: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(out)
		default:
			fmt.Print(cfg.FormatText())
		}
	},
}

func init() {
	configurationShowCmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
	configurationCmd.AddCommand(configurationShowCmd)
	rootCmd.AddCommand(configurationCmd)
}
