package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"mizu-in-go/pkg/config"
	"mizu-in-go/pkg/db"
	"mizu-in-go/pkg/ledger"
	"mizu-in-go/pkg/machine"
	"mizu-in-go/pkg/server"
	"mizu-in-go/pkg/server/endpoints"
)

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8000"
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the mizu API server",
	Long: `Run the mizu API server.

The server requires the environment variables DATABASE_URL, MIZU_JWT_SECRET,
and MIZU_MACHINE_API_TOKEN. Non-secret settings come from the config file
(see "mizuctl configuration show") or MIZU_* environment variables.

By default, database migrations are run on startup. Use --no-migrate to skip.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Validate required environment variables first (fail fast)
		if os.Getenv("DATABASE_URL") == "" {
			fmt.Fprintln(os.Stderr, "DATABASE_URL environment variable is required")
			os.Exit(1)
		}
		if config.JWTSecret() == "" {
			fmt.Fprintln(os.Stderr, "MIZU_JWT_SECRET environment variable is required")
			os.Exit(1)
		}
		if config.MachineAPIToken() == "" {
			fmt.Fprintln(os.Stderr, "MIZU_MACHINE_API_TOKEN environment variable is required")
			os.Exit(1)
		}

		cfg := config.Get()
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
			os.Exit(1)
		}
		if cfg.LedgerURL == "" {
			fmt.Fprintln(os.Stderr, "ledger_url must be configured (config file or MIZU_LEDGER_URL)")
			os.Exit(1)
		}

		// Run migrations unless --no-migrate is set
		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			log.Println("Running database migrations...")
			if err := runMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		database, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unable to connect to DB: %v\n", err)
			os.Exit(1)
		}

		credits := ledger.NewClient(cfg.LedgerURL, config.LedgerToken())
		drops := machine.NewClient(cfg.MachineDomain, config.MachineAPIToken(), cfg.DropTimeoutDuration())

		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")

		srv := server.NewServer(database, cfg, credits, drops, host, port)
		endpoints.RegisterAll(srv)

		// Reload the config file on change
		stop := make(chan struct{})
		defer close(stop)
		go func() {
			err := config.Watch(stop, func(cfg *config.MizuConfig) {
				log.Println("Configuration reloaded from", cfg.ConfigFilePath())
			})
			if err != nil {
				log.Println("Config watch disabled:", err)
			}
		}()

		log.Printf("Running server on %s:%s...", host, port)
		log.Fatal(srv.Start())
	},
}

func init() {
	serverCmd.Flags().String("bind-address", defaultBindAddress(), "Address to bind the server to")
	serverCmd.Flags().String("port", defaultPort(), "Port to run the server on")
	serverCmd.Flags().Bool("no-migrate", false, "Skip database migrations on startup")
	rootCmd.AddCommand(serverCmd)
}
