// Package server assembles the HTTP server, its router, and its stores.
package server

import (
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"mizu-in-go/pkg/config"
	"mizu-in-go/pkg/ledger"
	"mizu-in-go/pkg/machine"
	"mizu-in-go/pkg/server/middleware"
	"mizu-in-go/pkg/server/store"
	gormstore "mizu-in-go/pkg/server/store/gorm"
)

type Server struct {
	Router *mux.Router
	DB     *gorm.DB
	Config *config.MizuConfig

	MachinesStore store.MachinesStore
	ItemsStore    store.ItemsStore
	HealthStore   store.HealthStore

	Ledger ledger.Ledger
	Drops  machine.DropClient

	AuthMiddleware *middleware.TokenAuthenticator

	srv *http.Server
}

// NewServer wires up a server with GORM-backed stores and the provided
// collaborator clients.
func NewServer(
	db *gorm.DB,
	cfg *config.MizuConfig,
	credits ledger.Ledger,
	drops machine.DropClient,
	host string,
	port string,
) *Server {
	router := mux.NewRouter().UseEncodedPath()

	var handler http.Handler = router
	if len(cfg.TrustedProxies) > 0 {
		handler = middleware.NewProxyResolver(cfg).Middleware(handler)
	}

	srv := &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, handler),
		Addr:    host + ":" + port,
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Router:         router,
		DB:             db,
		Config:         cfg,
		MachinesStore:  gormstore.NewMachinesStore(db),
		ItemsStore:     gormstore.NewItemsStore(db),
		HealthStore:    gormstore.NewHealthStore(db),
		Ledger:         credits,
		Drops:          drops,
		AuthMiddleware: middleware.NewTokenAuthenticator([]byte(config.JWTSecret())),
		srv:            srv,
	}
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}
