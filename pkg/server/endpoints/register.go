package endpoints

import (
	"mizu-in-go/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterDrinksEndpoints(srv)
	RegisterItemsEndpoints(srv)
	RegisterStatusEndpoints(srv)
}
