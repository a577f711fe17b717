package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"mizu-in-go/pkg/audit"
	"mizu-in-go/pkg/identity"
	"mizu-in-go/pkg/server"
	"mizu-in-go/pkg/server/store"
)

// ItemsResponse is the response from GET /items
type ItemsResponse struct {
	Items   []ItemResponse `json:"items"`
	Message string         `json:"message"`
}

// RegisterItemsEndpoints registers the /items routes
func RegisterItemsEndpoints(s *server.Server) {
	itemsRouter := s.Router.PathPrefix("/items").Subrouter()
	itemsRouter.Use(s.AuthMiddleware.Middleware)

	itemsRouter.HandleFunc("", handleGetItems(s.ItemsStore)).Methods("GET")
	itemsRouter.HandleFunc("", handleCreateItem(s.ItemsStore)).Methods("POST")
	itemsRouter.HandleFunc("", handleUpdateItem(s.ItemsStore)).Methods("PUT")
	itemsRouter.HandleFunc("", handleDeleteItem(s.ItemsStore)).Methods("DELETE")
}

func handleGetItems(items store.ItemsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := items.GetItems()
		if err != nil {
			serverError(w, "Could not retrieve items")
			return
		}

		response := ItemsResponse{
			Items:   make([]ItemResponse, 0, len(all)),
			Message: "Successfully retrieved all items",
		}
		for _, item := range all {
			response.Items = append(response.Items, ItemResponse{
				ID:    item.ID,
				Name:  item.Name,
				Price: item.Price,
			})
		}

		respondWithJSON(w, http.StatusOK, response)
	}
}

// decodeItemBody enforces the JSON content-type contract shared by the item
// mutation endpoints
func decodeItemBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		badHeadersContentType(w)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		badParams(w, "The request body could not be parsed as JSON")
		return false
	}
	return true
}

type createItemRequest struct {
	Name  *string `json:"name"`
	Price *int    `json:"price"`
}

func handleCreateItem(items store.ItemsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())

		var body createItemRequest
		if !decodeItemBody(w, r, &body) {
			return
		}

		var unprovided []string
		if body.Name == nil {
			unprovided = append(unprovided, "name")
		}
		if body.Price == nil {
			unprovided = append(unprovided, "price")
		}
		if len(unprovided) > 0 {
			unprovidedParams(w, unprovided)
			return
		}

		if *body.Name == "" {
			badParams(w, "An item name cannot be empty")
			return
		}
		if *body.Price < 0 {
			badParams(w, "An item price cannot be negative")
			return
		}

		item, err := items.CreateItem(*body.Name, *body.Price)
		if err != nil {
			serverError(w, "Could not create the item")
			return
		}

		audit.Log(audit.ItemEvent{
			Username:  id.Username,
			Operation: "create",
			ItemID:    item.ID,
			ItemName:  item.Name,
			Success:   true,
		})
		respondWithJSON(w, http.StatusCreated, map[string]interface{}{
			"item":    ItemResponse{ID: item.ID, Name: item.Name, Price: item.Price},
			"message": fmt.Sprintf("Successfully created item '%s'", item.Name),
		})
	}
}

type updateItemRequest struct {
	ID    *int    `json:"id"`
	Name  *string `json:"name"`
	Price *int    `json:"price"`
}

func handleUpdateItem(items store.ItemsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())

		var body updateItemRequest
		if !decodeItemBody(w, r, &body) {
			return
		}

		if body.ID == nil {
			unprovidedParams(w, []string{"id"})
			return
		}
		if body.Name == nil && body.Price == nil {
			badParams(w, "Please provide an updated name and/or price")
			return
		}
		if body.Name != nil && *body.Name == "" {
			badParams(w, "An item name cannot be empty")
			return
		}
		if body.Price != nil && *body.Price < 0 {
			badParams(w, "An item price cannot be negative")
			return
		}

		item, err := items.UpdateItem(*body.ID, body.Name, body.Price)
		if err != nil {
			if errors.Is(err, store.ErrItemNotFound) {
				badParams(w, fmt.Sprintf("The item id '%d' does not correspond to an item in the system", *body.ID))
				return
			}
			serverError(w, "Could not update the item")
			return
		}

		audit.Log(audit.ItemEvent{
			Username:  id.Username,
			Operation: "update",
			ItemID:    item.ID,
			ItemName:  item.Name,
			Success:   true,
		})
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"item":    ItemResponse{ID: item.ID, Name: item.Name, Price: item.Price},
			"message": fmt.Sprintf("Successfully updated item '%s'", item.Name),
		})
	}
}

type deleteItemRequest struct {
	ID *int `json:"id"`
}

func handleDeleteItem(items store.ItemsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())

		var body deleteItemRequest
		if !decodeItemBody(w, r, &body) {
			return
		}

		if body.ID == nil {
			unprovidedParams(w, []string{"id"})
			return
		}

		deleted, err := items.DeleteItem(*body.ID)
		if err != nil {
			serverError(w, "Could not delete the item")
			return
		}
		if !deleted {
			badParams(w, fmt.Sprintf("The item id '%d' does not correspond to an item in the system", *body.ID))
			return
		}

		audit.Log(audit.ItemEvent{
			Username:  id.Username,
			Operation: "delete",
			ItemID:    *body.ID,
			Success:   true,
		})
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"message": fmt.Sprintf("Successfully deleted item '%d'", *body.ID),
		})
	}
}
