package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"mizu-in-go/pkg/audit"
	"mizu-in-go/pkg/identity"
	"mizu-in-go/pkg/ledger"
	"mizu-in-go/pkg/machine"
	"mizu-in-go/pkg/server"
	"mizu-in-go/pkg/server/store"
)

// ItemResponse is the item record embedded in slot listings
type ItemResponse struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Price int    `json:"price"`
}

// SlotResponse is a slot annotated with the full item record it holds
type SlotResponse struct {
	Number int          `json:"number"`
	Active bool         `json:"active"`
	Item   ItemResponse `json:"item"`
}

// MachineContentsResponse is one machine with its ordered slots
type MachineContentsResponse struct {
	ID          int            `json:"id"`
	Name        string         `json:"name"`
	DisplayName string         `json:"display_name"`
	Slots       []SlotResponse `json:"slots"`
}

// DrinksResponse is the response from GET /drinks
type DrinksResponse struct {
	Machines []MachineContentsResponse `json:"machines"`
	Message  string                    `json:"message"`
}

// RegisterDrinksEndpoints registers the /drinks routes
func RegisterDrinksEndpoints(s *server.Server) {
	drinksRouter := s.Router.PathPrefix("/drinks").Subrouter()
	drinksRouter.Use(s.AuthMiddleware.Middleware)

	// GET /drinks?machine=<name> - machine contents
	drinksRouter.HandleFunc("", handleCurrentDrinks(s.MachinesStore, s.ItemsStore)).Methods("GET")

	// POST /drinks/drop - drop a drink
	drinksRouter.HandleFunc("/drop", handleDropDrink(s.MachinesStore, s.ItemsStore, s.Ledger, s.Drops)).Methods("POST")
}

func handleCurrentDrinks(machines store.MachinesStore, items store.ItemsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// optional request parameter, the name of the machine to query
		machineName := r.URL.Query().Get("machine")

		var selected []store.Machine
		if machineName == "" {
			all, err := machines.GetMachines()
			if err != nil {
				serverError(w, "Could not retrieve machines")
				return
			}
			selected = all
		} else {
			m, err := machines.GetMachine(machineName)
			if err != nil {
				if errors.Is(err, store.ErrMachineNotFound) {
					badParams(w, fmt.Sprintf("The provided machine name '%s' is not a valid machine", machineName))
					return
				}
				serverError(w, "Could not retrieve machines")
				return
			}
			selected = []store.Machine{*m}
		}

		response := DrinksResponse{Machines: make([]MachineContentsResponse, 0, len(selected))}
		names := make([]string, 0, len(selected))
		for _, m := range selected {
			slots, err := machines.GetSlotsInMachine(m.Name)
			if err != nil {
				serverError(w, fmt.Sprintf("Could not retrieve slots for machine '%s'", m.Name))
				return
			}

			contents := MachineContentsResponse{
				ID:          m.ID,
				Name:        m.Name,
				DisplayName: m.DisplayName,
				Slots:       make([]SlotResponse, 0, len(slots)),
			}
			for _, slot := range slots {
				item, err := items.GetItem(slot.Item)
				if err != nil {
					serverError(w, fmt.Sprintf("Could not retrieve item for slot '%d' of machine '%s'", slot.Number, m.Name))
					return
				}
				contents.Slots = append(contents.Slots, SlotResponse{
					Number: slot.Number,
					Active: slot.Active,
					Item:   ItemResponse{ID: item.ID, Name: item.Name, Price: item.Price},
				})
			}

			response.Machines = append(response.Machines, contents)
			names = append(names, m.Name)
		}

		response.Message = fmt.Sprintf(
			"Successfully retrieved machine contents for %s",
			strings.Join(names, ", "),
		)

		respondWithJSON(w, http.StatusOK, response)
	}
}

// dropRequest uses pointer fields so missing keys can be told apart from
// zero values when naming unprovided parameters
type dropRequest struct {
	Machine *string `json:"machine"`
	Slot    *int    `json:"slot"`
}

func handleDropDrink(
	machines store.MachinesStore,
	items store.ItemsStore,
	credits ledger.Ledger,
	drops machine.DropClient,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Unable to determine identity"))
			return
		}

		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "application/json" {
			badHeadersContentType(w)
			return
		}

		var body dropRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			badParams(w, "The request body could not be parsed as JSON")
			return
		}

		var unprovided []string
		if body.Machine == nil {
			unprovided = append(unprovided, "machine")
		}
		if body.Slot == nil {
			unprovided = append(unprovided, "slot")
		}
		if len(unprovided) > 0 {
			unprovidedParams(w, unprovided)
			return
		}

		m, err := machines.GetMachine(*body.Machine)
		if err != nil {
			if errors.Is(err, store.ErrMachineNotFound) {
				badParams(w, fmt.Sprintf("The machine name '%s' is not a valid machine", *body.Machine))
				return
			}
			serverError(w, "Could not retrieve machines")
			return
		}

		slot, err := machines.GetSlot(m.ID, *body.Slot)
		if err != nil {
			if errors.Is(err, store.ErrSlotNotFound) {
				badParams(w, fmt.Sprintf("The machine '%s' does not have a slot with id '%d'", *body.Machine, *body.Slot))
				return
			}
			serverError(w, "Could not retrieve slots")
			return
		}

		// The storage layer guarantees a slot's item reference resolves
		item, err := items.GetItem(slot.Item)
		if err != nil {
			serverError(w, "Could not retrieve the item held by the slot")
			return
		}

		balance, err := credits.GetBalance(r.Context(), id.Username)
		if err != nil {
			serverError(w, "Could not retrieve the user's drinkBalance")
			return
		}

		if balance < item.Price {
			audit.Log(audit.DropEvent{
				Username:     id.Username,
				Machine:      m.Name,
				Slot:         slot.Number,
				Item:         item.Name,
				Price:        item.Price,
				Success:      false,
				ErrorMessage: "insufficient drinkBalance",
			})
			respondWithJSON(w, http.StatusPaymentRequired, map[string]interface{}{
				"error":     fmt.Sprintf("The user '%s' does not have a sufficient drinkBalance", id.Username),
				"errorCode": http.StatusPaymentRequired,
			})
			return
		}

		// Do the thing
		status, err := drops.Drop(r.Context(), m.Name, slot.Number)
		if err != nil {
			audit.Log(audit.DropEvent{
				Username:     id.Username,
				Machine:      m.Name,
				Slot:         slot.Number,
				Item:         item.Name,
				Price:        item.Price,
				Success:      false,
				ErrorMessage: "machine unreachable",
			})
			respondWithJSON(w, http.StatusInternalServerError, map[string]interface{}{
				"error":     "Could not contact drink machine for drop!",
				"errorCode": http.StatusInternalServerError,
			})
			return
		}

		if status < 200 || status > 299 {
			audit.Log(audit.DropEvent{
				Username:     id.Username,
				Machine:      m.Name,
				Slot:         slot.Number,
				Item:         item.Name,
				Price:        item.Price,
				RemoteStatus: status,
				Success:      false,
				ErrorMessage: "machine rejected drop",
			})
			respondWithJSON(w, status, map[string]interface{}{
				"error":     "Could not access slot for drop!",
				"errorCode": status,
			})
			return
		}

		// The drop is physically done; debit strictly after confirmation
		newBalance := balance - item.Price
		if err := credits.SetBalance(r.Context(), id.Username, newBalance); err != nil {
			// The drink is out of the machine already. There is no way to
			// undo a physical drop, so surface the ledger failure as-is.
			audit.Log(audit.DropEvent{
				Username:     id.Username,
				Machine:      m.Name,
				Slot:         slot.Number,
				Item:         item.Name,
				Price:        item.Price,
				RemoteStatus: status,
				Success:      false,
				ErrorMessage: "drop succeeded but drinkBalance update failed",
			})
			serverError(w, "The drop succeeded but the drinkBalance could not be updated")
			return
		}

		audit.Log(audit.DropEvent{
			Username:     id.Username,
			Machine:      m.Name,
			Slot:         slot.Number,
			Item:         item.Name,
			Price:        item.Price,
			RemoteStatus: status,
			Success:      true,
		})
		respondWithJSON(w, status, map[string]interface{}{
			"message":      "Drop successful!",
			"drinkBalance": newBalance,
		})
	}
}
