package audit

import (
	"fmt"
	"strconv"
)

// ItemEvent records an item create, update, or delete
type ItemEvent struct {
	Username     string
	Operation    string // "create", "update", or "delete"
	ItemID       int
	ItemName     string
	Success      bool
	ErrorMessage string
}

func (e ItemEvent) MessageID() string {
	return "item"
}

func (e ItemEvent) Message() string {
	item := fmt.Sprintf("item %d", e.ItemID)
	if e.ItemName != "" {
		item = fmt.Sprintf("%s (%q)", item, e.ItemName)
	}
	if e.Success {
		return fmt.Sprintf("%s performed %s on %s", e.Username, e.Operation, item)
	}
	msg := fmt.Sprintf("%s failed to %s %s", e.Username, e.Operation, item)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e ItemEvent) Severity() Severity {
	if e.Success {
		return SeverityNotice
	}
	return SeverityWarning
}

func (e ItemEvent) Facility() int {
	return FacilityUser
}

func (e ItemEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"user": e.Username,
		},
		SDIDSubject: {
			"item": strconv.Itoa(e.ItemID),
		},
		SDIDAction: {
			"operation": e.Operation,
		},
	}
	if e.ItemName != "" {
		sd[SDIDSubject]["name"] = e.ItemName
	}
	if e.Success {
		sd[SDIDAction]["result"] = "success"
	} else {
		sd[SDIDAction]["result"] = "failure"
	}
	return sd
}
