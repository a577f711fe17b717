package audit

import (
	"fmt"
	"strconv"
)

// DropEvent records a drop attempt and its outcome
type DropEvent struct {
	Username     string
	Machine      string
	Slot         int
	Item         string
	Price        int
	RemoteStatus int
	Success      bool
	ErrorMessage string
}

func (e DropEvent) MessageID() string {
	return "drop"
}

func (e DropEvent) Message() string {
	target := fmt.Sprintf("slot %d of %s", e.Slot, e.Machine)
	if e.Item != "" {
		target = fmt.Sprintf("%s (%q)", target, e.Item)
	}
	if e.Success {
		return fmt.Sprintf("%s dropped %s for %d credits", e.Username, target, e.Price)
	}
	msg := fmt.Sprintf("%s tried to drop %s", e.Username, target)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e DropEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e DropEvent) Facility() int {
	return FacilityUser
}

func (e DropEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"user": e.Username,
		},
		SDIDSubject: {
			"machine": e.Machine,
			"slot":    strconv.Itoa(e.Slot),
		},
		SDIDAction: {
			"operation": "drop",
		},
	}
	if e.Item != "" {
		sd[SDIDSubject]["item"] = e.Item
		sd[SDIDSubject]["price"] = strconv.Itoa(e.Price)
	}
	if e.RemoteStatus != 0 {
		sd[SDIDAction]["remote_status"] = strconv.Itoa(e.RemoteStatus)
	}
	if e.Success {
		sd[SDIDAction]["result"] = "success"
	} else {
		sd[SDIDAction]["result"] = "failure"
	}
	return sd
}
