package audit

import (
	"bytes"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rfc5424Line = regexp.MustCompile(
	`^<(\d+)>1 \d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z \S+ mizu \d+ (\S+) (.*)\n$`,
)

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger()
	logger.SetWriter(&buf)

	logger.Log(DropEvent{
		Username: "mcmurray",
		Machine:  "bigdrink",
		Slot:     1,
		Item:     "Cola",
		Price:    450,
		Success:  true,
	})

	line := buf.String()
	matches := rfc5424Line.FindStringSubmatch(line)
	require.NotNil(t, matches, "not an RFC5424 line: %q", line)

	// facility USER (1) * 8 + severity INFO (6)
	assert.Equal(t, "14", matches[1])
	assert.Equal(t, "drop", matches[2])
	assert.Contains(t, matches[3], `[auth@32473 user="mcmurray"]`)
	assert.Contains(t, matches[3], `mcmurray dropped slot 1 of bigdrink ("Cola") for 450 credits`)
}

func TestDropEvent(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		e := DropEvent{Username: "mcmurray", Machine: "bigdrink", Slot: 2, Item: "Water", Price: 100, Success: true}
		assert.Equal(t, SeverityInfo, e.Severity())
		assert.Equal(t, FacilityUser, e.Facility())
		assert.Equal(t, `mcmurray dropped slot 2 of bigdrink ("Water") for 100 credits`, e.Message())
		assert.Equal(t, "success", e.StructuredData()[SDIDAction]["result"])
		assert.Equal(t, "100", e.StructuredData()[SDIDSubject]["price"])
	})

	t.Run("failure with remote status", func(t *testing.T) {
		e := DropEvent{
			Username:     "mcmurray",
			Machine:      "bigdrink",
			Slot:         2,
			RemoteStatus: 404,
			ErrorMessage: "Could not access slot for drop!",
		}
		assert.Equal(t, SeverityWarning, e.Severity())
		assert.Equal(t, "mcmurray tried to drop slot 2 of bigdrink: Could not access slot for drop!", e.Message())

		sd := e.StructuredData()
		assert.Equal(t, "failure", sd[SDIDAction]["result"])
		assert.Equal(t, "404", sd[SDIDAction]["remote_status"])
		assert.NotContains(t, sd[SDIDSubject], "item")
	})
}

func TestItemEvent(t *testing.T) {
	e := ItemEvent{Username: "adminuser", Operation: "update", ItemID: 7, ItemName: "Cola", Success: true}
	assert.Equal(t, SeverityNotice, e.Severity())
	assert.Equal(t, "item", e.MessageID())
	assert.Equal(t, `adminuser performed update on item 7 ("Cola")`, e.Message())
	assert.Equal(t, "update", e.StructuredData()[SDIDAction]["operation"])

	failed := ItemEvent{Username: "adminuser", Operation: "delete", ItemID: 7, ErrorMessage: "not found"}
	assert.Equal(t, "adminuser failed to delete item 7: not found", failed.Message())
}

func TestEscapeSDValue(t *testing.T) {
	assert.Equal(t, `"plain"`, escapeSDValue("plain"))
	assert.Equal(t, `"has \"quotes\""`, escapeSDValue(`has "quotes"`))
	assert.Equal(t, `"has \\ and \]"`, escapeSDValue(`has \ and ]`))
}
