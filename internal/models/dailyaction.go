package models

// DateFormat is the calendar-day format used by the daily action counter.
const DateFormat = "2006-01-02"

// DailyActionData tracks today's usage of premium-gated actions. Counts are
// zeroed and the date advanced the first time it is read on a new calendar
// day. The JSON field names are the device-storage wire format and must not
// change.
type DailyActionData struct {
	Date           string `json:"date"`
	UndoCount      int    `json:"undoCount"`
	CheckGridCount int    `json:"checkGridCount"`
}
