package models

type DeliveryStatus string

const (
	DeliverySent   DeliveryStatus = "sent"
	DeliveryFailed DeliveryStatus = "fail"
)

// DeliveryLogEntry is one record per dispatch attempt-cycle for a
// connector, holding the final outcome and the attempt count reached.
// The per-connector log is stored as CSV (columns event,status,attempt,
// time) under logs/{tenant}/{connector}.csv.
type DeliveryLogEntry struct {
	Event   string         `json:"event"`
	Status  DeliveryStatus `json:"status"`
	Attempt int            `json:"attempt"`
	Time    string         `json:"time"` // display-formatted, tenant-local offset
}
