package domain

import "time"

type ConnectionStatus string

const (
	ConnDisconnected ConnectionStatus = "disconnected"
	ConnConnecting   ConnectionStatus = "connecting"
	ConnConnected    ConnectionStatus = "connected"
	ConnError        ConnectionStatus = "error"
)

// PrinterConnection mirrors the realtime channel lifecycle for status display.
// One row per restaurant is authoritative; reconnects overwrite it.
type PrinterConnection struct {
	RestaurantID  int64            `json:"restaurant_id"`
	ConnectionID  string           `json:"connection_id"`
	Status        ConnectionStatus `json:"status"`
	LastHeartbeat *time.Time       `json:"last_heartbeat,omitempty"`
	LastError     string           `json:"last_error,omitempty"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

type Printer struct {
	ID           int64  `json:"id"`
	RestaurantID int64  `json:"restaurant_id"`
	Name         string `json:"name"`
	Target       string `json:"target"` // kitchen, bar, counter
	Active       bool   `json:"active"`
}

type PrintJobType string

const (
	JobTypeOrder   PrintJobType = "order"
	JobTypeReceipt PrintJobType = "receipt"
	JobTypeKitchen PrintJobType = "kitchen"
	JobTypeBar     PrintJobType = "bar"
	JobTypeTest    PrintJobType = "test"
)

type PrintJobStatus string

const (
	JobPending    PrintJobStatus = "pending"
	JobProcessing PrintJobStatus = "processing"
	JobCompleted  PrintJobStatus = "completed"
	JobFailed     PrintJobStatus = "failed"
	JobCancelled  PrintJobStatus = "cancelled"
)

type PrintJob struct {
	ID           int64          `json:"id"`
	RestaurantID int64          `json:"restaurant_id"`
	PrinterID    *int64         `json:"printer_id,omitempty"`
	OrderID      *int64         `json:"order_id,omitempty"`
	JobType      PrintJobType   `json:"job_type"`
	Content      string         `json:"content"`
	Copies       int            `json:"copies"`
	Priority     int            `json:"priority"`
	Status       PrintJobStatus `json:"status"`
	RetryCount   int            `json:"retry_count"`
	MaxRetries   int            `json:"max_retries"`
	ErrorMessage string         `json:"error_message,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}
