// Package api contains the request and response shapes of the stats API.
// Version v1 represents the current stable API version.
package api

import (
	"time"

	"brickstats/pkg/contracts/domain"
)

// Limit bounds for ranked list endpoints
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// LimitQuery is the query of the ranked list endpoints
type LimitQuery struct {
	Limit int `json:"limit" query:"limit" validate:"min=1,max=100"`
}

// DataResponse wraps every successful payload
type DataResponse[T any] struct {
	Data        T         `json:"data"`
	Count       int       `json:"count,omitempty"`
	GeneratedAt time.Time `json:"generated_at,omitempty"`
}

// TablesResponse lists the merged tables behind the statistics
type TablesResponse struct {
	Tables []domain.TableSummary `json:"tables"`
	Count  int                   `json:"count"`
}

// StepSummary is one step of a pipeline run as reported by the API
type StepSummary struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Status   string         `json:"status"`
	Message  string         `json:"message,omitempty"`
	Error    string         `json:"error,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// OperationResponse reports a pipeline run triggered through the API
type OperationResponse struct {
	ID         string        `json:"id"`
	Pipeline   string        `json:"pipeline"`
	Status     string        `json:"status"`
	DurationMS int64         `json:"duration_ms"`
	Steps      []StepSummary `json:"steps"`
}

// RefreshResponse reports a statistics reload
type RefreshResponse struct {
	Status   string    `json:"status"`
	LoadedAt time.Time `json:"loaded_at"`
}
