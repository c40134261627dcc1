package handler

import (
	"bytes"
	"encoding/json"

	"github.com/damon-houk/artha-ledger/internal/domain/aggregate"
	"github.com/damon-houk/artha-ledger/internal/domain/entity"
)

// RawAmount accepts an amount sent either as a JSON number or as a string.
// The text is kept verbatim and validated by the ledger.
type RawAmount string

// UnmarshalJSON implements json.Unmarshaler
func (a *RawAmount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*a = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = RawAmount(s)
	default:
		*a = RawAmount(b)
	}
	return nil
}

// CreateTransactionRequest represents the request body for creating a transaction
type CreateTransactionRequest struct {
	Type        entity.TransactionType `json:"type"`
	Category    string                 `json:"category"`
	Amount      RawAmount              `json:"amount"`
	Date        string                 `json:"date"`
	Description string                 `json:"description"`
}

// TransactionListResponse represents the response for the list endpoint
type TransactionListResponse struct {
	Transactions []entity.Transaction `json:"transactions"`
	Count        int                  `json:"count"`
	Total        int                  `json:"total"`
}

// DashboardResponse represents the response for the dashboard endpoint
type DashboardResponse struct {
	Currency      string                    `json:"currency"`
	Summary       aggregate.Summary         `json:"summary"`
	Categories    map[string]float64        `json:"categories"`
	TopCategories []aggregate.CategoryTotal `json:"top_categories"`
	Daily         []aggregate.DailyExpense  `json:"daily"`
	Recent        []entity.Transaction      `json:"recent"`
}

// CategoriesResponse lists the recommended categories per transaction type
type CategoriesResponse struct {
	Expense []string `json:"expense"`
	Income  []string `json:"income"`
}

// InsightsResponse wraps the insight report; Report is null when no insights are available
type InsightsResponse struct {
	Report *entity.InsightReport `json:"report"`
}

// ChatRequest represents the request body for the chat endpoint
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse represents the response for the chat endpoint
type ChatResponse struct {
	Reply    entity.ChatMessage   `json:"reply"`
	Recorded []entity.Transaction `json:"recorded"`
}

// ChatHistoryResponse represents the running conversation
type ChatHistoryResponse struct {
	Messages []entity.ChatMessage `json:"messages"`
}

// HealthResponse represents the response for the health endpoint
type HealthResponse struct {
	Status       string `json:"status"`
	Transactions int    `json:"transactions"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error       string `json:"error"`
	Status      int    `json:"status"`
	Description string `json:"description,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}
