package service

import (
	"context"
	"errors"

	"github.com/damon-houk/artha-ledger/internal/domain/entity"
)

// ErrAdvisorUnavailable is returned when the advice service cannot be reached or is not configured
var ErrAdvisorUnavailable = errors.New("advice service unavailable")

// InsightRequest is the data sent to the advice service for an insights report
type InsightRequest struct {
	Transactions []entity.Transaction
	Budgets      []entity.Budget
	Goals        []entity.SavingsGoal
}

// ChatRequest is the data sent to the advice service for one chat turn
type ChatRequest struct {
	History      []entity.ChatMessage
	Message      string
	Transactions []entity.Transaction
}

// ProposedTransaction is a transaction the assistant asked to record on the user's behalf
type ProposedTransaction struct {
	Type        entity.TransactionType `json:"type" validate:"required,oneof=income expense"`
	Category    string                 `json:"category" validate:"max=64"`
	Amount      float64                `json:"amount" validate:"gt=0"`
	Date        string                 `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Description string                 `json:"description,omitempty" validate:"max=200"`
}

// ChatReply is the advice service's answer to a chat turn
type ChatReply struct {
	Content  string
	Proposed []ProposedTransaction
}

// Advisor defines the interface for the external advice service
type Advisor interface {
	// Insights asks for a short list of suggestions about the supplied ledger
	Insights(ctx context.Context, req InsightRequest) (*entity.InsightReport, error)

	// Chat sends one user message along with the prior conversation
	Chat(ctx context.Context, req ChatRequest) (*ChatReply, error)
}
