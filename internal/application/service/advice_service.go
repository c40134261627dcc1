package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/damon-houk/artha-ledger/internal/domain/entity"
	advisor "github.com/damon-houk/artha-ledger/internal/domain/service"
	"github.com/damon-houk/artha-ledger/internal/infrastructure/logger"
	"github.com/damon-houk/artha-ledger/internal/infrastructure/middleware"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/semaphore"
)

const (
	// Greeting opens every conversation
	Greeting = "Namaste! I'm Artha, your personal finance assistant. I can help you track expenses, summarize your spending, or give you savings tips. How are you feeling about your finances today?"
	// ChatFallback is the reply used when the advice service fails
	ChatFallback = "I'm sorry, I'm having trouble thinking right now. Could you repeat that?"
	// EmptyReply is the reply used when the advice service answers with nothing
	EmptyReply = "I'm not sure how to respond to that."
)

var (
	// ErrAdvisorBusy is returned when a request of the same kind is already in flight
	ErrAdvisorBusy = errors.New("an advice request is already in progress")
	// ErrEmptyMessage is returned for a blank chat message
	ErrEmptyMessage = errors.New("message must not be empty")
)

// ChatResult is the outcome of one chat turn
type ChatResult struct {
	Reply    entity.ChatMessage   `json:"reply"`
	Recorded []entity.Transaction `json:"recorded,omitempty"`
}

// AdviceService forwards ledger data to the external advisor.
// Insights and chat each allow one request in flight; a second one is rejected
// rather than queued. The ledger is never locked while a request is pending.
type AdviceService struct {
	store   *LedgerStore
	advisor advisor.Advisor
	logger  logger.Logger
	now     func() time.Time

	insightsBusy *semaphore.Weighted
	chatBusy     *semaphore.Weighted

	mu      sync.Mutex
	history []entity.ChatMessage
}

// NewAdviceService creates a new advice service
func NewAdviceService(store *LedgerStore, adv advisor.Advisor, log logger.Logger) *AdviceService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	s := &AdviceService{
		store:        store,
		advisor:      adv,
		logger:       log,
		now:          time.Now,
		insightsBusy: semaphore.NewWeighted(1),
		chatBusy:     semaphore.NewWeighted(1),
	}
	s.history = []entity.ChatMessage{{Role: entity.RoleAssistant, Content: Greeting, Timestamp: s.now()}}

	return s
}

// Insights requests a report for the current ledger. It returns nil without
// calling out when the ledger is empty, and nil when the advisor fails.
func (s *AdviceService) Insights(ctx context.Context) (*entity.InsightReport, error) {
	if !s.insightsBusy.TryAcquire(1) {
		return nil, ErrAdvisorBusy
	}
	defer s.insightsBusy.Release(1)

	requestID := middleware.GetRequestID(ctx)
	snap := s.store.Snapshot()
	if len(snap.Transactions) == 0 {
		s.logger.Info("Skipping insights for empty ledger", map[string]interface{}{
			"request_id": requestID,
		})
		return nil, nil
	}

	start := time.Now()
	report, err := s.advisor.Insights(ctx, advisor.InsightRequest{
		Transactions: snap.Transactions,
		Budgets:      []entity.Budget{},
		Goals:        []entity.SavingsGoal{},
	})
	if err != nil {
		s.logger.Error("Insight request failed", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		return nil, nil
	}

	if report == nil || (len(report.Insights) == 0 && report.Summary == "") {
		s.logger.Warn("Advisor returned an empty insight report", map[string]interface{}{
			"request_id": requestID,
		})
		return nil, nil
	}

	s.logger.Info("Insights received", map[string]interface{}{
		"request_id":  requestID,
		"insights":    len(report.Insights),
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return report, nil
}

// Chat sends message with the running conversation and the current ledger.
// Failures are answered with ChatFallback; transactions the assistant proposes
// are recorded through the ledger store.
func (s *AdviceService) Chat(ctx context.Context, message string) (*ChatResult, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}

	if !s.chatBusy.TryAcquire(1) {
		return nil, ErrAdvisorBusy
	}
	defer s.chatBusy.Release(1)

	requestID := middleware.GetRequestID(ctx)

	s.mu.Lock()
	prior := make([]entity.ChatMessage, len(s.history))
	copy(prior, s.history)
	s.history = append(s.history, entity.ChatMessage{Role: entity.RoleUser, Content: message, Timestamp: s.now()})
	s.mu.Unlock()

	result := &ChatResult{}
	content := ChatFallback

	reply, err := s.advisor.Chat(ctx, advisor.ChatRequest{
		History:      prior,
		Message:      message,
		Transactions: s.store.Snapshot().Transactions,
	})

	switch {
	case err != nil:
		s.logger.Error("Chat request failed", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
	case reply == nil:
		content = EmptyReply
	default:
		result.Recorded = s.record(ctx, reply.Proposed)
		content = strings.TrimSpace(reply.Content)
		if content == "" {
			content = confirmation(result.Recorded)
		}
	}

	result.Reply = entity.ChatMessage{Role: entity.RoleAssistant, Content: content, Timestamp: s.now()}

	s.mu.Lock()
	s.history = append(s.history, result.Reply)
	s.mu.Unlock()

	return result, nil
}

// History returns a copy of the conversation so far
func (s *AdviceService) History() []entity.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entity.ChatMessage, len(s.history))
	copy(out, s.history)
	return out
}

func (s *AdviceService) record(ctx context.Context, proposed []advisor.ProposedTransaction) []entity.Transaction {
	var recorded []entity.Transaction
	for _, p := range proposed {
		tx, err := s.store.Add(ctx, NewTransaction{
			Type:        p.Type,
			Category:    p.Category,
			Amount:      decimal.NewFromFloat(p.Amount).String(),
			Date:        p.Date,
			Description: p.Description,
		})
		if err != nil {
			s.logger.Warn("Assistant proposed an invalid transaction", map[string]interface{}{
				"request_id": middleware.GetRequestID(ctx),
				"error":      err.Error(),
			})
			continue
		}
		recorded = append(recorded, tx)
	}
	return recorded
}

func confirmation(recorded []entity.Transaction) string {
	if len(recorded) == 0 {
		return EmptyReply
	}

	parts := make([]string, 0, len(recorded))
	for _, tx := range recorded {
		parts = append(parts, tx.Category+" "+string(tx.Type)+" of "+entity.CurrencySymbol+
			decimal.NewFromFloat(tx.Amount).String())
	}
	return "Done! I've recorded: " + strings.Join(parts, ", ") + "."
}
