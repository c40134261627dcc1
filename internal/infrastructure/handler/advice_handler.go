package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/damon-houk/artha-ledger/internal/application/service"
	"github.com/damon-houk/artha-ledger/internal/domain/entity"
	"github.com/damon-houk/artha-ledger/internal/infrastructure/logger"
	"github.com/damon-houk/artha-ledger/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// AdviceHandler handles HTTP requests for insights and the assistant chat
type AdviceHandler struct {
	service *service.AdviceService
	limit   func(http.Handler) http.Handler
	logger  logger.Logger
}

// NewAdviceHandler creates a new advice handler. limit wraps the routes that
// call out to the advice service; nil leaves them unlimited.
func NewAdviceHandler(svc *service.AdviceService, limit func(http.Handler) http.Handler, log logger.Logger) *AdviceHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	if limit == nil {
		limit = func(next http.Handler) http.Handler { return next }
	}

	return &AdviceHandler{
		service: svc,
		limit:   limit,
		logger:  log,
	}
}

// GetInsights requests an insight report for the current ledger.
// A null report means no insights are available.
func (h *AdviceHandler) GetInsights(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	h.logger.Info("Handling insights request", map[string]interface{}{
		"request_id": requestID,
	})

	report, err := h.service.Insights(r.Context())
	if err != nil {
		h.sendServiceError(w, err, requestID)
		return
	}

	writeJSON(w, http.StatusOK, InsightsResponse{Report: report})
}

// Chat sends one message to the assistant
func (h *AdviceHandler) Chat(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Invalid request body",
			"The request body could not be parsed as valid JSON", http.StatusBadRequest, requestID)
		return
	}

	result, err := h.service.Chat(r.Context(), req.Message)
	if err != nil {
		h.sendServiceError(w, err, requestID)
		return
	}

	recorded := result.Recorded
	if recorded == nil {
		recorded = []entity.Transaction{}
	}

	writeJSON(w, http.StatusOK, ChatResponse{Reply: result.Reply, Recorded: recorded})
}

// ChatHistory returns the conversation so far
func (h *AdviceHandler) ChatHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ChatHistoryResponse{Messages: h.service.History()})
}

// RegisterRoutes registers the advice handler routes
func (h *AdviceHandler) RegisterRoutes(router *mux.Router) {
	router.Handle("/insights", h.limit(http.HandlerFunc(h.GetInsights))).Methods("POST")
	router.Handle("/chat", h.limit(http.HandlerFunc(h.Chat))).Methods("POST")
	router.HandleFunc("/chat/history", h.ChatHistory).Methods("GET")

	h.logger.Info("Advice routes registered", map[string]interface{}{
		"routes": []string{
			"POST /insights",
			"POST /chat",
			"GET /chat/history",
		},
	})
}

func (h *AdviceHandler) sendServiceError(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, service.ErrEmptyMessage):
		sendErrorResponse(w, h.logger, "Empty message",
			"The 'message' field must not be empty", http.StatusBadRequest, requestID)
	case errors.Is(err, service.ErrAdvisorBusy):
		sendErrorResponse(w, h.logger, "Request in progress",
			"Another request of this kind is still being answered", http.StatusConflict, requestID)
	default:
		h.logger.Error("Unexpected error in advice request", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Internal server error",
			"An unexpected error occurred while contacting the assistant",
			http.StatusInternalServerError, requestID)
	}
}
