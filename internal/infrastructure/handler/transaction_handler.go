package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/damon-houk/artha-ledger/internal/application/service"
	"github.com/damon-houk/artha-ledger/internal/domain/entity"
	"github.com/damon-houk/artha-ledger/internal/infrastructure/logger"
	"github.com/damon-houk/artha-ledger/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

const (
	// DashboardTopCategories is the number of categories listed on the dashboard
	DashboardTopCategories = 4
	// DashboardRecent is the number of recent transactions listed on the dashboard
	DashboardRecent = 5
)

// TransactionHandler handles HTTP requests for transactions and the dashboard
type TransactionHandler struct {
	store     *service.LedgerStore
	dashboard *service.DashboardService
	logger    logger.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(store *service.LedgerStore, dashboard *service.DashboardService, log logger.Logger) *TransactionHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &TransactionHandler{
		store:     store,
		dashboard: dashboard,
		logger:    log,
	}
}

// CreateTransaction handles the creation of a new transaction
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	h.logger.Info("Handling create transaction request", map[string]interface{}{
		"request_id": requestID,
		"method":     r.Method,
		"path":       r.URL.Path,
	})

	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Invalid request body",
			"The request body could not be parsed as valid JSON", http.StatusBadRequest, requestID)
		return
	}

	tx, err := h.store.Add(r.Context(), service.NewTransaction{
		Type:        req.Type,
		Category:    req.Category,
		Amount:      string(req.Amount),
		Date:        req.Date,
		Description: req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrInvalidAmount):
			sendErrorResponse(w, h.logger, "Invalid amount",
				"Amount must be a non-negative number", http.StatusBadRequest, requestID)
		case errors.Is(err, entity.ErrInvalidType):
			sendErrorResponse(w, h.logger, "Invalid type",
				"Type must be either 'income' or 'expense'", http.StatusBadRequest, requestID)
		case errors.Is(err, entity.ErrInvalidDate):
			sendErrorResponse(w, h.logger, "Invalid date format",
				"Date must be in YYYY-MM-DD format", http.StatusBadRequest, requestID)
		case errors.Is(err, service.ErrDuplicateID):
			sendErrorResponse(w, h.logger, "Duplicate transaction",
				"A transaction with this id already exists", http.StatusConflict, requestID)
		default:
			h.logger.Error("Unexpected error in create transaction", map[string]interface{}{
				"request_id": requestID,
				"error":      err.Error(),
			})
			sendErrorResponse(w, h.logger, "Internal server error",
				"An unexpected error occurred while saving the transaction",
				http.StatusInternalServerError, requestID)
		}
		return
	}

	h.logger.Info("Transaction created successfully", map[string]interface{}{
		"request_id": requestID,
		"id":         tx.ID,
	})

	writeJSON(w, http.StatusCreated, tx)
}

// ListTransactions returns the ledger newest first, optionally limited by ?limit=N
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			sendErrorResponse(w, h.logger, "Invalid limit",
				"The 'limit' query parameter must be a non-negative integer", http.StatusBadRequest, requestID)
			return
		}
		limit = n
	}

	txs := h.dashboard.RecentTransactions(limit)

	writeJSON(w, http.StatusOK, TransactionListResponse{
		Transactions: txs,
		Count:        len(txs),
		Total:        h.store.Len(),
	})
}

// GetTransaction handles retrieving a transaction by ID
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := mux.Vars(r)["id"]

	tx, ok := h.store.Find(id)
	if !ok {
		h.logger.Warn("Transaction not found", map[string]interface{}{
			"request_id": requestID,
			"id":         id,
		})
		sendErrorResponse(w, h.logger, "Transaction not found",
			"The requested transaction could not be found", http.StatusNotFound, requestID)
		return
	}

	writeJSON(w, http.StatusOK, tx)
}

// GetDashboard returns the summary, category breakdown, daily trend and recent activity
func (h *TransactionHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	o := h.dashboard.Overview(r.Context(), DashboardTopCategories, DashboardRecent)

	writeJSON(w, http.StatusOK, DashboardResponse{
		Currency:      entity.CurrencySymbol,
		Summary:       o.Summary,
		Categories:    o.Categories,
		TopCategories: o.TopCategories,
		Daily:         o.Daily,
		Recent:        o.Recent,
	})
}

// GetCategories returns the recommended categories for each transaction type
func (h *TransactionHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, CategoriesResponse{
		Expense: entity.CategoriesFor(entity.Expense),
		Income:  entity.CategoriesFor(entity.Income),
	})
}

// Health reports liveness and the ledger size
func (h *TransactionHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Transactions: h.store.Len()})
}

// RegisterRoutes registers the transaction handler routes
func (h *TransactionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/transactions", h.ListTransactions).Methods("GET")
	router.HandleFunc("/transactions", h.CreateTransaction).Methods("POST")
	router.HandleFunc("/transactions/{id}", h.GetTransaction).Methods("GET")
	router.HandleFunc("/dashboard", h.GetDashboard).Methods("GET")
	router.HandleFunc("/categories", h.GetCategories).Methods("GET")
	router.HandleFunc("/health", h.Health).Methods("GET")

	h.logger.Info("Transaction routes registered", map[string]interface{}{
		"routes": []string{
			"GET /transactions",
			"POST /transactions",
			"GET /transactions/{id}",
			"GET /dashboard",
			"GET /categories",
			"GET /health",
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// sendErrorResponse sends a standardized error response
func sendErrorResponse(w http.ResponseWriter, log logger.Logger, message, description string, statusCode int, requestID string) {
	log.Debug("Sending error response", map[string]interface{}{
		"request_id":  requestID,
		"status_code": statusCode,
		"message":     message,
	})

	writeJSON(w, statusCode, ErrorResponse{
		Error:       message,
		Status:      statusCode,
		Description: description,
		RequestID:   requestID,
	})
}
