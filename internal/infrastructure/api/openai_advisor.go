// Package api holds the clients for external services
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/damon-houk/artha-ledger/internal/domain/entity"
	"github.com/damon-houk/artha-ledger/internal/domain/service"
	"github.com/damon-houk/artha-ledger/internal/infrastructure/logger"
	"github.com/go-playground/validator/v10"
	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultBaseURL is Gemini's OpenAI-compatible endpoint
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"
	// DefaultModel is the model used when none is configured
	DefaultModel = "gemini-3-flash-preview"

	recordTransactionTool = "record_transaction"
)

var proposalValidator = validator.New()

// AdvisorConfig configures the OpenAI-compatible advisor
type AdvisorConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// OpenAIAdvisor implements service.Advisor against any OpenAI-compatible
// chat completions API. Each call is a single attempt.
type OpenAIAdvisor struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	enabled bool
	logger  logger.Logger
}

// NewOpenAIAdvisor creates a new advisor client. Without an API key every
// call fails with service.ErrAdvisorUnavailable.
func NewOpenAIAdvisor(cfg AdvisorConfig, log logger.Logger) *OpenAIAdvisor {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	oc.HTTPClient = cfg.HTTPClient

	return &OpenAIAdvisor{
		client:  openai.NewClientWithConfig(oc),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		enabled: cfg.APIKey != "",
		logger:  log,
	}
}

// Insights asks the model for three short suggestions about the ledger
func (a *OpenAIAdvisor) Insights(ctx context.Context, req service.InsightRequest) (*entity.InsightReport, error) {
	if !a.enabled {
		return nil, service.ErrAdvisorUnavailable
	}

	prompt, err := insightContext(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: insightInstruction},
			{Role: openai.ChatMessageRoleUser, Content: prompt + "\n\n" + insightPrompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "financial_insights",
				Schema: &insightSchema,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrAdvisorUnavailable, err)
	}

	text, err := firstContent(resp)
	if err != nil {
		return nil, err
	}

	report, err := ParseInsightReport(text)
	if err != nil {
		a.logger.Error("Failed to parse insight report", map[string]interface{}{
			"model":    a.model,
			"raw_text": text,
			"error":    err.Error(),
		})
		return nil, err
	}

	a.logger.Debug("Insight report parsed", map[string]interface{}{
		"model":    a.model,
		"insights": len(report.Insights),
		"tokens":   resp.Usage.TotalTokens,
	})

	return report, nil
}

// Chat sends the conversation and the new message. The model may call the
// record_transaction tool; those calls are returned as proposed transactions.
func (a *OpenAIAdvisor) Chat(ctx context.Context, req service.ChatRequest) (*service.ChatReply, error) {
	if !a.enabled {
		return nil, service.ErrAdvisorUnavailable
	}

	system, err := chatInstruction(req.Transactions)
	if err != nil {
		return nil, err
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(req.History)+2)
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	for _, m := range req.History {
		role := openai.ChatMessageRoleUser
		if m.Role == entity.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Message})

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    a.model,
		Messages: messages,
		Tools:    []openai.Tool{recordTool},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrAdvisorUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices returned", service.ErrAdvisorUnavailable)
	}

	msg := resp.Choices[0].Message
	reply := &service.ChatReply{Content: msg.Content}

	for _, call := range msg.ToolCalls {
		if call.Function.Name != recordTransactionTool {
			continue
		}

		var p service.ProposedTransaction
		if err := json.Unmarshal([]byte(call.Function.Arguments), &p); err != nil {
			a.logger.Warn("Ignoring malformed tool call", map[string]interface{}{
				"tool":      call.Function.Name,
				"arguments": call.Function.Arguments,
				"error":     err.Error(),
			})
			continue
		}
		if err := proposalValidator.Struct(p); err != nil {
			a.logger.Warn("Ignoring invalid proposed transaction", map[string]interface{}{
				"arguments": call.Function.Arguments,
				"error":     err.Error(),
			})
			continue
		}
		reply.Proposed = append(reply.Proposed, p)
	}

	return reply, nil
}

func (a *OpenAIAdvisor) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.timeout)
}

func firstContent(resp openai.ChatCompletionResponse) (string, error) {
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", service.ErrAdvisorUnavailable)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%w: empty response", service.ErrAdvisorUnavailable)
	}
	return text, nil
}

// ParseInsightReport decodes the model's JSON answer. Markdown code fences
// around the JSON are tolerated; a missing insights list is an error.
func ParseInsightReport(text string) (*entity.InsightReport, error) {
	text = stripCodeFence(text)

	var raw struct {
		Insights *[]entity.Insight `json:"insights"`
		Summary  string            `json:"summary"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("failed to decode insight report: %w", err)
	}

	if raw.Insights == nil {
		return nil, errors.New("insight report has no insights field")
	}

	report := &entity.InsightReport{Summary: raw.Summary}
	for _, in := range *raw.Insights {
		if in.Title == "" || in.Suggestion == "" {
			continue
		}
		report.Insights = append(report.Insights, in)
	}
	if report.Insights == nil {
		report.Insights = []entity.Insight{}
	}

	return report, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")

	return strings.TrimSpace(s)
}
