package api

import (
	"encoding/json"
	"fmt"

	"github.com/damon-houk/artha-ledger/internal/domain/entity"
	"github.com/damon-houk/artha-ledger/internal/domain/service"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

const insightInstruction = `You are Artha, a friendly and intelligent AI Personal Finance Agent.
Your goal is to provide simple, clear, and motivating financial advice.
Be non-judgmental and supportive.
Use ` + entity.CurrencySymbol + ` currency symbol.
Focus on the 50-30-20 rule (50% Needs, 30% Wants, 20% Savings).
Encourage emergency funds.
If expenses exceed income, gently point it out and suggest reductions.`

const insightPrompt = `Analyze this financial data and provide 3 smart, motivating suggestions.
Keep them short, simple, and actionable.`

const chatInstructionTemplate = `You are Artha, a friendly AI Finance Assistant.
You help users record expenses, summarize their finances, and give tips.
Always use ` + entity.CurrencySymbol + ` for currency.
If the user mentions spending or receiving money (e.g., "Spent 500 on lunch"), call the ` + recordTransactionTool + ` tool and confirm it.
If the user asks for a summary, look at the transactions context.
Context Transactions: %s`

var insightSchema = jsonschema.Definition{
	Type: jsonschema.Object,
	Properties: map[string]jsonschema.Definition{
		"insights": {
			Type: jsonschema.Array,
			Items: &jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"title":      {Type: jsonschema.String},
					"suggestion": {Type: jsonschema.String},
					"category":   {Type: jsonschema.String},
				},
				Required: []string{"title", "suggestion"},
			},
		},
		"summary": {Type: jsonschema.String},
	},
	Required: []string{"insights", "summary"},
}

var recordTool = openai.Tool{
	Type: openai.ToolTypeFunction,
	Function: &openai.FunctionDefinition{
		Name:        recordTransactionTool,
		Description: "Record an income or expense the user just told you about.",
		Parameters: jsonschema.Definition{
			Type: jsonschema.Object,
			Properties: map[string]jsonschema.Definition{
				"type": {
					Type: jsonschema.String,
					Enum: []string{string(entity.Income), string(entity.Expense)},
				},
				"category": {
					Type:        jsonschema.String,
					Description: "One of the recommended categories when possible",
					Enum:        append(entity.CategoriesFor(entity.Expense), entity.CategoriesFor(entity.Income)...),
				},
				"amount": {
					Type:        jsonschema.Number,
					Description: "Non-negative amount in " + entity.CurrencySymbol,
				},
				"date": {
					Type:        jsonschema.String,
					Description: "YYYY-MM-DD, omit for today",
				},
				"description": {Type: jsonschema.String},
			},
			Required: []string{"type", "category", "amount"},
		},
	},
}

func insightContext(req service.InsightRequest) (string, error) {
	txs, err := marshalList(req.Transactions)
	if err != nil {
		return "", err
	}
	budgets, err := marshalList(req.Budgets)
	if err != nil {
		return "", err
	}
	goals, err := marshalList(req.Goals)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Current Transactions: %s\nCurrent Budgets: %s\nSavings Goals: %s", txs, budgets, goals), nil
}

func chatInstruction(txs []entity.Transaction) (string, error) {
	data, err := marshalList(txs)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(chatInstructionTemplate, data), nil
}

// marshalList renders a list as JSON, using [] rather than null for nil slices
func marshalList[T any](items []T) (string, error) {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("failed to marshal prompt context: %w", err)
	}
	return string(data), nil
}
