package entity

// Budget is a spending limit for one category
type Budget struct {
	Category string  `json:"category"`
	Limit    float64 `json:"limit"`
}

// SavingsGoal tracks progress towards a savings target
type SavingsGoal struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Target  float64 `json:"target"`
	Current float64 `json:"current"`
}
