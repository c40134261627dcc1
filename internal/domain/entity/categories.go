package entity

// CurrencySymbol is used when amounts are rendered for people or prompts.
const CurrencySymbol = "₹"

// DefaultCategory is applied when a transaction is added without a category
const DefaultCategory = "Other"

// ExpenseCategories is the recommended set of expense labels
var ExpenseCategories = []string{
	"Food",
	"Rent",
	"Travel",
	"Bills",
	"Education",
	"Entertainment",
	"Shopping",
	"Health",
	"Other",
}

// IncomeCategories is the recommended set of income labels
var IncomeCategories = []string{
	"Salary",
	"Freelance",
	"Other Income",
}

// CategoriesFor returns the recommended labels for a transaction type.
// Categories are advisory; the ledger accepts any label.
func CategoriesFor(t TransactionType) []string {
	var src []string
	switch t {
	case Income:
		src = IncomeCategories
	case Expense:
		src = ExpenseCategories
	default:
		return nil
	}

	out := make([]string, len(src))
	copy(out, src)
	return out
}

// IsRecommendedCategory reports whether name is in the recommended set for t.
// Matching is case-sensitive, the same way aggregation keys categories.
func IsRecommendedCategory(t TransactionType, name string) bool {
	for _, c := range CategoriesFor(t) {
		if c == name {
			return true
		}
	}
	return false
}
