package features

import (
	"context"
	"math"
	"slices"
	"strings"
	"sync"

	"AssistantDashboard_V0.1/internal/geminiservice"
	"AssistantDashboard_V0.1/internal/models"
	"github.com/google/uuid"
)

const financeFailureMessage = "Failed to get financial advice. Please try again."

// Finance holds expenses, investments and the latest advice.
type Finance struct {
	mu          sync.Mutex
	p           pipeline
	expenses    []models.Expense
	investments []models.Investment
	advice      *models.FinancialAdvice
	status      Status
}

// FinanceSnapshot is a copy of the finance state safe to hand out.
type FinanceSnapshot struct {
	Status
	Expenses    []models.Expense        `json:"expenses"`
	Investments []models.Investment     `json:"investments"`
	Breakdown   []models.CategoryTotal  `json:"breakdown"`
	Advice      *models.FinancialAdvice `json:"advice"`
}

func NewFinance(gen Generator, notifier Notifier) *Finance {
	return &Finance{
		p: pipeline{
			feature:        FeatureFinance,
			failureMessage: financeFailureMessage,
			gen:            gen,
			notifier:       notifier,
		},
	}
}

func (f *Finance) AddExpense(category string, amount float64) (models.Expense, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return models.Expense{}, invalid("category", "Please enter an expense category.")
	}
	if !validAmount(amount) {
		return models.Expense{}, invalid("amount", "Amount must be a non-negative number.")
	}

	e := models.Expense{ID: uuid.NewString(), Category: category, Amount: amount}

	f.mu.Lock()
	f.expenses = append(f.expenses, e)
	f.mu.Unlock()
	return e, nil
}

func (f *Finance) RemoveExpense(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := slices.IndexFunc(f.expenses, func(e models.Expense) bool { return e.ID == id })
	if i < 0 {
		return ErrExpenseNotFound
	}
	f.expenses = slices.Delete(f.expenses, i, i+1)
	return nil
}

func (f *Finance) AddInvestment(name, kind string, value float64) (models.Investment, error) {
	name = strings.TrimSpace(name)
	kind = strings.TrimSpace(kind)
	if name == "" {
		return models.Investment{}, invalid("name", "Please enter an investment name.")
	}
	if kind == "" {
		return models.Investment{}, invalid("type", "Please enter an investment type.")
	}
	if !validAmount(value) {
		return models.Investment{}, invalid("value", "Value must be a non-negative number.")
	}

	inv := models.Investment{ID: uuid.NewString(), Name: name, Type: kind, Value: value}

	f.mu.Lock()
	f.investments = append(f.investments, inv)
	f.mu.Unlock()
	return inv, nil
}

func (f *Finance) RemoveInvestment(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := slices.IndexFunc(f.investments, func(inv models.Investment) bool { return inv.ID == id })
	if i < 0 {
		return ErrInvestmentNotFound
	}
	f.investments = slices.Delete(f.investments, i, i+1)
	return nil
}

// Breakdown returns the per-category expense totals used by the chart.
func (f *Finance) Breakdown() []models.CategoryTotal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Breakdown(f.expenses)
}

// RequestAdvice starts an advice generation from the current lists.
// Empty lists are allowed; the prompt says "None" for them.
func (f *Finance) RequestAdvice(ctx context.Context) (*Call, error) {
	f.mu.Lock()
	if f.status.Loading {
		f.mu.Unlock()
		return nil, ErrGenerationInFlight
	}
	prompt := geminiservice.BuildFinancialAdvicePrompt(f.expenses, f.investments)
	f.status = Status{Loading: true}
	f.mu.Unlock()

	return start(ctx, f.p, geminiservice.UseCaseAdvice, prompt, geminiservice.ParseFinancialAdvice,
		func(advice models.FinancialAdvice, err error) {
			f.mu.Lock()
			defer f.mu.Unlock()

			f.status.Loading = false
			if err != nil {
				f.status.Error = f.p.failureMessage
				return
			}
			f.advice = &advice
		}), nil
}

func (f *Finance) Snapshot() FinanceSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap := FinanceSnapshot{
		Status:      f.status,
		Expenses:    append([]models.Expense{}, f.expenses...),
		Investments: append([]models.Investment{}, f.investments...),
		Breakdown:   Breakdown(f.expenses),
	}
	if f.advice != nil {
		advice := models.FinancialAdvice{
			SavingsSuggestions: slices.Clone(f.advice.SavingsSuggestions),
			TaxOptimization:    slices.Clone(f.advice.TaxOptimization),
		}
		snap.Advice = &advice
	}
	return snap
}

// Breakdown sums amounts per category, in the order categories first appear.
func Breakdown(expenses []models.Expense) []models.CategoryTotal {
	out := []models.CategoryTotal{}
	index := make(map[string]int, len(expenses))

	for _, e := range expenses {
		i, ok := index[e.Category]
		if !ok {
			i = len(out)
			index[e.Category] = i
			out = append(out, models.CategoryTotal{Name: e.Category})
		}
		out[i].Value += e.Amount
	}
	return out
}

func validAmount(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
