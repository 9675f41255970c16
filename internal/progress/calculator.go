package progress

import (
	"moneyQuestAPI/internal/types/account"
	"moneyQuestAPI/internal/types/challenge"
)

// Calculator turns an account-data snapshot into a numeric progress delta
// for one challenge type. Adding a challenge type means adding a Calculator
// and registering it; the evaluator's transaction flow never changes.
type Calculator interface {
	Type() challenge.Type
	Calculate(snap *account.Snapshot) float64
}

type Registry struct {
	calculators map[challenge.Type]Calculator
}

// NewRegistry returns a registry preloaded with the built-in calculators.
func NewRegistry() *Registry {
	r := &Registry{calculators: make(map[challenge.Type]Calculator)}
	r.Register(DebtPaydownCalculator{})
	r.Register(SavingsGrowthCalculator{ChallengeType: challenge.TypeSavings})
	r.Register(SavingsGrowthCalculator{ChallengeType: challenge.TypeEmergencyFund})
	r.Register(SpendingLimitCalculator{})
	return r
}

func (r *Registry) Register(c Calculator) {
	r.calculators[c.Type()] = c
}

func (r *Registry) For(t challenge.Type) (Calculator, bool) {
	c, ok := r.calculators[t]
	return c, ok
}

// DebtPaydownCalculator measures how much debt balances shrank. A balance
// drop on a credit or loan account counts as positive progress; new debt
// counts against it.
type DebtPaydownCalculator struct{}

func (DebtPaydownCalculator) Type() challenge.Type { return challenge.TypeDebtPaydown }

func (DebtPaydownCalculator) Calculate(snap *account.Snapshot) float64 {
	var change float64
	for _, a := range snap.Accounts {
		if a.IsDebt() {
			change += -a.Amount
		}
	}
	return change
}

// SavingsGrowthCalculator sums balance movement across savings-designated
// accounts. Shared by the savings and emergency_fund challenge types,
// which differ only in template, not in how progress is measured.
type SavingsGrowthCalculator struct {
	ChallengeType challenge.Type
}

func (c SavingsGrowthCalculator) Type() challenge.Type { return c.ChallengeType }

func (SavingsGrowthCalculator) Calculate(snap *account.Snapshot) float64 {
	var change float64
	for _, a := range snap.Accounts {
		if a.IsSavings() {
			change += a.Amount
		}
	}
	return change
}

// SpendingLimitCalculator totals spend for the tracked period: new charges
// on credit accounts plus outflows from checking accounts. The evaluator
// replaces the challenge's current amount with this total rather than
// accumulating it.
type SpendingLimitCalculator struct{}

func (SpendingLimitCalculator) Type() challenge.Type { return challenge.TypeSpendingLimit }

func (SpendingLimitCalculator) Calculate(snap *account.Snapshot) float64 {
	var spend float64
	for _, a := range snap.Accounts {
		switch {
		case a.IsDebt() && a.Amount > 0:
			spend += a.Amount
		case a.IsChecking() && a.Amount < 0:
			spend += -a.Amount
		}
	}
	return spend
}
