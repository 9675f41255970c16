package progress

import (
	"testing"

	"moneyQuestAPI/internal/types/account"
	"moneyQuestAPI/internal/types/challenge"
)

func TestDebtPaydownCalculator(t *testing.T) {
	snap := &account.Snapshot{Accounts: []account.Delta{
		{Type: "credit", Subtype: "credit_card", Amount: -150}, // paid down 150
		{Type: "loan", Subtype: "student", Amount: -50},        // paid down 50
		{Type: "credit", Subtype: "credit_card", Amount: 30},   // new spend
		{Type: "depository", Subtype: "savings", Amount: 500},  // ignored
	}}

	got := DebtPaydownCalculator{}.Calculate(snap)
	if got != 170 {
		t.Errorf("expected progress change 170, got %v", got)
	}
}

func TestDebtPaydownCalculatorCanGoNegative(t *testing.T) {
	snap := &account.Snapshot{Accounts: []account.Delta{
		{Type: "credit", Subtype: "credit_card", Amount: 200},
	}}

	got := DebtPaydownCalculator{}.Calculate(snap)
	if got != -200 {
		t.Errorf("expected progress change -200 when debt grows, got %v", got)
	}
}

func TestSavingsGrowthCalculator(t *testing.T) {
	snap := &account.Snapshot{Accounts: []account.Delta{
		{Type: "depository", Subtype: "savings", Amount: 300},
		{Type: "depository", Subtype: "money_market", Amount: 200},
		{Type: "depository", Subtype: "checking", Amount: -120}, // not savings
		{Type: "credit", Subtype: "credit_card", Amount: 80},    // ignored
	}}

	got := SavingsGrowthCalculator{ChallengeType: challenge.TypeSavings}.Calculate(snap)
	if got != 500 {
		t.Errorf("expected progress change 500, got %v", got)
	}
}

func TestSpendingLimitCalculator(t *testing.T) {
	snap := &account.Snapshot{Accounts: []account.Delta{
		{Type: "credit", Subtype: "credit_card", Amount: 75},    // new charges
		{Type: "depository", Subtype: "checking", Amount: -125}, // outflow
		{Type: "depository", Subtype: "checking", Amount: 40},   // deposit, not spend
		{Type: "credit", Subtype: "credit_card", Amount: -60},   // payment, not spend
	}}

	got := SpendingLimitCalculator{}.Calculate(snap)
	if got != 200 {
		t.Errorf("expected spend total 200, got %v", got)
	}
}

func TestRegistryCoversAllChallengeTypes(t *testing.T) {
	r := NewRegistry()

	types := []challenge.Type{
		challenge.TypeDebtPaydown,
		challenge.TypeSavings,
		challenge.TypeEmergencyFund,
		challenge.TypeSpendingLimit,
	}
	for _, ct := range types {
		c, ok := r.For(ct)
		if !ok {
			t.Fatalf("no calculator registered for %s", ct)
		}
		if c.Type() != ct {
			t.Errorf("calculator for %s reports type %s", ct, c.Type())
		}
	}

	if _, ok := r.For(challenge.Type("round_up")); ok {
		t.Error("expected no calculator for an unregistered type")
	}
}
