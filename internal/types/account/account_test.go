package account

import (
	"math"
	"testing"
)

func TestSnapshotValidate(t *testing.T) {
	valid := &Snapshot{Accounts: []Delta{{Type: "depository", Subtype: "savings", Amount: 100}}}
	if err := valid.Validate(); err != nil {
		t.Errorf("expected valid snapshot, got %v", err)
	}

	empty := &Snapshot{}
	if err := empty.Validate(); err == nil {
		t.Error("expected error for snapshot with no accounts")
	}

	missingType := &Snapshot{Accounts: []Delta{{Amount: 10}}}
	if err := missingType.Validate(); err == nil {
		t.Error("expected error for account with no type")
	}

	nan := &Snapshot{Accounts: []Delta{{Type: "credit", Amount: math.NaN()}}}
	if err := nan.Validate(); err == nil {
		t.Error("expected error for NaN amount")
	}
}

func TestDeltaDesignations(t *testing.T) {
	if !(Delta{Type: "credit"}).IsDebt() || !(Delta{Type: "loan"}).IsDebt() {
		t.Error("credit and loan accounts should be debt-bearing")
	}
	if (Delta{Type: "depository", Subtype: "savings"}).IsDebt() {
		t.Error("savings account should not be debt-bearing")
	}
	if !(Delta{Type: "depository", Subtype: "savings"}).IsSavings() {
		t.Error("depository/savings should be savings-designated")
	}
	if (Delta{Type: "depository", Subtype: "checking"}).IsSavings() {
		t.Error("checking should not be savings-designated")
	}
	if !(Delta{Type: "depository", Subtype: "checking"}).IsChecking() {
		t.Error("depository/checking should be checking")
	}
}
