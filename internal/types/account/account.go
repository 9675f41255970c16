package account

import (
	"errors"
	"math"
)

// Delta is one account's movement since the bank-data pipeline's previous
// snapshot. Amount is signed: positive means the balance grew (or, on a
// credit account, that new spend was added).
type Delta struct {
	Type    string  `json:"type" validate:"required"`
	Subtype string  `json:"subtype"`
	Amount  float64 `json:"amount"`
}

// Snapshot is the per-user account delta set supplied by the upstream
// bank-data pipeline. The ledger never fetches this itself.
type Snapshot struct {
	Accounts []Delta `json:"accounts" validate:"required,min=1,dive"`
}

func (d Delta) IsDebt() bool {
	return d.Type == "credit" || d.Type == "loan"
}

func (d Delta) IsSavings() bool {
	if d.Type != "depository" {
		return false
	}
	return d.Subtype == "savings" || d.Subtype == "money_market" || d.Subtype == "cd"
}

func (d Delta) IsChecking() bool {
	return d.Type == "depository" && d.Subtype == "checking"
}

// Validate rejects snapshots the calculators cannot safely consume.
func (s *Snapshot) Validate() error {
	if s == nil || len(s.Accounts) == 0 {
		return errors.New("snapshot contains no accounts")
	}
	for _, a := range s.Accounts {
		if a.Type == "" {
			return errors.New("snapshot account is missing a type")
		}
		if math.IsNaN(a.Amount) || math.IsInf(a.Amount, 0) {
			return errors.New("snapshot account amount is not a finite number")
		}
	}
	return nil
}
