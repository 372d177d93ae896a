package accounting

import (
	"fmt"

	"github.com/ledgerpost/ledgerpost/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedAmount applies the double-entry sign convention to a journal line
// for the given account type:
//
//	DEBIT to ASSET/EXPENSE          -> positive
//	CREDIT to ASSET/EXPENSE         -> negative
//	DEBIT to LIABILITY/EQUITY/REVENUE  -> negative
//	CREDIT to LIABILITY/EQUITY/REVENUE -> positive
func SignedAmount(line domain.JournalLine, accountType domain.AccountType) (decimal.Decimal, error) {
	isDebit := !line.Debit.IsZero()
	amount := line.Debit
	if !isDebit {
		amount = line.Credit
	}

	switch accountType {
	case domain.Asset, domain.Expense:
		if !isDebit {
			amount = amount.Neg()
		}
	case domain.Liability, domain.Equity, domain.Revenue:
		if isDebit {
			amount = amount.Neg()
		}
	default:
		return decimal.Zero, fmt.Errorf("unknown account type %q for account %s", accountType, line.AccountID)
	}
	return amount, nil
}

// BalanceChanges aggregates the net signed delta per account across a posted
// entry's lines. accountTypes must contain every referenced account.
func BalanceChanges(lines []domain.JournalLine, accountTypes map[string]domain.AccountType) (map[string]decimal.Decimal, error) {
	changes := make(map[string]decimal.Decimal, len(lines))
	for _, line := range lines {
		accountType, ok := accountTypes[line.AccountID]
		if !ok {
			return nil, fmt.Errorf("account type missing for account %s", line.AccountID)
		}
		signed, err := SignedAmount(line, accountType)
		if err != nil {
			return nil, err
		}
		changes[line.AccountID] = changes[line.AccountID].Add(signed)
	}
	return changes, nil
}
