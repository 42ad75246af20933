package http

import (
	"net/url"
	"strconv"
	"strings"

	"habitledger/internal/core"
	"habitledger/internal/ledger"
)

func parseHabitForm(form url.Values) (ledger.CreateHabitCommand, error) {
	amount, err := core.ParseAmount(form.Get("amount"))
	if err != nil {
		return ledger.CreateHabitCommand{}, err
	}
	return ledger.CreateHabitCommand{
		Description: sanitizeInput(form.Get("description")),
		Reward:      amount,
	}, nil
}

func parseBountyForm(form url.Values) (ledger.CreateBountyCommand, error) {
	amount, err := core.ParseAmount(form.Get("amount"))
	if err != nil {
		return ledger.CreateBountyCommand{}, err
	}
	return ledger.CreateBountyCommand{
		Description: sanitizeInput(form.Get("description")),
		Reward:      amount,
	}, nil
}

func parseTransactionForm(form url.Values) (ledger.LogCompletionCommand, error) {
	habitID, err := strconv.ParseInt(strings.TrimSpace(form.Get("habit_id")), 10, 64)
	if err != nil {
		return ledger.LogCompletionCommand{}, core.ErrInvalidHabitID
	}
	amount, err := core.ParseAmount(form.Get("amount"))
	if err != nil {
		return ledger.LogCompletionCommand{}, err
	}
	quantity, err := core.ParseQuantity(form.Get("quantity"))
	if err != nil {
		return ledger.LogCompletionCommand{}, err
	}
	return ledger.LogCompletionCommand{
		HabitID:  habitID,
		Amount:   amount,
		Quantity: quantity,
	}, nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
