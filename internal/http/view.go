package http

import (
	"context"
	"fmt"

	"habitledger/internal/core"
)

// recentLimit is how many ledger entries the index page shows.
const recentLimit = 10

type (
	HabitView struct {
		ID          int64
		Description string
		Reward      string
		RewardRaw   string
	}

	BountyView struct {
		ID          int64
		Description string
		Reward      string
		DateCreated string
	}

	TransactionLine struct {
		Date string
		Line string
	}

	// IndexView is the aggregate view model behind the index page. It is
	// reassembled from the ledger on every render; nothing is cached.
	IndexView struct {
		Balance      string
		Habits       []HabitView
		Bounties     []BountyView
		Transactions []TransactionLine
		Flash        string
		FlashKind    string
	}
)

func (s *Server) buildIndexView(ctx context.Context, flash, kind string) (IndexView, error) {
	view := IndexView{Flash: flash, FlashKind: kind}

	balance, err := s.svc.Balance(ctx)
	if err != nil {
		return view, err
	}
	view.Balance = balance.Dollars()

	habits, err := s.svc.Habits(ctx)
	if err != nil {
		return view, err
	}
	for _, h := range habits {
		view.Habits = append(view.Habits, HabitView{
			ID:          h.ID,
			Description: h.Description,
			Reward:      h.Reward.Dollars(),
			RewardRaw:   centsToDecimal(h.Reward),
		})
	}

	bounties, err := s.svc.ActiveBounties(ctx)
	if err != nil {
		return view, err
	}
	for _, b := range bounties {
		view.Bounties = append(view.Bounties, BountyView{
			ID:          b.ID,
			Description: b.Description,
			Reward:      b.Reward.Dollars(),
			DateCreated: b.DateCreated.String(),
		})
	}

	entries, err := s.svc.RecentTransactions(ctx, recentLimit)
	if err != nil {
		return view, err
	}
	for _, e := range entries {
		view.Transactions = append(view.Transactions, TransactionLine{
			Date: e.Date.String(),
			Line: transactionLine(e),
		})
	}

	return view, nil
}

// transactionLine renders one ledger entry for display:
//
//	"Exercise: $5.00 × 3 = $15.00"
//	"Clean room: Bounty Completed: $10.00"
func transactionLine(v core.TransactionView) string {
	if v.BountyDerived() {
		return fmt.Sprintf("%s: Bounty Completed: %s", v.Description, v.Amount.Dollars())
	}
	return fmt.Sprintf("%s: %s × %d = %s",
		v.Description, v.Amount.Dollars(), v.Quantity, v.Total().Dollars())
}

// centsToDecimal renders an amount as a plain decimal for form round-trips,
// e.g. 500 -> "5.00".
func centsToDecimal(m core.Money) string {
	return fmt.Sprintf("%d.%02d", m.Cents/100, m.Cents%100)
}
