package core

import (
	"errors"
	"time"
)

// BountySentinel is the habit id recorded on bounty-derived transactions.
// It distinguishes them from habit completions, which reference a real habit.
const BountySentinel int64 = -1

type (
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Habit is a recurring activity with a fixed per-completion reward.
	// Habits are immutable after creation and are never deleted.
	Habit struct {
		ID          int64
		Description string
		Reward      Money
	}

	// Bounty is a one-time task with a fixed reward. It transitions exactly
	// once from active to completed.
	Bounty struct {
		ID          int64
		Description string
		Reward      Money
		DateCreated Date
		Completed   bool
	}

	// Transaction is an immutable ledger entry. The ledger is append-only:
	// entries are never updated or deleted.
	Transaction struct {
		ID                int64
		HabitID           int64
		Amount            Money
		Quantity          int64
		Date              Date
		BountyDescription string
	}

	// TransactionView is a transaction with its description resolved: the
	// referenced habit's description for habit completions, the stored
	// snapshot for bounty credits.
	TransactionView struct {
		ID          int64
		HabitID     int64
		Description string
		Amount      Money
		Quantity    int64
		Date        Date
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidQuantity  = errors.New("invalid quantity")
	ErrInvalidHabitID   = errors.New("invalid habit id")
	ErrEmptyDescription = errors.New("empty description")
	ErrBountyNotFound   = errors.New("bounty not found")
	ErrBountyCompleted  = errors.New("bounty already completed")
)

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar date.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// String renders the date in its stored YYYY-MM-DD form.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (t Transaction) BountyDerived() bool {
	return t.HabitID == BountySentinel
}

func (v TransactionView) BountyDerived() bool {
	return v.HabitID == BountySentinel
}

// Total is the credited amount of the entry: unit amount times quantity.
func (v TransactionView) Total() Money {
	return v.Amount.Mul(v.Quantity)
}
