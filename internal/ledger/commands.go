package ledger

import (
	"errors"
	"strings"

	"habitledger/internal/core"
)

const maxDescriptionLen = 200

// CreateHabitCommand creates a new habit.
type CreateHabitCommand struct {
	Description string
	Reward      core.Money
}

func (c CreateHabitCommand) Validate() error {
	return validateDescription(c.Description)
}

// CreateBountyCommand creates a new bounty in the active state.
type CreateBountyCommand struct {
	Description string
	Reward      core.Money
}

func (c CreateBountyCommand) Validate() error {
	return validateDescription(c.Description)
}

// LogCompletionCommand appends a habit-completion entry to the ledger.
// HabitID is recorded as given; the store does not enforce that it refers
// to an existing habit.
type LogCompletionCommand struct {
	HabitID  int64
	Amount   core.Money
	Quantity int64
}

func (c LogCompletionCommand) Validate() error {
	if c.HabitID == core.BountySentinel {
		// The sentinel is reserved for bounty credits
		return core.ErrInvalidHabitID
	}
	if c.Quantity < 1 {
		return core.ErrInvalidQuantity
	}
	return nil
}

func validateDescription(d string) error {
	if strings.TrimSpace(d) == "" {
		return core.ErrEmptyDescription
	}
	if len(d) > maxDescriptionLen {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}
