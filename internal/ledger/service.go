// Package ledger owns the business rules of the reward ledger: creating
// habits and bounties, appending transactions, computing the balance, and
// the one-way bounty completion transition.
package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"habitledger/internal/core"
	"habitledger/internal/metrics"
	"habitledger/internal/storage"
)

// Service executes ledger operations against an injected repository.
type Service struct {
	repo *storage.SQLiteRepository
}

func NewService(repo *storage.SQLiteRepository) *Service {
	return &Service{repo: repo}
}

// CreateHabit stores a new habit and returns its id.
func (s *Service) CreateHabit(ctx context.Context, cmd CreateHabitCommand) (int64, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}
	id, err := s.repo.InsertHabit(ctx, cmd.Description, cmd.Reward)
	if err != nil {
		return 0, fmt.Errorf("create habit: %w", err)
	}
	metrics.HabitsCreated.Inc()
	return id, nil
}

// CreateBounty stores a new bounty dated today, in the active state.
func (s *Service) CreateBounty(ctx context.Context, cmd CreateBountyCommand) (int64, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}
	id, err := s.repo.InsertBounty(ctx, cmd.Description, cmd.Reward, core.Today())
	if err != nil {
		return 0, fmt.Errorf("create bounty: %w", err)
	}
	metrics.BountiesCreated.Inc()
	return id, nil
}

// LogCompletion appends one habit-completion entry dated today.
func (s *Service) LogCompletion(ctx context.Context, cmd LogCompletionCommand) (int64, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}
	id, err := s.repo.InsertTransaction(ctx, core.Transaction{
		HabitID:  cmd.HabitID,
		Amount:   cmd.Amount,
		Quantity: cmd.Quantity,
		Date:     core.Today(),
	})
	if err != nil {
		return 0, fmt.Errorf("log completion: %w", err)
	}
	metrics.TransactionsTotal.WithLabelValues(metrics.SourceHabit).Inc()
	return id, nil
}

// CompleteBounty marks the bounty completed and credits its reward to the
// ledger in a single atomic unit, returning the new transaction's id. A
// bounty that does not exist yields core.ErrBountyNotFound; one already
// completed yields core.ErrBountyCompleted. Neither mutates the store.
func (s *Service) CompleteBounty(ctx context.Context, bountyID int64) (int64, error) {
	txID, err := s.repo.CompleteBounty(ctx, bountyID, core.Today())
	if err != nil {
		return 0, fmt.Errorf("complete bounty %d: %w", bountyID, err)
	}
	metrics.TransactionsTotal.WithLabelValues(metrics.SourceBounty).Inc()
	metrics.BountiesCompleted.Inc()
	return txID, nil
}

// Balance returns the running total over all transactions.
func (s *Service) Balance(ctx context.Context) (core.Money, error) {
	balance, err := s.repo.SumTransactions(ctx)
	if err != nil {
		return core.Money{}, fmt.Errorf("compute balance: %w", err)
	}
	return balance, nil
}

// RecentTransactions returns the newest entries first, descriptions resolved.
func (s *Service) RecentTransactions(ctx context.Context, limit int64) ([]core.TransactionView, error) {
	views, err := s.repo.RecentTransactions(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent transactions: %w", err)
	}
	return views, nil
}

// Habits returns all habits in insertion order.
func (s *Service) Habits(ctx context.Context) ([]core.Habit, error) {
	habits, err := s.repo.ListHabits(ctx)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	return habits, nil
}

// Bounty returns a single bounty by id, or core.ErrBountyNotFound.
func (s *Service) Bounty(ctx context.Context, id int64) (core.Bounty, error) {
	b, err := s.repo.GetBounty(ctx, id)
	if err != nil {
		return core.Bounty{}, fmt.Errorf("get bounty: %w", err)
	}
	return b, nil
}

// ActiveBounties returns not-completed bounties, newest first.
func (s *Service) ActiveBounties(ctx context.Context) ([]core.Bounty, error) {
	bounties, err := s.repo.ListActiveBounties(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active bounties: %w", err)
	}
	return bounties, nil
}

// Close closes the underlying repository.
func (s *Service) Close() error {
	if s.repo != nil {
		if err := s.repo.Close(); err != nil {
			return fmt.Errorf("close ledger service: %w", err)
		}
	}
	return nil
}

// Ping reports whether the backing store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	if err := s.repo.Ping(ctx); err != nil {
		slog.ErrorContext(ctx, "Store unreachable", "error", err)
		return err
	}
	return nil
}
