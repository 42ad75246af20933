package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"habitledger/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository persists habits, bounties and the append-only transaction
// ledger. All writes are single statements except CompleteBounty, which runs
// its two writes inside one SQL transaction.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the store is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// InsertHabit stores a new habit and returns its generated id.
func (r *SQLiteRepository) InsertHabit(ctx context.Context, description string, reward core.Money) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO habits (description, amount_cents) VALUES (?, ?)`,
		description, reward.Cents)
	if err != nil {
		return 0, fmt.Errorf("insert habit: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("habit id: %w", err)
	}

	slog.InfoContext(ctx, "Habit saved",
		"id", id,
		"description", description,
		"reward_cents", reward.Cents)
	return id, nil
}

// InsertBounty stores a new bounty in the not-completed state.
func (r *SQLiteRepository) InsertBounty(ctx context.Context, description string, reward core.Money, created core.Date) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO bounties (description, amount_cents, date_created, completed) VALUES (?, ?, ?, 0)`,
		description, reward.Cents, created.String())
	if err != nil {
		return 0, fmt.Errorf("insert bounty: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("bounty id: %w", err)
	}

	slog.InfoContext(ctx, "Bounty saved",
		"id", id,
		"description", description,
		"reward_cents", reward.Cents)
	return id, nil
}

// InsertTransaction appends one ledger entry. habit_id is not checked against
// the habits table; orphan references are permitted.
func (r *SQLiteRepository) InsertTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	var bountyDesc any
	if t.BountyDerived() {
		bountyDesc = t.BountyDescription
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (habit_id, amount_cents, quantity, date, bounty_description) VALUES (?, ?, ?, ?, ?)`,
		t.HabitID, t.Amount.Cents, t.Quantity, t.Date.String(), bountyDesc)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("transaction id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction appended",
		"id", id,
		"habit_id", t.HabitID,
		"amount_cents", t.Amount.Cents,
		"quantity", t.Quantity)
	return id, nil
}

// SumTransactions returns the balance: sum of amount*quantity over the whole
// ledger, zero when no entries exist.
func (r *SQLiteRepository) SumTransactions(ctx context.Context) (core.Money, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents * quantity), 0) FROM transactions`).Scan(&cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("sum transactions: %w", err)
	}
	return core.Money{Cents: cents}, nil
}

// RecentTransactions returns the newest entries first (id descending), each
// with its description resolved: the bounty snapshot for sentinel rows, the
// joined habit description otherwise. A habit that no longer resolves yields
// an empty description.
func (r *SQLiteRepository) RecentTransactions(ctx context.Context, limit int64) ([]core.TransactionView, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			t.id,
			t.habit_id,
			CASE WHEN t.habit_id = -1 THEN t.bounty_description ELSE h.description END,
			t.amount_cents,
			t.quantity,
			t.date
		FROM transactions t
		LEFT JOIN habits h ON t.habit_id = h.id
		ORDER BY t.id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent transactions: %w", err)
	}
	defer rows.Close()

	var views []core.TransactionView
	for rows.Next() {
		var (
			v       core.TransactionView
			desc    sql.NullString
			dateStr string
		)
		if err := rows.Scan(&v.ID, &v.HabitID, &desc, &v.Amount.Cents, &v.Quantity, &dateStr); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		v.Description = desc.String
		if d, err := core.ParseDate(dateStr); err == nil {
			v.Date = d
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return views, nil
}

// ListHabits returns all habits in insertion order.
func (r *SQLiteRepository) ListHabits(ctx context.Context) ([]core.Habit, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, description, amount_cents FROM habits ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query habits: %w", err)
	}
	defer rows.Close()

	var habits []core.Habit
	for rows.Next() {
		var h core.Habit
		if err := rows.Scan(&h.ID, &h.Description, &h.Reward.Cents); err != nil {
			return nil, fmt.Errorf("scan habit: %w", err)
		}
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate habits: %w", err)
	}
	return habits, nil
}

// ListActiveBounties returns not-completed bounties, newest first.
func (r *SQLiteRepository) ListActiveBounties(ctx context.Context) ([]core.Bounty, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, description, amount_cents, date_created
		FROM bounties
		WHERE completed = 0
		ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query active bounties: %w", err)
	}
	defer rows.Close()

	var bounties []core.Bounty
	for rows.Next() {
		var (
			b       core.Bounty
			dateStr string
		)
		if err := rows.Scan(&b.ID, &b.Description, &b.Reward.Cents, &dateStr); err != nil {
			return nil, fmt.Errorf("scan bounty: %w", err)
		}
		if d, err := core.ParseDate(dateStr); err == nil {
			b.DateCreated = d
		}
		bounties = append(bounties, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bounties: %w", err)
	}
	return bounties, nil
}

// GetBounty retrieves a single bounty by id.
func (r *SQLiteRepository) GetBounty(ctx context.Context, id int64) (core.Bounty, error) {
	var (
		b         core.Bounty
		dateStr   string
		completed int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, description, amount_cents, date_created, completed FROM bounties WHERE id = ?`, id).
		Scan(&b.ID, &b.Description, &b.Reward.Cents, &dateStr, &completed)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Bounty{}, core.ErrBountyNotFound
	}
	if err != nil {
		return core.Bounty{}, fmt.Errorf("get bounty %d: %w", id, err)
	}
	if d, err := core.ParseDate(dateStr); err == nil {
		b.DateCreated = d
	}
	b.Completed = completed != 0
	return b, nil
}

// CompleteBounty marks the bounty completed and appends its credit
// transaction as one atomic unit. The UPDATE is guarded on completed = 0, so
// a bounty can only ever produce a single credit; a repeat call returns
// core.ErrBountyCompleted and writes nothing. The bounty description is
// snapshotted into the transaction row at this moment.
func (r *SQLiteRepository) CompleteBounty(ctx context.Context, id int64, date core.Date) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin complete bounty: %w", err)
	}
	defer tx.Rollback()

	var (
		description string
		cents       int64
	)
	err = tx.QueryRowContext(ctx,
		`SELECT description, amount_cents FROM bounties WHERE id = ?`, id).
		Scan(&description, &cents)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, core.ErrBountyNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("read bounty %d: %w", id, err)
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE bounties SET completed = 1 WHERE id = ? AND completed = 0`, id)
	if err != nil {
		return 0, fmt.Errorf("mark bounty completed: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("completion rows affected: %w", err)
	}
	if affected == 0 {
		return 0, core.ErrBountyCompleted
	}

	ins, err := tx.ExecContext(ctx,
		`INSERT INTO transactions (habit_id, amount_cents, quantity, date, bounty_description) VALUES (?, ?, 1, ?, ?)`,
		core.BountySentinel, cents, date.String(), description)
	if err != nil {
		return 0, fmt.Errorf("insert bounty credit: %w", err)
	}
	txID, err := ins.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("bounty credit id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit complete bounty: %w", err)
	}

	slog.InfoContext(ctx, "Bounty completed",
		"bounty_id", id,
		"transaction_id", txID,
		"amount_cents", cents)
	return txID, nil
}
