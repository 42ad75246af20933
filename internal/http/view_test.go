package http

import (
	"testing"

	"habitledger/internal/core"
)

func TestTransactionLine(t *testing.T) {
	cases := []struct {
		name string
		view core.TransactionView
		want string
	}{
		{
			name: "habit completion",
			view: core.TransactionView{
				HabitID:     1,
				Description: "Exercise",
				Amount:      core.Money{Cents: 500},
				Quantity:    3,
			},
			want: "Exercise: $5.00 × 3 = $15.00",
		},
		{
			name: "bounty credit",
			view: core.TransactionView{
				HabitID:     core.BountySentinel,
				Description: "Clean room",
				Amount:      core.Money{Cents: 1000},
				Quantity:    1,
			},
			want: "Clean room: Bounty Completed: $10.00",
		},
		{
			name: "orphan habit renders empty description",
			view: core.TransactionView{
				HabitID:  9999,
				Amount:   core.Money{Cents: 100},
				Quantity: 1,
			},
			want: ": $1.00 × 1 = $1.00",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := transactionLine(tc.view); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestCentsToDecimal(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{500, "5.00"},
		{1234, "12.34"},
		{5, "0.05"},
		{0, "0.00"},
	}
	for _, tc := range cases {
		if got := centsToDecimal(core.Money{Cents: tc.cents}); got != tc.want {
			t.Fatalf("%d cents expected %q, got %q", tc.cents, tc.want, got)
		}
	}
}

func TestParseTransactionForm(t *testing.T) {
	form := map[string][]string{
		"habit_id": {"3"},
		"amount":   {"2.50"},
		"quantity": {"-1"},
	}
	cmd, err := parseTransactionForm(form)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cmd.HabitID != 3 || cmd.Amount.Cents != 250 || cmd.Quantity != 1 {
		t.Fatalf("unexpected command: %+v", cmd)
	}

	form["habit_id"] = []string{"x"}
	if _, err := parseTransactionForm(form); err == nil {
		t.Fatalf("expected error for non-numeric habit_id")
	}
}
