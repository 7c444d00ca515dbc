package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TypeGame  TransactionType = "game"
	TypeDLC   TransactionType = "dlc"
	TypeOther TransactionType = "other"
)

type (
	TransactionType string

	Date struct {
		time.Time
	}

	Transaction struct {
		ItemName     string
		Price        decimal.Decimal
		PurchaseDate Date
		Type         TransactionType
		CoverImage   string // filename stem, may be empty
	}

	Account struct {
		ID           string
		Nickname     string
		FinalPrice   decimal.Decimal
		Transactions []Transaction
	}
)

var (
	ErrEmptyID       = errors.New("empty account id")
	ErrNegativePrice = errors.New("negative price")
)

// ParseTransactionType maps a raw store value onto the known types.
// The second return is false when the value was not recognised and
// was defaulted to TypeOther.
func ParseTransactionType(raw string) (TransactionType, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "game":
		return TypeGame, true
	case "dlc":
		return TypeDLC, true
	default:
		return TypeOther, false
	}
}

func (t TransactionType) String() string {
	return string(t)
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// dateLayouts are tried in order. The space separated forms are what
// Postgres prints for timestamp and timestamptz cast to text.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05Z07",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseDate accepts YYYY-MM-DD, RFC3339 and Postgres timestamp text. The
// calendar day of the timestamp is kept. Empty input yields the zero Date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return NewDate(y, int(m), d), nil
		}
	}
	return Date{}, fmt.Errorf("unrecognized date %q", s)
}

// IsEmpty returns true if the date is zero
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// String renders the date as YYYY-MM-DD, or "" when empty.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return ErrEmptyID
	}
	if a.FinalPrice.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}

// Counts returns the number of game and DLC transactions.
func (a Account) Counts() (games, dlcs int) {
	for _, t := range a.Transactions {
		switch t.Type {
		case TypeGame:
			games++
		case TypeDLC:
			dlcs++
		}
	}
	return games, dlcs
}

// ItemsOf returns the transactions of the given type in stored order.
func (a Account) ItemsOf(typ TransactionType) []Transaction {
	var out []Transaction
	for _, t := range a.Transactions {
		if t.Type == typ {
			out = append(out, t)
		}
	}
	return out
}

func (a Account) Games() []Transaction { return a.ItemsOf(TypeGame) }

func (a Account) DLCs() []Transaction { return a.ItemsOf(TypeDLC) }

// PrimaryGame returns the first game transaction, if any.
func (a Account) PrimaryGame() (Transaction, bool) {
	for _, t := range a.Transactions {
		if t.Type == TypeGame {
			return t, true
		}
	}
	return Transaction{}, false
}

// TopGames returns up to n games ordered by price, highest first.
func (a Account) TopGames(n int) []Transaction {
	games := a.Games()
	sort.SliceStable(games, func(i, j int) bool {
		return games[i].Price.GreaterThan(games[j].Price)
	})
	if n >= 0 && len(games) > n {
		games = games[:n]
	}
	return games
}
