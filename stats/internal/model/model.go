package model

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Stats is the lending summary of one user.
type Stats struct {
	UserID       int64           `json:"userId" db:"user_id"`
	Username     string          `json:"username" db:"username"`
	Borrowed     int             `json:"borrowed" db:"borrowed"`
	Returned     int             `json:"returned" db:"returned"`
	OnLoan       int             `json:"onLoan" db:"on_loan"`
	FinesTotal   decimal.Decimal `json:"finesTotal" db:"fines_total"`
	LastActivity time.Time       `json:"lastActivity" db:"last_activity"`
}

type StatsInfo struct {
	Data []Stats `json:"data"`
}
