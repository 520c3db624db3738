package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Session is a lightweight server-side visitor session. It currently
// only tracks the home page visit counter.
type Session struct {
	bun.BaseModel `bun:"table:sessions,alias:s"`

	ID        string    `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	NumVisits int       `bun:",nullzero" json:"num_visits"`
}
