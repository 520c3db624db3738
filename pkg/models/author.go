package models

import (
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

type Author struct {
	bun.BaseModel `bun:"table:authors,alias:a"`

	ID          int        `bun:",pk,nullzero" json:"id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	FirstName   string     `bun:",nullzero" json:"first_name"`
	LastName    string     `bun:",nullzero" json:"last_name"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	DateOfDeath *time.Time `json:"date_of_death,omitempty"`

	Books []*Book `bun:"rel:has-many,join:id=author_id" json:"books,omitempty"`
}

// DisplayName is the canonical "Last, First" form used in listings.
func (a *Author) DisplayName() string {
	return fmt.Sprintf("%s, %s", a.LastName, a.FirstName)
}
