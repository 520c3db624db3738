package models

import (
	"time"

	"github.com/uptrace/bun"
)

// LoanStatus is the closed set of loan states a copy can be in.
type LoanStatus string

const (
	LoanStatusMaintenance LoanStatus = "maintenance"
	LoanStatusOnLoan      LoanStatus = "on_loan"
	LoanStatusAvailable   LoanStatus = "available"
	LoanStatusReserved    LoanStatus = "reserved"
)

// Valid reports whether s is one of the four known loan states.
func (s LoanStatus) Valid() bool {
	switch s {
	case LoanStatusMaintenance, LoanStatusOnLoan, LoanStatusAvailable, LoanStatusReserved:
		return true
	}
	return false
}

// BookInstance is one physical, individually trackable copy of a book.
// Its ID is a random UUID rather than a sequential integer so copy
// identifiers can't be guessed across the whole library.
type BookInstance struct {
	bun.BaseModel `bun:"table:book_instances,alias:bi"`

	ID         string     `bun:",pk,nullzero" json:"id"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	BookID     int        `bun:",nullzero" json:"book_id"`
	Book       *Book      `bun:"rel:belongs-to,join:book_id=id" json:"book,omitempty"`
	Imprint    string     `bun:",nullzero" json:"imprint"`
	DueBack    *time.Time `json:"due_back"`
	BorrowerID *int       `json:"borrower_id"`
	Borrower   *User      `bun:"rel:belongs-to,join:borrower_id=id" json:"borrower,omitempty"`
	Status     LoanStatus `bun:",nullzero" json:"status"`
}

// IsOverdue reports whether the copy has a due date strictly before
// today. Copies with no due date are never overdue, whatever their
// status.
func (bi *BookInstance) IsOverdue(today time.Time) bool {
	if bi.DueBack == nil {
		return false
	}
	y, m, d := today.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, today.Location())
	return bi.DueBack.Before(midnight)
}
