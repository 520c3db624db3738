package models

import (
	"strings"
	"time"

	"github.com/uptrace/bun"
)

type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Title     string    `bun:",nullzero" json:"title"`
	Summary   string    `bun:",nullzero" json:"summary"`
	ISBN      string    `bun:",nullzero" json:"isbn"`
	Language  *string   `json:"language,omitempty"`
	AuthorID  *int      `json:"author_id"`
	Author    *Author   `bun:"rel:belongs-to,join:author_id=id" json:"author,omitempty"`

	Genres    []*BookGenre    `bun:"rel:has-many,join:id=book_id" json:"genres,omitempty"`
	Instances []*BookInstance `bun:"rel:has-many,join:id=book_id" json:"instances,omitempty"`
}

// DisplayGenre joins the names of up to the first three genres. The cap
// keeps listings readable for books tagged with many genres.
func (b *Book) DisplayGenre() string {
	names := make([]string, 0, 3)
	for _, bg := range b.Genres {
		if len(names) == 3 {
			break
		}
		if bg.Genre != nil {
			names = append(names, bg.Genre.Name)
		}
	}
	return strings.Join(names, ", ")
}
