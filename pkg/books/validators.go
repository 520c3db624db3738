package books

type CreateBookPayload struct {
	Title    string  `json:"title"     validate:"required,max=200"  mod:"trim"`
	Summary  string  `json:"summary"   validate:"required,max=100"  mod:"trim"`
	ISBN     string  `json:"isbn"      validate:"required,max=13,isbn_chars" mod:"trim"`
	AuthorID *int    `json:"author_id" validate:"omitempty,gt=0"`
	GenreIDs []int   `json:"genre_ids" validate:"omitempty,dive,gt=0"`
	Language *string `json:"language"  validate:"omitempty,max=50"  mod:"trim"`
}

type UpdateBookPayload struct {
	Title    *string `json:"title"     validate:"omitempty,max=200" mod:"trim"`
	Summary  *string `json:"summary"   validate:"omitempty,max=100" mod:"trim"`
	ISBN     *string `json:"isbn"      validate:"omitempty,max=13,isbn_chars" mod:"trim"`
	AuthorID *int    `json:"author_id" validate:"omitempty,gt=0"`
	GenreIDs *[]int  `json:"genre_ids" validate:"omitempty,dive,gt=0"`
	Language *string `json:"language"  validate:"omitempty,max=50"  mod:"trim"`
}

type ListBooksQuery struct {
	Page     int  `query:"page"      validate:"omitempty,gt=0" default:"1"`
	AuthorID *int `query:"author_id" validate:"omitempty,gt=0"`
	GenreID  *int `query:"genre_id"  validate:"omitempty,gt=0"`
}
