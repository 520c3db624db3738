package loans

// RenewPayload is the renewal form/JSON body. The date arrives as
// YYYY-MM-DD, matching the date input the form renders.
type RenewPayload struct {
	RenewalDate string `json:"renewal_date" form:"renewal_date" validate:"required,date,ne="`
}

// CreateInstancePayload registers a new physical copy of a book.
type CreateInstancePayload struct {
	BookID  int     `json:"book_id" validate:"required,min=1"`
	Imprint string  `json:"imprint" validate:"required,max=200"`
	Status  *string `json:"status,omitempty" validate:"omitempty,oneof=maintenance on_loan available reserved"`
}

// ListBorrowedQuery pages through the caller's borrowed books.
type ListBorrowedQuery struct {
	Page int `query:"page" json:"page,omitempty" default:"1" validate:"min=1"`
}

// RenewFormResponse is returned on GET of the renewal form: the instance
// being renewed plus the suggested and maximum dates.
type RenewFormResponse struct {
	InstanceID      string `json:"instance_id"`
	BookTitle       string `json:"book_title"`
	Proposed        string `json:"proposed_renewal_date"`
	MaxRenewalDate  string `json:"max_renewal_date"`
	CurrentDueBack  string `json:"current_due_back,omitempty"`
	RenewalHelpText string `json:"help_text"`
}
