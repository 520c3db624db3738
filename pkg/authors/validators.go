package authors

// The author forms submit as application/x-www-form-urlencoded, so these
// payloads carry form tags alongside json.
type CreateAuthorPayload struct {
	FirstName   string  `json:"first_name"    form:"first_name"    validate:"required,max=100" mod:"trim"`
	LastName    string  `json:"last_name"     form:"last_name"     validate:"required,max=100" mod:"trim"`
	DateOfBirth *string `json:"date_of_birth" form:"date_of_birth" validate:"omitempty,date"`
	DateOfDeath *string `json:"date_of_death" form:"date_of_death" validate:"omitempty,date"`
}

type UpdateAuthorPayload struct {
	FirstName   *string `json:"first_name"    form:"first_name"    validate:"omitempty,max=100" mod:"trim"`
	LastName    *string `json:"last_name"     form:"last_name"     validate:"omitempty,max=100" mod:"trim"`
	DateOfBirth *string `json:"date_of_birth" form:"date_of_birth" validate:"omitempty,date"`
	DateOfDeath *string `json:"date_of_death" form:"date_of_death" validate:"omitempty,date"`
}

type ListAuthorsQuery struct {
	Page int `query:"page" validate:"omitempty,gt=0" default:"1"`
}
