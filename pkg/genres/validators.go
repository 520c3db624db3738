package genres

type CreateGenrePayload struct {
	Name string `json:"name" validate:"required,max=100" mod:"trim"`
}
