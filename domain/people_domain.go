package domain

type (
	CreatePersonRequest struct {
		ID        string `json:"id" validate:"notblank"`
		Name      string `json:"name"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email" validate:"omitempty,email"`
	}

	// UpdatePersonRequest leaves nil fields untouched.
	UpdatePersonRequest struct {
		Name      *string `json:"name" validate:"omitempty,notblank"`
		FirstName *string `json:"firstName"`
		LastName  *string `json:"lastName"`
		Email     *string `json:"email" validate:"omitempty,email"`
	}

	InviteAnswerRequest struct {
		Answer *bool `json:"answer" validate:"required"`
	}
)
