package user

import "identity-api/internal/interface/api/rest/validator"

type (
	CreateRequest struct {
		Name     string `json:"name" validate:"required,max=64,personname"`
		Surname  string `json:"surname" validate:"required,max=64,personname"`
		Email    string `json:"email" validate:"required,max=254,email"`
		Password string `json:"password" validate:"required,min=8,max=72,bcryptlen"`
	}

	// UpdateRequest fields are optional, but an explicitly sent value must be valid.
	UpdateRequest struct {
		Name    *string `json:"name" validate:"omitnil,min=3,max=64,personname"`
		Surname *string `json:"surname" validate:"omitnil,min=1,max=64,personname"`
		Email   *string `json:"email" validate:"omitnil,max=254,email"`
	}

	// ProvisionRequest is the superadmin CLI input. Profile fields are
	// optional because promoting an existing user needs only the email.
	ProvisionRequest struct {
		Email    string `json:"email" validate:"required,max=254,email"`
		Name     string `json:"name" validate:"omitempty,max=64,personname"`
		Surname  string `json:"surname" validate:"omitempty,max=64,personname"`
		Password string `json:"password" validate:"omitempty,min=8,max=72,bcryptlen"`
	}

	LoginRequest struct {
		Username string `form:"username" validate:"required"`
		Password string `form:"password" validate:"required"`
	}
)

func (r *CreateRequest) Normalize() {
	r.Name = validator.Text(r.Name)
	r.Surname = validator.Text(r.Surname)
	r.Email = validator.Email(r.Email)
	r.Password = validator.Password(r.Password)
}

func (r *UpdateRequest) Normalize() {
	normalize(r.Name, validator.Text)
	normalize(r.Surname, validator.Text)
	normalize(r.Email, validator.Email)
}

func (r *UpdateRequest) IsEmpty() bool { return r.Name == nil && r.Surname == nil && r.Email == nil }

func (r *ProvisionRequest) Normalize() {
	r.Name = validator.Text(r.Name)
	r.Surname = validator.Text(r.Surname)
	r.Email = validator.Email(r.Email)
	r.Password = validator.Password(r.Password)
}

func (r *LoginRequest) Normalize() {
	r.Username = validator.Email(r.Username)
	r.Password = validator.Password(r.Password)
}

func normalize(s *string, f func(string) string) {
	if s != nil {
		*s = f(*s)
	}
}
