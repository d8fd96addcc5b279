package user

import (
	"identity-api/internal/domain/user"
)

func ToResponseUser(uDomain user.User) User {
	var u = User{
		UserID:   uDomain.UUID,
		Name:     uDomain.Name,
		Surname:  uDomain.Surname,
		Email:    uDomain.Email,
		IsActive: uDomain.IsActive,
	}

	return u
}

func ToDomainNewUser(r CreateRequest) user.NewUser {
	return user.NewUser{
		Name:     r.Name,
		Surname:  r.Surname,
		Email:    r.Email,
		Password: r.Password,
	}
}

func ToDomainProvision(r ProvisionRequest) user.NewUser {
	return user.NewUser{
		Name:     r.Name,
		Surname:  r.Surname,
		Email:    r.Email,
		Password: r.Password,
	}
}

func ToDomainUpdate(r UpdateRequest) user.Update {
	return user.Update{
		Name:    r.Name,
		Surname: r.Surname,
		Email:   r.Email,
	}
}
