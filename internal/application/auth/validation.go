package auth

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/asaskevich/govalidator"

	"github.com/jhoicas/invoicegen-api/internal/application/dto"
	"github.com/jhoicas/invoicegen-api/internal/domain"
)

const (
	minNameLength     = 2
	minPasswordLength = 8
)

func validateSignup(in dto.SignupRequest) error {
	v := &domain.ValidationError{}
	if utf8.RuneCountInString(strings.TrimSpace(in.Name)) < minNameLength {
		v.Add("name", "el nombre debe tener al menos 2 caracteres")
	}
	if !govalidator.IsEmail(strings.TrimSpace(in.Email)) {
		v.Add("email", "email inválido")
	}
	if len(in.Password) < minPasswordLength {
		v.Add("password", "la contraseña debe tener al menos 8 caracteres")
	} else if !hasLetterAndDigit(in.Password) {
		v.Add("password", "la contraseña debe contener al menos una letra y un número")
	}
	if in.ConfirmPassword != "" && in.ConfirmPassword != in.Password {
		v.Add("confirmPassword", "las contraseñas no coinciden")
	}
	return v.OrNil()
}

func validateLogin(in dto.LoginRequest) error {
	v := &domain.ValidationError{}
	if !govalidator.IsEmail(strings.TrimSpace(in.Email)) {
		v.Add("email", "email inválido")
	}
	if in.Password == "" {
		v.Add("password", "la contraseña es obligatoria")
	}
	return v.OrNil()
}

func hasLetterAndDigit(s string) bool {
	var letter, digit bool
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return letter && digit
}
