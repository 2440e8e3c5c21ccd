package dto

import (
	"net/mail"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hongminglow/taskboard/internal/apperr"
	"github.com/hongminglow/taskboard/internal/models"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Normalize trims the name and lowercases the email.
func (r *RegisterRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Name = strings.TrimSpace(r.Name)
}

func (r RegisterRequest) Validate() []apperr.FieldError {
	var errs []apperr.FieldError
	errs = append(errs, validateEmail(r.Email)...)
	if utf8.RuneCountInString(r.Email) > 255 {
		errs = append(errs, apperr.FieldError{Field: "email", Message: "Email is too long"})
	}

	switch n := utf8.RuneCountInString(r.Password); {
	case n < 8:
		errs = append(errs, apperr.FieldError{Field: "password", Message: "Password must be at least 8 characters"})
	case n > 100:
		errs = append(errs, apperr.FieldError{Field: "password", Message: "Password is too long"})
	}
	if !passwordMixesClasses(r.Password) {
		errs = append(errs, apperr.FieldError{Field: "password", Message: "Password must contain at least one uppercase letter, one lowercase letter, and one number"})
	}

	switch n := utf8.RuneCountInString(r.Name); {
	case n < 2:
		errs = append(errs, apperr.FieldError{Field: "name", Message: "Name must be at least 2 characters"})
	case n > 100:
		errs = append(errs, apperr.FieldError{Field: "name", Message: "Name is too long"})
	}
	return errs
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r LoginRequest) Validate() []apperr.FieldError {
	errs := validateEmail(r.Email)
	if r.Password == "" {
		errs = append(errs, apperr.FieldError{Field: "password", Message: "Password is required"})
	}
	return errs
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

func validateEmail(email string) []apperr.FieldError {
	if email == "" {
		return []apperr.FieldError{{Field: "email", Message: "Email is required"}}
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@"):], ".") {
		return []apperr.FieldError{{Field: "email", Message: "Invalid email address"}}
	}
	return nil
}

func passwordMixesClasses(password string) bool {
	var lower, upper, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return lower && upper && digit
}
