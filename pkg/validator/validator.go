package validator

import (
	"net/mail"
	"strings"
	"time"
	"unicode"
)

type ValidationErrors map[string]string

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

func (v ValidationErrors) Add(field, message string) {
	v[field] = message
}

// Detail flattens the field errors into a single problem-details string.
func (v ValidationErrors) Detail() string {
	parts := make([]string, 0, len(v))
	for field, msg := range v {
		parts = append(parts, field+": "+msg)
	}
	return strings.Join(parts, "; ")
}

func ValidateRegisterOwner(fullName, email, password string) ValidationErrors {
	errs := make(ValidationErrors)

	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		errs.Add("fullName", "Full name is required")
	} else if len(fullName) > 128 {
		errs.Add("fullName", "Full name is too long")
	}

	validateEmail(email, errs)
	validatePassword(password, errs)

	return errs
}

func ValidateLogin(email, password string) ValidationErrors {
	errs := make(ValidationErrors)

	validateEmail(email, errs)
	if password == "" {
		errs.Add("password", "Password is required")
	}

	return errs
}

func ValidateCreateVet(fullName, email, password string) ValidationErrors {
	errs := make(ValidationErrors)

	if strings.TrimSpace(fullName) == "" {
		errs.Add("fullName", "Full name is required")
	}
	if strings.TrimSpace(email) == "" {
		errs.Add("email", "Email is required")
	}
	if password == "" {
		errs.Add("password", "Password is required")
	}
	if errs.HasErrors() {
		return errs
	}

	return ValidateRegisterOwner(fullName, email, password)
}

func ValidateProfile(fullName, phoneNumber string) ValidationErrors {
	errs := make(ValidationErrors)

	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		errs.Add("fullName", "Full name is required")
	} else if len(fullName) > 128 {
		errs.Add("fullName", "Full name is too long")
	}

	if phoneNumber != "" {
		if len(phoneNumber) > 25 {
			errs.Add("phoneNumber", "Phone number is too long")
		} else {
			for _, ch := range phoneNumber {
				if !unicode.IsDigit(ch) && ch != '+' && ch != '-' && ch != ' ' {
					errs.Add("phoneNumber", "Phone number may contain digits, spaces, + or - only")
					break
				}
			}
		}
	}

	return errs
}

// ValidatePet covers the field rules shared by create and update. Species
// membership is checked separately in the service.
func ValidatePet(name, breed, color, medicalNotes string, dateOfBirth *time.Time, weight *float64) ValidationErrors {
	errs := make(ValidationErrors)

	name = strings.TrimSpace(name)
	if name == "" {
		errs.Add("name", "Pet name is required")
	} else if len(name) > 60 {
		errs.Add("name", "Pet name must be between 1 and 60 characters")
	}

	if len(breed) > 60 {
		errs.Add("breed", "Breed must not exceed 60 characters")
	}
	if len(color) > 30 {
		errs.Add("color", "Color must not exceed 30 characters")
	}
	if len(medicalNotes) > 1000 {
		errs.Add("medicalNotes", "Medical notes must not exceed 1000 characters")
	}

	if dateOfBirth != nil {
		now := time.Now()
		if dateOfBirth.After(now) {
			errs.Add("dateOfBirth", "Date of birth cannot be in the future")
		} else if dateOfBirth.Before(now.AddDate(-50, 0, 0)) {
			errs.Add("dateOfBirth", "Date of birth cannot be more than 50 years ago")
		}
	}

	if weight != nil && (*weight <= 0 || *weight >= 1000) {
		errs.Add("weight", "Weight must be between 0 and 1000 kg")
	}

	return errs
}

func validateEmail(email string, errs ValidationErrors) {
	email = strings.TrimSpace(email)
	if email == "" {
		errs.Add("email", "Email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs.Add("email", "Invalid email address")
	}
}

// Passwords need at least 8 characters with at least one letter and one
// digit.
func validatePassword(password string, errs ValidationErrors) {
	if len(password) < 8 {
		errs.Add("password", "Password must be at least 8 characters")
		return
	}

	var hasLetter, hasDigit bool
	for _, ch := range password {
		switch {
		case unicode.IsLetter(ch):
			hasLetter = true
		case unicode.IsDigit(ch):
			hasDigit = true
		}
	}

	if !hasLetter || !hasDigit {
		errs.Add("password", "Password must contain at least one letter and one number")
	}
}
