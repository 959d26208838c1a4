// Package validation implements the declarative field rules behind
// the sign-up and sign-in forms. An empty result map means the input
// is valid.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	FieldFullname = "fullname"
	FieldUsername = "username"
	FieldEmail    = "email"
	FieldPhone    = "phone"
	FieldPassword = "password"
	FieldConfirm  = "confirm"
)

const ConfirmMismatchMessage = "Password confirmation does not match!"

type rule struct {
	check   func(string) bool
	message string
}

var (
	atLeastThree = regexp.MustCompile(`^.{3,}$`)
	emailShape   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneShape   = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
)

var rules = map[string]rule{
	FieldFullname: {
		check:   atLeastThree.MatchString,
		message: "Your name must contain more than 3 characters",
	},
	FieldUsername: {
		check:   atLeastThree.MatchString,
		message: "Your username must contain more than 3 character",
	},
	FieldEmail: {
		check:   emailShape.MatchString,
		message: "Please enter a valid email address",
	},
	FieldPhone: {
		check:   phoneShape.MatchString,
		message: "Please enter a valid phone number",
	},
	FieldPassword: {
		check: validPassword,
		message: "Password length must be 8 or more, contain at least: " +
			"1 uppercase letter, 1 lowercase letter, 1 number, and 1 special character",
	},
}

var labels = map[string]string{
	FieldFullname: "Name",
	FieldUsername: "Username",
	FieldEmail:    "Email",
	FieldPhone:    "Phone",
	FieldPassword: "Password",
	FieldConfirm:  "Password Confirmation",
}

const passwordSpecials = "@$!%*?&"

// validPassword replaces the lookahead regex the rule table inherits
// from: RE2 has no lookahead, so each character class is checked
// separately over the same allowed alphabet.
func validPassword(value string) bool {
	if len(value) < 8 {
		return false
	}
	var lower, upper, digit, special bool
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		default:
			return false
		}
	}
	return lower && upper && digit && special
}

func requiredMessage(name string) string {
	label, ok := labels[name]
	if !ok {
		label = name
	}
	return fmt.Sprintf("%s is required!", label)
}

// Field validates a single field on change. The password argument is
// the current password value, consulted only for the confirmation
// field. Empty string means the field is valid.
func Field(name, value, password string) string {
	if value == "" {
		return requiredMessage(name)
	}
	if name == FieldConfirm {
		if value != password {
			return ConfirmMismatchMessage
		}
		return ""
	}
	if r, ok := rules[name]; ok && !r.check(value) {
		return r.message
	}
	return ""
}

// Form validates all fields at once before submission. The returned
// map carries one message per failing field; an empty map means the
// form may be submitted.
func Form(fields map[string]string) map[string]string {
	errors := make(map[string]string)
	for name, value := range fields {
		if msg := Field(name, value, fields[FieldPassword]); msg != "" {
			errors[name] = msg
		}
	}
	return errors
}
