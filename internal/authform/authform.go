// Package authform drives form submission: whole-form validation,
// dispatch of the sign-up or sign-in call, and the implicit sign-in
// chained after a successful sign-up.
package authform

import (
	"context"

	"github.com/fakestore/storefront/internal/apperr"
	"github.com/fakestore/storefront/internal/logging"
	"github.com/fakestore/storefront/internal/models"
	"github.com/fakestore/storefront/internal/validation"
	"github.com/fakestore/storefront/pkg/authclient"
)

const (
	IntentSignup = "signup"
	IntentSignin = "signin"

	// RedirectSignIn is where a sign-up lands when its chained
	// sign-in fails; the account exists, the user signs in manually.
	RedirectSignIn = "/signin"
)

// Result is exactly one of: field errors, a submit-level error, a
// redirect, or auth data. Remote failures become SubmitError strings;
// Action never returns an error to the caller.
type Result struct {
	AuthData    *models.AuthPayload
	FieldErrors map[string]string
	SubmitError string
	Redirect    string
}

type Service struct {
	auth *authclient.Client
}

func New(auth *authclient.Client) *Service {
	return &Service{auth: auth}
}

func (s *Service) Action(ctx context.Context, intent string, fields map[string]string) Result {
	if intent != IntentSignup && intent != IntentSignin {
		return Result{Redirect: intent}
	}

	if errs := validation.Form(fields); len(errs) > 0 {
		return Result{FieldErrors: errs}
	}

	username := fields[validation.FieldUsername]
	password := fields[validation.FieldPassword]

	if intent == IntentSignin {
		payload, err := s.auth.Signin(ctx, username, password)
		if err != nil {
			return Result{SubmitError: apperr.Message(err)}
		}
		return Result{AuthData: payload}
	}

	body := make(map[string]string, len(fields))
	for name, value := range fields {
		if name == validation.FieldConfirm {
			continue
		}
		body[name] = value
	}
	if _, err := s.auth.Signup(ctx, body); err != nil {
		return Result{SubmitError: apperr.Message(err)}
	}

	// The sign-up response carries no token, so chain a sign-in to
	// obtain one. Its failure is swallowed into a redirect: the user
	// is registered either way.
	payload, err := s.auth.Signin(ctx, username, password)
	if err != nil {
		logging.FromContext(ctx).Warn("implicit sign-in after sign-up failed", "error", err)
		return Result{Redirect: RedirectSignIn}
	}
	return Result{AuthData: payload}
}
