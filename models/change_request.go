// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Anton Belyaev

package models

// ChangeRequest is the validating representation of proposed field changes
// to a user account before persistence. It carries the submitted values and
// any per-field validation errors accumulated while building it.
//
// A ChangeRequest is ephemeral: it lives for the duration of a single
// registration or profile-update call and is never persisted. The invariant
// enforced by the services layer is that a User row is only ever written
// from a ChangeRequest whose Errors map is empty.
type ChangeRequest struct {
	// Email is the submitted email address, lowercased and trimmed.
	Email string `json:"email"`

	// Name is the submitted display name, trimmed.
	Name string `json:"name"`

	// Password is the submitted plain-text password. It never leaves the
	// process: the services layer replaces it with a bcrypt hash before
	// persistence, and it is excluded from JSON output.
	Password string `json:"-"`

	// Errors maps field names ("email", "password", "name", "base") to the
	// list of validation messages recorded for that field.
	Errors map[string][]string `json:"errors,omitempty"`
}

// NewChangeRequest returns an empty ChangeRequest ready to collect field
// values and errors. Two consecutive calls produce identical values.
func NewChangeRequest() *ChangeRequest {
	return &ChangeRequest{Errors: map[string][]string{}}
}

// AddError records a validation message against the named field.
func (c *ChangeRequest) AddError(field, message string) {
	if c.Errors == nil {
		c.Errors = map[string][]string{}
	}
	c.Errors[field] = append(c.Errors[field], message)
}

// Valid reports whether the change request carries no validation errors.
func (c *ChangeRequest) Valid() bool {
	return len(c.Errors) == 0
}

// FieldErrors returns the messages recorded for the named field.
// Returns nil when the field is clean.
func (c *ChangeRequest) FieldErrors(field string) []string {
	if c.Errors == nil {
		return nil
	}
	return c.Errors[field]
}

// SignupParams is the raw registration payload. The registration endpoints
// accept the user fields nested under a "user" key, mirroring the form
// structure the front end submits.
type SignupParams struct {
	// User carries the proposed account fields.
	User SignupUserParams `json:"user"`

	// CaptchaToken is the client-side CAPTCHA response token. Consumed by
	// the verification step before the create flow runs; empty when CAPTCHA
	// is disabled.
	CaptchaToken string `json:"captcha_token,omitempty"`

	// InviteToken is an optional signed invite token. When present and
	// valid, invite acceptance links the new account to the inviting
	// resource.
	InviteToken string `json:"invite_token,omitempty"`
}

// SignupUserParams is the nested user map of a registration submission.
type SignupUserParams struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// UpdateParams is the raw profile-update payload. All fields are optional;
// nil means "leave unchanged".
type UpdateParams struct {
	User UpdateUserParams `json:"user"`
}

// UpdateUserParams is the nested user map of a profile-update submission.
type UpdateUserParams struct {
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	Name     *string `json:"name,omitempty"`
}

// LoginParams is the credentials payload of a session-create submission.
type LoginParams struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
