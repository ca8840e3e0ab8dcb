// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Anton Belyaev

package models

import "time"

// Invite represents a pending invitation for an email address that has not
// registered yet. Acceptance is a best-effort side step of the registration
// flow: a failure to accept never fails the registration itself.
type Invite struct {
	// ID is the internal unique identifier of the invite.
	ID int64 `json:"id"`

	// Email is the invited address, stored lowercased. Matching against
	// the registering user's email is exact.
	Email string `json:"email"`

	// InvitedBy is the user ID of the account that issued the invite.
	InvitedBy int64 `json:"invited_by"`

	// AcceptedAt is set when a registering user redeems the invite.
	// Nil while the invite is pending.
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`

	// CreatedAt is when the invite was issued.
	CreatedAt time.Time `json:"created_at"`
}

// Pending reports whether the invite has not been redeemed yet.
func (i Invite) Pending() bool {
	return i.AcceptedAt == nil
}

// TableName returns the name of the database table
// associated with the Invite model.
func (i Invite) TableName() string {
	return "invites"
}
