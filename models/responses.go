package models

// RegistrationResult is the response body of a successful registration or
// profile-update call. RedirectTo tells the form layer where to navigate;
// LoggedIn reports whether a session was established as part of the call.
type RegistrationResult struct {
	// User is the persisted account, with sensitive fields stripped by
	// the User JSON tags.
	User User `json:"user"`

	// LoggedIn is true when the call bound a session for the user.
	LoggedIn bool `json:"logged_in"`

	// Session is the freshly bound session when LoggedIn is true. It is a
	// server-side handoff for the cookie-writing layer and never serialized.
	Session *Session `json:"-"`

	// RedirectTo is the destination the front end should navigate to.
	RedirectTo string `json:"redirect_to"`

	// Notice is an optional human-readable success message.
	Notice string `json:"notice,omitempty"`
}

// ValidationFailure is the response body of a rejected registration or
// profile-update call. It echoes the submitted values inside ChangeRequest
// so the form can be re-rendered pre-filled.
type ValidationFailure struct {
	// ChangeRequest carries the submitted values and per-field errors.
	ChangeRequest ChangeRequest `json:"change_request"`
}

// Notice is a minimal success/info response body.
type Notice struct {
	// Notice is the human-readable message.
	Notice string `json:"notice"`

	// RedirectTo is the destination the front end should navigate to,
	// when applicable.
	RedirectTo string `json:"redirect_to,omitempty"`
}

// HealthStatus is the response body of the health endpoint.
type HealthStatus struct {
	// Status is "ok" while the service is serving.
	Status string `json:"status"`

	// Version is the semantic version of the running build.
	Version string `json:"version,omitempty"`
}
