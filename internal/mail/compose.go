package mail

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/abelyaev/accountd/models"
	"github.com/oklog/ulid/v2"
)

const confirmationSubject = "Confirm your account"

const confirmationBody = `Hi %s,

Someone signed up for an account with this email address. To activate the
account, open the link below:

  %s

If this wasn't you, ignore this message and the account will stay inactive.
`

// NewConfirmationMessage composes the address-confirmation email for a
// freshly registered (or re-addressed) account. The plain-text token goes
// into the link; only its digest is ever stored server-side.
func NewConfirmationMessage(user models.User, token, baseURL string) models.MailMessage {
	link := strings.TrimRight(baseURL, "/") + "/api/v1/confirm?token=" + url.QueryEscape(token)

	now := time.Now()
	return models.MailMessage{
		ID:            ulid.Make().String(),
		UserID:        user.UserID,
		To:            user.Email,
		Subject:       confirmationSubject,
		Body:          fmt.Sprintf(confirmationBody, greetingName(user), link),
		Status:        models.MailStatusPending,
		NextAttemptAt: now,
		CreatedAt:     now,
	}
}

// greetingName picks the salutation: the display name when the user set
// one, otherwise the address itself.
func greetingName(user models.User) string {
	if user.Name != "" {
		return user.Name
	}
	return user.Email
}
