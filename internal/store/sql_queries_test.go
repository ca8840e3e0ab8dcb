// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Anton Belyaev

package store

import (
	"strings"
	"testing"
	"time"

	"github.com/abelyaev/accountd/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_buildUpdateUserQuery_NameOnly(t *testing.T) {
	name := "Johnny"

	query, args, err := buildUpdateUserQuery(models.UserUpdate{UserID: 42, Name: &name})
	require.NoError(t, err)

	// args checks
	require.Len(t, args, 2)
	require.Equal(t, "Johnny", args[0])
	require.Equal(t, int64(42), args[1])

	// query checks (contains parts)
	q := strings.ToLower(query)

	require.Contains(t, q, "update users")
	require.Contains(t, q, "updated_at = now()")
	require.Contains(t, q, "name = $1")
	require.Contains(t, q, "where id = $2")
	require.Contains(t, q, "returning")

	// untouched columns must not appear in SET
	require.NotContains(t, q, "email = $")
	require.NotContains(t, q, "password_hash = $")
	require.NotContains(t, q, "confirmed_at = $")
}

func Test_buildUpdateUserQuery_ReturnsAllUserColumns(t *testing.T) {
	name := "Johnny"

	query, _, err := buildUpdateUserQuery(models.UserUpdate{UserID: 1, Name: &name})
	require.NoError(t, err)

	q := strings.ToLower(query)

	// Check that all user columns come back in the RETURNING section.
	// This is a "contains" check; it does not enforce order but catches regressions quickly.
	returningIdx := strings.Index(q, "returning")
	require.NotEqual(t, -1, returningIdx, "query should contain RETURNING clause")
	returningPart := q[returningIdx:]

	cols := []string{
		"id",
		"email",
		"name",
		"password_hash",
		"confirmed_at",
		"confirmation_digest",
		"confirmation_sent_at",
		"created_at",
		"updated_at",
	}
	for _, c := range cols {
		require.Contains(t, returningPart, c)
	}
}

func Test_buildUpdateUserQuery(t *testing.T) {
	email := "new@example.com"
	name := "Johnny"
	password := "new-hash"
	digest := "new-digest"
	sentAt := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		update     models.UserUpdate
		wantErr    error
		checkQuery func(t *testing.T, query string, args []any)
	}{
		{
			name:    "error: empty update",
			update:  models.UserUpdate{UserID: 42},
			wantErr: ErrEmptyUpdate,
		},
		{
			name:   "success: password only",
			update: models.UserUpdate{UserID: 42, PasswordHash: &password},
			checkQuery: func(t *testing.T, query string, args []any) {
				q := strings.ToLower(query)

				require.Contains(t, q, "password_hash = $1")
				require.Contains(t, q, "where id = $2")

				require.Len(t, args, 2)
				assert.Equal(t, "new-hash", args[0])
				assert.Equal(t, int64(42), args[1])
			},
		},
		{
			name: "success: email change resets confirmation and installs new digest",
			update: models.UserUpdate{
				UserID:             42,
				Email:              &email,
				ClearConfirmation:  true,
				ConfirmationDigest: &digest,
				ConfirmationSentAt: &sentAt,
			},
			checkQuery: func(t *testing.T, query string, args []any) {
				q := strings.ToLower(query)

				// SET placeholders are sequential, WHERE id comes last.
				require.Contains(t, q, "email = $1")
				require.Contains(t, q, "confirmed_at = $2")
				require.Contains(t, q, "confirmation_digest = $3")
				require.Contains(t, q, "confirmation_sent_at = $4")
				require.Contains(t, q, "where id = $5")

				// Args order: email, confirmed_at (NULL), digest, sent_at, id.
				require.Len(t, args, 5)
				assert.Equal(t, "new@example.com", args[0])
				assert.Nil(t, args[1], "confirmed_at must be reset to NULL")
				assert.Equal(t, "new-digest", args[2])
				assert.Equal(t, sentAt, args[3])
				assert.Equal(t, int64(42), args[4])
			},
		},
		{
			name: "success: clear confirmation without replacement digest",
			update: models.UserUpdate{
				UserID:            42,
				Email:             &email,
				ClearConfirmation: true,
			},
			checkQuery: func(t *testing.T, query string, args []any) {
				q := strings.ToLower(query)

				// Without a replacement digest the old one is wiped too,
				// otherwise a stale token could still confirm the new address.
				require.Contains(t, q, "confirmed_at = $2")
				require.Contains(t, q, "confirmation_digest = $3")
				require.Contains(t, q, "confirmation_sent_at = $4")

				require.Len(t, args, 5)
				assert.Nil(t, args[1])
				assert.Nil(t, args[2])
				assert.Nil(t, args[3])
				assert.Equal(t, int64(42), args[4])
			},
		},
		{
			name: "success: idempotent for same update",
			update: models.UserUpdate{
				UserID: 42,
				Name:   &name,
			},
			checkQuery: func(t *testing.T, query string, args []any) {
				query2, args2, err2 := buildUpdateUserQuery(models.UserUpdate{
					UserID: 42,
					Name:   &name,
				})
				require.NoError(t, err2)
				require.Equal(t, query, query2)
				require.Equal(t, args, args2)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := buildUpdateUserQuery(tt.update)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, query)
				assert.Nil(t, args)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, query)
			assert.NotNil(t, args)

			if tt.checkQuery != nil {
				tt.checkQuery(t, query, args)
			}
		})
	}
}

func Test_buildPendingMailQuery_SQLContainsParts(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	query, args, err := buildPendingMailQuery(now, 25)
	require.NoError(t, err)

	// args checks
	require.Len(t, args, 2)
	require.Equal(t, models.MailStatusPending, args[0])
	require.Equal(t, now, args[1])

	// query checks (contains parts)
	q := strings.ToLower(query)

	require.Contains(t, q, "select")
	require.Contains(t, q, "from mail_outbox")
	require.Contains(t, q, "where")
	require.Contains(t, q, "status = $1")
	require.Contains(t, q, "next_attempt_at <= $2")
	require.Contains(t, q, "order by next_attempt_at asc")

	// limit is rendered inline, not as a placeholder
	require.Contains(t, q, "limit 25")
	require.NotContains(t, query, "$3")
}

func Test_buildPendingMailQuery_SelectsAllExpectedColumns(t *testing.T) {
	query, _, err := buildPendingMailQuery(time.Now(), 10)
	require.NoError(t, err)

	q := strings.ToLower(query)

	// Extract SELECT section (before FROM).
	fromIdx := strings.Index(q, " from ")
	require.NotEqual(t, -1, fromIdx)
	selectPart := q[:fromIdx]

	cols := []string{
		"id",
		"user_id",
		"recipient",
		"subject",
		"body",
		"status",
		"attempts",
		"next_attempt_at",
		"created_at",
		"updated_at",
	}
	for _, c := range cols {
		require.Contains(t, selectPart, c,
			"SELECT part should contain column %q", c)
	}

	// Ensure this is not SELECT *.
	require.NotContains(t, selectPart, "*",
		"query should not use SELECT *")
}
