package http

import (
	"errors"
	"net/http"

	"github.com/abelyaev/accountd/internal/captcha"
	"github.com/abelyaev/accountd/internal/service"
	"github.com/abelyaev/accountd/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrValidationFailed:         http.StatusUnprocessableEntity,
	service.ErrInvalidCredentials:       http.StatusUnauthorized,
	service.ErrUnconfirmedAccount:       http.StatusForbidden,
	service.ErrConfirmationTokenInvalid: http.StatusUnprocessableEntity,
	service.ErrConfirmationTokenExpired: http.StatusUnprocessableEntity,
	service.ErrDeletionFailed:           http.StatusBadGateway,

	captcha.ErrCaptchaUnavailable: http.StatusServiceUnavailable,

	store.ErrEmailAlreadyTaken: http.StatusUnprocessableEntity,
	store.ErrNoUserWasFound:    http.StatusNotFound,

	store.ErrBuildingSQLQuery:   http.StatusInternalServerError,
	store.ErrExecutingQuery:     http.StatusInternalServerError,
	store.ErrExecutingStatement: http.StatusInternalServerError,
	store.ErrScanningRow:        http.StatusInternalServerError,
	store.ErrScanningRows:       http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
