// Package captcha verifies human-verification tokens against an external
// provider over HTTP. The provider contract follows the common verify-API
// shape: a form-encoded POST with the shared secret and the client token,
// answered with a JSON body carrying a success flag.
package captcha

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/abelyaev/accountd/internal/config"
	"github.com/abelyaev/accountd/internal/logger"
	"github.com/abelyaev/accountd/internal/utils"
)

const defaultRequestTimeout = 10 * time.Second

//go:generate mockgen -source=captcha.go -destination=../mock/captcha_mock.go -package=mock

// Verifier checks a client-submitted CAPTCHA token before registration is
// allowed to proceed.
type Verifier interface {
	Verify(ctx context.Context, token, remoteAddr string) error
}

// NullVerifier accepts every token. It is wired in when the CAPTCHA feature
// is disabled so that callers never branch on configuration.
type NullVerifier struct{}

// Verify always reports success.
func (NullVerifier) Verify(_ context.Context, _, _ string) error {
	return nil
}

// New returns the configured verifier: an HTTP-backed one when the feature
// is enabled, a [NullVerifier] otherwise.
func New(cfg config.Captcha, logger *logger.Logger) Verifier {
	if !cfg.Enabled {
		logger.Debug().Msg("captcha disabled, using null verifier")
		return NullVerifier{}
	}
	return NewHTTPVerifier(cfg, logger)
}

// httpVerifier calls the provider's verify endpoint.
type httpVerifier struct {
	client    *utils.HTTPClient
	logger    *logger.Logger
	verifyURL string
	secret    string
}

// NewHTTPVerifier constructs a [Verifier] talking to the provider described
// by the CAPTCHA configuration.
func NewHTTPVerifier(cfg config.Captcha, logger *logger.Logger) Verifier {
	logger.Debug().Msg("creating captcha verifier")

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	client := utils.NewHTTPClient()
	client.SetTimeout(timeout)

	return &httpVerifier{
		client:    client,
		logger:    logger,
		verifyURL: cfg.VerifyURL,
		secret:    cfg.Secret,
	}
}

// verifyResponse is the provider's answer to a verification call.
type verifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify checks the token with the provider. A missing token is rejected
// locally without a provider round trip.
func (v *httpVerifier) Verify(ctx context.Context, token, remoteAddr string) error {
	if token == "" {
		return ErrCaptchaRejected
	}

	var result verifyResponse
	resp, err := v.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"secret":   v.secret,
			"response": token,
			"remoteip": remoteAddr,
		}).
		SetResult(&result).
		Post(v.verifyURL)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCaptchaUnavailable, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("%w: provider returned %s", ErrCaptchaUnavailable, resp.Status())
	}

	if !result.Success {
		logger.FromContext(ctx).Debug().
			Strs("error_codes", result.ErrorCodes).
			Msg("captcha token rejected")
		return ErrCaptchaRejected
	}

	return nil
}
