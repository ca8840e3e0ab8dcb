package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/abelyaev/accountd/internal/config"
	"github.com/abelyaev/accountd/internal/logger"
	"github.com/abelyaev/accountd/internal/utils"
	"github.com/abelyaev/accountd/models"
)

const defaultRequestTimeout = 15 * time.Second

// providerSender delivers messages through an HTTP mail provider's
// transactional send endpoint.
type providerSender struct {
	client *utils.HTTPClient
	logger *logger.Logger
	url    string
	apiKey string
	from   string
}

// NewProviderSender constructs a [Sender] talking to the provider described
// by the mail configuration.
func NewProviderSender(cfg config.Mail, logger *logger.Logger) Sender {
	logger.Debug().Msg("creating mail provider sender")

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	client := utils.NewHTTPClient()
	client.SetTimeout(timeout)

	return &providerSender{
		client: client,
		logger: logger,
		url:    cfg.ProviderURL,
		apiKey: cfg.APIKey,
		from:   cfg.From,
	}
}

// providerRequest is the JSON body of a provider send call.
type providerRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// Send submits the message. 4xx answers map to [ErrMessageRejected], 5xx
// and transport failures to [ErrProviderUnavailable].
func (s *providerSender) Send(ctx context.Context, msg models.MailMessage) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", "Bearer "+s.apiKey).
		SetBody(providerRequest{
			From:    s.from,
			To:      msg.To,
			Subject: msg.Subject,
			Text:    msg.Body,
		}).
		Post(s.url)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}

	code := resp.StatusCode()
	switch {
	case code >= 200 && code < 300:
		return nil
	case code >= 400 && code < 500:
		return fmt.Errorf("%w: provider returned %s", ErrMessageRejected, resp.Status())
	default:
		return fmt.Errorf("%w: provider returned %s", ErrProviderUnavailable, resp.Status())
	}
}
