package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	App struct {
		BaseURL       string `json:"base_url"`
		Edition       string `json:"edition"`
		SecretKey     string `json:"secret_key"`
		InviteSignKey string `json:"invite_sign_key"`
		InviteIssuer  string `json:"invite_issuer"`
	} `json:"app,omitempty"`

	Signup struct {
		RequireConfirmation       bool     `json:"require_confirmation"`
		AllowUnconfirmedAccessFor Duration `json:"allow_unconfirmed_access_for"`
		ConfirmationTTL           Duration `json:"confirmation_ttl"`
		InvitesEnabled            bool     `json:"invites_enabled"`
		MinPasswordLength         int      `json:"min_password_length"`
		ThrottlePerMinute         int      `json:"throttle_per_minute"`
		ThrottleBurst             int      `json:"throttle_burst"`
	} `json:"signup,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		Redis struct {
			URL string `json:"url"`
		} `json:"redis,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Session struct {
		TTL          Duration `json:"ttl"`
		CookieName   string   `json:"cookie_name"`
		CookieSecure bool     `json:"cookie_secure"`
	} `json:"session,omitempty"`

	Mail struct {
		ProviderURL      string   `json:"provider_url"`
		APIKey           string   `json:"api_key"`
		From             string   `json:"from"`
		RequestTimeout   Duration `json:"request_timeout"`
		DispatchInterval Duration `json:"dispatch_interval"`
	} `json:"mail,omitempty"`

	Captcha struct {
		Enabled        bool     `json:"enabled"`
		VerifyURL      string   `json:"verify_url"`
		Secret         string   `json:"secret"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"captcha,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			BaseURL:       jsonCfg.App.BaseURL,
			Edition:       jsonCfg.App.Edition,
			SecretKey:     jsonCfg.App.SecretKey,
			InviteSignKey: jsonCfg.App.InviteSignKey,
			InviteIssuer:  jsonCfg.App.InviteIssuer,
		},
		Signup: Signup{
			RequireConfirmation:       jsonCfg.Signup.RequireConfirmation,
			AllowUnconfirmedAccessFor: time.Duration(jsonCfg.Signup.AllowUnconfirmedAccessFor),
			ConfirmationTTL:           time.Duration(jsonCfg.Signup.ConfirmationTTL),
			InvitesEnabled:            jsonCfg.Signup.InvitesEnabled,
			MinPasswordLength:         jsonCfg.Signup.MinPasswordLength,
			ThrottlePerMinute:         jsonCfg.Signup.ThrottlePerMinute,
			ThrottleBurst:             jsonCfg.Signup.ThrottleBurst,
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
			Redis: Redis{
				URL: jsonCfg.Storage.Redis.URL,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Session: Session{
			TTL:          time.Duration(jsonCfg.Session.TTL),
			CookieName:   jsonCfg.Session.CookieName,
			CookieSecure: jsonCfg.Session.CookieSecure,
		},
		Mail: Mail{
			ProviderURL:      jsonCfg.Mail.ProviderURL,
			APIKey:           jsonCfg.Mail.APIKey,
			From:             jsonCfg.Mail.From,
			RequestTimeout:   time.Duration(jsonCfg.Mail.RequestTimeout),
			DispatchInterval: time.Duration(jsonCfg.Mail.DispatchInterval),
		},
		Captcha: Captcha{
			Enabled:        jsonCfg.Captcha.Enabled,
			VerifyURL:      jsonCfg.Captcha.VerifyURL,
			Secret:         jsonCfg.Captcha.Secret,
			RequestTimeout: time.Duration(jsonCfg.Captcha.RequestTimeout),
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
