// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Anton Belyaev

package config

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup. It also applies the
// edition default, since an empty edition means self-managed.
//
// Returns nil if the configuration is valid, or a sentinel error naming the
// broken configuration group otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.App.Edition == "" {
		cfg.App.Edition = EditionSelfManaged
	}

	if cfg.App.Edition != EditionSelfManaged && cfg.App.Edition != EditionHosted {
		return ErrInvalidAppConfigs
	}

	if cfg.App.SecretKey == "" {
		return ErrInvalidAppConfigs
	}

	if cfg.Storage.DB.DSN == "" || cfg.Storage.Redis.URL == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Server.HTTPAddress == "" {
		return ErrInvalidServerConfigs
	}

	if cfg.Signup.MinPasswordLength < 1 {
		return ErrInvalidSignupConfigs
	}

	if cfg.Signup.InvitesEnabled && cfg.App.InviteSignKey == "" {
		return ErrInvalidSignupConfigs
	}

	if cfg.Captcha.Enabled && (cfg.Captcha.VerifyURL == "" || cfg.Captcha.Secret == "") {
		return ErrInvalidCaptchaConfigs
	}

	if cfg.Mail.ProviderURL != "" && (cfg.Mail.APIKey == "" || cfg.Mail.From == "") {
		return ErrInvalidMailConfigs
	}

	return nil
}
