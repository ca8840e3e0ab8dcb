package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

func parseEnv(cfg *StructuredConfig) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("error parsing env vars: %w", err)
	}

	return nil
}
