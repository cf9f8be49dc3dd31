// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv reads a [StructuredConfig] from the process environment. Only
// variables named by the `env`/`envPrefix` tags are consulted; unset ones
// leave zero values for the later sources and defaults to fill.
func parseEnv() (*StructuredConfig, error) {
	cfg, err := env.ParseAs[StructuredConfig]()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEnv, err)
	}
	return &cfg, nil
}
