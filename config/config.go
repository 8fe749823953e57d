/*
Copyright 2021 by Milo Christiansen

This software is provided 'as-is', without any express or implied warranty. In
no event will the authors be held liable for any damages arising from the use of
this software.

Permission is granted to anyone to use this software for any purpose, including
commercial applications, and to alter it and redistribute it freely, subject to
the following restrictions:

1. The origin of this software must not be misrepresented; you must not claim
that you wrote the original software. If you use this software in a product, an
acknowledgment in the product documentation would be appreciated but is not
required.

2. Altered source versions must be plainly marked as such, and must not be
misrepresented as being the original software.

3. This notice may not be removed or altered from any source distribution.
*/

// Package config loads report settings from LEDGER_* environment variables.
package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/milochristiansen/ledgerfmt/expr"
	"github.com/milochristiansen/ledgerfmt/format"
)

// Default report formats.
const (
	RegisterFormat     = "%-10d %-20.20p %-24.24N %12t %12T\n"
	RegisterNextFormat = "                                %-24.24N %12t %12T\n"
	BalanceFormat      = "%20T  %2_%n\n"
	EquityFormat       = "%d %p\n"
	EquityNextFormat   = "    %-34N  %12t\n"
)

// Settings holds everything a report run can be configured with.
type Settings struct {
	File string `env:"LEDGER_FILE"`

	DateFormat string `env:"LEDGER_DATE_FORMAT" envDefault:"%Y/%m/%d"`
	ValueExpr  string `env:"LEDGER_VALUE_EXPR" envDefault:"amount"`
	TotalExpr  string `env:"LEDGER_TOTAL_EXPR" envDefault:"total"`
	Columns    int    `env:"LEDGER_COLUMNS" envDefault:"80"`

	RegisterFormat     string `env:"LEDGER_REGISTER_FORMAT"`
	RegisterNextFormat string `env:"LEDGER_REGISTER_NEXT_FORMAT"`
	BalanceFormat      string `env:"LEDGER_BALANCE_FORMAT"`
	EquityFormat       string `env:"LEDGER_EQUITY_FORMAT"`
	EquityNextFormat   string `env:"LEDGER_EQUITY_NEXT_FORMAT"`

	LogLevel slog.Level `env:"LEDGER_LOG_LEVEL" envDefault:"info"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads Settings from the environment and fills in the default formats. Variables in a .env file in the
// current directory are loaded first, if there is one. A custom .env file path may be given instead, in which
// case it must exist. Variables already set in the environment win over the file.
func Load(envPath ...string) (Settings, error) {
	var s Settings
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return s, fmt.Errorf("load .env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	if err := ParseEnv(&s); err != nil {
		return s, err
	}
	s.fillFormats()
	return s, nil
}

// LoadFrom is like Load, but reads from the given map instead of the process environment.
func LoadFrom(environ map[string]string) (Settings, error) {
	var s Settings
	err := env.ParseWithOptions(&s, env.Options{Environment: environ})
	if err != nil {
		return s, fmt.Errorf("parse env: %w", err)
	}
	s.fillFormats()
	return s, nil
}

func (s *Settings) fillFormats() {
	defaults := []struct {
		field *string
		value string
	}{
		{&s.RegisterFormat, RegisterFormat},
		{&s.RegisterNextFormat, RegisterNextFormat},
		{&s.BalanceFormat, BalanceFormat},
		{&s.EquityFormat, EquityFormat},
		{&s.EquityNextFormat, EquityNextFormat},
	}
	for _, d := range defaults {
		if *d.field == "" {
			*d.field = d.value
		}
	}
}

// FormatConfig compiles the value and total expressions into a format.Config.
func (s Settings) FormatConfig() (format.Config, error) {
	cfg := format.DefaultConfig()
	cfg.DateFormat = s.DateFormat
	cfg.LineWidth = s.Columns
	if cfg.LineWidth < 0 {
		return cfg, fmt.Errorf("columns: must not be negative, got %d", s.Columns)
	}

	var err error
	if s.ValueExpr != "" {
		cfg.Value, err = expr.Compile(s.ValueExpr)
		if err != nil {
			return cfg, fmt.Errorf("value expression: %w", err)
		}
	} else {
		cfg.Value = nil
	}
	if s.TotalExpr != "" {
		cfg.Total, err = expr.Compile(s.TotalExpr)
		if err != nil {
			return cfg, fmt.Errorf("total expression: %w", err)
		}
	} else {
		cfg.Total = nil
	}
	return cfg, nil
}
