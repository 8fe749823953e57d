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

package config_test

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/milochristiansen/ledgerfmt/config"
	"github.com/milochristiansen/ledgerfmt/expr"
	"github.com/milochristiansen/ledgerfmt/format"
)

func TestLoadDefaults(t *testing.T) {
	s, err := config.LoadFrom(map[string]string{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if s.DateFormat != format.DefaultDateFormat {
		t.Errorf("Incorrect date format: %q", s.DateFormat)
	}
	if s.Columns != 80 || s.ValueExpr != "amount" || s.TotalExpr != "total" {
		t.Errorf("Incorrect defaults: %+v", s)
	}
	if s.RegisterFormat != config.RegisterFormat || s.EquityNextFormat != config.EquityNextFormat {
		t.Errorf("Default formats not filled in: %+v", s)
	}
	if s.LogLevel != slog.LevelInfo {
		t.Errorf("Incorrect log level: %v", s.LogLevel)
	}

	for _, src := range []string{s.RegisterFormat, s.RegisterNextFormat, s.BalanceFormat, s.EquityFormat, s.EquityNextFormat} {
		if _, err := format.Parse(src); err != nil {
			t.Errorf("Default format %q does not parse: %v", src, err)
		}
	}
}

func TestLoadOverrides(t *testing.T) {
	s, err := config.LoadFrom(map[string]string{
		"LEDGER_DATE_FORMAT":    "%d.%m.%Y",
		"LEDGER_COLUMNS":        "120",
		"LEDGER_BALANCE_FORMAT": "%T %N\n",
		"LEDGER_LOG_LEVEL":      "debug",
		"LEDGER_VALUE_EXPR":     "amount * 2",
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if s.DateFormat != "%d.%m.%Y" || s.Columns != 120 || s.BalanceFormat != "%T %N\n" {
		t.Errorf("Overrides not applied: %+v", s)
	}
	if s.LogLevel != slog.LevelDebug {
		t.Errorf("Incorrect log level: %v", s.LogLevel)
	}

	cfg, err := s.FormatConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LineWidth != 120 || cfg.DateFormat != "%d.%m.%Y" {
		t.Errorf("Incorrect config: %+v", cfg)
	}
	if cfg.Value == nil || cfg.Value.String() != "amount * 2" {
		t.Errorf("Incorrect value expression: %v", cfg.Value)
	}
}

func TestLoadError(t *testing.T) {
	_, err := config.LoadFrom(map[string]string{"LEDGER_COLUMNS": "wide"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestParseEnv(t *testing.T) {
	t.Setenv("LEDGER_COLUMNS", "100")

	s, err := config.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Columns != 100 {
		t.Errorf("expected 100 columns, got %d", s.Columns)
	}
}

func TestLoadDotenv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.env")
	err := os.WriteFile(path, []byte("LEDGER_FILE=books.ledger\nLEDGER_COLUMNS=90\nLEDGER_DATE_FORMAT=%d/%m/%Y\n"), 0666)
	if err != nil {
		t.Fatal(err)
	}
	t.Setenv("LEDGER_FILE", "")
	t.Setenv("LEDGER_COLUMNS", "100")

	// Restored once the test ends, even though the file sets it.
	t.Setenv("LEDGER_DATE_FORMAT", "")
	os.Unsetenv("LEDGER_DATE_FORMAT")

	s, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.File != "" || s.Columns != 100 {
		t.Errorf("The environment should win over the file: %+v", s)
	}
	if s.DateFormat != "%d/%m/%Y" {
		t.Errorf("File not loaded: %q", s.DateFormat)
	}

	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Errorf("expected an error for a missing file")
	}
}

func TestFormatConfigErrors(t *testing.T) {
	s, err := config.LoadFrom(map[string]string{"LEDGER_TOTAL_EXPR": "total +"})
	if err != nil {
		t.Fatal(err)
	}

	_, err = s.FormatConfig()
	var ee *expr.Error
	if !errors.As(err, &ee) {
		t.Fatalf("expected an expression error, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "total expression: ") {
		t.Errorf("missing context: %v", err)
	}

	s.TotalExpr = ""
	s.Columns = -1
	if _, err := s.FormatConfig(); err == nil {
		t.Errorf("expected an error for negative columns")
	}
}
