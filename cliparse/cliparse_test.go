// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/MaplrCanada/ss-petitions/petition"
)

func TestParseFlags_EnvVars(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("ADMIN_KEY_SALT", "test-salt")

	cfg, err := ParseFlags([]string{"-env-file", ""})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != DatabasePostgres {
		t.Errorf("expected postgres, got %q", cfg.DatabaseType)
	}
	if cfg.AdminKeySalt != "test-salt" {
		t.Errorf("expected salt from env, got %q", cfg.AdminKeySalt)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	t.Setenv("PORT", "9000")

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-admin-salt", "s1", "-env-file", ""})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.DatabaseURL != "file:test.db" {
		t.Errorf("expected database URL from flag, got %q", cfg.DatabaseURL)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DATABASE_TYPE", "")
	t.Setenv("ADMIN_KEY_SALT", "salt")

	cfg, err := ParseFlags([]string{"-env-file", ""})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 3318 {
		t.Errorf("expected default port 3318, got %d", cfg.Port)
	}
	if cfg.DatabaseType != DatabaseSQLite || cfg.DatabaseURL != "petitions.db" {
		t.Errorf("expected sqlite petitions.db, got %s %s", cfg.DatabaseType, cfg.DatabaseURL)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"missing salt", map[string]string{"ADMIN_KEY_SALT": ""}, nil},
		{"bad port", map[string]string{"PORT": "abc", "ADMIN_KEY_SALT": "s"}, nil},
		{"postgres without url", map[string]string{"ADMIN_KEY_SALT": "s", "DATABASE_URL": ""}, []string{"-t", "postgres"}},
		{"unknown database type", map[string]string{"ADMIN_KEY_SALT": "s"}, []string{"-t", "mysql"}},
		{"unknown flag", nil, []string{"-nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PORT", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			args := append([]string{"-env-file", ""}, tt.args...)
			if _, err := ParseFlags(args); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseFlags_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("ADMIN_KEY_SALT=from-file\nPORT=7777\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// Registered so t.Setenv restores the original values after godotenv sets them.
	t.Setenv("ADMIN_KEY_SALT", "")
	t.Setenv("PORT", "")
	os.Unsetenv("ADMIN_KEY_SALT")
	os.Unsetenv("PORT")

	cfg, err := ParseFlags([]string{"-env-file", path})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.AdminKeySalt != "from-file" {
		t.Errorf("expected salt from env file, got %q", cfg.AdminKeySalt)
	}
	if cfg.Port != 7777 {
		t.Errorf("expected port from env file, got %d", cfg.Port)
	}
}

func TestParseFlags_MissingEnvFileIsFine(t *testing.T) {
	t.Setenv("ADMIN_KEY_SALT", "s")
	if _, err := ParseFlags([]string{"-env-file", filepath.Join(t.TempDir(), "absent.env")}); err != nil {
		t.Fatalf("missing env file should be ignored: %v", err)
	}
}

func TestLoadRules_Defaults(t *testing.T) {
	rules, err := LoadRules("")
	if err != nil {
		t.Fatal(err)
	}
	def := petition.DefaultRules()
	if rules.MaxTitleLen != def.MaxTitleLen || rules.RequiredSignatures != def.RequiredSignatures {
		t.Errorf("expected defaults, got %+v", rules)
	}
	if len(rules.Categories) != len(def.Categories) {
		t.Errorf("expected %d categories, got %v", len(def.Categories), rules.Categories)
	}
	if rules.SignableStatus != petition.StatusApproved || rules.ReviewPolicy != petition.ReviewImmediate {
		t.Errorf("unexpected policies %q %q", rules.SignableStatus, rules.ReviewPolicy)
	}
}

func TestLoadRules_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.toml")
	content := `
max_title_len = 50
required_signatures = 3
categories = ["Roads", "Taxes"]
signable_status = "pending"
review_policy = "threshold"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatal(err)
	}
	if rules.MaxTitleLen != 50 || rules.RequiredSignatures != 3 {
		t.Errorf("expected file values, got %+v", rules)
	}
	if len(rules.Categories) != 2 || rules.Categories[0] != "Roads" {
		t.Errorf("expected file categories, got %v", rules.Categories)
	}
	if rules.ReviewPolicy != petition.ReviewThreshold || rules.SignableStatus != petition.StatusPending {
		t.Errorf("expected threshold/pending, got %q/%q", rules.ReviewPolicy, rules.SignableStatus)
	}
	if rules.MinContentLen != petition.DefaultRules().MinContentLen {
		t.Errorf("unset keys should keep defaults, got %d", rules.MinContentLen)
	}
}

func TestLoadRules_EnvOverride(t *testing.T) {
	t.Setenv("PETITIONS_REQUIRED_SIGNATURES", "42")

	rules, err := LoadRules("")
	if err != nil {
		t.Fatal(err)
	}
	if rules.RequiredSignatures != 42 {
		t.Errorf("expected env override 42, got %d", rules.RequiredSignatures)
	}
}

func TestLoadRules_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte("review_policy: threshold\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRules(path); err == nil {
		t.Error("expected threshold with approved signing to be rejected")
	}
	if _, err := LoadRules(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing rules file")
	}
}
