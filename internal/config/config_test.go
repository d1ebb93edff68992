package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"pgregory.net/rapid"
)

// Feature: envision, Property 10: Config merge precedence
func TestConfigMergePrecedence(t *testing.T) {
	nonEmptyString := rapid.StringMatching(`[a-zA-Z0-9/_.-]{1,20}`)

	configGen := rapid.Custom(func(t *rapid.T) *Config {
		cfg := &Config{}
		if rapid.Bool().Draw(t, "hasProfileShell") {
			cfg.ProfileShell = nonEmptyString.Draw(t, "profileShell")
		}
		if rapid.Bool().Draw(t, "hasLogLevel") {
			cfg.LogLevel = nonEmptyString.Draw(t, "logLevel")
		}
		if rapid.Bool().Draw(t, "hasConfirm") {
			v := rapid.Bool().Draw(t, "confirm")
			cfg.ConfirmProfiles = &v
		}
		return cfg
	})

	rapid.Check(t, func(t *rapid.T) {
		global := configGen.Draw(t, "global")
		project := configGen.Draw(t, "project")

		merged := Merge(global, project)
		defaults := Defaults()

		checkStringField(t, "ProfileShell",
			global.ProfileShell, project.ProfileShell, defaults.ProfileShell,
			merged.ProfileShell)

		checkStringField(t, "LogLevel",
			global.LogLevel, project.LogLevel, defaults.LogLevel,
			merged.LogLevel)

		switch {
		case project.ConfirmProfiles != nil:
			if merged.Confirm() != *project.ConfirmProfiles {
				t.Fatalf("ConfirmProfiles: expected project value %v", *project.ConfirmProfiles)
			}
		case global.ConfirmProfiles != nil:
			if merged.Confirm() != *global.ConfirmProfiles {
				t.Fatalf("ConfirmProfiles: expected global value %v", *global.ConfirmProfiles)
			}
		default:
			if !merged.Confirm() {
				t.Fatal("ConfirmProfiles: expected default true")
			}
		}
	})
}

// checkStringField asserts the merge precedence rule for a single string field:
//   - project non-empty  → merged == project
//   - project empty, global non-empty → merged == global
//   - both empty → merged == defaultVal
func checkStringField(t *rapid.T, name, globalVal, projectVal, defaultVal, mergedVal string) {
	t.Helper()
	switch {
	case projectVal != "":
		if mergedVal != projectVal {
			t.Fatalf("%s: both set: expected project value %q, got %q", name, projectVal, mergedVal)
		}
	case globalVal != "":
		if mergedVal != globalVal {
			t.Fatalf("%s: only global set: expected global value %q, got %q", name, globalVal, mergedVal)
		}
	default:
		if mergedVal != defaultVal {
			t.Fatalf("%s: neither set: expected default %q, got %q", name, defaultVal, mergedVal)
		}
	}
}

func TestDefaultsValues(t *testing.T) {
	d := Defaults()
	if d.ProfileShell != "bash" {
		t.Errorf("ProfileShell: want %q, got %q", "bash", d.ProfileShell)
	}
	if !d.Confirm() {
		t.Error("Confirm: want true")
	}
	if d.CriticalVars == nil || len(d.CriticalVars) != 0 {
		t.Errorf("CriticalVars: want empty slice, got %v", d.CriticalVars)
	}
	if d.LogLevel != "" {
		t.Errorf("LogLevel: want empty, got %q", d.LogLevel)
	}
}

func TestLoadGlobalMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadGlobal()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected non-nil config, got nil")
	}
	if cfg.ProfileShell != Defaults().ProfileShell {
		t.Errorf("ProfileShell: want %q, got %q", Defaults().ProfileShell, cfg.ProfileShell)
	}
}

func TestLoadGlobalReadsFile(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	cfgDir := filepath.Join(tmp, ".config", "envision")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	body := `{"profile_shell":"zsh","critical_vars":["KUBECONFIG"],"confirm_profiles":false}`
	if err := os.WriteFile(filepath.Join(cfgDir, "config.json"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadGlobal()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ProfileShell != "zsh" {
		t.Errorf("ProfileShell: want zsh, got %q", cfg.ProfileShell)
	}
	if len(cfg.CriticalVars) != 1 || cfg.CriticalVars[0] != "KUBECONFIG" {
		t.Errorf("CriticalVars: got %v", cfg.CriticalVars)
	}
	if cfg.Confirm() {
		t.Error("Confirm: want false")
	}
}

func TestLoadProjectMissingFileReturnsNil(t *testing.T) {
	tmp := t.TempDir()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(tmp); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(orig) })

	cfg, err := LoadProject()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != nil {
		t.Errorf("expected nil config, got %+v", cfg)
	}
}

func TestLoadGlobalParseError(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	cfgDir := filepath.Join(tmp, ".config", "envision")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfgDir, "config.json"), []byte("{invalid json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadGlobal()
	if err == nil {
		t.Fatal("expected an error for invalid JSON, got nil")
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("expected *ParseError, got %T: %v", err, err)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("ENVISION_PROFILE_SHELL", "/opt/bin/bash")
	t.Setenv("ENVISION_CRITICAL_VARS", "AWS_PROFILE,KUBECONFIG")
	t.Setenv("ENVISION_LOG_LEVEL", "debug")

	cfg := Defaults()
	cfg.CriticalVars = []string{"GOPATH"}
	if err := ApplyEnv(&cfg); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.ProfileShell != "/opt/bin/bash" {
		t.Errorf("ProfileShell: got %q", cfg.ProfileShell)
	}
	want := []string{"GOPATH", "AWS_PROFILE", "KUBECONFIG"}
	if len(cfg.CriticalVars) != len(want) {
		t.Fatalf("CriticalVars: got %v, want %v", cfg.CriticalVars, want)
	}
	for i := range want {
		if cfg.CriticalVars[i] != want[i] {
			t.Errorf("CriticalVars[%d]: got %q, want %q", i, cfg.CriticalVars[i], want[i])
		}
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q", cfg.LogLevel)
	}
}

func TestApplyEnvWithoutOverrides(t *testing.T) {
	t.Setenv("ENVISION_PROFILE_SHELL", "")
	t.Setenv("ENVISION_CRITICAL_VARS", "")
	t.Setenv("ENVISION_LOG_LEVEL", "")

	cfg := Defaults()
	if err := ApplyEnv(&cfg); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.ProfileShell != "bash" {
		t.Errorf("ProfileShell: got %q", cfg.ProfileShell)
	}
	if len(cfg.CriticalVars) != 0 {
		t.Errorf("CriticalVars: got %v", cfg.CriticalVars)
	}
}

func TestLoadGlobalWithoutHome(t *testing.T) {
	t.Setenv("HOME", "")
	cfg, err := LoadGlobal()
	if err != nil {
		t.Fatalf("LoadGlobal: %v", err)
	}
	if cfg.ProfileShell != "bash" {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}
