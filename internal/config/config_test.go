package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseValidConfig(t *testing.T) {
	cfg, err := Parse([]byte(`
version: 1
server:
  addr: ":9000"
  db_path: /var/lib/pagehist/history.db
  mdns:
    enabled: false
history:
  max_builds: 20
  retain_builds: 200
projects:
  - name: acceptance
    reports:
      - root: /srv/fitnesse
        glob: "FitNesseRoot/files/testResults/**/*.xml"
        format: fitnesse-xml
`), "test-valid")
	if err != nil {
		t.Fatalf("parse valid config: %v", err)
	}
	if cfg.Server.Addr != ":9000" || cfg.Server.DBPath != "/var/lib/pagehist/history.db" {
		t.Fatalf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Server.GRPCAddr != DefaultGRPCAddr {
		t.Fatalf("expected default grpc addr, got %q", cfg.Server.GRPCAddr)
	}
	if cfg.Server.MDNS.Enabled {
		t.Fatal("expected mdns to be disabled")
	}
	if cfg.History.MaxBuilds != 20 || cfg.History.RetainBuilds != 200 {
		t.Fatalf("unexpected history config: %+v", cfg.History)
	}
	p, ok := cfg.Project("acceptance")
	if !ok || len(p.Reports) != 1 || p.Reports[0].Format != "fitnesse-xml" {
		t.Fatalf("unexpected project: %+v ok=%v", p, ok)
	}
	if _, ok := cfg.Project("missing"); ok {
		t.Fatal("unexpected lookup hit for missing project")
	}
}

func TestParseDefaultsOmittedSections(t *testing.T) {
	cfg, err := Parse([]byte("version: 1\n"), "test-defaults")
	if err != nil {
		t.Fatalf("parse minimal config: %v", err)
	}
	if cfg.Server.Addr != DefaultAddr || cfg.Server.DBPath != DefaultDBPath || cfg.History.MaxBuilds != DefaultMaxBuilds {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
	if !cfg.Server.MDNS.Enabled {
		t.Fatal("expected mdns enabled by default")
	}
}

func TestParseRejectsUnsupportedVersion(t *testing.T) {
	_, err := Parse([]byte(`
version: 2
`), "test-version")
	if err == nil || !strings.Contains(err.Error(), "unsupported config version") {
		t.Fatalf("expected unsupported version error, got: %v", err)
	}
	_, err = Parse([]byte("server:\n  addr: \":1\"\n"), "test-missing-version")
	if err == nil || !strings.Contains(err.Error(), "unsupported config version 0") {
		t.Fatalf("expected missing version error, got: %v", err)
	}
}

func TestParseCollectsAllProblems(t *testing.T) {
	_, err := Parse([]byte(`
version: 1
history:
  max_builds: -1
projects:
  - name: a
    reports:
      - glob: ""
        format: tap
  - name: a
  - name: " "
`), "test-problems")
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{
		"history.max_builds must be >= 0",
		"projects[0].reports[0].glob is required",
		"projects[0].reports[0].format must be one of",
		`projects[1].name duplicate "a"`,
		"projects[2].name is required",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in error, got: %v", want, err)
		}
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("version: 1\nsevrer:\n  addr: x\n"), "test-unknown")
	if err == nil || !strings.Contains(err.Error(), "parse YAML") {
		t.Fatalf("expected parse YAML error for unknown field, got: %v", err)
	}
}

func TestParseRejectsInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("version: ["), "test-yaml")
	if err == nil || !strings.Contains(err.Error(), "parse YAML") {
		t.Fatalf("expected parse YAML error, got: %v", err)
	}
}

func TestParseRejectsMaxBuildsAboveRetention(t *testing.T) {
	_, err := Parse([]byte("version: 1\nhistory:\n  max_builds: 100\n  retain_builds: 10\n"), "test-retain")
	if err == nil || !strings.Contains(err.Error(), "must not exceed history.retain_builds") {
		t.Fatalf("expected retention error, got: %v", err)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := Default()
	env := map[string]string{
		"PAGEHIST_SERVER_ADDR":        "127.0.0.1:1234",
		"PAGEHIST_DB_PATH":            "/tmp/x.db",
		"PAGEHIST_MDNS_ENABLE":        "false",
		"PAGEHIST_HISTORY_MAX_BUILDS": "7",
		"PAGEHIST_GRPC_ADDR":          " ",
	}
	cfg.ApplyEnv(func(k string) string { return env[k] })
	if cfg.Server.Addr != "127.0.0.1:1234" || cfg.Server.DBPath != "/tmp/x.db" {
		t.Fatalf("unexpected overrides: %+v", cfg.Server)
	}
	if cfg.Server.MDNS.Enabled {
		t.Fatal("expected mdns disabled by env")
	}
	if cfg.History.MaxBuilds != 7 {
		t.Fatalf("max builds: got %d want 7", cfg.History.MaxBuilds)
	}
	if cfg.Server.GRPCAddr != DefaultGRPCAddr {
		t.Fatalf("blank env must not override grpc addr, got %q", cfg.Server.GRPCAddr)
	}
}

func TestLoadReadsFileAndDefaults(t *testing.T) {
	t.Setenv("PAGEHIST_DB_PATH", "")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if cfg.Server.DBPath != DefaultDBPath {
		t.Fatalf("unexpected default db path: %q", cfg.Server.DBPath)
	}

	path := filepath.Join(t.TempDir(), "pagehist.yaml")
	if err := os.WriteFile(path, []byte("version: 1\nserver:\n  db_path: from-file.db\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	if cfg.Server.DBPath != "from-file.db" {
		t.Fatalf("unexpected db path: %q", cfg.Server.DBPath)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil || !strings.Contains(err.Error(), "read config file") {
		t.Fatalf("expected read error, got: %v", err)
	}
}

func TestLoadValidatesAfterEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pagehist.yaml")
	if err := os.WriteFile(path, []byte("version: 1\nhistory:\n  max_builds: 5\n  retain_builds: 10\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PAGEHIST_HISTORY_MAX_BUILDS", "10")
	if _, err := Load(path); err != nil {
		t.Fatalf("max_builds equal to retention should load: %v", err)
	}

	t.Setenv("PAGEHIST_HISTORY_MAX_BUILDS", "20")
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "after environment overrides") || !strings.Contains(err.Error(), "must not exceed history.retain_builds") {
		t.Fatalf("expected retention error after env override, got: %v", err)
	}
}

func TestApplyEnvWarnsOnInvalidValues(t *testing.T) {
	orig := slog.Default()
	t.Cleanup(func() { slog.SetDefault(orig) })
	var logs bytes.Buffer
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))

	cfg := Default()
	env := map[string]string{
		"PAGEHIST_MDNS_ENABLE":        "maybe",
		"PAGEHIST_HISTORY_MAX_BUILDS": "-3",
	}
	cfg.ApplyEnv(func(k string) string { return env[k] })
	if !cfg.Server.MDNS.Enabled || cfg.History.MaxBuilds != DefaultMaxBuilds {
		t.Fatalf("invalid env values must leave defaults intact, got %+v", cfg)
	}
	out := logs.String()
	for _, want := range []string{"name=PAGEHIST_MDNS_ENABLE value=maybe", "name=PAGEHIST_HISTORY_MAX_BUILDS value=-3"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected warning with %q, got %q", want, out)
		}
	}
}
