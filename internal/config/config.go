package config

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/izzyreal/pagehist/internal/report"
)

const (
	DefaultAddr      = ":8112"
	DefaultGRPCAddr  = ":8113"
	DefaultDBPath    = "pagehist.db"
	DefaultMaxBuilds = 50
)

type File struct {
	Version  int       `yaml:"version" json:"version"`
	Server   Server    `yaml:"server" json:"server"`
	History  History   `yaml:"history" json:"history"`
	Projects []Project `yaml:"projects,omitempty" json:"projects,omitempty"`
}

type Server struct {
	Addr             string  `yaml:"addr" json:"addr"`
	GRPCAddr         string  `yaml:"grpc_addr" json:"grpc_addr"`
	DBPath           string  `yaml:"db_path" json:"db_path"`
	MDNS             MDNS    `yaml:"mdns" json:"mdns"`
	IngestRatePerSec float64 `yaml:"ingest_rate_per_sec" json:"ingest_rate_per_sec"`
	IngestBurst      int     `yaml:"ingest_burst" json:"ingest_burst"`
}

type MDNS struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	Instance string `yaml:"instance,omitempty" json:"instance,omitempty"`
}

type History struct {
	// MaxBuilds caps how many of the most recent builds feed a ranking; 0 means all.
	MaxBuilds int `yaml:"max_builds" json:"max_builds"`
	// RetainBuilds prunes older builds after each recorded build; 0 keeps everything.
	RetainBuilds int `yaml:"retain_builds" json:"retain_builds"`
}

type Project struct {
	Name    string         `yaml:"name" json:"name"`
	Reports []ReportSource `yaml:"reports,omitempty" json:"reports,omitempty"`
}

type ReportSource struct {
	Root   string `yaml:"root,omitempty" json:"root,omitempty"`
	Glob   string `yaml:"glob" json:"glob"`
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
}

func Default() File {
	return File{
		Version: 1,
		Server: Server{
			Addr:             DefaultAddr,
			GRPCAddr:         DefaultGRPCAddr,
			DBPath:           DefaultDBPath,
			MDNS:             MDNS{Enabled: true},
			IngestRatePerSec: 20,
			IngestBurst:      40,
		},
		History: History{MaxBuilds: DefaultMaxBuilds},
	}
}

// Load reads path, or starts from Default() when path is empty. Environment
// overrides are applied in both cases and the merged result is validated.
func Load(path string) (File, error) {
	cfg := Default()
	source := "defaults"
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return File{}, fmt.Errorf("read config file %q: %w", path, err)
		}
		if cfg, err = Parse(data, path); err != nil {
			return cfg, err
		}
		source = path
	}
	cfg.ApplyEnv(os.Getenv)
	if errs := cfg.Validate(); len(errs) > 0 {
		return cfg, fmt.Errorf("invalid config in %q after environment overrides: %s", source, strings.Join(errs, "; "))
	}
	return cfg, nil
}

func Parse(data []byte, source string) (File, error) {
	cfg := Default()
	cfg.Version = 0

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parse YAML in %q: %w", source, err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return cfg, fmt.Errorf("invalid config in %q: %s", source, strings.Join(errs, "; "))
	}
	return cfg, nil
}

func (cfg File) Validate() []string {
	var errs []string

	if cfg.Version != 1 {
		errs = append(errs, fmt.Sprintf("unsupported config version %d", cfg.Version))
	}
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		errs = append(errs, "server.addr is required")
	}
	if strings.TrimSpace(cfg.Server.DBPath) == "" {
		errs = append(errs, "server.db_path is required")
	}
	if cfg.Server.IngestRatePerSec < 0 {
		errs = append(errs, "server.ingest_rate_per_sec must be >= 0")
	}
	if cfg.Server.IngestBurst < 0 {
		errs = append(errs, "server.ingest_burst must be >= 0")
	}
	if cfg.History.MaxBuilds < 0 {
		errs = append(errs, "history.max_builds must be >= 0")
	}
	if cfg.History.RetainBuilds < 0 {
		errs = append(errs, "history.retain_builds must be >= 0")
	}
	if cfg.History.RetainBuilds > 0 && cfg.History.MaxBuilds > cfg.History.RetainBuilds {
		errs = append(errs, "history.max_builds must not exceed history.retain_builds")
	}

	projectNames := map[string]struct{}{}
	for i, p := range cfg.Projects {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			errs = append(errs, fmt.Sprintf("projects[%d].name is required", i))
		} else {
			if _, exists := projectNames[name]; exists {
				errs = append(errs, fmt.Sprintf("projects[%d].name duplicate %q", i, name))
			}
			projectNames[name] = struct{}{}
		}
		for j, r := range p.Reports {
			if strings.TrimSpace(r.Glob) == "" {
				errs = append(errs, fmt.Sprintf("projects[%d].reports[%d].glob is required", i, j))
			}
			if !report.IsValidFormat(r.Format) {
				errs = append(errs, fmt.Sprintf("projects[%d].reports[%d].format must be one of auto,fitnesse-xml,junit-xml", i, j))
			}
		}
	}
	return errs
}

// ApplyEnv overrides file values with PAGEHIST_* environment variables.
func (cfg *File) ApplyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv("PAGEHIST_SERVER_ADDR")); v != "" {
		cfg.Server.Addr = v
	}
	if v := strings.TrimSpace(getenv("PAGEHIST_GRPC_ADDR")); v != "" {
		cfg.Server.GRPCAddr = v
	}
	if v := strings.TrimSpace(getenv("PAGEHIST_DB_PATH")); v != "" {
		cfg.Server.DBPath = v
	}
	if v := strings.TrimSpace(getenv("PAGEHIST_MDNS_ENABLE")); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Server.MDNS.Enabled = enabled
		} else {
			slog.Warn("ignoring invalid environment override", "name", "PAGEHIST_MDNS_ENABLE", "value", v)
		}
	}
	if v := strings.TrimSpace(getenv("PAGEHIST_HISTORY_MAX_BUILDS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.History.MaxBuilds = n
		} else {
			slog.Warn("ignoring invalid environment override", "name", "PAGEHIST_HISTORY_MAX_BUILDS", "value", v)
		}
	}
}

func (cfg File) Project(name string) (Project, bool) {
	for _, p := range cfg.Projects {
		if p.Name == name {
			return p, true
		}
	}
	return Project{}, false
}
