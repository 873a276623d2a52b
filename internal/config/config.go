package config

import (
	"os"
	"time"
	_ "time/tzdata" // timezone lookups on CI runners without zoneinfo

	"gopkg.in/yaml.v3"
)

const (
	DedupStore  = "store"
	DedupOutput = "output"
)

type Config struct {
	Target struct {
		BoardURL     string        `yaml:"board_url"`
		Tenant       string        `yaml:"tenant"`
		Company      string        `yaml:"company"`
		PageSize     int           `yaml:"page_size"`
		MaxJobs      int           `yaml:"max_jobs"`
		RequestDelay time.Duration `yaml:"request_delay"`
		Timeout      time.Duration `yaml:"timeout"`
		FetchDetails bool          `yaml:"fetch_details"`
	} `yaml:"target"`

	Session struct {
		Cookies        map[string]string `yaml:"cookies"`
		CookieEnv      string            `yaml:"cookie_env"`
		UseKeyring     bool              `yaml:"use_keyring"`
		UserAgent      string            `yaml:"user_agent"`
		AcceptLanguage string            `yaml:"accept_language"`
	} `yaml:"session"`

	Output struct {
		Dir        string `yaml:"dir"`
		FilePrefix string `yaml:"file_prefix"`
		SaveExcel  bool   `yaml:"save_excel"`
		SaveCSV    bool   `yaml:"save_csv"`
		SaveJSON   bool   `yaml:"save_json"`
	} `yaml:"output"`

	Logs struct {
		Dir        string `yaml:"dir"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
	} `yaml:"logs"`

	Dedup struct {
		Source        string `yaml:"source"`
		RetentionDays int    `yaml:"retention_days"` // 0 keeps seen ids forever
	} `yaml:"dedup"`

	Timezone string `yaml:"timezone"`
}

// Load reads path over the bundled defaults, so keys left out of the
// file keep their default values.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := bundled()
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Location resolves the configured timezone, UTC when empty or unknown.
func (c Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// HistoryPath is the run history file inside the log dir.
func (c Config) HistoryPath() string {
	return joinPath(c.Logs.Dir, "run_history.json")
}

// StorePath is the seen-jobs database inside the output dir.
func (c Config) StorePath() string {
	return joinPath(c.Output.Dir, "seen.db")
}
