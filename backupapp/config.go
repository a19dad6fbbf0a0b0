package backupapp

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the on-disk configuration for the backup/restore collaborator,
// loaded from a TOML file (mirroring the corpus's preference for TOML over
// hand-rolled flag parsing for anything with this many knobs).
type Config struct {
	TaskService TaskServiceConfig `toml:"task_service"`
	Sink        SinkConfig        `toml:"sink"`
	Attachments AttachmentConfig  `toml:"attachments"`
}

type TaskServiceConfig struct {
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`

	// PageSize caps how many items the client asks for per page.
	PageSize int `toml:"page_size"`

	// RequestsPerSecond and Burst configure the client's rate.Limiter.
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`

	// TimeoutSeconds bounds a single HTTP round trip.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

func (c TaskServiceConfig) timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type SinkConfig struct {
	// Path is the destination file for a FileSink. "-partial" is appended
	// on write failure before the error is returned.
	Path string
}

type AttachmentConfig struct {
	// Dir is the local directory attachment bytes are written into.
	Dir string
}

// LoadConfig reads and parses a TOML configuration file. A missing file is
// reported as a plain *os.PathError (via os.Stat) rather than wrapped, so
// callers can use os.IsNotExist the way backupapp.Config consumers expect.
func LoadConfig(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, &ExternalIOError{Op: "load config " + path, Err: err}
	}
	if cfg.TaskService.BaseURL == "" {
		return nil, fmt.Errorf("backupapp: config %s: task_service.base_url is required", path)
	}
	return &cfg, nil
}
