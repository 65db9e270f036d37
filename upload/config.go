package upload

import (
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrymomot/uploadkit/bytesize"
)

// Config is the pipeline's configuration surface. Every field carries env
// tags so the whole pipeline can be configured from the environment.
type Config struct {
	// MaxFileSize is a human-readable limit such as "8M" (binary units).
	MaxFileSize string `env:"UPLOAD_MAX_FILE_SIZE" envDefault:"8M"`
	// MaxNameLength truncates the base filename; 0 disables truncation.
	MaxNameLength int `env:"UPLOAD_MAX_NAME_LENGTH" envDefault:"64"`
	// TempDir stages incoming bytes before validation completes.
	TempDir string `env:"UPLOAD_TEMP_DIR" envDefault:"/tmp/uploadkit"`
	// UploadDir is the destination directory for materialized files.
	UploadDir string `env:"UPLOAD_DIR" envDefault:"uploads"`
	// Overwrite skips collision probing and replaces existing files.
	Overwrite bool `env:"UPLOAD_OVERWRITE" envDefault:"false"`
	// Append and Prepend decorate the resolved filename.
	Append  string `env:"UPLOAD_APPEND"`
	Prepend string `env:"UPLOAD_PREPEND"`
	// ScanEnabled consults the malware scanner during validation.
	ScanEnabled bool `env:"UPLOAD_SCAN_ENABLED" envDefault:"false"`
	// ScanFailOpen treats a scan engine failure as a clean verdict.
	// Without it an unavailable engine rejects the entry.
	ScanFailOpen bool `env:"UPLOAD_SCAN_FAIL_OPEN" envDefault:"false"`
	// RollbackOnFailure deletes every materialized file of a batch when any
	// entry in it is rejected.
	RollbackOnFailure bool `env:"UPLOAD_ROLLBACK_ON_FAILURE" envDefault:"true"`
	// MaxConcurrent bounds parallel entry processing within a batch.
	MaxConcurrent int `env:"UPLOAD_MAX_CONCURRENT" envDefault:"4"`
}

var loadEnvOnce sync.Once

// LoadConfig reads configuration from the environment, loading a .env file
// first if one is present.
func LoadConfig() (Config, error) {
	loadEnvOnce.Do(func() {
		// The .env file is optional
		_ = godotenv.Load()
	})

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the parts of the config that cannot fail lazily.
func (c Config) Validate() error {
	if c.UploadDir == "" {
		return fmt.Errorf("%w: upload directory is required", ErrInvalidConfig)
	}
	if c.TempDir == "" {
		return fmt.Errorf("%w: temp directory is required", ErrInvalidConfig)
	}
	if _, err := bytesize.Parse(c.MaxFileSize); err != nil {
		return fmt.Errorf("%w: max file size: %v", ErrInvalidConfig, err)
	}
	if c.MaxConcurrent < 0 {
		return fmt.Errorf("%w: max concurrent cannot be negative", ErrInvalidConfig)
	}
	return nil
}

// maxBytes returns the parsed size limit. Validate guarantees parseability.
func (c Config) maxBytes() int64 {
	n, _ := bytesize.Parse(c.MaxFileSize)
	return n
}
