package hwpread

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/hwpread/hwpcore"
)

// Config configures the document pipeline.
type Config struct {
	// MaxFileSize is the maximum input file size (default: 25 MiB).
	MaxFileSize int64 `json:"max_file_size" yaml:"max_file_size"`

	// MaxSectionBytes caps the decompressed size of one BodyText stream
	// (default: 64 MiB).
	MaxSectionBytes int `json:"max_section_bytes" yaml:"max_section_bytes"`

	// MaxSectionRecords caps the record count of one stream (default: 200000).
	MaxSectionRecords int `json:"max_section_records" yaml:"max_section_records"`

	// MaxSections caps the number of BodyText streams (default: 256).
	MaxSections int `json:"max_sections" yaml:"max_sections"`

	// MaxDepth caps the reconstruction nesting depth (default: 64).
	MaxDepth int `json:"max_depth" yaml:"max_depth"`

	// StrictNesting fails a section on malformed level skips instead of
	// clamping them with a warning.
	StrictNesting bool `json:"strict_nesting" yaml:"strict_nesting"`

	// LoadBinData loads embedded binary assets into the document model.
	LoadBinData bool `json:"load_bin_data" yaml:"load_bin_data"`

	// BaseDir, when set, restricts user-supplied document paths to this
	// directory.
	BaseDir string `json:"base_dir" yaml:"base_dir"`

	// DBPath is the scan manifest database used by the scan command.
	DBPath string `json:"db_path" yaml:"db_path"`

	// Logger for debug/error messages.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = hwpcore.DefaultMaxFileSize
	}
	if c.MaxSectionBytes <= 0 {
		c.MaxSectionBytes = hwpcore.DefaultMaxSectionBytes
	}
	if c.MaxSectionRecords <= 0 {
		c.MaxSectionRecords = hwpcore.DefaultMaxRecords
	}
	if c.MaxSections <= 0 {
		c.MaxSections = hwpcore.DefaultMaxSections
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = hwpcore.DefaultMaxDepth
	}
	if c.DBPath == "" {
		c.DBPath = "hwpread.db"
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// limits maps the config onto the parse-call resource ceilings.
func (c Config) limits() hwpcore.Limits {
	return hwpcore.Limits{
		MaxFileSize:     c.MaxFileSize,
		MaxSectionBytes: c.MaxSectionBytes,
		MaxRecords:      c.MaxSectionRecords,
		MaxSections:     c.MaxSections,
		MaxDepth:        c.MaxDepth,
		StrictNesting:   c.StrictNesting,
	}
}

// LoadConfigFile reads a yaml config file. A missing file yields the zero
// Config (defaults apply at New).
func LoadConfigFile(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
