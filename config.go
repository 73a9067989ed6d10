package fundiff

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the settings of the extraction pipeline and of the report download.
type Config struct {
	BaseURL       string `yaml:"base_url"`
	HeaderWindow  int    `yaml:"header_window"`
	MaxRows       int    `yaml:"max_rows"`
	SheetAttempts int    `yaml:"sheet_attempts"`
	Funds         Funds  `yaml:"funds"`
}

// DefaultConfig returns the built-in settings. BaseURL is left empty to use the publisher's.
func DefaultConfig() Config {
	return Config{
		HeaderWindow:  DefaultHeaderWindow,
		MaxRows:       DefaultLastRow,
		SheetAttempts: DefaultSheetAttempts,
		Funds:         DefaultFunds,
	}
}

// LoadConfig reads a YAML configuration file on top of DefaultConfig.
// An empty path or a missing file yields the defaults.
//
//	base_url: https://mirror.example.com/portfolio-disclosure
//	funds:
//	  - code: tax
//	    sheets: [PPTSF, PPETSF]
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid config file %q: %w", path, err)
	}
	if len(cfg.Funds) == 0 {
		cfg.Funds = DefaultFunds
	}
	for _, f := range cfg.Funds {
		if f.Code == "" || len(f.Sheets) == 0 {
			return cfg, fmt.Errorf("invalid config file %q: fund %q needs a code and at least one sheet", path, f.Code)
		}
	}
	return cfg, nil
}

// Parser returns a Parser configured with these settings.
func (c Config) Parser() *Parser {
	p := NewParser(c.Funds)
	if c.HeaderWindow > 0 {
		p.HeaderWindow = c.HeaderWindow
	}
	if c.MaxRows > 0 {
		p.LastRow = c.MaxRows
	}
	if c.SheetAttempts > 0 {
		p.SheetAttempts = c.SheetAttempts
	}
	return p
}
