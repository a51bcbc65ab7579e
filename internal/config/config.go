package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Nomadcxx/fixnums/internal/paths"
	"github.com/spf13/viper"
)

const (
	// DefaultTemplate places each episode under <show>/<season>/.
	DefaultTemplate = "{show_name}{sep}{season}{sep}{show_name} S{season}E{episode} {episode_name}"

	// MaxPad is the widest zero padding accepted for season and episode numbers.
	MaxPad = 5

	// LogDisabled as a log file turns the outcome log off.
	LogDisabled = "NONE"
)

// DefaultStripTokens are removed from show and episode fragments before
// normalization. Tokens are matched against lowercased text.
var DefaultStripTokens = []string{
	"hdtv", "xvid", "-lol", "-fqm", "320p",
	"480p", "720p", "1080p", "webrip",
	"web-dl", "x264", "-msd", "-2hd", "-asap",
	"[dd]", "h.264", "-idm", "h264", "aac2.0",
}

// DefaultExtensions are the playable extensions picked up when no files are
// named on the command line.
var DefaultExtensions = []string{"mkv", "mp4", "avi", "flv"}

var (
	ErrInvalidSeason    = errors.New("season override must contain only digits")
	ErrInvalidDelimiter = errors.New("delimiter must not contain a path separator")
)

// Config is the configuration of a single run. It is built once at startup
// and passed by value into the inferencer and the organizer.
type Config struct {
	Delimiter   string        `mapstructure:"delimiter"`
	CamelCase   bool          `mapstructure:"camel_case"`
	Template    string        `mapstructure:"template"`
	EpisodePad  int           `mapstructure:"episode_pad"`
	SeasonPad   int           `mapstructure:"season_pad"`
	Strict      bool          `mapstructure:"strict"`
	Overwrite   bool          `mapstructure:"overwrite"`
	OutputDir   string        `mapstructure:"output_dir"`
	ShowName    string        `mapstructure:"show_name"`
	Season      string        `mapstructure:"season"`
	StripTokens []string      `mapstructure:"strip_tokens"`
	DryRun      bool          `mapstructure:"dry_run"`
	Copy        bool          `mapstructure:"copy"`
	LogFile     string        `mapstructure:"log_file"`
	Extensions  []string      `mapstructure:"extensions"`
	Logging     LoggingConfig `mapstructure:"logging"`
}

// LoggingConfig controls the diagnostic logger and the outcome log rotation.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Delimiter:   ".",
		CamelCase:   true,
		Template:    DefaultTemplate,
		EpisodePad:  2,
		SeasonPad:   1,
		Strict:      false,
		Overwrite:   false,
		OutputDir:   "",
		StripTokens: append([]string(nil), DefaultStripTokens...),
		DryRun:      false,
		Copy:        false,
		LogFile:     "",
		Extensions:  append([]string(nil), DefaultExtensions...),
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 5,
		},
	}
}

// Load reads the config file at path (or the default location when path is
// empty) on top of DefaultConfig. A missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path == "" {
		p, err := paths.ConfigPath()
		if err != nil {
			return nil, fmt.Errorf("unable to get config path: %w", err)
		}
		path = p
	}
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config file: %w", err)
		}
	}

	cfg := DefaultConfig()
	// Lists in the file replace the defaults instead of overlaying them.
	if v.IsSet("strip_tokens") {
		cfg.StripTokens = nil
	}
	if v.IsSet("extensions") {
		cfg.Extensions = nil
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config: %w", err)
	}

	return cfg, nil
}

// Finalize returns a normalized copy of c ready for a run: pads clamped to
// 1..MaxPad, strip tokens lowercased and de-duplicated, output directory
// resolved and the season override validated.
func (c Config) Finalize() (Config, error) {
	c.EpisodePad = ClampPad(c.EpisodePad)
	c.SeasonPad = ClampPad(c.SeasonPad)
	c.StripTokens = normalizeTokens(c.StripTokens)
	c.Extensions = normalizeExtensions(c.Extensions)

	if strings.ContainsRune(c.Delimiter, filepath.Separator) {
		return c, fmt.Errorf("%w: %q", ErrInvalidDelimiter, c.Delimiter)
	}

	c.Season = strings.TrimSpace(c.Season)
	if c.Season != "" && !isDigits(c.Season) {
		return c, fmt.Errorf("%w: %q", ErrInvalidSeason, c.Season)
	}

	if c.OutputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return c, fmt.Errorf("unable to resolve working directory: %w", err)
		}
		c.OutputDir = wd
	}
	if strings.HasPrefix(c.OutputDir, "~") {
		home, err := paths.UserHomeDir()
		if err != nil {
			return c, fmt.Errorf("unable to get home dir: %w", err)
		}
		c.OutputDir = filepath.Join(home, c.OutputDir[1:])
	}

	return c, nil
}

// ClampPad limits a padding width to 1..MaxPad.
func ClampPad(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxPad {
		return MaxPad
	}
	return n
}

// LogEnabled reports whether outcome lines should be written at all.
func (c Config) LogEnabled() bool {
	return c.LogFile != LogDisabled
}

// Action is the verb used in outcome lines.
func (c Config) Action() string {
	if c.Copy {
		return "Copy"
	}
	return "Move"
}

// isDigits reports whether s is made of ASCII digits only, so signs such as
// "+5" or "-0" are rejected.
func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func normalizeTokens(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		t = strings.ToLower(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}

// Save saves configuration to file
func (c *Config) Save(path string) error {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("unable to create config dir: %w", err)
	}

	return os.WriteFile(path, []byte(c.ToTOML()), 0644)
}

func ConfigPath() (string, error) {
	return paths.ConfigPath()
}

func ConfigExists(path string) bool {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return false
		}
		path = p
	}
	_, err := os.Stat(path)
	return err == nil
}

func (c *Config) ToTOML() string {
	return fmt.Sprintf(`# fixnums configuration
# Generated by: fixnums config init
#
# Command line flags take precedence over every value in this file.

# ============================================================================
# NAMING
# Placeholders: {show_name} {episode_name} {season} {episode} {sep}
# {sep} is the path separator and creates folders under output_dir.
# ============================================================================
template = %q

# Replaces spaces in the generated name
delimiter = %q

# Capitalize every word of show and episode names
camel_case = %v

# Minimum digits for {season} and {episode} (max %d)
season_pad = %d
episode_pad = %d

# Skip files when the template references a field that cannot be determined
strict = %v

# Force values for {show_name} and {season} (empty = detect)
show_name = %q
season = %q

# Lowercase text removed from show and episode names
strip_tokens = %s

# ============================================================================
# OUTPUT
# ============================================================================
# Where renamed files go (empty = current directory)
output_dir = %q

# Copy instead of move, leaving the originals in place
copy = %v

# *** DANGEROUS *** replace files that already exist at the destination
overwrite = %v

# Only log what would happen
dry_run = %v

# Extensions picked up when no files are given
extensions = %s

# Outcome log file (empty = stdout, "NONE" = off)
log_file = %q

# ============================================================================
# LOGGING
# ============================================================================
[logging]
level = %q
max_size_mb = %d
max_backups = %d
`,
		c.Template,
		c.Delimiter,
		c.CamelCase,
		MaxPad,
		c.SeasonPad,
		c.EpisodePad,
		c.Strict,
		c.ShowName,
		c.Season,
		formatStringSlice(c.StripTokens),
		c.OutputDir,
		c.Copy,
		c.Overwrite,
		c.DryRun,
		formatStringSlice(c.Extensions),
		c.LogFile,
		c.Logging.Level,
		c.Logging.MaxSizeMB,
		c.Logging.MaxBackups,
	)
}

func formatStringSlice(s []string) string {
	if len(s) == 0 {
		return "[]"
	}
	quoted := make([]string, len(s))
	for i, v := range s {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
