package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/kamusis/pixdex/internal/palette"
)

// ErrInvalid is returned when a config file parses but fails validation.
var ErrInvalid = errors.New("invalid config")

// Store backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMinio  = "minio"
	BackendMemory = "memory"
)

// Defaults.
const (
	DefaultNumShownPic        = 30
	DefaultScanAllPerCategory = 3
	DefaultHTTPAddr           = ":8080"
)

// DefaultCategories are the landmark categories of the bundled corpus.
var DefaultCategories = []string{
	"burj khalifa",
	"chichen itza",
	"christ the reedemer",
	"eiffel tower",
	"great wall of china",
	"machu pichu",
	"pyramids of giza",
	"roman colosseum",
	"statue of liberty",
	"stonehenge",
	"taj mahal",
	"venezuela angel falls",
}

// Minio holds the non-secret MinIO settings. Credentials come from the
// environment or ~/.pixdex/.env.
type Minio struct {
	Endpoint string `yaml:"endpoint,omitempty"`
	Bucket   string `yaml:"bucket,omitempty"`
	Prefix   string `yaml:"prefix,omitempty"`
	Secure   bool   `yaml:"secure,omitempty"`
}

// Store selects and configures the persisted index backend.
type Store struct {
	Backend     string `yaml:"backend" validate:"oneof=file sqlite minio memory"`
	Path        string `yaml:"path,omitempty"`
	Compression string `yaml:"compression,omitempty" validate:"omitempty,oneof=none zstd lz4"`
	Minio       Minio  `yaml:"minio,omitempty"`
}

// Log configures structured logging. Flags override these.
type Log struct {
	Level  string `yaml:"level,omitempty" validate:"omitempty,oneof=trace debug info warn warning error disabled off"`
	Format string `yaml:"format,omitempty" validate:"omitempty,oneof=console json"`
}

// HTTP configures pixdex serve.
type HTTP struct {
	Addr string `yaml:"addr,omitempty"`
}

// Config is the in-memory representation of ~/.pixdex/pixdex.yaml.
type Config struct {
	Catalog            string          `yaml:"catalog" validate:"required"`
	ImagesRoot         string          `yaml:"images_root,omitempty"`
	NumShownPic        int             `yaml:"num_shown_pic" validate:"gte=1"`
	ScanAllPerCategory int             `yaml:"scan_all_per_category" validate:"gte=1"`
	PoolCapacity       int             `yaml:"pool_capacity" validate:"gte=0"`
	Workers            int             `yaml:"workers" validate:"gte=0"`
	Categories         []string        `yaml:"categories,omitempty" validate:"dive,required"`
	Palette            []palette.Color `yaml:"palette,omitempty" validate:"omitempty,len=12,dive"`
	Store              Store           `yaml:"store"`
	Log                Log             `yaml:"log,omitempty"`
	HTTP               HTTP            `yaml:"http,omitempty"`
}

// PixdexDir returns the absolute path to ~/.pixdex/.
func PixdexDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".pixdex"), nil
}

// ConfigPath returns the absolute path to ~/.pixdex/pixdex.yaml.
func ConfigPath() (string, error) {
	dir, err := PixdexDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "pixdex.yaml"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(p string) (string, error) {
	if !strings.HasPrefix(p, "~") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand ~: %w", err)
	}
	return filepath.Join(home, p[1:]), nil
}

// DefaultConfig returns the Config written on first pixdex init.
func DefaultConfig() (*Config, error) {
	dir, err := PixdexDir()
	if err != nil {
		return nil, err
	}
	return &Config{
		Catalog:            filepath.Join(dir, "catalog.json"),
		ImagesRoot:         filepath.Join(dir, "images"),
		NumShownPic:        DefaultNumShownPic,
		ScanAllPerCategory: DefaultScanAllPerCategory,
		Categories:         append([]string(nil), DefaultCategories...),
		Store: Store{
			Backend:     BackendFile,
			Path:        filepath.Join(dir, "index"),
			Compression: "none",
		},
		Log:  Log{Level: "info", Format: "console"},
		HTTP: HTTP{Addr: DefaultHTTPAddr},
	}, nil
}

// Load reads and validates the config at path. An empty path means
// ~/.pixdex/pixdex.yaml.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes YAML, fills defaults, expands ~ and validates. name is used in
// error messages only.
func Parse(data []byte, name string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid YAML in %s: %w", name, err)
	}
	cfg.applyDefaults()

	var err error
	for _, p := range []*string{&cfg.Catalog, &cfg.ImagesRoot, &cfg.Store.Path} {
		if *p, err = ExpandPath(*p); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.NumShownPic == 0 {
		c.NumShownPic = DefaultNumShownPic
	}
	if c.ScanAllPerCategory == 0 {
		c.ScanAllPerCategory = DefaultScanAllPerCategory
	}
	if c.Categories == nil {
		c.Categories = append([]string(nil), DefaultCategories...)
	}
	if c.Store.Backend == "" {
		c.Store.Backend = BackendFile
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = DefaultHTTPAddr
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks struct tags and the palette override.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: field %s fails %q", ErrInvalid, fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	switch c.Store.Backend {
	case BackendFile, BackendSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("%w: store.path is required for the %s backend", ErrInvalid, c.Store.Backend)
		}
	case BackendMinio:
		if c.Store.Minio.Endpoint == "" || c.Store.Minio.Bucket == "" {
			return fmt.Errorf("%w: store.minio.endpoint and store.minio.bucket are required", ErrInvalid)
		}
	}
	if _, err := c.ResolvePalette(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// ResolvePalette returns the configured palette, or the default one when no
// override is set.
func (c *Config) ResolvePalette() (palette.Palette, error) {
	if len(c.Palette) == 0 {
		return palette.Default(), nil
	}
	return palette.New(c.Palette)
}

// Save marshals cfg and writes it to path, creating the parent directory.
// An empty path means ~/.pixdex/pixdex.yaml.
func Save(cfg *Config, path string) error {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cannot write config %s: %w", path, err)
	}
	return nil
}
