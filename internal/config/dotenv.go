package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// MinIO credentials. They never live in pixdex.yaml.
const (
	EnvMinioAccessKey = "PIXDEX_MINIO_ACCESS_KEY"
	EnvMinioSecretKey = "PIXDEX_MINIO_SECRET_KEY"
)

const dotEnvTemplate = "# Credentials for store.backend: minio\n" +
	EnvMinioAccessKey + "=\n" +
	EnvMinioSecretKey + "=\n"

// DotEnvPath is where pixdex keeps secrets: ~/.pixdex/.env.
func DotEnvPath() (string, error) {
	dir, err := PixdexDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ".env"), nil
}

// LoadDotEnv parses ~/.pixdex/.env. A missing file yields an empty map.
func LoadDotEnv() (map[string]string, error) {
	p, err := DotEnvPath()
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open dotenv file %s: %w", p, err)
	}
	defer f.Close()

	vars, err := parseDotEnv(f)
	if err != nil {
		return nil, fmt.Errorf("cannot read dotenv file %s: %w", p, err)
	}
	return vars, nil
}

// parseDotEnv reads KEY=VALUE lines. Blank lines, '#' comments and lines
// without '=' are skipped, an optional "export " prefix is dropped, and one
// pair of matching quotes around the value is removed.
func parseDotEnv(r io.Reader) (map[string]string, error) {
	vars := make(map[string]string)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		key, val, ok := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			continue
		}
		vars[key] = unquote(val)
	}
	return vars, sc.Err()
}

func unquote(v string) string {
	if len(v) < 2 {
		return v
	}
	if q := v[0]; (q == '"' || q == '\'') && v[len(v)-1] == q {
		return v[1 : len(v)-1]
	}
	return v
}

// GetConfigValue resolves a secret: a non-empty environment variable wins,
// otherwise the value comes from ~/.pixdex/.env (empty when absent).
func GetConfigValue(key string) (string, error) {
	if v := os.Getenv(key); v != "" {
		return v, nil
	}
	vars, err := LoadDotEnv()
	if err != nil {
		return "", err
	}
	return vars[key], nil
}

// EnsureDotEnvTemplate writes an empty credentials template to
// ~/.pixdex/.env unless a file is already there.
func EnsureDotEnvTemplate() error {
	p, err := DotEnvPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", filepath.Dir(p), err)
	}

	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot create dotenv template %s: %w", p, err)
	}
	if _, err := io.WriteString(f, dotEnvTemplate); err != nil {
		_ = f.Close()
		return fmt.Errorf("cannot write dotenv template %s: %w", p, err)
	}
	return f.Close()
}
