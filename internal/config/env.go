package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	ferrors "git.home.luguber.info/inful/projectsite/internal/foundation/errors"
	"git.home.luguber.info/inful/projectsite/internal/logfields"
)

// CSSOverrideEnv names the environment variable replacing the bundled stylesheet.
const CSSOverrideEnv = "PROJECTSITE_CSS"

// loadEnvFiles loads .env and .env.local from dir. Existing process environment
// variables are never overwritten.
func loadEnvFiles(dir string) {
	for _, name := range []string{".env", ".env.local"} {
		path := filepath.Join(dir, name)
		if err := godotenv.Load(path); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				slog.Warn("Failed to load environment file", logfields.Path(path), logfields.Error(err))
			}
			continue
		}
		slog.Debug("Loaded environment variables", logfields.Path(path))
	}
}

// ResolveCSSOverride validates PROJECTSITE_CSS. An unset variable yields "".
// A value that does not point at an existing file yields a warning-severity config
// error: only the override is dropped, the build keeps the bundled stylesheet.
func ResolveCSSOverride(root string) (string, error) {
	raw := os.Getenv(CSSOverrideEnv)
	if raw == "" {
		return "", nil
	}
	path := raw
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		err = errors.New("path is a directory")
	}
	if err != nil {
		return "", ferrors.ConfigError("invalid value assigned to "+CSSOverrideEnv).
			Warning().
			WithCause(err).
			WithContext("path", raw).
			WithHelp("point " + CSSOverrideEnv + " at an existing css file").
			Build()
	}
	return path, nil
}
