package site

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/projectsite/internal/foundation/errors"
	"git.home.luguber.info/inful/projectsite/internal/logfields"
)

const (
	staticOutDir = "static"
	cssOutDir    = "css"
)

func isRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "//")
}

// stylesheets lists the bundled stylesheet followed by the configured extras.
// Local extras are linked only when the file exists.
func (bs *buildState) stylesheets() []string {
	out := []string{bs.href(stylesheetFile)}
	for _, css := range bs.cfg.Styles.AdditionalCSS {
		if isRemote(css) {
			out = append(out, css)
			continue
		}
		if _, err := os.Stat(bs.cfg.Path(css)); err == nil {
			out = append(out, bs.href(path.Join(cssOutDir, filepath.Base(css))))
		}
	}
	return out
}

func (bs *buildState) faviconHref() string {
	fav := bs.cfg.Styles.Favicon
	switch {
	case fav == "":
		return bs.href(faviconFile)
	case isRemote(fav):
		return fav
	default:
		return bs.href(filepath.Base(fav))
	}
}

// stageAssets writes the stylesheet, favicon, platform script, extra CSS and the
// static directory. Missing user-provided files are warnings; write failures are fatal.
func stageAssets(_ context.Context, bs *buildState) error {
	w := Writer{Dist: bs.cfg.DistPath()}

	css, err := bs.stylesheet()
	if err != nil {
		return err
	}
	if err := w.WriteFile(stylesheetFile, css); err != nil {
		return err
	}

	if err := bs.writeFavicon(w); err != nil {
		return err
	}

	for _, f := range bs.fragments {
		if f.Install {
			script, err := bundledAsset(osScriptFile)
			if err != nil {
				return errors.InternalError("bundled script missing").WithCause(err).Build()
			}
			if err := w.WriteFile(osScriptFile, script); err != nil {
				return err
			}
			break
		}
	}

	for _, extra := range bs.cfg.Styles.AdditionalCSS {
		if isRemote(extra) {
			continue
		}
		src := bs.cfg.Path(extra)
		if err := copyFile(src, filepath.Join(w.Dist, cssOutDir, filepath.Base(extra))); err != nil {
			if os.IsNotExist(err) {
				bs.warn(StageAssets, "Additional stylesheet not found", configWarning("additional stylesheet not found", src), logfields.Path(src))
				continue
			}
			return errors.StructuralIOError("failed to copy stylesheet").WithCause(err).WithContext("path", src).Build()
		}
	}

	static := bs.cfg.Path(bs.cfg.Build.StaticDir)
	if info, err := os.Stat(static); err == nil && info.IsDir() {
		if err := copyDir(static, filepath.Join(w.Dist, staticOutDir)); err != nil {
			return errors.StructuralIOError("failed to copy static directory").WithCause(err).WithContext("path", static).Build()
		}
	}
	return nil
}

// stylesheet returns the override stylesheet when configured, else the bundled one.
func (bs *buildState) stylesheet() ([]byte, error) {
	if override := bs.cfg.Styles.CSSOverride; override != "" {
		data, err := os.ReadFile(override)
		if err == nil {
			return data, nil
		}
		bs.warn(StageAssets, "Stylesheet override unreadable, using bundled stylesheet",
			errors.ConfigError("stylesheet override unreadable").Warning().WithCause(err).WithContext("path", override).Build())
	}
	css, err := bundledAsset(stylesheetFile)
	if err != nil {
		return nil, errors.InternalError("bundled stylesheet missing").WithCause(err).Build()
	}
	return css, nil
}

func (bs *buildState) writeFavicon(w Writer) error {
	fav := bs.cfg.Styles.Favicon
	if isRemote(fav) {
		return nil
	}
	if fav != "" {
		src := bs.cfg.Path(fav)
		err := copyFile(src, filepath.Join(w.Dist, filepath.Base(fav)))
		if err == nil {
			return nil
		}
		if !os.IsNotExist(err) {
			return errors.StructuralIOError("failed to copy favicon").WithCause(err).WithContext("path", src).Build()
		}
		bs.warn(StageAssets, "Favicon not found", configWarning("favicon not found", src), logfields.Path(src))
		return nil
	}
	icon, err := bundledAsset(faviconFile)
	if err != nil {
		return errors.InternalError("bundled favicon missing").WithCause(err).Build()
	}
	return w.WriteFile(faviconFile, icon)
}

func configWarning(msg, path string) error {
	return errors.ConfigError(msg).Warning().WithContext("path", path).Build()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()

	if err := os.MkdirAll(filepath.Dir(dst), dirPerm); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func copyDir(src, dst string) error {
	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, dirPerm)
		}
		return copyFile(p, target)
	})
}
