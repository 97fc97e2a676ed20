package site

import (
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/projectsite/internal/foundation/errors"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Writer places pages into an output directory.
type Writer struct {
	Dist string
}

// Write stores every page at its OutputPath. Any failure is a fatal structural error.
func (w Writer) Write(pages []Page) error {
	for _, p := range pages {
		if err := w.WriteFile(OutputPath(p.Filename), p.Contents); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile writes data at rel below the output directory, creating parents.
func (w Writer) WriteFile(rel string, data []byte) error {
	full := filepath.Join(w.Dist, filepath.FromSlash(rel))
	if !within(w.Dist, full) {
		return errors.StructuralIOError("page escapes output directory").
			WithContext("page", rel).Build()
	}
	if err := os.MkdirAll(filepath.Dir(full), dirPerm); err != nil {
		return errors.StructuralIOError("failed to create page directory").
			WithCause(err).WithContext("path", filepath.Dir(full)).Build()
	}
	if err := os.WriteFile(full, data, filePerm); err != nil {
		return errors.StructuralIOError("failed to write page").
			WithCause(err).WithContext("path", full).Build()
	}
	return nil
}

func within(root, p string) bool {
	rel, err := filepath.Rel(root, p)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// prepareOutput removes and recreates dist.
func prepareOutput(dist string) error {
	if err := os.RemoveAll(dist); err != nil {
		return errors.StructuralIOError("failed to clear output directory").
			WithCause(err).WithContext("path", dist).Build()
	}
	if err := os.MkdirAll(dist, dirPerm); err != nil {
		return errors.StructuralIOError("failed to create output directory").
			WithCause(err).WithContext("path", dist).Build()
	}
	return nil
}
