// Package backend records and verifies which storage engine owns a data
// directory, via a small marker file beside the segment files. Reopening
// the same directory with a different engine is rejected rather than
// silently corrupting the other engine's on-disk format.
package backend

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/ignitedb/ignite/pkg/errors"
)

const markerFile = "engine.rec"

// Verify checks the data directory's backend marker against engine,
// writing it if the directory has none yet. It returns an engine-mismatch
// error without touching the directory if a marker already names a
// different engine.
func Verify(dataDir, engine string) error {
	path := filepath.Join(dataDir, markerFile)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return write(path, engine)
	}
	if err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "reading backend marker file").
			WithPath(path)
	}

	recorded := strings.TrimSpace(string(data))
	if recorded != engine {
		return errors.NewValidationError(
			nil, errors.ErrorCodeEngineMismatch, "data directory was opened with a different storage engine",
		).WithField("engine").WithRule("engine_mismatch").WithProvided(engine).WithExpected(recorded)
	}

	return nil
}

func write(path, engine string) error {
	if err := atomic.WriteFile(path, strings.NewReader(engine)); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "writing backend marker file").
			WithPath(path)
	}

	// atomic.WriteFile doesn't set permissions for new files; restore the
	// default so a fresh marker isn't left with whatever umask produced.
	if err := os.Chmod(path, 0644); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "setting backend marker file permissions").
			WithPath(path)
	}

	return nil
}
