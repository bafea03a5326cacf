// Package segname names and parses segment files.
//
// Filename Format: <gen>.log
//
// Where gen is a decimal, unpadded, monotonically increasing 64-bit segment
// identifier. Segment files live directly under the engine's data directory
// — there is no prefix, timestamp, or subdirectory component.
//
// Example filenames:
//
//	1.log
//	2.log
//	17.log
package segname

import (
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/ignitedb/ignite/pkg/filesys"
)

const extension = ".log"

// FileName returns the segment file name for gen, e.g. FileName(3) == "3.log".
func FileName(gen uint64) string {
	return strconv.FormatUint(gen, 10) + extension
}

// Path returns the full path to gen's segment file under dataDir.
func Path(dataDir string, gen uint64) string {
	return filepath.Join(dataDir, FileName(gen))
}

// ParseGen extracts the generation number from a segment file name. It
// accepts either a bare name ("3.log") or a full path; ok is false if name
// doesn't match the "<gen>.log" pattern.
func ParseGen(name string) (gen uint64, ok bool) {
	base := filepath.Base(name)
	if !strings.HasSuffix(base, extension) {
		return 0, false
	}

	digits := strings.TrimSuffix(base, extension)
	if digits == "" {
		return 0, false
	}

	g, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, false
	}

	return g, true
}

// ListGens returns every gen with a segment file in dataDir, in ascending
// order. Files that don't match the "<gen>.log" pattern are ignored.
func ListGens(dataDir string) ([]uint64, error) {
	matches, err := filesys.ReadDir(filepath.Join(dataDir, "*"+extension))
	if err != nil {
		return nil, fmt.Errorf("listing segment files in %s: %w", dataDir, err)
	}

	gens := make([]uint64, 0, len(matches))
	for _, match := range matches {
		if gen, ok := ParseGen(match); ok {
			gens = append(gens, gen)
		}
	}

	slices.Sort(gens)
	return gens, nil
}

// LatestGen returns the highest gen present in dataDir. ok is false when the
// directory has no segment files yet.
func LatestGen(dataDir string) (gen uint64, ok bool, err error) {
	gens, err := ListGens(dataDir)
	if err != nil {
		return 0, false, err
	}
	if len(gens) == 0 {
		return 0, false, nil
	}
	return gens[len(gens)-1], true, nil
}
