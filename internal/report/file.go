package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tbckr/namescout/internal/apperr"
)

const (
	resultsSuffix   = "-results"
	timestampLayout = "20060102-150405"
)

// FileExists reports whether path names an existing file system entry.
func FileExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// DerivePath picks the report path for input when none was given:
// "<base>-results.json" next to the input, then a timestamped variant, then
// numbered variants of the timestamped name. It never returns a path for
// which exists reports true.
func DerivePath(input string, now time.Time, exists func(string) bool) string {
	dir := filepath.Dir(input)
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	stem := filepath.Join(dir, base+resultsSuffix)

	if p := stem + ".json"; !exists(p) {
		return p
	}
	stamped := stem + "-" + now.Format(timestampLayout)
	if p := stamped + ".json"; !exists(p) {
		return p
	}
	for i := 1; ; i++ {
		if p := stamped + "-" + strconv.Itoa(i) + ".json"; !exists(p) {
			return p
		}
	}
}

// CheckWritable verifies that the report can later be created at path. The
// directory must exist and accept new files, since WriteFile stages the report
// there, and path must not be a directory.
func CheckWritable(path string) error {
	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: output directory %s: %w", apperr.ErrReportWrite, dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", apperr.ErrReportWrite, dir)
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", apperr.ErrReportWrite, path)
	}

	f, err := os.CreateTemp(dir, ".namescout-*")
	if err != nil {
		return fmt.Errorf("%w: output directory %s is not writable: %w", apperr.ErrReportWrite, dir, err)
	}
	name := f.Name()
	_ = f.Close()
	if err := os.Remove(name); err != nil {
		return fmt.Errorf("%w: %w", apperr.ErrReportWrite, err)
	}
	return nil
}

// Marshal encodes r as a two-space indented JSON array. A nil report
// encodes as [].
func Marshal(r Report) ([]byte, error) {
	if r == nil {
		r = Report{}
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// WriteFile writes r to path atomically: the JSON goes to a temporary file in
// the same directory which is then renamed over path.
func WriteFile(path string, r Report) error {
	data, err := Marshal(r)
	if err != nil {
		return fmt.Errorf("%w: encoding: %w", apperr.ErrReportWrite, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", apperr.ErrReportWrite, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if tmpName != "" {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %w", apperr.ErrReportWrite, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", apperr.ErrReportWrite, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil { //nolint:gosec // the report is meant to be readable
		return fmt.Errorf("%w: %w", apperr.ErrReportWrite, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%w: %w", apperr.ErrReportWrite, err)
	}
	tmpName = ""
	return nil
}
