// Package input reads domain lists.
package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tbckr/namescout/internal/apperr"
)

// Read reads lines from r, trims whitespace, and returns non-empty lines.
// Blank lines and lines that are only whitespace are dropped; duplicates are kept.
func Read(r io.Reader) ([]string, error) {
	var inputs []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			inputs = append(inputs, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return inputs, nil
}

// ReadFile reads the domain list at path. Failure to open or read the file
// wraps apperr.ErrInputUnreadable.
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: input file %q not found", apperr.ErrInputUnreadable, path)
		}
		return nil, fmt.Errorf("%w: %w", apperr.ErrInputUnreadable, err)
	}
	defer f.Close()

	lines, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %q: %w", apperr.ErrInputUnreadable, path, err)
	}
	return lines, nil
}
