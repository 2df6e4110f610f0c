package file

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
)

/* Append-only file implementation of audit.Sink
 * One file per calendar day: <dir>/webhook-<day>.log, one JSON record per
 * line. The file is opened and closed per append so concurrent request
 * goroutines never share a handle; interleaving is bounded by the OS
 * write-call granularity.
 */

const filePrefix = "webhook-"

type Store struct {
	dir string
}

// NewStore creates the audit log directory if needed
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating audit log directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Append writes one record line to the given day's file
func (s *Store) Append(ctx context.Context, day string, line []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.OpenFile(s.path(day), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening audit log for %s: %w", day, err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("appending audit record: %w", err)
	}
	return nil
}

// ReadDay returns every line of the given day's file, in append order.
// A missing file means an empty day, not an error.
func (s *Store) ReadDay(ctx context.Context, day string) ([][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path(day))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening audit log for %s: %w", day, err)
	}
	defer f.Close()

	var lines [][]byte
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := make([]byte, len(scanner.Bytes()))
		copy(line, scanner.Bytes())
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning audit log for %s: %w", day, err)
	}
	return lines, nil
}

// Close is a no-op; no handle outlives a single call
func (s *Store) Close(ctx context.Context) error {
	return nil
}

func (s *Store) path(day string) string {
	return filepath.Join(s.dir, filePrefix+day+".log")
}
