// Package history persists completed test reports as flat JSON files and
// answers progress queries over them.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/priyank/bookquiz/internal/scoring"
)

// ErrUnknownUser is returned for queries about users with no stored results.
var ErrUnknownUser = errors.New("no results for user")

const fileTimestamp = "20060102_150405"

// Store writes one JSON file per completed test under
// <dir>/<user>/results_<timestamp>.json.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Append persists a report and returns the path it was written to.
func (s *Store) Append(report *scoring.Report) (string, error) {
	user := sanitize(report.Summary.UserID)
	if user == "" {
		return "", fmt.Errorf("report has no user id")
	}

	userDir := filepath.Join(s.dir, user)
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		return "", fmt.Errorf("create history dir: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}

	base := "results_" + report.Summary.Timestamp.UTC().Format(fileTimestamp)
	path := filepath.Join(userDir, base+".json")
	for n := 1; ; n++ {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			_, werr := f.Write(data)
			cerr := f.Close()
			if werr != nil {
				return "", fmt.Errorf("write report: %w", werr)
			}
			if cerr != nil {
				return "", fmt.Errorf("write report: %w", cerr)
			}
			return path, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("write report: %w", err)
		}
		path = filepath.Join(userDir, fmt.Sprintf("%s_%d.json", base, n))
	}
}

// Query returns a user's stored reports, newest first. Unreadable files are
// skipped with a warning rather than failing the whole query.
func (s *Store) Query(userID string) ([]scoring.Report, error) {
	userDir := filepath.Join(s.dir, sanitize(userID))
	entries, err := os.ReadDir(userDir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownUser, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("read history dir: %w", err)
	}

	var reports []scoring.Report
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(userDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("skipping unreadable history file", "path", path, "error", err)
			continue
		}
		var report scoring.Report
		if err := json.Unmarshal(data, &report); err != nil {
			slog.Warn("skipping corrupt history file", "path", path, "error", err)
			continue
		}
		reports = append(reports, report)
	}
	if len(reports) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownUser, userID)
	}

	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].Summary.Timestamp.After(reports[j].Summary.Timestamp)
	})
	return reports, nil
}

// Users lists every user with at least one stored result.
func (s *Store) Users() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history dir: %w", err)
	}
	var users []string
	for _, entry := range entries {
		if entry.IsDir() {
			users = append(users, entry.Name())
		}
	}
	sort.Strings(users)
	return users, nil
}

// sanitize keeps user ids safe as directory names.
func sanitize(userID string) string {
	userID = strings.TrimSpace(userID)
	var b strings.Builder
	for _, r := range userID {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), ".")
}
