package memory

import (
	"context"
	"fmt"
	"sync"
)

// Report is a titled block of rows captured by the in-memory writer.
type Report struct {
	Title string
	Rows  [][]string
}

// Store is an in-memory ReportWriter used in tests and when no spreadsheet is
// configured.
type Store struct {
	mu      sync.Mutex
	reports []Report
}

func New() *Store {
	return &Store{}
}

// AppendReport stores the report and returns a synthetic reference.
func (s *Store) AppendReport(_ context.Context, title string, rows [][]string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([][]string, len(rows))
	for i, row := range rows {
		copied[i] = append([]string(nil), row...)
	}
	s.reports = append(s.reports, Report{Title: title, Rows: copied})
	return fmt.Sprintf("mem:%d", len(s.reports)), nil
}

// Reports returns a copy of everything appended so far.
func (s *Store) Reports() []Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Report(nil), s.reports...)
}
