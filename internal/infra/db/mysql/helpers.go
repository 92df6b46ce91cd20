package mysql

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	domain "github.com/bryanwahyu/content-insight/internal/domain/analysis"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullInt(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

func intPtr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time.UTC()
	return &t
}

func encodeTypes(types []domain.Type) ([]byte, error) {
	if types == nil {
		types = []domain.Type{}
	}
	return json.Marshal(types)
}

// encodeResults returns nil for a nil pointer so the column stays NULL.
func encodeResults(r *domain.Results) ([]byte, error) {
	if r == nil {
		return nil, nil
	}
	return json.Marshal(r)
}

// nullJSON sends JSON as text; the JSON column rejects binary strings.
func nullJSON(b []byte) sql.NullString {
	if b == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(b), Valid: true}
}

func decodeAnalysisJSON(a *domain.Analysis, types, results []byte) error {
	a.AnalysisTypes = []domain.Type{}
	if len(types) > 0 {
		if err := json.Unmarshal(types, &a.AnalysisTypes); err != nil {
			return fmt.Errorf("decode analysis_types: %w", err)
		}
	}
	if len(results) > 0 && string(results) != "null" {
		var r domain.Results
		if err := json.Unmarshal(results, &r); err != nil {
			return fmt.Errorf("decode results: %w", err)
		}
		a.Results = &r
	}
	return nil
}
