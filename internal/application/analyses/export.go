package analyses

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	domain "github.com/bryanwahyu/content-insight/internal/domain/analysis"
)

// Export formats
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// ExportFile is a rendered analysis ready to be sent as an attachment.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

var csvHeader = []string{"ID", "Content", "Status", "Created At", "Results"}

// Export renders an analysis as csv, or as json for any other format value.
func (s *Service) Export(ctx context.Context, id domain.ID, format string) (ExportFile, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return ExportFile{}, err
	}
	if format == FormatCSV {
		body, err := ToCSV(a)
		if err != nil {
			return ExportFile{}, err
		}
		return ExportFile{
			Filename:    fmt.Sprintf("analysis-%d.csv", a.ID),
			ContentType: "text/csv",
			Body:        body,
		}, nil
	}
	body, err := json.Marshal(a)
	if err != nil {
		return ExportFile{}, fmt.Errorf("marshal analysis %d: %w", a.ID, err)
	}
	return ExportFile{
		Filename:    fmt.Sprintf("analysis-%d.json", a.ID),
		ContentType: "application/json",
		Body:        body,
	}, nil
}

// ToCSV writes a header record and exactly one data record. Fields containing
// quotes, commas or newlines are quoted with inner quotes doubled.
func ToCSV(a *domain.Analysis) ([]byte, error) {
	results := []byte("null")
	if a.Results != nil {
		var err error
		if results, err = json.Marshal(a.Results); err != nil {
			return nil, fmt.Errorf("marshal results: %w", err)
		}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	row := []string{
		strconv.FormatInt(int64(a.ID), 10),
		a.Content,
		string(a.Status),
		a.CreatedAt.Format(time.RFC3339),
		string(results),
	}
	if err := w.Write(row); err != nil {
		return nil, err
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
