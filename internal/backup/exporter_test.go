package backup

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
)

type fakeTableReader struct {
	rows    map[string][]map[string]any
	failing map[string]error
	calls   []string
}

func (f *fakeTableReader) TableRows(_ context.Context, table string) ([]map[string]any, error) {
	f.calls = append(f.calls, table)
	if err, ok := f.failing[table]; ok {
		return nil, err
	}
	return f.rows[table], nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestExport_AllTablesPresent(t *testing.T) {
	reader := &fakeTableReader{rows: map[string][]map[string]any{
		"incidents": {{"id": "a1", "title": "fuga"}},
		"payments":  {{"id": "p1", "amount_cents": int64(1500)}},
	}}

	doc := NewExporter(testLogger(), reader).Export(context.Background())

	if doc.Version != Version {
		t.Errorf("version = %q, want %q", doc.Version, Version)
	}
	if doc.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}

	if len(doc.Tables) != len(ExportTables) {
		t.Fatalf("expected %d tables, got %d", len(ExportTables), len(doc.Tables))
	}
	for _, table := range ExportTables {
		if _, ok := doc.Tables[table]; !ok {
			t.Errorf("table %s missing from document", table)
		}
	}

	if len(doc.Tables["incidents"]) != 1 {
		t.Errorf("expected 1 incident row, got %d", len(doc.Tables["incidents"]))
	}
}

func TestExport_FailingTableIsolated(t *testing.T) {
	reader := &fakeTableReader{
		rows: map[string][]map[string]any{
			"incidents": {{"id": "a1"}},
			"payments":  {{"id": "p1"}},
		},
		failing: map[string]error{
			"uploaded_media": errors.New("permission denied"),
		},
	}

	doc := NewExporter(testLogger(), reader).Export(context.Background())

	media, ok := doc.Tables["uploaded_media"]
	if !ok {
		t.Fatal("failing table missing from document entirely")
	}
	if media == nil || len(media) != 0 {
		t.Errorf("failing table should contribute an empty list, got %v", media)
	}

	if len(doc.Tables["incidents"]) != 1 || len(doc.Tables["payments"]) != 1 {
		t.Error("healthy tables should still be populated")
	}

	// every table is attempted, failure or not
	if len(reader.calls) != len(ExportTables) {
		t.Errorf("expected %d table reads, got %d", len(ExportTables), len(reader.calls))
	}
}
