package backup

import (
	"context"
	"time"

	"opsboard/pkg/types"

	"github.com/sirupsen/logrus"
)

// Version identifies the export document format.
const Version = "1.0.0"

// ExportTables is the fixed list of tables included in a backup. Order is
// only cosmetic; the document keys by table name.
var ExportTables = []string{
	"incidents",
	"payments",
	"uploaded_media",
	"profiles",
	"areas",
	"classifications",
	"rooms",
	"chat_messages",
}

type TableReader interface {
	TableRows(ctx context.Context, table string) ([]map[string]any, error)
}

type Exporter struct {
	logger *logrus.Logger
	reader TableReader
	tables []string
}

func NewExporter(logger *logrus.Logger, reader TableReader) *Exporter {
	return &Exporter{
		logger: logger,
		reader: reader,
		tables: ExportTables,
	}
}

// Export reads every table and assembles the backup document. A failing
// table is logged and contributes an empty list; the export always completes
// with whatever succeeded.
func (e *Exporter) Export(ctx context.Context) *types.Backup {
	out := &types.Backup{
		Timestamp: time.Now().UTC(),
		Version:   Version,
		Tables:    make(map[string][]map[string]any, len(e.tables)),
	}

	for _, table := range e.tables {
		rows, err := e.reader.TableRows(ctx, table)
		if err != nil {
			e.logger.WithError(err).WithField("table", table).Error("table export failed, continuing with empty list")
			out.Tables[table] = []map[string]any{}
			continue
		}
		out.Tables[table] = rows
	}

	return out
}
