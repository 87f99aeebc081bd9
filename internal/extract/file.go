package extract

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/probegapp/probeg/internal/domain/protocol"
)

// FromFile dispatches a local protocol document to the extractor for
// its file type. A missing file or an unsupported type is a caller
// error and fails immediately, unlike the row-level parse failures the
// pipeline tolerates.
func FromFile(path string, opts Options) ([]protocol.RawRow, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(err, "document %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		return XLSX(path, opts)
	case ".pdf":
		return PDF(path, opts)
	default:
		return nil, errors.Newf("unsupported document type: %s", filepath.Ext(path))
	}
}
