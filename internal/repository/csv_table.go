package repository

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/ideaboard-api/pkg/storage"
)

// DateLayout is the canonical date encoding of every CSV table.
const DateLayout = "2006-01-02 15:04:05"

// legacy encodings still accepted on read.
var dateLayouts = []string{
	DateLayout,
	"02/01/2006 15:04",
	"2006-01-02",
	time.RFC3339,
}

// csvRow exposes one record by column name.
type csvRow map[string]string

func (r csvRow) get(column string) string {
	return strings.TrimSpace(r[column])
}

// csvTable reads and writes one whole flat file.
type csvTable struct {
	store  *storage.LocalStorage
	file   string
	header []string
	logger *zap.Logger
}

func newCSVTable(store *storage.LocalStorage, file string, header []string, logger *zap.Logger) csvTable {
	if logger == nil {
		logger = zap.NewNop()
	}
	return csvTable{store: store, file: file, header: header, logger: logger}
}

// read returns every row of the file. A missing or unparsable file yields no rows;
// the second case is logged since the next save will overwrite it.
func (t csvTable) read(required ...string) []csvRow {
	raw, err := t.store.Read(t.file)
	if err != nil {
		if !errors.Is(err, storage.ErrNotExist) {
			t.logger.Warn("read table failed, using empty table", zap.String("file", t.file), zap.Error(err))
		}
		return nil
	}
	rows, err := t.decode(raw, required)
	if err != nil {
		t.logger.Warn("table unparsable, using empty table", zap.String("file", t.file), zap.Error(err))
		return nil
	}
	return rows
}

// write replaces the file with the header and the given records.
func (t csvTable) write(records [][]string) error {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(t.header); err != nil {
		return fmt.Errorf("encode %s header: %w", t.file, err)
	}
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("encode %s: %w", t.file, err)
	}
	return t.store.WriteAtomic(t.file, buf.Bytes())
}

// exists reports whether the backing file is present, even if it holds no rows.
func (t csvTable) exists() (bool, error) {
	return t.store.Exists(t.file)
}

// decode parses the whole file. Only an unreadable header fails the table; a malformed
// row is skipped with a warning so the rest of the table survives the next save.
func (t csvTable) decode(raw []byte, required []string) ([]csvRow, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(raw, []byte("\ufeff"))))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	for _, column := range required {
		if !contains(header, column) {
			return nil, fmt.Errorf("missing column %q", column)
		}
	}

	var rows []csvRow
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				t.logger.Warn("skipping malformed row", zap.String("file", t.file), zap.Int("line", parseErr.StartLine), zap.Error(err))
				continue
			}
			return nil, err
		}
		row := make(csvRow, len(header))
		for i, column := range header {
			if i < len(record) {
				row[column] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

// parseDate decodes a date cell. Empty cells are unset dates.
func parseDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "nan") || strings.EqualFold(value, "nat") {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if ts, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return &ts, nil
		}
	}
	return nil, fmt.Errorf("unrecognised date %q", value)
}

func formatDate(ts *time.Time) string {
	if ts == nil {
		return ""
	}
	return formatTime(*ts)
}

func formatTime(ts time.Time) string {
	return ts.UTC().Format(DateLayout)
}
