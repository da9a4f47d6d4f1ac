package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
)

// Dataset is tabular export content keyed by header.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// Record returns row i in header order.
func (d Dataset) Record(i int) []string {
	record := make([]string, len(d.Headers))
	for j, header := range d.Headers {
		record[j] = d.Rows[i][header]
	}
	return record
}

// CSVExporter renders datasets as comma separated values.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV bytes for the dataset.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := e.Write(buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write streams the dataset as CSV into w.
func (e *CSVExporter) Write(w io.Writer, data Dataset) error {
	if len(data.Headers) == 0 {
		return fmt.Errorf("csv requires at least one header")
	}
	writer := csv.NewWriter(w)
	if err := writer.Write(data.Headers); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}
	for i := range data.Rows {
		if err := writer.Write(data.Record(i)); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
