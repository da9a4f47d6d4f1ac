package dto

import appErrors "github.com/noah-isme/student-records-api/pkg/errors"

// MarkImportResult reports the outcome of a bulk mark upload. Created counts
// the marks that remain persisted, including rows committed before a failure
// when imports are not atomic.
type MarkImportResult struct {
	Succeeded  bool             `json:"succeeded"`
	Message    string           `json:"message"`
	Created    int              `json:"created"`
	FailedRow  int              `json:"failed_row,omitempty"`
	FailedLine int              `json:"failed_line,omitempty"`
	File       string           `json:"file,omitempty"`
	Atomic     bool             `json:"atomic"`
	Error      *appErrors.Error `json:"error,omitempty"`
}
