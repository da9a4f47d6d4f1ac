package main

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-records-api/internal/service"
	"github.com/noah-isme/student-records-api/pkg/export"
)

func TestSyntheticRoster(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.NewCSVExporter().Write(&buf, service.StudentRosterDataset(syntheticStudents(500))))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 501)
	assert.Equal(t, service.StudentRosterHeaders, records[0])
	assert.Equal(t, []string{"ST1", "John1", "Doe1", "F", "123456001", "123456001"}, records[1])
	assert.Equal(t, []string{"ST500", "John500", "Doe500", "M", "123456500", "123456500"}, records[500])
}
