package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-records-api/internal/admin"
)

func TestAdminRegistry(t *testing.T) {
	r := newRouter()
	r.GET("/admin/registry", NewAdminHandler(testRegistry(t)).Registry)

	rec := perform(r, http.MethodGet, "/admin/registry", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	var entities map[string]admin.Entity
	envelope := decodeEnvelope(t, rec)
	require.NoError(t, json.Unmarshal(envelope.Data, &entities))
	assert.Len(t, entities, 7)
	assert.Equal(t, "start_date", entities["streams"].DateHierarchy)
	assert.Equal(t, []string{"courses"}, entities["programs"].FilterHorizontal)
	assert.Len(t, envelope.Meta["entities"], 7)
}
