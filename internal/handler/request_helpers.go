package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/student-records-api/internal/admin"
	"github.com/noah-isme/student-records-api/internal/models"
	appErrors "github.com/noah-isme/student-records-api/pkg/errors"
	"github.com/noah-isme/student-records-api/pkg/response"
)

// pathID parses the :id path parameter. It writes the error response itself
// and reports false when the value is not a positive integer.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "id must be a positive integer"))
		return 0, false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return false
	}
	return true
}

// listFilter reads search, pagination, sorting and the declared filters of an
// admin entity from the query string.
func listFilter(c *gin.Context, entity admin.Entity) (models.ListFilter, bool) {
	filter, err := entity.ParseList(c)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, err.Error()))
		return filter, false
	}
	return filter, true
}

// entityConfig looks up an entity in the registry, falling back to an empty
// configuration that only accepts search and pagination.
func entityConfig(reg *admin.Registry, name string) admin.Entity {
	if reg != nil {
		if entity, ok := reg.Entity(name); ok {
			return entity
		}
	}
	return admin.Entity{VerboseName: name}
}
