package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apierrors "github.com/yukikurage/workspace-api/internal/errors"
)

// pathID parses the :id path parameter and answers 400 when it is not a
// positive integer.
func pathID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, "Invalid id")
		return 0, false
	}
	return id, true
}

// optionalID parses an optional numeric query or form value. An absent value
// yields nil.
func optionalID(c *gin.Context, name, raw string) (*uint64, bool) {
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, "Invalid "+name)
		return nil, false
	}
	return &id, true
}

func queryID(c *gin.Context, name string) (*uint64, bool) {
	return optionalID(c, name, c.Query(name))
}
