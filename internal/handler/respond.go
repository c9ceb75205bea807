package handler

import (
	"GoOss/internal/dto"
	"GoOss/internal/repo"
	"GoOss/internal/service"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
)

// currentUserID reads the acting user from the X-User-Id header. The id is
// only recorded for auditing; zero means anonymous.
func currentUserID(c *gin.Context) uint64 {
	raw := c.GetHeader("X-User-Id")
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// writeRo writes an envelope with the HTTP status implied by its result.
// Warnings are user-side outcomes, not faults, so they travel as 200.
func writeRo(c *gin.Context, ro dto.Ro) {
	status := http.StatusOK
	switch ro.Result {
	case dto.RoIllegalArgument:
		status = http.StatusBadRequest
	case dto.RoFail:
		status = http.StatusInternalServerError
	}
	c.JSON(status, ro)
}

// writeError maps a service-layer error onto the response envelope.
func writeError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		writeRo(c, dto.IllegalArgumentRo(validationErr.Msg))
		return
	}
	var dupErr *repo.DuplicateKeyError
	if errors.As(err, &dupErr) {
		writeRo(c, dto.WarnRo(dupErr.Error()))
		return
	}
	if errors.Is(err, service.ErrNotFound) {
		writeRo(c, dto.WarnRo(err.Error()))
		return
	}
	if isIOError(err) {
		writeRo(c, dto.FailRo("io error", err.Error()))
		return
	}
	writeRo(c, dto.FailRo("database error", err.Error()))
}

func isIOError(err error) bool {
	var pathErr *fs.PathError
	var linkErr *os.LinkError
	return errors.As(err, &pathErr) || errors.As(err, &linkErr)
}
