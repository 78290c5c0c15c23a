package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/yardplan/internal/cascade"
	"github.com/zulandar/yardplan/internal/product"
	"github.com/zulandar/yardplan/internal/project"
	"github.com/zulandar/yardplan/internal/schedule"
	"github.com/zulandar/yardplan/internal/tenant"
)

// errBadRequest marks malformed request bodies and parameters.
var errBadRequest = errors.New("bad request")

var (
	notFound = []error{
		tenant.ErrNotFound, project.ErrNotFound, product.ErrNotFound, cascade.ErrNotFound,
	}
	badRequest = []error{
		errBadRequest, schedule.ErrDateOrder,
		tenant.ErrInvalid, project.ErrInvalid, product.ErrInvalid,
		project.ErrParent, product.ErrParent,
		project.ErrCycle, product.ErrCycle,
		project.ErrDerivedDates, product.ErrDerivedDates,
	}
	conflict = []error{
		cascade.ErrConflict, project.ErrHasChildren, product.ErrHasChildren,
	}
)

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	switch {
	case isAny(err, notFound):
		return http.StatusNotFound
	case isAny(err, conflict):
		return http.StatusConflict
	case isAny(err, badRequest):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// respondError writes {"error": "..."} with the mapped status.
func (e *env) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		e.logger.Error("request failed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Any("error", err),
		)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
