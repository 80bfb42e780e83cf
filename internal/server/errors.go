package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ppiankov/credible/internal/pipeline"
)

type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// statusFor maps a pipeline error onto an HTTP status and error code
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, pipeline.ErrEmptyInput):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, pipeline.ErrNoClaims):
		return http.StatusNotFound, "no_claims_extracted"
	case errors.Is(err, pipeline.ErrContentUnavailable):
		return http.StatusFailedDependency, "upstream_content_unavailable"
	case errors.Is(err, pipeline.ErrAdjudicatorUnavailable):
		return http.StatusServiceUnavailable, "adjudicator_unavailable"
	case errors.Is(err, pipeline.ErrDeadlineExceeded), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "deadline_exceeded"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func writeError(c *gin.Context, err error) {
	status, code := statusFor(err)
	detail := err.Error()
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		detail = "internal error"
	}
	c.AbortWithStatusJSON(status, errorBody{Error: code, Detail: detail})
}

func badRequest(c *gin.Context, detail string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorBody{Error: "bad_request", Detail: detail})
}
