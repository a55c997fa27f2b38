package ui

import (
	"net/http"
	"strconv"
	"strings"

	"cancerscope/domain/dataset"
	"cancerscope/internal/errors"

	"github.com/gin-gonic/gin"
)

// statusFor maps an error code to the HTTP status it answers with.
// Computation errors are 422 so a client can keep showing the rest of the page.
func statusFor(code string) int {
	switch code {
	case errors.CodeEmptyColumn, errors.CodeInsufficientData, errors.CodeUnknownMetric,
		errors.CodeUnknownColumn, errors.CodeInvalidInput:
		return http.StatusUnprocessableEntity
	case errors.CodeParseError, errors.CodeUnsupportedFormat, errors.CodeValidationError:
		return http.StatusBadRequest
	case errors.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("[API] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error(), "code": code})
}

// currentTable returns the session table or answers the request with an error
func (s *Server) currentTable(c *gin.Context) (*dataset.Table, bool) {
	t, err := s.session.Current()
	if err != nil {
		s.respondError(c, err)
		return nil, false
	}
	return t, true
}

// listParam splits a comma-separated query parameter, dropping blanks
func listParam(c *gin.Context, name string) []string {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// intParam reads an integer query parameter, falling back to def when absent
func intParam(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.InvalidInput("query parameter " + name + " must be an integer")
	}
	return v, nil
}

// requireParam reads a mandatory query parameter
func requireParam(c *gin.Context, name string) (string, error) {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		return "", errors.InvalidInput("query parameter " + name + " is required")
	}
	return v, nil
}
