package ui

import (
	"net/http"
	"strconv"

	"cancerscope/app"
	"cancerscope/domain/dataset"
	"cancerscope/internal/errors"

	"github.com/gin-gonic/gin"
)

const defaultPreviewRows = 10

type datasetResponse struct {
	Table    dataset.TableInfo `json:"table"`
	Preview  dataset.Preview   `json:"preview"`
	Notice   *app.Notice       `json:"notice,omitempty"`
	FellBack bool              `json:"fell_back,omitempty"`
}

// handleUpload ingests a multipart "file". The format comes from the "format"
// field or the file name. With fallback enabled a bad upload activates the
// demo table and answers 200 with a notice.
func (s *Server) handleUpload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.options.MaxUploadBytes)

	header, err := c.FormFile("file")
	if err != nil {
		s.respondError(c, errors.InvalidInput("multipart field \"file\" is required"))
		return
	}
	f, err := header.Open()
	if err != nil {
		s.respondError(c, errors.ParseError("open upload", err))
		return
	}
	defer f.Close()

	formatTag := c.PostForm("format")
	if formatTag == "" {
		formatTag = header.Filename
	}
	policy := app.FailOnError
	fallback := s.options.FallbackToDemo
	if v := c.PostForm("fallback"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			fallback = b
		}
	}
	if fallback {
		policy = app.FallbackToDemo
	}

	result, err := s.session.Ingest(c.Request.Context(), f, formatTag, header.Filename, policy)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, datasetResponse{
		Table:    result.Table.Info(),
		Preview:  dataset.PreviewOf(result.Table, defaultPreviewRows),
		Notice:   result.Notice,
		FellBack: result.FellBack,
	})
}

func (s *Server) handleDemo(c *gin.Context) {
	seed := s.options.DemoSeed
	if raw := c.Query("seed"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			s.respondError(c, errors.InvalidInput("query parameter seed must be an integer"))
			return
		}
		seed = v
	}
	rows, err := intParam(c, "rows", s.options.DemoRows)
	if err != nil {
		s.respondError(c, err)
		return
	}

	t, err := s.session.LoadDemo(seed, rows)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, datasetResponse{
		Table:   t.Info(),
		Preview: dataset.PreviewOf(t, defaultPreviewRows),
		Notice:  s.session.Notice(),
	})
}

func (s *Server) handleDataset(c *gin.Context) {
	t, ok := s.currentTable(c)
	if !ok {
		return
	}
	n, err := intParam(c, "rows", defaultPreviewRows)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, datasetResponse{
		Table:   t.Info(),
		Preview: dataset.PreviewOf(t, n),
		Notice:  s.session.Notice(),
	})
}

func (s *Server) handleColumns(c *gin.Context) {
	t, ok := s.currentTable(c)
	if !ok {
		return
	}
	classes := s.analysis.Columns(t)
	c.JSON(http.StatusOK, gin.H{
		"numeric": classes.Numeric,
		"other":   classes.Other,
	})
}
