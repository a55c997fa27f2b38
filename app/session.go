package app

import (
	"context"
	"io"
	"sync"

	"cancerscope/domain/dataset"
	"cancerscope/internal"
	"cancerscope/internal/errors"
	"cancerscope/ports"
)

// FallbackPolicy decides what Ingest does when the loader fails
type FallbackPolicy int

const (
	// FailOnError returns the loader error and keeps the current table
	FailOnError FallbackPolicy = iota
	// FallbackToDemo replaces the current table with demo data and reports a notice
	FallbackToDemo
)

// Notice is a non-fatal message shown alongside a result
type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// IngestResult is the outcome of an upload
type IngestResult struct {
	Table    *dataset.Table `json:"-"`
	FellBack bool           `json:"fell_back"`
	Notice   *Notice        `json:"notice,omitempty"`
}

// DemoConfig holds the seed and size of the fallback table
type DemoConfig struct {
	Seed int64
	Rows int
}

// Session owns the table currently under analysis. Tables are immutable, so
// the lock only guards swapping the pointer.
type Session struct {
	mu     sync.RWMutex
	table  *dataset.Table
	notice *Notice

	loader ports.DatasetLoaderPort
	demo   ports.DemoSourcePort
	demoCf DemoConfig
	logger *internal.Logger
}

// NewSession creates a session; the first Current call generates the demo table
func NewSession(loader ports.DatasetLoaderPort, demo ports.DemoSourcePort, demoConfig DemoConfig, logger *internal.Logger) *Session {
	return &Session{
		loader: loader,
		demo:   demo,
		demoCf: demoConfig,
		logger: logger,
	}
}

// Current returns the active table, generating the demo table on first use
func (s *Session) Current() (*dataset.Table, error) {
	s.mu.RLock()
	t := s.table
	s.mu.RUnlock()
	if t != nil {
		return t, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.table != nil {
		return s.table, nil
	}
	demo, err := s.demo.GenerateDemo(s.demoCf.Seed, s.demoCf.Rows)
	if err != nil {
		return nil, errors.Wrap(err, "generate demo table")
	}
	s.table = demo
	s.notice = demoNotice()
	return demo, nil
}

// Notice returns the notice attached to the current table, if any
func (s *Session) Notice() *Notice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notice
}

// Replace makes t the active table
func (s *Session) Replace(t *dataset.Table, notice *Notice) {
	s.mu.Lock()
	s.table = t
	s.notice = notice
	s.mu.Unlock()
}

// LoadDemo regenerates the demo table with seed and rows and makes it active
func (s *Session) LoadDemo(seed int64, rows int) (*dataset.Table, error) {
	t, err := s.demo.GenerateDemo(seed, rows)
	if err != nil {
		return nil, err
	}
	s.Replace(t, demoNotice())
	s.logger.Info("[Session] Demo table %s active (seed=%d, rows=%d)", t.ID(), seed, t.RowCount())
	return t, nil
}

// Ingest parses an upload and makes it the active table. On a loader failure
// the policy decides: FailOnError returns the error and keeps the current
// table, FallbackToDemo activates the demo table and returns a notice
// instead of an error.
func (s *Session) Ingest(ctx context.Context, r io.Reader, formatTag, name string, policy FallbackPolicy) (IngestResult, error) {
	t, err := s.loader.Load(ctx, r, formatTag, name)
	if err == nil {
		s.Replace(t, nil)
		s.logger.Info("[Session] Loaded %q as %s (%d rows, %d columns)", name, t.ID(), t.RowCount(), t.ColumnCount())
		return IngestResult{Table: t}, nil
	}

	if policy != FallbackToDemo || ctx.Err() != nil {
		return IngestResult{}, err
	}

	s.logger.Warn("[Session] Could not load %q, using demo data: %v", name, err)
	return s.FallBack(err)
}

// FallBack activates the demo table in place of a source that failed with
// cause and returns the warning notice describing it
func (s *Session) FallBack(cause error) (IngestResult, error) {
	demo, err := s.demo.GenerateDemo(s.demoCf.Seed, s.demoCf.Rows)
	if err != nil {
		return IngestResult{}, errors.Wrap(err, "generate fallback demo table")
	}
	notice := &Notice{
		Level:   "warning",
		Message: "Could not read the uploaded file (" + cause.Error() + "). Showing demo data instead.",
		Code:    errors.GetCode(cause),
	}
	s.Replace(demo, notice)
	return IngestResult{Table: demo, FellBack: true, Notice: notice}, nil
}

func demoNotice() *Notice {
	return &Notice{Level: "info", Message: "Using demo data. Upload your own file for custom analysis."}
}
