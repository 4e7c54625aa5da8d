package printer

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/georgehyde-dot/BantamWestEssenSpielPhotoBooth/internal/config"
)

// Mock pretends to print. Used in development and as the last resort
// when no real queue can be found so the booth stays usable.
type Mock struct {
	jobs atomic.Int64
	log  *slog.Logger
}

// NewMock returns a fresh mock printer.
func NewMock() *Mock {
	return &Mock{log: slog.Default().With("component", "mock-printer")}
}

func (m *Mock) Print(ctx context.Context, job Job) (string, error) {
	n := m.jobs.Add(1)
	id := fmt.Sprintf("mock-job-%d-%d", time.Now().Unix(), n)
	m.log.Info("pretending to print", "file", job.FilePath, "copies", job.Copies, "job_id", id)
	return id, nil
}

func (m *Mock) Ready(ctx context.Context) bool { return true }

func (m *Mock) Status(ctx context.Context) (Status, error) {
	paper, toner := 85, 60
	return Status{Online: true, PaperLevel: &paper, TonerLevel: &toner}, nil
}

func (m *Mock) Name() string { return "Mock Printer (Testing Mode)" }

// New picks the booth's printer: the mock when configured, otherwise
// the DNP DS620, then the Epson XP-8700, then a custom profile built
// from the configured names. If nothing answers, the mock steps in so
// an evening is never lost to a missing queue.
func New(ctx context.Context, cfg config.PrinterConfig) Printer {
	log := slog.Default().With("component", "printer")
	if cfg.UseMock {
		log.Info("mock printer selected by configuration")
		return NewMock()
	}

	if p, err := NewCUPS(ctx, DNPDS620()); err == nil {
		return p
	} else {
		log.Warn("DNP DS620 not found", "err", err)
	}
	if p, err := NewCUPS(ctx, EpsonXP8700()); err == nil {
		return p
	} else {
		log.Warn("Epson XP-8700 not found", "err", err)
	}

	custom := Profile{
		PrimaryName:   cfg.Name,
		FallbackNames: cfg.FallbackNames,
		PaperSize:     "Borderless4x6in",
		Resolution:    "300x300dpi",
	}
	if p, err := NewCUPS(ctx, custom); err == nil {
		return p
	} else {
		log.Warn("configured printer not found", "name", cfg.Name, "err", err)
	}

	log.Warn("no printer found, falling back to mock")
	return NewMock()
}
