// Package tasks runs the scheduled overdue-loan sweep.
package tasks

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/autolib/autolib/internal/entities"
)

// OverdueLister provides the overdue query the sweep needs.
type OverdueLister interface {
	GetOverdueBooks(asOf time.Time) ([]entities.Book, error)
}

// OverdueSweeper periodically reports loans past their expiry. It only
// reads; the lending state machine is driven exclusively by the HTTP
// operations.
type OverdueSweeper struct {
	store    OverdueLister
	schedule string
	cron     *cron.Cron
}

// NewOverdueSweeper creates a sweeper with a cron schedule ("0 * * * *").
func NewOverdueSweeper(store OverdueLister, schedule string) *OverdueSweeper {
	return &OverdueSweeper{
		store:    store,
		schedule: schedule,
		cron:     cron.New(),
	}
}

// Start registers the sweep job and starts the scheduler.
func (s *OverdueSweeper) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.sweep); err != nil {
		return fmt.Errorf("failed to schedule overdue sweep %q: %w", s.schedule, err)
	}
	s.cron.Start()
	log.Printf("Overdue sweep scheduled: %s", s.schedule)
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (s *OverdueSweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *OverdueSweeper) sweep() {
	overdue, err := s.store.GetOverdueBooks(time.Now())
	if err != nil {
		log.Printf("Overdue sweep failed: %v", err)
		return
	}
	if len(overdue) == 0 {
		return
	}

	log.Printf("Overdue sweep: %d book(s) past expiry", len(overdue))
	for _, book := range overdue {
		borrower := "unknown"
		if book.BorrowedByUsername != nil {
			borrower = *book.BorrowedByUsername
		}
		log.Printf("  overdue: book %d (%q) held by %s since %s",
			book.ID, book.Title, borrower, book.Expires.Format(time.RFC3339))
	}
}
