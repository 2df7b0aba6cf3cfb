package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"

	"github.com/bondery/bondery/internal/entities"
	"github.com/bondery/bondery/internal/tasks"
)

// DueReminderLister provides the reminders that are ready for dispatch.
type DueReminderLister interface {
	ListDue(now time.Time) ([]entities.Reminder, error)
}

// TaskEnqueuer enqueues background tasks. Satisfied by tasks.Client.
type TaskEnqueuer interface {
	Add(tasks ...backlite.Task) *backlite.TaskAddOp
}

// ReminderScheduler periodically scans for due reminders and enqueues a
// delivery task for each one. Actual delivery happens in the task worker,
// so a slow notifier never blocks the scan loop.
type ReminderScheduler struct {
	store    DueReminderLister
	enqueuer TaskEnqueuer
	schedule string

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewReminderScheduler creates a scheduler that scans on the given cron
// schedule (standard five-field format).
func NewReminderScheduler(store DueReminderLister, enqueuer TaskEnqueuer, schedule string) *ReminderScheduler {
	return &ReminderScheduler{
		store:    store,
		enqueuer: enqueuer,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the periodic scan. Returns an error if the schedule is
// not a valid cron expression.
func (s *ReminderScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.scan()
	})
	if err != nil {
		return fmt.Errorf("invalid reminder schedule '%s': %w", s.schedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Reminder scheduler: started with schedule '%s'", s.schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running scan to finish.
func (s *ReminderScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Reminder scheduler: stopped")
}

// RunNow triggers an immediate scan outside the schedule.
func (s *ReminderScheduler) RunNow() {
	go s.scan()
}

// IsRunning returns whether the scheduler is active.
func (s *ReminderScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next scan will occur.
func (s *ReminderScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// scan finds due reminders and enqueues one delivery task per reminder.
// The task processor re-checks the reminder state, so a reminder picked
// up by two overlapping scans is still delivered once.
func (s *ReminderScheduler) scan() {
	now := time.Now()

	due, err := s.store.ListDue(now)
	if err != nil {
		log.Printf("Reminder scheduler: failed to list due reminders: %v", err)
		return
	}

	if len(due) == 0 {
		return
	}

	enqueued := 0
	for _, reminder := range due {
		task := tasks.SendReminderTask{
			ReminderID: reminder.ID,
			UserID:     reminder.UserID,
		}
		if _, err := s.enqueuer.Add(task).Save(); err != nil {
			log.Printf("Reminder scheduler: failed to enqueue reminder %d: %v", reminder.ID, err)
			continue
		}
		enqueued++
	}

	log.Printf("Reminder scheduler: enqueued %d of %d due reminders", enqueued, len(due))
}
