package scheduler

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	tperrors "github.com/vnykmshr/taskpool/pkg/common/errors"
	"github.com/vnykmshr/taskpool/pkg/common/validation"
	"github.com/vnykmshr/taskpool/pkg/future"
	"github.com/vnykmshr/taskpool/pkg/scheduling/threadpool"
)

const module = "scheduler"

const maxIDLength = 255

// Task describes a scheduled entry.
type Task struct {
	ID       string
	RunAt    time.Time
	Interval time.Duration // zero for one-shot and cron tasks
	Cron     string
	Created  time.Time
	Runs     int
}

// Scheduler submits callables onto a thread pool at set times.
type Scheduler interface {
	// Basic scheduling
	Schedule(id string, fn func() error, runAt time.Time) error
	ScheduleAfter(id string, fn func() error, delay time.Duration) error
	ScheduleRepeating(id string, fn func() error, interval time.Duration) error

	// Cron scheduling
	ScheduleCron(id string, cronExpr string, fn func() error) error

	// Task management
	Cancel(id string) bool
	CancelAll()
	List() []Task

	// Lifecycle
	Start() error
	Stop() <-chan struct{}
}

// Config holds scheduler configuration.
type Config struct {
	Location     *time.Location // for cron scheduling
	TickInterval time.Duration  // how often to check for due tasks (default: 50ms)
	MaxTasks     int            // maximum number of scheduled tasks (default: 10000)
	Logger       *slog.Logger

	// OnSubmit receives the future of every submission.
	OnSubmit func(id string, f *future.Future[struct{}])

	// OnError receives submission failures, such as a finished pool.
	OnError func(id string, err error)
}

type scheduledTask struct {
	id           string
	fn           func() error
	runAt        time.Time
	interval     time.Duration
	cronExpr     string
	cronSchedule cron.Schedule
	created      time.Time
	runs         int
}

type scheduler struct {
	pool         *threadpool.Pool
	location     *time.Location
	tickInterval time.Duration
	maxTasks     int
	cronParser   cron.Parser
	log          *slog.Logger
	onSubmit     func(string, *future.Future[struct{}])
	onError      func(string, error)

	mu      sync.RWMutex
	tasks   map[string]*scheduledTask
	done    chan struct{}
	stopped chan struct{}
	running bool
}

// CronParser accepts standard five-field expressions, an optional leading
// seconds field and descriptors such as @hourly or @every 5m.
var CronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// New creates a scheduler that submits onto pool.
func New(pool *threadpool.Pool, cfg Config) (Scheduler, error) {
	if err := validation.ValidateNotNil(module, "pool", pool); err != nil {
		return nil, err
	}
	if err := validation.ValidateNonNegative(module, "max_tasks", float64(cfg.MaxTasks)); err != nil {
		return nil, err
	}

	location := cfg.Location
	if location == nil {
		location = time.Local
	}

	tickInterval := cfg.TickInterval
	if tickInterval <= 0 {
		tickInterval = 50 * time.Millisecond
	}

	maxTasks := cfg.MaxTasks
	if maxTasks == 0 {
		maxTasks = 10000
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &scheduler{
		pool:         pool,
		location:     location,
		tickInterval: tickInterval,
		maxTasks:     maxTasks,
		cronParser:   CronParser,
		log:          logger.With("pool", pool.Name()),
		onSubmit:     cfg.OnSubmit,
		onError:      cfg.OnError,
		tasks:        make(map[string]*scheduledTask),
	}, nil
}

// ValidateCron reports whether expr parses as a cron expression.
func ValidateCron(expr string) error {
	if _, err := CronParser.Parse(expr); err != nil {
		return tperrors.NewValidationError(module, "cron", expr, err.Error())
	}
	return nil
}

func validateTask(id string, fn func() error) error {
	if err := validation.ValidateNotEmpty(module, "id", id); err != nil {
		return err
	}
	if len(id) > maxIDLength {
		return tperrors.NewValidationError(module, "id", len(id), "too long").
			WithHint(fmt.Sprintf("use at most %d characters", maxIDLength))
	}
	if fn == nil {
		return tperrors.NewValidationError(module, "fn", nil, "cannot be nil")
	}
	return nil
}

func (s *scheduler) add(t *scheduledTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[t.id]; exists {
		return fmt.Errorf("task with ID %q already exists, use a different ID or cancel the existing task first", t.id)
	}
	if len(s.tasks) >= s.maxTasks {
		return fmt.Errorf("cannot schedule task: maximum number of tasks (%d) reached", s.maxTasks)
	}

	t.created = time.Now()
	s.tasks[t.id] = t
	return nil
}

func (s *scheduler) Schedule(id string, fn func() error, runAt time.Time) error {
	if err := validateTask(id, fn); err != nil {
		return err
	}
	if runAt.IsZero() {
		return tperrors.NewValidationError(module, "run_at", runAt, "cannot be zero")
	}
	return s.add(&scheduledTask{id: id, fn: fn, runAt: runAt})
}

func (s *scheduler) ScheduleAfter(id string, fn func() error, delay time.Duration) error {
	return s.Schedule(id, fn, time.Now().Add(delay))
}

func (s *scheduler) ScheduleRepeating(id string, fn func() error, interval time.Duration) error {
	if err := validateTask(id, fn); err != nil {
		return err
	}
	if interval <= 0 {
		return tperrors.NewValidationError(module, "interval", interval, "must be positive")
	}
	return s.add(&scheduledTask{id: id, fn: fn, runAt: time.Now(), interval: interval})
}

func (s *scheduler) ScheduleCron(id string, cronExpr string, fn func() error) error {
	if err := validateTask(id, fn); err != nil {
		return err
	}
	if err := validation.ValidateNotEmpty(module, "cron", cronExpr); err != nil {
		return err
	}

	schedule, err := s.cronParser.Parse(cronExpr)
	if err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}

	return s.add(&scheduledTask{
		id:           id,
		fn:           fn,
		runAt:        schedule.Next(time.Now().In(s.location)),
		cronExpr:     cronExpr,
		cronSchedule: schedule,
	})
}

func (s *scheduler) Cancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[id]; exists {
		delete(s.tasks, id)
		return true
	}
	return false
}

func (s *scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = make(map[string]*scheduledTask)
}

func (s *scheduler) List() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		tasks = append(tasks, Task{
			ID:       t.id,
			RunAt:    t.runAt,
			Interval: t.interval,
			Cron:     t.cronExpr,
			Created:  t.created,
			Runs:     t.runs,
		})
	}

	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].RunAt.Before(tasks[j].RunAt)
	})
	return tasks
}

func (s *scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running, call Stop() first")
	}

	s.running = true
	s.done = make(chan struct{})
	s.stopped = make(chan struct{})

	go s.run(s.done, s.stopped)
	return nil
}

// Stop halts the tick loop. The returned channel closes once the loop has
// exited. Work already submitted to the pool is unaffected.
func (s *scheduler) Stop() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		closed := make(chan struct{})
		close(closed)
		return closed
	}

	s.running = false
	close(s.done)
	return s.stopped
}

func (s *scheduler) run(done <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case now := <-ticker.C:
			s.processReadyTasks(now)
		}
	}
}

type dueTask struct {
	id string
	fn func() error
}

func (s *scheduler) processReadyTasks(now time.Time) {
	s.mu.Lock()
	if len(s.tasks) == 0 {
		s.mu.Unlock()
		return
	}

	ready := make([]dueTask, 0, len(s.tasks))
	for id, t := range s.tasks {
		if now.Before(t.runAt) {
			continue
		}
		ready = append(ready, dueTask{id: id, fn: t.fn})
		t.runs++

		switch {
		case t.interval > 0:
			t.runAt = now.Add(t.interval)
		case t.cronSchedule != nil:
			t.runAt = t.cronSchedule.Next(now.In(s.location))
		default:
			delete(s.tasks, id)
		}
	}
	s.mu.Unlock()

	for _, t := range ready {
		f, err := s.pool.Submit(t.fn)
		if err != nil {
			s.log.Warn("scheduled submission failed", "task", t.id, "error", err)
			if s.onError != nil {
				s.onError(t.id, err)
			}
			continue
		}
		if s.onSubmit != nil {
			s.onSubmit(t.id, f)
		}
	}
}
