package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"

	"github.com/amartyachowdhury/movie-stack/internal/metrics"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrTaskRunning  = errors.New("task is already running")
)

// TaskFunc is the function signature for scheduled tasks.
type TaskFunc func(ctx context.Context) error

// TaskConfig contains configuration for a scheduled task.
type TaskConfig struct {
	ID          string
	Name        string
	Description string
	Cron        string // "0 */6 * * *" for every six hours
	Func        TaskFunc
	RunOnStart  bool
}

// TaskInfo describes a scheduled task for API responses.
type TaskInfo struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Cron        string     `json:"cron"`
	LastRun     *time.Time `json:"lastRun,omitempty"`
	LastError   string     `json:"lastError,omitempty"`
	NextRun     *time.Time `json:"nextRun,omitempty"`
	Running     bool       `json:"running"`
}

type taskEntry struct {
	config  TaskConfig
	job     gocron.Job
	lastRun *time.Time
	lastErr error
	running bool
}

// Scheduler manages background scheduled tasks.
type Scheduler struct {
	gocron gocron.Scheduler
	logger zerolog.Logger
	tasks  map[string]*taskEntry
	mu     sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new scheduler.
func New(logger zerolog.Logger, opts ...gocron.SchedulerOption) (*Scheduler, error) {
	gs, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		gocron: gs,
		logger: logger.With().Str("component", "scheduler").Logger(),
		tasks:  make(map[string]*taskEntry),
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// RegisterTask registers a new scheduled task.
func (s *Scheduler) RegisterTask(config TaskConfig) error {
	if config.Func == nil {
		return fmt.Errorf("task %q has no function", config.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[config.ID]; exists {
		return fmt.Errorf("task with ID %q already registered", config.ID)
	}

	job, err := s.gocron.NewJob(
		gocron.CronJob(config.Cron, false),
		gocron.NewTask(func() { s.executeTask(config.ID) }),
		gocron.WithName(config.Name),
		gocron.WithTags(config.ID),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create job for task %q: %w", config.ID, err)
	}

	s.tasks[config.ID] = &taskEntry{
		config: config,
		job:    job,
	}

	s.logger.Info().
		Str("id", config.ID).
		Str("name", config.Name).
		Str("cron", config.Cron).
		Bool("runOnStart", config.RunOnStart).
		Msg("Registered task")

	return nil
}

// claim marks a task as running. It returns nil when the task is unknown or
// already running.
func (s *Scheduler) claim(taskID string) *taskEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.tasks[taskID]
	if !exists || entry.running {
		return nil
	}
	entry.running = true
	return entry
}

func (s *Scheduler) executeTask(taskID string) {
	entry := s.claim(taskID)
	if entry == nil {
		return
	}
	s.run(entry)
}

func (s *Scheduler) run(entry *taskEntry) {
	startTime := time.Now()
	s.logger.Info().
		Str("id", entry.config.ID).
		Str("name", entry.config.Name).
		Msg("Starting task")

	err := entry.config.Func(s.ctx)

	s.mu.Lock()
	entry.running = false
	entry.lastRun = &startTime
	entry.lastErr = err
	s.mu.Unlock()

	metrics.RecordTaskRun(entry.config.ID, err)

	duration := time.Since(startTime)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("id", entry.config.ID).
			Str("name", entry.config.Name).
			Dur("duration", duration).
			Msg("Task failed")
	} else {
		s.logger.Info().
			Str("id", entry.config.ID).
			Str("name", entry.config.Name).
			Dur("duration", duration).
			Msg("Task completed")
	}
}

// Start starts the scheduler and runs any tasks configured with RunOnStart.
func (s *Scheduler) Start() {
	s.logger.Info().Msg("Starting scheduler")

	s.gocron.Start()

	s.mu.RLock()
	var startup []string
	for id, entry := range s.tasks {
		if entry.config.RunOnStart {
			startup = append(startup, id)
		}
	}
	s.mu.RUnlock()

	for _, taskID := range startup {
		s.goExecute(taskID)
	}
}

func (s *Scheduler) goExecute(taskID string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.executeTask(taskID)
	}()
}

// Stop cancels running tasks and stops the scheduler.
func (s *Scheduler) Stop() error {
	s.logger.Info().Msg("Stopping scheduler")
	s.cancel()
	err := s.gocron.Shutdown()
	s.wg.Wait()
	return err
}

// RunNow triggers a task in the background.
func (s *Scheduler) RunNow(taskID string) error {
	s.mu.RLock()
	entry, exists := s.tasks[taskID]
	running := exists && entry.running
	s.mu.RUnlock()

	if !exists {
		return fmt.Errorf("%w: %q", ErrTaskNotFound, taskID)
	}
	if running {
		return fmt.Errorf("%w: %q", ErrTaskRunning, taskID)
	}

	s.goExecute(taskID)
	return nil
}

// ListTasks returns information about all registered tasks, ordered by id.
func (s *Scheduler) ListTasks() []TaskInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]TaskInfo, 0, len(s.tasks))
	for _, entry := range s.tasks {
		tasks = append(tasks, entry.info())
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })

	return tasks
}

// GetTask returns information about a specific task.
func (s *Scheduler) GetTask(taskID string) (*TaskInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.tasks[taskID]
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrTaskNotFound, taskID)
	}

	info := entry.info()
	return &info, nil
}

// info must be called with the scheduler lock held.
func (e *taskEntry) info() TaskInfo {
	info := TaskInfo{
		ID:          e.config.ID,
		Name:        e.config.Name,
		Description: e.config.Description,
		Cron:        e.config.Cron,
		LastRun:     e.lastRun,
		Running:     e.running,
	}
	if e.lastErr != nil {
		info.LastError = e.lastErr.Error()
	}

	if nextRun, err := e.job.NextRun(); err == nil && !nextRun.IsZero() {
		info.NextRun = &nextRun
	}

	return info
}
