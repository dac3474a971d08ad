package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/Sujal861/Omi-Mentor/internal"
)

// TaskFunc is a unit of scheduled work.
type TaskFunc func(ctx context.Context) error

// Scheduler runs named interval tasks on a robfig/cron runner. A run that is
// still in progress when the next tick fires causes that tick to be skipped.
type Scheduler struct {
	cron    *cron.Cron
	logger  internal.Logger
	tasks   map[string]cron.EntryID
	funcs   map[string]TaskFunc
	mu      sync.RWMutex
	running bool

	ctx    context.Context
	cancel context.CancelFunc
}

func New(logger internal.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:   cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger: logger,
		tasks:  make(map[string]cron.EntryID),
		funcs:  make(map[string]TaskFunc),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.cron.Start()
	s.running = true
	s.logger.Infof("scheduler started with %d task(s)", len(s.tasks))
}

// Stop cancels running tasks and waits for them until ctx expires.
func (s *Scheduler) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.cancel()
	select {
	case <-s.cron.Stop().Done():
		s.logger.Infof("scheduler stopped")
	case <-ctx.Done():
		s.logger.Warnf("scheduler stop timed out")
	}
	s.running = false
}

// AddIntervalTask schedules task every interval, replacing a task of the same name.
func (s *Scheduler) AddIntervalTask(name string, interval time.Duration, task TaskFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.tasks[name]; ok {
		s.cron.Remove(id)
		delete(s.tasks, name)
	}
	id, err := s.cron.AddFunc("@every "+interval.String(), func() {
		s.runTask(name, task)
	})
	if err != nil {
		return err
	}
	s.tasks[name] = id
	s.funcs[name] = task
	s.logger.Infof("scheduled %s every %s", name, interval)
	return nil
}

// RunNow runs a registered task once in the background, outside its schedule.
func (s *Scheduler) RunNow(name string) bool {
	s.mu.RLock()
	task, ok := s.funcs[name]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	go s.runTask(name, task)
	return true
}

func (s *Scheduler) RemoveTask(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.tasks[name]; ok {
		s.cron.Remove(id)
		delete(s.tasks, name)
		delete(s.funcs, name)
		s.logger.Infof("removed task %s", name)
	}
}

func (s *Scheduler) runTask(name string, task TaskFunc) {
	start := time.Now()
	s.logger.Debugf("running task %s", name)
	if err := task(s.ctx); err != nil {
		s.logger.Errorf("task %s failed after %s: %v", name, time.Since(start), err)
		return
	}
	s.logger.Debugf("task %s done in %s", name, time.Since(start))
}

type TaskInfo struct {
	Name    string    `json:"name"`
	NextRun time.Time `json:"next_run"`
	PrevRun time.Time `json:"prev_run,omitempty"`
}

func (s *Scheduler) Tasks() []TaskInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	info := make([]TaskInfo, 0, len(s.tasks))
	for name, id := range s.tasks {
		e := s.cron.Entry(id)
		info = append(info, TaskInfo{Name: name, NextRun: e.Next, PrevRun: e.Prev})
	}
	return info
}
