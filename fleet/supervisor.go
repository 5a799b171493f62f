package fleet

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"scanfleet/catalog"
	"scanfleet/engine"
	"scanfleet/robot"
)

// Config holds the parameters needed to run a fleet.
type Config struct {
	Robots         int
	Catalog        catalog.Catalog
	Seed           uint64 // 0 derives a seed from the clock
	Interval       time.Duration
	RecoveryPause  time.Duration
	StartupDelay   time.Duration
	Stagger        time.Duration
	StatusInterval time.Duration
	Sink           robot.Sink
	Bus            *engine.EventBus
	LogFunc        robot.LogFunc
	Debug          bool
}

// Supervisor launches one worker per robot and tracks them until shutdown.
type Supervisor struct {
	cfg     Config
	runID   string
	seed    uint64
	catalog catalog.Catalog
	bus     *engine.EventBus
	tracker *Tracker
	workers []*robot.Worker
	logFn   robot.LogFunc

	started atomic.Bool
	wg      sync.WaitGroup
	done    chan struct{}
}

// New builds the workers for c. Nothing runs until Start.
func New(c Config) *Supervisor {
	logFn := c.LogFunc
	if logFn == nil {
		logFn = func(string, ...any) {}
	}
	bus := c.Bus
	if bus == nil {
		bus = engine.NewEventBus()
	}
	cat := c.Catalog
	if len(cat) == 0 {
		cat = catalog.Default()
	}
	seed := c.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	s := &Supervisor{
		cfg:     c,
		runID:   uuid.New().String(),
		seed:    seed,
		catalog: cat,
		bus:     bus,
		logFn:   logFn,
		done:    make(chan struct{}),
	}

	emit := engine.RobotEmitter(bus)
	ids := make([]string, 0, c.Robots)
	for n := 1; n <= c.Robots; n++ {
		w := robot.New(robot.Config{
			Number:        n,
			Catalog:       cat,
			Seed:          seed,
			Interval:      c.Interval,
			RecoveryPause: c.RecoveryPause,
			Sink:          c.Sink,
			Emitter:       emit,
			LogFunc:       logFn,
			Debug:         c.Debug,
		})
		s.workers = append(s.workers, w)
		ids = append(ids, w.ID())
	}
	s.tracker = NewTracker(bus, ids...)
	return s
}

// RunID identifies this fleet run in logs.
func (s *Supervisor) RunID() string { return s.runID }

// Seed returns the seed the workers were built from.
func (s *Supervisor) Seed() uint64 { return s.seed }

// Bus returns the event bus the workers publish on.
func (s *Supervisor) Bus() *engine.EventBus { return s.bus }

// Size returns the number of robots in the fleet.
func (s *Supervisor) Size() int { return len(s.workers) }

// Start waits out the startup delay, then launches the workers one stagger
// apart. It returns immediately; cancel ctx to stop the fleet and call Wait
// to block until every worker has returned.
func (s *Supervisor) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return fmt.Errorf("fleet already started")
	}
	s.logFn("fleet: run %s starting %d robots (seed=%d)", s.runID, len(s.workers), s.seed)
	go s.run(ctx)
	return nil
}

func (s *Supervisor) run(ctx context.Context) {
	defer close(s.done)

	if s.cfg.StartupDelay > 0 && !sleepCtx(ctx, s.cfg.StartupDelay) {
		s.logFn("fleet: cancelled during startup delay")
		return
	}

	for i, w := range s.workers {
		if i > 0 && s.cfg.Stagger > 0 && !sleepCtx(ctx, s.cfg.Stagger) {
			break
		}
		s.wg.Add(1)
		go func(w *robot.Worker) {
			defer s.wg.Done()
			engine.EmitRobotStarted(s.bus, w.ID(), w.Location())
			w.Run(ctx)
			engine.EmitRobotStopped(s.bus, w.ID(), w.Location())
		}(w)
	}

	if s.cfg.StatusInterval > 0 {
		ticker := time.NewTicker(s.cfg.StatusInterval)
	loop:
		for {
			select {
			case <-ctx.Done():
				break loop
			case <-ticker.C:
				s.logFn("fleet: %d robots running", s.tracker.Running())
			}
		}
		ticker.Stop()
	}

	s.wg.Wait()
	s.logFn("fleet: run %s stopped", s.runID)
}

// Wait blocks until every worker has stopped. It returns at once if the
// fleet was never started.
func (s *Supervisor) Wait() {
	if !s.started.Load() {
		return
	}
	<-s.done
}

// Snapshot returns the status of every robot, ordered by robot ID.
func (s *Supervisor) Snapshot() []RobotStatus {
	return s.tracker.Snapshot()
}

// Robot returns the status of one robot.
func (s *Supervisor) Robot(id string) (RobotStatus, bool) {
	return s.tracker.Get(id)
}

// Catalog returns the product catalog the fleet scans.
func (s *Supervisor) Catalog() catalog.Catalog { return s.catalog }

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
