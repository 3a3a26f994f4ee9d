package sensors

import (
	"context"
	"fmt"
	"time"

	"github.com/antongulenko/golib"
	log "github.com/sirupsen/logrus"
)

const DefaultInterval = 15 * time.Minute

// PollSource periodically asks all managers to update their sensors and flushes the
// resulting readings to the sinks of the registry.
type PollSource struct {
	Managers []Manager
	Registry *SensorRegistry
	Level    int
	Interval time.Duration
	Policy   TaskPolicy
}

func (source *PollSource) String() string {
	return fmt.Sprintf("PollSource (%v managers, level %v)", len(source.Managers), source.Level)
}

// RegisterManagers makes the sensors of all managers known to the registry.
func (source *PollSource) RegisterManagers() {
	for _, manager := range source.Managers {
		sensors := source.Registry.Register(manager, source.Level)
		log.Debugf("Manager %v offers %v sensors", manager.Name(), len(sensors))
	}
}

// Init registers all managers with the registry and announces the enabled sensors
// to the sinks. Failing to announce is not fatal, updates are attempted regardless.
func (source *PollSource) Init(ctx context.Context) {
	source.RegisterManagers()
	enabled := source.Registry.EnabledDescriptors()
	log.Println("Locally collecting", len(enabled), "sensors through", len(source.Managers), "managers")
	if err := source.Registry.Announce(ctx, enabled); err != nil {
		log.Warnln(err)
	}
}

// Cycle updates every manager once and flushes the published readings.
func (source *PollSource) Cycle(ctx context.Context) error {
	tasks := make(UpdateTasks, 0, len(source.Managers))
	for _, manager := range source.Managers {
		manager := manager
		tasks = append(tasks, func() error {
			if err := manager.RequestUpdate(ctx, source.Registry); err != nil {
				return fmt.Errorf("%v: %v", manager.Name(), err)
			}
			return nil
		})
	}
	var errors golib.MultiError
	if err := tasks.Run(source.Policy); err != nil {
		log.Debugln("Skipped sensors during update:", err)
	}
	errors.Add(source.Registry.Flush(ctx))
	return errors.NilOrError()
}

// Run cycles immediately and then every Interval until ctx is cancelled. Updates
// requested through the trigger are executed in between.
func (source *PollSource) Run(ctx context.Context, trigger *Trigger) error {
	interval := source.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	if trigger != nil {
		go trigger.Run(ctx, source.cycleAndLog)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		source.cycleAndLog(ctx)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// UpdateNow runs a single update function outside of the regular cycle and flushes
// what it published, e.g. when the state of one sensor is known to have changed.
func (source *PollSource) UpdateNow(ctx context.Context, update func(ctx context.Context, reg Registry) error) error {
	var errors golib.MultiError
	errors.Add(update(ctx, source.Registry))
	errors.Add(source.Registry.Flush(ctx))
	return errors.NilOrError()
}

// RunUpdates calls UpdateNow with the given function whenever the trigger fires, until
// ctx is cancelled.
func (source *PollSource) RunUpdates(ctx context.Context, trigger *Trigger, update func(ctx context.Context, reg Registry) error) {
	trigger.Run(ctx, func(ctx context.Context) {
		if err := source.UpdateNow(ctx, update); err != nil {
			log.WithField("trigger", trigger.Name).Warnln(err)
		}
	})
}

func (source *PollSource) cycleAndLog(ctx context.Context) {
	if err := source.Cycle(ctx); err != nil {
		log.Warnln(err)
	}
}
