package psutil

import (
	"fmt"
	"sync"
	"time"

	"github.com/bitflow-stream/go-app-sensors/app"
	"github.com/shirou/gopsutil/process"
)

const (
	DefaultInactiveAfter = 12 * time.Hour

	activeWithin     = 1 * time.Hour
	workingSetWithin = 12 * time.Hour
	frequentWithin   = 24 * time.Hour
)

// UsageTracker approximates app usage statistics: the app counts as used whenever
// its process consumed CPU time since the previous observation.
type UsageTracker struct {
	Pid           int32
	InactiveAfter time.Duration

	// Replaceable for tests
	Now      func() time.Time
	CpuTimes func(pid int32) (float64, error)

	lock       sync.Mutex
	lastCpu    float64
	lastActive time.Time
}

func NewUsageTracker(pid int32) *UsageTracker {
	return &UsageTracker{
		Pid:           pid,
		InactiveAfter: DefaultInactiveAfter,
		Now:           time.Now,
		CpuTimes:      processCpuTimes,
	}
}

func processCpuTimes(pid int32) (float64, error) {
	proc, err := process.NewProcess(pid)
	if err != nil {
		return 0, err
	}
	times, err := proc.Times()
	if err != nil {
		return 0, fmt.Errorf("Failed to read cpu times of pid %v: %v", pid, err)
	}
	return times.User + times.System, nil
}

// Touch records app usage that is not visible as CPU time.
func (t *UsageTracker) Touch() {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.lastActive = t.Now()
}

// Observe samples the CPU time of the process and records activity if it grew.
func (t *UsageTracker) Observe() error {
	cpu, err := t.CpuTimes(t.Pid)
	if err != nil {
		return err
	}
	t.lock.Lock()
	defer t.lock.Unlock()
	if cpu > t.lastCpu {
		t.lastActive = t.Now()
	}
	t.lastCpu = cpu
	return nil
}

// Idle returns the time since the last observed activity. The second return value
// is false if no activity was ever observed.
func (t *UsageTracker) Idle() (time.Duration, bool) {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.lastActive.IsZero() {
		return 0, false
	}
	return t.Now().Sub(t.lastActive), true
}

func (t *UsageTracker) IsInactive() (bool, error) {
	if err := t.Observe(); err != nil {
		return false, err
	}
	idle, ok := t.Idle()
	return !ok || idle >= t.InactiveAfter, nil
}

func (t *UsageTracker) StandbyBucket() (int, error) {
	if err := t.Observe(); err != nil {
		return 0, err
	}
	idle, ok := t.Idle()
	switch {
	case !ok:
		return app.StandbyBucketNever, nil
	case idle < activeWithin:
		return app.StandbyBucketActive, nil
	case idle < workingSetWithin:
		return app.StandbyBucketWorkingSet, nil
	case idle < frequentWithin:
		return app.StandbyBucketFrequent, nil
	default:
		return app.StandbyBucketRare, nil
	}
}
