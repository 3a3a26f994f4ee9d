package mock

import (
	"sync"

	"github.com/bitflow-stream/go-app-sensors/app"
)

// Platform returns configurable values. Setting one of the *Err fields makes the
// corresponding query fail.
type Platform struct {
	lock sync.Mutex

	Level      int
	RxBytes    int64
	TxBytes    int64
	Heap       app.HeapStats
	Inactive   bool
	Bucket     int
	Processes  []app.ProcessInfo
	TrafficErr error
	HeapErr    error
	UsageErr   error
	ProcessErr error
}

var _ app.Platform = new(Platform)

// NewPlatform creates a platform that looks like an idle app on a recent OS.
func NewPlatform(processName string) *Platform {
	return &Platform{
		Level:   app.LevelP,
		RxBytes: 12345678,
		TxBytes: 2345678,
		Heap:    app.HeapStats{Total: 268435456, Free: 134217728},
		Bucket:  app.StandbyBucketActive,
		Processes: []app.ProcessInfo{
			{Pid: 1, Name: "init", Importance: app.ImportanceService},
			{Pid: 2, Name: processName, Importance: app.ImportanceForeground},
		},
	}
}

// Tick simulates traffic, the counters grow on every call.
func (p *Platform) Tick() {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.RxBytes += 1500000
	p.TxBytes += 300000
}

func (p *Platform) SDKLevel() int {
	return p.Level
}

func (p *Platform) UidRxBytes(uid int) (int64, error) {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.RxBytes, p.TrafficErr
}

func (p *Platform) UidTxBytes(uid int) (int64, error) {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.TxBytes, p.TrafficErr
}

func (p *Platform) HeapStats() (app.HeapStats, error) {
	return p.Heap, p.HeapErr
}

func (p *Platform) IsAppInactive(packageName string) (bool, error) {
	return p.Inactive, p.UsageErr
}

func (p *Platform) StandbyBucket() (int, error) {
	return p.Bucket, p.UsageErr
}

func (p *Platform) RunningProcesses() ([]app.ProcessInfo, error) {
	if p.ProcessErr != nil {
		return nil, p.ProcessErr
	}
	return p.Processes, nil
}
