package psutil

import (
	"os"

	"github.com/bitflow-stream/go-app-sensors/app"
)

const DefaultLevel = app.LevelP

// Platform reads the app counters of the local host through gopsutil.
type Platform struct {
	Level int
	Usage *UsageTracker
}

var _ app.Platform = new(Platform)

func NewPlatform(level int) *Platform {
	if level <= 0 {
		level = DefaultLevel
	}
	return &Platform{
		Level: level,
		Usage: NewUsageTracker(int32(os.Getpid())),
	}
}

func (p *Platform) SDKLevel() int {
	return p.Level
}

func (p *Platform) IsAppInactive(packageName string) (bool, error) {
	return p.Usage.IsInactive()
}

func (p *Platform) StandbyBucket() (int, error) {
	return p.Usage.StandbyBucket()
}
