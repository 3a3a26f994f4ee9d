package app

import (
	"context"
	"fmt"
	"time"

	"github.com/antongulenko/golib"
	sensors "github.com/bitflow-stream/go-app-sensors"
	log "github.com/sirupsen/logrus"
)

const (
	iconLocked   = "mdi:lock-outline"
	iconUnlocked = "mdi:lock-open-outline"
	iconInactive = "mdi:timer-off-outline"
	iconActive   = "mdi:timer-outline"

	// Same rendering as java.util.Date.toString()
	SessionExpireLayout = "Mon Jan 02 15:04:05 MST 2006"
)

// SensorManager reports sensors about the application itself.
type SensorManager struct {
	Platform    Platform
	Session     SessionRepository
	Auth        AuthenticationRepository
	Version     string
	Uid         int
	PackageName string
	ProcessName string

	// Location used to render the session expiry date, defaults to time.Local.
	Location *time.Location
}

var _ sensors.Manager = new(SensorManager)

func (m *SensorManager) Name() string {
	return "App sensors"
}

func (m *SensorManager) EnabledByDefault() bool {
	return false
}

func (m *SensorManager) AvailableSensors(level int) []sensors.Descriptor {
	return availableSensors(level)
}

func (m *SensorManager) RequiredPermissions(sensorID string) []string {
	return nil
}

func (m *SensorManager) RequestUpdate(ctx context.Context, reg sensors.Registry) error {
	var errors golib.MultiError
	errors.Add(m.updateCurrentVersion(reg))
	errors.Add(m.updateAppMemory(reg))
	errors.Add(m.updateAppRxGb(reg))
	errors.Add(m.updateAppTxGb(reg))
	errors.Add(m.updateImportance(reg))
	errors.Add(m.UpdateAppLock(ctx, reg))
	level := m.Platform.SDKLevel()
	if level >= LevelM {
		errors.Add(m.updateAppInactive(reg))
		if level >= LevelP {
			errors.Add(m.updateStandbyBucket(reg))
		}
	}
	return errors.NilOrError()
}

func skipped(sensor sensors.Descriptor, what string, err error) error {
	log.WithField("sensor", sensor.ID).Errorf("Error getting %v: %v", what, err)
	return fmt.Errorf("%v skipped: %v", sensor.ID, err)
}

func (m *SensorManager) updateCurrentVersion(reg sensors.Registry) error {
	if !reg.IsEnabled(CurrentVersion.ID) {
		return nil
	}
	reg.Publish(sensors.Reading{
		Sensor: CurrentVersion,
		State:  m.Version,
		Icon:   CurrentVersion.Icon,
	})
	return nil
}

func (m *SensorManager) updateAppRxGb(reg sensors.Registry) error {
	return m.updateTraffic(reg, AppRxGb, "app rx bytes", m.Platform.UidRxBytes)
}

func (m *SensorManager) updateAppTxGb(reg sensors.Registry) error {
	return m.updateTraffic(reg, AppTxGb, "app tx bytes", m.Platform.UidTxBytes)
}

func (m *SensorManager) updateTraffic(reg sensors.Registry, sensor sensors.Descriptor, what string, read func(uid int) (int64, error)) error {
	if !reg.IsEnabled(sensor.ID) {
		return nil
	}
	bytes, err := read(m.Uid)
	if err == nil && bytes < 0 {
		err = fmt.Errorf("counter not supported for uid %v", m.Uid)
	}
	if err != nil {
		return skipped(sensor, what, err)
	}
	reg.Publish(sensors.Reading{
		Sensor: sensor,
		State:  sensors.GigabytesOf(bytes, 4),
		Icon:   sensor.Icon,
	})
	return nil
}

func (m *SensorManager) updateAppMemory(reg sensors.Registry) error {
	if !reg.IsEnabled(AppMemory.ID) {
		return nil
	}
	heap, err := m.Platform.HeapStats()
	if err != nil {
		return skipped(AppMemory, "app memory", err)
	}
	free := sensors.GigabytesOf(int64(heap.Free), 3)
	total := sensors.GigabytesOf(int64(heap.Total), 3)
	used := sensors.GigabytesOf(int64(heap.Total)-int64(heap.Free), 3)
	reg.Publish(sensors.Reading{
		Sensor: AppMemory,
		State:  used,
		Icon:   AppMemory.Icon,
		Attributes: sensors.Attributes{
			"free_memory":  free,
			"total_memory": total,
		},
	})
	return nil
}

// UpdateAppLock reports the lock state together with the session settings. It is
// also invoked out of band whenever the lock state changes.
func (m *SensorManager) UpdateAppLock(ctx context.Context, reg sensors.Registry) error {
	if !reg.IsEnabled(AppLocked.ID) {
		return nil
	}
	attributes, locked, err := m.lockState(ctx)
	if err != nil {
		return skipped(AppLocked, "app lock state", err)
	}
	icon := iconUnlocked
	if locked {
		icon = iconLocked
	}
	log.Debugf("updateAppLock(): isAppLocked: %v, attributes: %v", locked, attributes)
	reg.Publish(sensors.Reading{
		Sensor:     AppLocked,
		State:      locked,
		Icon:       icon,
		Attributes: attributes,
	})
	return nil
}

func (m *SensorManager) lockState(ctx context.Context) (sensors.Attributes, bool, error) {
	if m.Session == nil || m.Auth == nil {
		return nil, false, fmt.Errorf("no session repository configured")
	}
	locked, err := m.Session.IsAppLocked(ctx)
	if err != nil {
		return nil, false, err
	}
	timeout, err := m.Session.SessionTimeout(ctx)
	if err != nil {
		return nil, false, err
	}
	lockApp, err := m.Auth.IsLockEnabledRaw(ctx)
	if err != nil {
		return nil, false, err
	}
	homeBypass, err := m.Auth.IsLockHomeBypassEnabled(ctx)
	if err != nil {
		return nil, false, err
	}
	expireMillis, err := m.Session.SessionExpireMillis(ctx)
	if err != nil {
		return nil, false, err
	}

	var expireMillisReport, expireDateReport interface{} = "", ""
	if !locked {
		loc := m.Location
		if loc == nil {
			loc = time.Local
		}
		expireMillisReport = expireMillis
		expireDateReport = time.Unix(0, expireMillis*int64(time.Millisecond)).In(loc).Format(SessionExpireLayout)
	}
	return sensors.Attributes{
		"lock_app":               lockApp,
		"unlock_on_home_network": homeBypass,
		"timeout":                timeout,
		"session_expire_millis":  expireMillisReport,
		"session_expire":         expireDateReport,
	}, locked, nil
}

func (m *SensorManager) updateAppInactive(reg sensors.Registry) error {
	if !reg.IsEnabled(AppInactive.ID) {
		return nil
	}
	inactive, err := m.Platform.IsAppInactive(m.PackageName)
	if err != nil {
		return skipped(AppInactive, "app inactive state", err)
	}
	icon := iconActive
	if inactive {
		icon = iconInactive
	}
	reg.Publish(sensors.Reading{
		Sensor: AppInactive,
		State:  inactive,
		Icon:   icon,
	})
	return nil
}

func (m *SensorManager) updateStandbyBucket(reg sensors.Registry) error {
	if !reg.IsEnabled(AppStandbyBucket.ID) {
		return nil
	}
	bucket, err := m.Platform.StandbyBucket()
	if err != nil {
		return skipped(AppStandbyBucket, "app standby bucket", err)
	}
	reg.Publish(sensors.Reading{
		Sensor: AppStandbyBucket,
		State:  StandbyBucketLabel(bucket),
		Icon:   AppStandbyBucket.Icon,
	})
	return nil
}

func (m *SensorManager) updateImportance(reg sensors.Registry) error {
	if !reg.IsEnabled(AppImportance.ID) {
		return nil
	}
	processes, err := m.Platform.RunningProcesses()
	if err != nil {
		return skipped(AppImportance, "running processes", err)
	}
	reg.Publish(sensors.Reading{
		Sensor: AppImportance,
		State:  m.importance(processes),
		Icon:   AppImportance.Icon,
	})
	return nil
}

// importance looks up the app process. If the name appears multiple times, the
// last entry wins.
func (m *SensorManager) importance(processes []ProcessInfo) string {
	importance := ImportanceUnknown
	for _, proc := range processes {
		if proc.Name == m.ProcessName {
			importance = ImportanceLabel(proc.Importance)
		}
	}
	return importance
}
