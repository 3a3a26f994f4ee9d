package sensors

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/antongulenko/golib"
	log "github.com/sirupsen/logrus"
)

// SensorRegistry keeps track of the available sensors, decides which of them are
// enabled and forwards published readings to the sinks.
type SensorRegistry struct {
	Sinks []Sink

	lock     sync.RWMutex
	exclude  []*regexp.Regexp
	include  []*regexp.Regexp
	sensors  map[string]Descriptor
	defaults map[string]bool
	settings map[string]bool
	pending  []Reading
	last     map[string]Reading
}

func NewSensorRegistry(sinks ...Sink) *SensorRegistry {
	return &SensorRegistry{
		Sinks:    sinks,
		sensors:  make(map[string]Descriptor),
		defaults: make(map[string]bool),
		settings: make(map[string]bool),
		last:     make(map[string]Reading),
	}
}

// Register records the sensors the manager offers at the given OS level.
func (reg *SensorRegistry) Register(manager Manager, level int) []Descriptor {
	available := manager.AvailableSensors(level)
	reg.lock.Lock()
	defer reg.lock.Unlock()
	for _, sensor := range available {
		if _, ok := reg.sensors[sensor.ID]; ok {
			log.Errorln("Sensor", sensor.ID, "is delivered by multiple managers!")
		}
		reg.sensors[sensor.ID] = sensor
		reg.defaults[sensor.ID] = manager.EnabledByDefault()
	}
	return available
}

func (reg *SensorRegistry) IsEnabled(sensorID string) bool {
	reg.lock.RLock()
	defer reg.lock.RUnlock()
	return reg.isEnabled(sensorID)
}

func (reg *SensorRegistry) isEnabled(sensorID string) bool {
	if _, ok := reg.sensors[sensorID]; !ok {
		return false
	}
	if enabled, ok := reg.settings[sensorID]; ok {
		return enabled
	}
	if filtered, ok := reg.filter(sensorID); ok {
		return filtered
	}
	return reg.defaults[sensorID]
}

// filter applies the include/exclude expressions. The second return value is false
// if no expression decides about the sensor.
func (reg *SensorRegistry) filter(sensorID string) (enabled bool, decided bool) {
	for _, regex := range reg.exclude {
		if regex.MatchString(sensorID) {
			return false, true
		}
	}
	if len(reg.include) > 0 {
		for _, regex := range reg.include {
			if regex.MatchString(sensorID) {
				return true, true
			}
		}
		return false, true
	}
	return false, false
}

// SetFilters decides about sensors without an explicit setting. Excluded sensors are
// disabled. If include expressions are given, only matching sensors are enabled.
func (reg *SensorRegistry) SetFilters(include []*regexp.Regexp, exclude []*regexp.Regexp) {
	reg.lock.Lock()
	defer reg.lock.Unlock()
	reg.include = include
	reg.exclude = exclude
}

func (reg *SensorRegistry) SetEnabled(sensorID string, enabled bool) error {
	reg.lock.Lock()
	defer reg.lock.Unlock()
	if _, ok := reg.sensors[sensorID]; !ok {
		return fmt.Errorf("Unknown sensor: %v", sensorID)
	}
	reg.settings[sensorID] = enabled
	return nil
}

// ApplySettings replaces all explicit enable settings. Settings for sensors that are
// not available are kept, they might become available later.
func (reg *SensorRegistry) ApplySettings(settings map[string]bool) {
	reg.lock.Lock()
	defer reg.lock.Unlock()
	reg.settings = make(map[string]bool, len(settings))
	for id, enabled := range settings {
		reg.settings[id] = enabled
	}
}

func (reg *SensorRegistry) Publish(reading Reading) {
	if reading.Time.IsZero() {
		reading.Time = time.Now()
	}
	reg.lock.Lock()
	defer reg.lock.Unlock()
	if !reg.isEnabled(reading.Sensor.ID) {
		log.Debugln("Dropping reading of disabled sensor", reading.Sensor.ID)
		return
	}
	reg.pending = append(reg.pending, reading)
	reg.last[reading.Sensor.ID] = reading
}

// Flush hands all readings published since the last flush to every sink.
func (reg *SensorRegistry) Flush(ctx context.Context) error {
	reg.lock.Lock()
	readings := reg.pending
	reg.pending = nil
	reg.lock.Unlock()
	if len(readings) == 0 {
		return nil
	}

	var errors golib.MultiError
	for _, sink := range reg.Sinks {
		if err := sink.UpdateSensors(ctx, readings); err != nil {
			errors.Add(fmt.Errorf("Failed to sink %v readings to %v: %v", len(readings), sink, err))
		}
	}
	return errors.NilOrError()
}

// Announce registers the given sensors with every sink.
func (reg *SensorRegistry) Announce(ctx context.Context, sensors []Descriptor) error {
	if len(sensors) == 0 {
		return nil
	}
	var errors golib.MultiError
	for _, sink := range reg.Sinks {
		if err := sink.RegisterSensors(ctx, sensors); err != nil {
			errors.Add(fmt.Errorf("Failed to register %v sensors with %v: %v", len(sensors), sink, err))
		}
	}
	return errors.NilOrError()
}

func (reg *SensorRegistry) Descriptors() []Descriptor {
	reg.lock.RLock()
	defer reg.lock.RUnlock()
	res := make([]Descriptor, 0, len(reg.sensors))
	for _, sensor := range reg.sensors {
		res = append(res, sensor)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}

func (reg *SensorRegistry) EnabledDescriptors() []Descriptor {
	all := reg.Descriptors()
	res := all[:0]
	for _, sensor := range all {
		if reg.IsEnabled(sensor.ID) {
			res = append(res, sensor)
		}
	}
	return res
}

// Readings returns the last reading of every sensor, sorted by sensor id.
func (reg *SensorRegistry) Readings() []Reading {
	reg.lock.RLock()
	defer reg.lock.RUnlock()
	res := make([]Reading, 0, len(reg.last))
	for _, reading := range reg.last {
		res = append(res, reading)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Sensor.ID < res[j].Sensor.ID })
	return res
}
