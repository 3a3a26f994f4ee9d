package sensors

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/antongulenko/golib"
	"github.com/stretchr/testify/suite"
)

var (
	testSensorA = Descriptor{ID: "sensor_a", Type: TypeSensor, Name: "A"}
	testSensorB = Descriptor{ID: "sensor_b", Type: TypeBinarySensor, Name: "B"}
	testSensorC = Descriptor{ID: "other_c", Type: TypeSensor, Name: "C"}
)

type testManager struct {
	enabledByDefault bool
	err              error
	updates          int
	lock             sync.Mutex
}

func (m *testManager) Name() string           { return "test" }
func (m *testManager) EnabledByDefault() bool { return m.enabledByDefault }

func (m *testManager) AvailableSensors(level int) []Descriptor {
	if level < 10 {
		return []Descriptor{testSensorA}
	}
	return []Descriptor{testSensorA, testSensorB, testSensorC}
}

func (m *testManager) RequiredPermissions(string) []string { return nil }

func (m *testManager) RequestUpdate(ctx context.Context, reg Registry) error {
	m.lock.Lock()
	m.updates++
	m.lock.Unlock()
	for _, sensor := range []Descriptor{testSensorA, testSensorB, testSensorC} {
		if reg.IsEnabled(sensor.ID) {
			reg.Publish(Reading{Sensor: sensor, State: sensor.Name})
		}
	}
	return m.err
}

type testSink struct {
	err        error
	registered []Descriptor
	batches    [][]Reading
	lock       sync.Mutex
}

func (s *testSink) String() string { return "test sink" }

func (s *testSink) RegisterSensors(ctx context.Context, descs []Descriptor) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.registered = append(s.registered, descs...)
	return s.err
}

func (s *testSink) UpdateSensors(ctx context.Context, readings []Reading) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.batches = append(s.batches, readings)
	return s.err
}

type RegistryTestSuite struct {
	golib.AbstractTestSuite
}

func TestRegistry(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}

func (suite *RegistryTestSuite) newRegistry(enabledByDefault bool, sinks ...Sink) *SensorRegistry {
	reg := NewSensorRegistry(sinks...)
	reg.Register(&testManager{enabledByDefault: enabledByDefault}, 20)
	return reg
}

func (suite *RegistryTestSuite) TestDefaults() {
	reg := suite.newRegistry(false)
	suite.False(reg.IsEnabled(testSensorA.ID))
	suite.False(reg.IsEnabled("unknown"))

	reg = suite.newRegistry(true)
	suite.True(reg.IsEnabled(testSensorA.ID))
	suite.False(reg.IsEnabled("unknown"))
}

func (suite *RegistryTestSuite) TestLevelLimitsSensors() {
	reg := NewSensorRegistry()
	available := reg.Register(&testManager{enabledByDefault: true}, 5)
	suite.Equal([]Descriptor{testSensorA}, available)
	suite.True(reg.IsEnabled(testSensorA.ID))
	suite.False(reg.IsEnabled(testSensorB.ID))
}

func (suite *RegistryTestSuite) TestPrecedence() {
	reg := suite.newRegistry(true)
	reg.SetFilters(nil, []*regexp.Regexp{regexp.MustCompile("^sensor_")})
	suite.False(reg.IsEnabled(testSensorA.ID))
	suite.True(reg.IsEnabled(testSensorC.ID))

	suite.NoError(reg.SetEnabled(testSensorA.ID, true))
	suite.True(reg.IsEnabled(testSensorA.ID))

	reg.SetFilters([]*regexp.Regexp{regexp.MustCompile("_b$")}, nil)
	suite.True(reg.IsEnabled(testSensorA.ID), "explicit setting wins")
	suite.True(reg.IsEnabled(testSensorB.ID))
	suite.False(reg.IsEnabled(testSensorC.ID))

	reg.ApplySettings(map[string]bool{testSensorB.ID: false})
	suite.False(reg.IsEnabled(testSensorA.ID))
	suite.False(reg.IsEnabled(testSensorB.ID))

	suite.Error(reg.SetEnabled("unknown", true))
}

func (suite *RegistryTestSuite) TestPublishAndFlush() {
	sink := new(testSink)
	reg := suite.newRegistry(false, sink)
	suite.NoError(reg.SetEnabled(testSensorA.ID, true))

	reg.Publish(Reading{Sensor: testSensorA, State: 1})
	reg.Publish(Reading{Sensor: testSensorB, State: 2})
	suite.NoError(reg.Flush(context.Background()))
	suite.Len(sink.batches, 1)
	suite.Len(sink.batches[0], 1)
	suite.Equal(testSensorA, sink.batches[0][0].Sensor)
	suite.False(sink.batches[0][0].Time.IsZero())

	// Nothing pending, nothing flushed
	suite.NoError(reg.Flush(context.Background()))
	suite.Len(sink.batches, 1)

	readings := reg.Readings()
	suite.Len(readings, 1)
	suite.Equal(1, readings[0].State)
}

func (suite *RegistryTestSuite) TestFailingSinkDoesNotBlockOthers() {
	failing := &testSink{err: errors.New("offline")}
	working := new(testSink)
	reg := suite.newRegistry(true, failing, working)

	reg.Publish(Reading{Sensor: testSensorA, State: "x"})
	err := reg.Flush(context.Background())
	suite.Error(err)
	suite.Contains(err.Error(), "offline")
	suite.Len(working.batches, 1)
	suite.Len(failing.batches, 1)
}

func (suite *RegistryTestSuite) TestDescriptors() {
	reg := suite.newRegistry(false)
	suite.NoError(reg.SetEnabled(testSensorB.ID, true))
	suite.Equal([]Descriptor{testSensorC, testSensorA, testSensorB}, reg.Descriptors())
	suite.Equal([]Descriptor{testSensorB}, reg.EnabledDescriptors())
}
