package sink

import (
	"context"

	sensors "github.com/bitflow-stream/go-app-sensors"
	log "github.com/sirupsen/logrus"
)

// LogSink prints every reading through logrus.
type LogSink struct {
	Logger *log.Logger
}

var _ sensors.Sink = new(LogSink)

func (s *LogSink) String() string {
	return "log"
}

func (s *LogSink) logger() *log.Logger {
	if s.Logger == nil {
		return log.StandardLogger()
	}
	return s.Logger
}

func (s *LogSink) RegisterSensors(ctx context.Context, descs []sensors.Descriptor) error {
	for _, sensor := range descs {
		s.logger().WithField("sensor", sensor.ID).Infoln("Registered", sensor.Name)
	}
	return nil
}

func (s *LogSink) UpdateSensors(ctx context.Context, readings []sensors.Reading) error {
	for _, reading := range readings {
		entry := s.logger().WithField("sensor", reading.Sensor.ID)
		if len(reading.Attributes) > 0 {
			entry = entry.WithField("attributes", jsonAttributes(reading.Attributes))
		}
		entry.Infof("%v %v", reading.State, reading.Sensor.Unit)
	}
	return nil
}
