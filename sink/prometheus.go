package sink

import (
	"context"
	"fmt"

	sensors "github.com/bitflow-stream/go-app-sensors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// PrometheusSink exposes the last reading of every sensor as gauges. Numeric and
// boolean states go to app_sensor_state, other states to app_sensor_info with the
// state as label.
type PrometheusSink struct {
	state *prometheus.GaugeVec
	info  *prometheus.GaugeVec
}

var _ sensors.Sink = new(PrometheusSink)

func NewPrometheusSink(registerer prometheus.Registerer) (*PrometheusSink, error) {
	s := &PrometheusSink{
		state: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "app_sensor_state",
			Help: "Last numeric state of an app sensor",
		}, []string{"sensor", "unit"}),
		info: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "app_sensor_info",
			Help: "Last textual state of an app sensor",
		}, []string{"sensor", "state"}),
	}
	for _, collector := range []prometheus.Collector{s.state, s.info} {
		if err := registerer.Register(collector); err != nil {
			return nil, fmt.Errorf("failed to register sensor gauges: %w", err)
		}
	}
	return s, nil
}

func (s *PrometheusSink) String() string {
	return "prometheus"
}

func (s *PrometheusSink) RegisterSensors(ctx context.Context, descs []sensors.Descriptor) error {
	return nil
}

func (s *PrometheusSink) UpdateSensors(ctx context.Context, readings []sensors.Reading) error {
	for _, reading := range readings {
		if value, ok := numericValue(reading.State); ok {
			s.state.WithLabelValues(reading.Sensor.ID, reading.Sensor.Unit).Set(value)
		} else {
			s.info.DeletePartialMatch(prometheus.Labels{"sensor": reading.Sensor.ID})
			s.info.WithLabelValues(reading.Sensor.ID, fmt.Sprint(reading.State)).Set(1)
		}
	}
	return nil
}

func numericValue(state interface{}) (float64, bool) {
	switch value := state.(type) {
	case decimal.Decimal:
		return value.InexactFloat64(), true
	case bool:
		if value {
			return 1, true
		}
		return 0, true
	case int:
		return float64(value), true
	case int64:
		return float64(value), true
	case float64:
		return value, true
	default:
		return 0, false
	}
}
