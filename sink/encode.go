package sink

import (
	"encoding/json"

	sensors "github.com/bitflow-stream/go-app-sensors"
	"github.com/shopspring/decimal"
)

// jsonValue makes decimal values encode as plain JSON numbers instead of strings.
func jsonValue(v interface{}) interface{} {
	switch value := v.(type) {
	case decimal.Decimal:
		return json.Number(value.String())
	case *decimal.Decimal:
		if value == nil {
			return nil
		}
		return json.Number(value.String())
	default:
		return v
	}
}

func jsonAttributes(attributes sensors.Attributes) map[string]interface{} {
	res := make(map[string]interface{}, len(attributes))
	for key, value := range attributes {
		res[key] = jsonValue(value)
	}
	return res
}

// SensorState is the JSON representation of a reading.
type SensorState struct {
	UniqueID   string                 `json:"unique_id"`
	Type       string                 `json:"type"`
	State      interface{}            `json:"state"`
	Icon       string                 `json:"icon,omitempty"`
	Attributes map[string]interface{} `json:"attributes"`
}

func NewSensorState(reading sensors.Reading) SensorState {
	return SensorState{
		UniqueID:   reading.Sensor.ID,
		Type:       reading.Sensor.Type,
		State:      jsonValue(reading.State),
		Icon:       reading.Icon,
		Attributes: jsonAttributes(reading.Attributes),
	}
}

// SensorRegistration is the JSON representation of a descriptor.
type SensorRegistration struct {
	UniqueID       string                 `json:"unique_id"`
	Type           string                 `json:"type"`
	Name           string                 `json:"name"`
	State          interface{}            `json:"state"`
	Icon           string                 `json:"icon,omitempty"`
	Attributes     map[string]interface{} `json:"attributes"`
	Unit           string                 `json:"unit_of_measurement,omitempty"`
	StateClass     string                 `json:"state_class,omitempty"`
	EntityCategory string                 `json:"entity_category,omitempty"`
}

func NewSensorRegistration(sensor sensors.Descriptor) SensorRegistration {
	return SensorRegistration{
		UniqueID:       sensor.ID,
		Type:           sensor.Type,
		Name:           sensor.Name,
		Icon:           sensor.Icon,
		Attributes:     map[string]interface{}{},
		Unit:           sensor.Unit,
		StateClass:     sensor.StateClass,
		EntityCategory: sensor.EntityCategory,
	}
}
