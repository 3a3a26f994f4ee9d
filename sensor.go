package sensors

import (
	"context"
	"time"
)

const (
	TypeSensor       = "sensor"
	TypeBinarySensor = "binary_sensor"

	StateClassMeasurement     = "measurement"
	StateClassTotalIncreasing = "total_increasing"

	EntityCategoryDiagnostic = "diagnostic"
)

// Descriptor is the static description of one sensor. Descriptors are declared as
// package-level values by the managers and never modified afterwards.
type Descriptor struct {
	ID             string
	Type           string
	Name           string
	Description    string
	Icon           string
	Unit           string
	StateClass     string
	EntityCategory string
	DocsLink       string
}

func (d Descriptor) String() string {
	return d.Type + "." + d.ID
}

type Attributes map[string]interface{}

// Reading is a single sampled value of a sensor. Readings are created fresh on every
// update and carry no identity besides the descriptor.
type Reading struct {
	Sensor     Descriptor
	State      interface{}
	Icon       string
	Attributes Attributes
	Time       time.Time
}

// Registry is the part of the sensor framework that managers talk to while updating.
type Registry interface {
	IsEnabled(sensorID string) bool
	Publish(reading Reading)
}

// Manager groups the sensors of one subsystem.
type Manager interface {

	// Name is a human readable label of the sensor family.
	Name() string

	// EnabledByDefault decides whether sensors of this manager are enabled when no
	// explicit setting or filter applies to them.
	EnabledByDefault() bool

	// AvailableSensors returns the descriptors offered on a platform with the given
	// OS API level.
	AvailableSensors(level int) []Descriptor

	// RequiredPermissions lists permissions that must be granted before the sensor
	// can be enabled.
	RequiredPermissions(sensorID string) []string

	// RequestUpdate samples every enabled sensor and publishes the results to the
	// registry. A failing sensor is skipped and does not prevent the others from
	// being updated; the returned error only reports what was skipped.
	RequestUpdate(ctx context.Context, reg Registry) error
}

// Sink receives sensor registrations and batches of readings, usually to forward
// them to a remote service.
type Sink interface {
	RegisterSensors(ctx context.Context, sensors []Descriptor) error
	UpdateSensors(ctx context.Context, readings []Reading) error
	String() string
}
