package app

import sensors "github.com/bitflow-stream/go-app-sensors"

const docsBase = "https://companion.home-assistant.io/docs/core/sensors"

var (
	CurrentVersion = sensors.Descriptor{
		ID:             "current_version",
		Type:           sensors.TypeSensor,
		Name:           "Current version",
		Description:    "Current installed version of the application",
		Icon:           "mdi:android",
		DocsLink:       docsBase + "#current-version-sensor",
		EntityCategory: sensors.EntityCategoryDiagnostic,
	}

	AppRxGb = sensors.Descriptor{
		ID:             "app_rx_gb",
		Type:           sensors.TypeSensor,
		Name:           "App Rx GB",
		Description:    "Data received by the application since the device was last rebooted",
		Icon:           "mdi:radio-tower",
		Unit:           "GB",
		DocsLink:       docsBase + "#app-data-sensors",
		StateClass:     sensors.StateClassTotalIncreasing,
		EntityCategory: sensors.EntityCategoryDiagnostic,
	}

	AppTxGb = sensors.Descriptor{
		ID:             "app_tx_gb",
		Type:           sensors.TypeSensor,
		Name:           "App Tx GB",
		Description:    "Data transmitted by the application since the device was last rebooted",
		Icon:           "mdi:radio-tower",
		Unit:           "GB",
		DocsLink:       docsBase + "#app-data-sensors",
		StateClass:     sensors.StateClassTotalIncreasing,
		EntityCategory: sensors.EntityCategoryDiagnostic,
	}

	AppMemory = sensors.Descriptor{
		ID:             "app_memory",
		Type:           sensors.TypeSensor,
		Name:           "App memory",
		Description:    "Heap memory used by the application",
		Icon:           "mdi:memory",
		Unit:           "GB",
		DocsLink:       docsBase + "#app-memory-sensor",
		StateClass:     sensors.StateClassMeasurement,
		EntityCategory: sensors.EntityCategoryDiagnostic,
	}

	AppLocked = sensors.Descriptor{
		ID:             "app_locked",
		Type:           sensors.TypeBinarySensor,
		Name:           "App lock",
		Description:    "Whether the application is currently locked",
		Icon:           "mdi:lock-outline",
		DocsLink:       docsBase + "#app-lock-sensor",
		EntityCategory: sensors.EntityCategoryDiagnostic,
	}

	AppInactive = sensors.Descriptor{
		ID:             "app_inactive",
		Type:           sensors.TypeBinarySensor,
		Name:           "App inactive",
		Description:    "Whether the system currently considers the application inactive",
		Icon:           "mdi:timer-outline",
		DocsLink:       docsBase + "#app-usage-sensors",
		EntityCategory: sensors.EntityCategoryDiagnostic,
	}

	AppStandbyBucket = sensors.Descriptor{
		ID:             "app_standby_bucket",
		Type:           sensors.TypeSensor,
		Name:           "App standby bucket",
		Description:    "Standby bucket the system assigned to the application",
		Icon:           "mdi:android",
		DocsLink:       docsBase + "#app-usage-sensors",
		EntityCategory: sensors.EntityCategoryDiagnostic,
	}

	AppImportance = sensors.Descriptor{
		ID:             "app_importance",
		Type:           sensors.TypeSensor,
		Name:           "App importance",
		Description:    "Importance of the application process as seen by the system",
		Icon:           "mdi:android",
		DocsLink:       docsBase + "#app-importance-sensor",
		EntityCategory: sensors.EntityCategoryDiagnostic,
	}
)

// OS API levels at which additional sensors become available.
const (
	LevelM = 23
	LevelP = 28
)

func availableSensors(level int) []sensors.Descriptor {
	switch {
	case level >= LevelP:
		return []sensors.Descriptor{
			CurrentVersion, AppRxGb, AppTxGb, AppMemory, AppInactive, AppLocked,
			AppStandbyBucket, AppImportance,
		}
	case level >= LevelM:
		return []sensors.Descriptor{
			CurrentVersion, AppRxGb, AppTxGb, AppMemory, AppInactive, AppLocked,
			AppImportance,
		}
	default:
		return []sensors.Descriptor{CurrentVersion, AppRxGb, AppTxGb, AppMemory, AppImportance, AppLocked}
	}
}
