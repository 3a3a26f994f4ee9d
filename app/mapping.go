package app

// Standby bucket codes reported by the platform usage statistics.
const (
	StandbyBucketActive     = 10
	StandbyBucketWorkingSet = 20
	StandbyBucketFrequent   = 30
	StandbyBucketRare       = 40
	StandbyBucketRestricted = 45
	StandbyBucketNever      = 50
)

// Process importance codes reported with the running processes.
const (
	ImportanceForeground        = 100
	ImportanceForegroundService = 125
	ImportanceVisible           = 200
	ImportancePerceptible       = 230
	ImportanceService           = 300
	ImportanceTopSleeping       = 325
	ImportanceCantSaveState     = 350
	ImportanceCached            = 400
	ImportanceGone              = 1000
	ImportanceNone              = 0
)

const (
	BucketNever       = "never"
	ImportanceUnknown = "not_running"
)

var standbyBuckets = map[int]string{
	StandbyBucketActive:     "active",
	StandbyBucketFrequent:   "frequent",
	StandbyBucketRare:       "rare",
	StandbyBucketRestricted: "restricted",
	StandbyBucketWorkingSet: "working_set",
}

var importances = map[int]string{
	ImportanceCached:            "cached",
	ImportanceCantSaveState:     "cant_save_state",
	ImportanceForeground:        "foreground",
	ImportanceForegroundService: "foreground_service",
	ImportanceGone:              "gone",
	ImportancePerceptible:       "perceptible",
	ImportanceService:           "service",
	ImportanceTopSleeping:       "top_sleeping",
	ImportanceVisible:           "visible",
}

// StandbyBucketLabel maps every bucket code to a label, "never" for unknown codes.
func StandbyBucketLabel(bucket int) string {
	if label, ok := standbyBuckets[bucket]; ok {
		return label
	}
	return BucketNever
}

// ImportanceLabel maps every importance code to a label, "not_running" for unknown codes.
func ImportanceLabel(importance int) string {
	if label, ok := importances[importance]; ok {
		return label
	}
	return ImportanceUnknown
}
