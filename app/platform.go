package app

import "context"

type ProcessInfo struct {
	Pid        int32
	Name       string
	Importance int
}

type HeapStats struct {
	Total uint64
	Free  uint64
}

// Platform gives access to the OS counters the app sensors report. Every method
// queries one subsystem and may fail independently of the others.
type Platform interface {
	// SDKLevel is the OS API level, it decides which sensors are available.
	SDKLevel() int

	// UidRxBytes and UidTxBytes return the bytes transferred by the given user id.
	// A negative value means the counter is not supported.
	UidRxBytes(uid int) (int64, error)
	UidTxBytes(uid int) (int64, error)

	HeapStats() (HeapStats, error)

	IsAppInactive(packageName string) (bool, error)
	StandbyBucket() (int, error)

	// RunningProcesses may return nil if the list is unavailable.
	RunningProcesses() ([]ProcessInfo, error)
}

type SessionRepository interface {
	IsAppLocked(ctx context.Context) (bool, error)
	SessionTimeout(ctx context.Context) (int, error)
	SessionExpireMillis(ctx context.Context) (int64, error)
}

type AuthenticationRepository interface {
	IsLockEnabledRaw(ctx context.Context) (bool, error)
	IsLockHomeBypassEnabled(ctx context.Context) (bool, error)
}
