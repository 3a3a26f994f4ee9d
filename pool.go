package sensors

import (
	"sync"

	"github.com/antongulenko/golib"
)

type UpdateTask func() error

type TaskPolicy int

const (
	TasksSequential = TaskPolicy(0)
	TasksParallel   = TaskPolicy(1)
)

func (p TaskPolicy) String() string {
	switch p {
	case TasksParallel:
		return "parallel"
	default:
		return "sequential"
	}
}

func ParseTaskPolicy(s string) TaskPolicy {
	if s == "parallel" {
		return TasksParallel
	}
	return TasksSequential
}

// UpdateTasks always executes every task. Errors are collected and returned together.
type UpdateTasks []UpdateTask

func (pool UpdateTasks) Run(policy TaskPolicy) error {
	switch policy {
	case TasksParallel:
		return pool.RunParallel()
	default:
		return pool.RunSequential()
	}
}

func (pool UpdateTasks) RunParallel() error {
	var wg sync.WaitGroup
	var errors golib.MultiError
	var errorsLock sync.Mutex
	wg.Add(len(pool))
	for _, task := range pool {
		go func(task UpdateTask) {
			defer wg.Done()
			err := task()
			errorsLock.Lock()
			defer errorsLock.Unlock()
			errors.Add(err)
		}(task)
	}
	wg.Wait()
	return errors.NilOrError()
}

func (pool UpdateTasks) RunSequential() error {
	var errors golib.MultiError
	for _, task := range pool {
		errors.Add(task())
	}
	return errors.NilOrError()
}
