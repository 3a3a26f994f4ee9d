package psutil

import (
	"fmt"

	"github.com/bitflow-stream/go-app-sensors/app"
	"github.com/shirou/gopsutil/process"
	log "github.com/sirupsen/logrus"
)

// Importance of a process, derived from the state letter in /proc/<pid>/stat.
var stateImportance = map[string]int{
	"R": app.ImportanceForeground,
	"D": app.ImportancePerceptible,
	"S": app.ImportanceService,
	"I": app.ImportanceService,
	"T": app.ImportanceCached,
	"t": app.ImportanceCached,
	"Z": app.ImportanceGone,
	"X": app.ImportanceGone,
}

func ImportanceOfState(state string) int {
	if importance, ok := stateImportance[state]; ok {
		return importance
	}
	return app.ImportanceNone
}

func (p *Platform) RunningProcesses() ([]app.ProcessInfo, error) {
	pids, err := process.Pids()
	if err != nil {
		return nil, fmt.Errorf("Failed to update PIDs: %v", err)
	}
	errors := 0
	result := make([]app.ProcessInfo, 0, len(pids))
	for _, pid := range pids {
		proc, err := process.NewProcess(pid)
		if err != nil {
			// Process does not exist anymore
			errors++
			continue
		}
		name, err := proc.Name()
		if err != nil {
			// Probably a permission error
			errors++
			continue
		}
		state, err := proc.Status()
		if err != nil {
			errors++
			continue
		}
		result = append(result, app.ProcessInfo{
			Pid:        pid,
			Name:       name,
			Importance: ImportanceOfState(state),
		})
	}
	if errors > 0 {
		log.Debugln("Failed to check", errors, "out of", len(pids), "PIDs")
	}
	return result, nil
}
