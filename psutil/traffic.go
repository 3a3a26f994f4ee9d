package psutil

import (
	"fmt"
	"os"

	psnet "github.com/shirou/gopsutil/net"
	"github.com/shirou/gopsutil/process"
)

// Linux has no per-uid traffic accounting. The counters of the network namespace of
// a process owned by the uid are reported instead.
func (p *Platform) UidRxBytes(uid int) (int64, error) {
	stat, err := uidNetCounters(uid)
	if err != nil {
		return 0, err
	}
	return int64(stat.BytesRecv), nil
}

func (p *Platform) UidTxBytes(uid int) (int64, error) {
	stat, err := uidNetCounters(uid)
	if err != nil {
		return 0, err
	}
	return int64(stat.BytesSent), nil
}

func uidNetCounters(uid int) (*psnet.IOCountersStat, error) {
	proc, err := processOfUid(uid)
	if err != nil {
		return nil, err
	}
	counters, err := proc.NetIOCounters(false)
	if err != nil {
		return nil, fmt.Errorf("Failed to read net-io counters of pid %v: %v", proc.Pid, err)
	}
	if len(counters) == 0 {
		return nil, fmt.Errorf("No net-io counters for pid %v", proc.Pid)
	}
	return &counters[0], nil
}

func processOfUid(uid int) (*process.Process, error) {
	if uid == os.Getuid() {
		return process.NewProcess(int32(os.Getpid()))
	}
	pids, err := process.Pids()
	if err != nil {
		return nil, fmt.Errorf("Failed to list PIDs: %v", err)
	}
	for _, pid := range pids {
		proc, err := process.NewProcess(pid)
		if err != nil {
			// Process does not exist anymore
			continue
		}
		uids, err := proc.Uids()
		if err != nil || len(uids) == 0 {
			continue
		}
		if int(uids[0]) == uid {
			return proc, nil
		}
	}
	return nil, fmt.Errorf("No process running with uid %v", uid)
}
