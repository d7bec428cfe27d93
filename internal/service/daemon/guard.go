package daemon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-ps"
)

// errAlreadyRunning indicates another wake daemon owns the alarm timers.
var errAlreadyRunning = errors.New("another instance is already running")

// ensureSingleInstance scans the process table for another copy of this
// executable. Two daemons would double-fire every alarm.
func ensureSingleInstance() error {
	executable, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}

	name := filepath.Base(executable)
	thisProcessID := os.Getpid()

	processList, err := ps.Processes()
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if process.Executable() == name {
			return fmt.Errorf("%w: pid %d", errAlreadyRunning, process.Pid())
		}
	}

	return nil
}
