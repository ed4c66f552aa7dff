package trampoline

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// RotateLog shifts <name>.log and its numbered backups one position up,
// keeping at most keep backups. With keep=2: log -> log.1 -> log.2, and
// anything older is removed. keep=0 simply deletes the current log.
func RotateLog(dir, name string, keep int) error {
	logPath := filepath.Join(dir, name+".log")

	// Drop backups at or beyond the retention limit, including strays
	// left over from a larger previous ROTATE setting.
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read log directory %s: %w", dir, err)
	}
	prefix := name + ".log."
	for _, entry := range entries {
		suffix, ok := strings.CutPrefix(entry.Name(), prefix)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(suffix)
		if err != nil {
			continue
		}
		if n >= keep {
			if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
				return fmt.Errorf("failed to remove old log backup: %w", err)
			}
		}
	}

	if keep == 0 {
		if err := os.Remove(logPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove log file: %w", err)
		}
		return nil
	}

	for i := keep - 1; i >= 1; i-- {
		from := logPath + "." + strconv.Itoa(i)
		to := logPath + "." + strconv.Itoa(i+1)
		if err := rename(from, to); err != nil {
			return err
		}
	}
	return rename(logPath, logPath+".1")
}

func rename(from, to string) error {
	err := os.Rename(from, to)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to rotate log file: %w", err)
	}
	return nil
}
