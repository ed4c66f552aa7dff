package crontab

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// Store is the external crontab text, owned outside this process. The
// synchronizer only ever computes new text from old text; it never assumes
// exclusive access.
type Store interface {
	Read() (string, error)
	Write(content string) error
}

// SystemStore reads and writes the invoking user's crontab through the
// crontab(1) command.
type SystemStore struct{}

// Read returns the current crontab text. A user without a crontab reads as
// empty: crontab -l exits nonzero with nothing on stdout in that case.
func (SystemStore) Read() (string, error) {
	cmd := exec.Command("crontab", "-l")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		if out.Len() == 0 {
			return "", nil
		}
		return "", fmt.Errorf("failed to read crontab: %w", err)
	}
	return out.String(), nil
}

// Write replaces the whole crontab with content.
func (SystemStore) Write(content string) error {
	cmd := exec.Command("crontab", "-")
	cmd.Stdin = strings.NewReader(content)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to write crontab: %w", err)
	}
	return nil
}
