package trampoline

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DefaultConfigFile is the configuration file read from the working
// directory (the runner script has already changed to the install-time
// directory by the time the trampoline starts).
const DefaultConfigFile = "cron-trampoline.conf"

// DefaultRotate is the number of rotated log backups retained when the
// ROTATE directive is absent.
const DefaultRotate = 7

// Config holds the trampoline directives.
type Config struct {
	LogTemplate string // LOG=, mandatory strftime-style directory template
	Notify      string // NOTIFY=, optional shell command run on failure
	Rotate      int    // ROTATE=, maximum retained log backups
}

// LoadConfig reads the directive file at path. Blank lines and lines
// starting with # are ignored; anything else must be one of the three
// KEY=VALUE directives. The LOG directive is mandatory.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trampoline config %s: %w", path, err)
	}
	defer f.Close()

	cfg := &Config{Rotate: DefaultRotate}
	seenLog := false
	scanner := bufio.NewScanner(f)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("%s:%d: not a directive: %s", path, lineno, line)
		}
		switch key {
		case "LOG":
			cfg.LogTemplate = value
			seenLog = true
		case "NOTIFY":
			cfg.Notify = value
		case "ROTATE":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%s:%d: ROTATE must be a non-negative integer: %s", path, lineno, value)
			}
			cfg.Rotate = n
		default:
			return nil, fmt.Errorf("%s:%d: unknown directive %s", path, lineno, key)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trampoline config %s: %w", path, err)
	}
	if !seenLog {
		return nil, fmt.Errorf("%s: missing mandatory LOG directive", path)
	}
	return cfg, nil
}
