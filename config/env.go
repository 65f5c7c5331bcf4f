package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables read by LoadEnv.
const (
	EnvRecord      = "BUFEVAL_RECORD"
	EnvMonitorPort = "BUFEVAL_MONITOR_PORT"
)

// Env holds the defaults that can be set in the environment or a .env file.
type Env struct {
	// RecordPath is the database to record evaluations into. Empty disables
	// recording.
	RecordPath string

	// MonitorPort is the port of the monitoring server. 0 disables the
	// server.
	MonitorPort int
}

// LoadEnv reads the given .env files, if they exist, and then the process
// environment. Variables already set in the environment win.
func LoadEnv(filenames ...string) (Env, error) {
	for _, f := range filenames {
		err := godotenv.Load(f)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Env{}, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	env := Env{
		RecordPath: os.Getenv(EnvRecord),
	}

	if port := os.Getenv(EnvMonitorPort); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil || p < 0 || p > 65535 {
			return env, fmt.Errorf("%s: invalid port %q", EnvMonitorPort, port)
		}

		env.MonitorPort = p
	}

	return env, nil
}
