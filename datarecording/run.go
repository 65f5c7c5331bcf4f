package datarecording

import (
	"os"
	"strings"
	"time"
)

// RunTable is the table that holds the properties of recorded runs.
const RunTable = "run_info"

const runTimeFormat = "2006-01-02 15:04:05.000000000"

// RunInfo is one property of a run.
type RunInfo struct {
	Property string
	Value    string
}

// RunRecorder records how a run was invoked next to its results.
type RunRecorder struct {
	recorder DataRecorder
	entries  []RunInfo
}

// NewRunRecorder creates the run table in the recorder.
func NewRunRecorder(recorder DataRecorder) *RunRecorder {
	recorder.CreateTable(RunTable, RunInfo{})

	return &RunRecorder{recorder: recorder}
}

// Start remembers the start time, the command line and the working
// directory.
func (r *RunRecorder) Start() {
	r.Set("Start Time", time.Now().Format(runTimeFormat))
	r.Set("Command", strings.Join(os.Args, " "))

	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}

	r.Set("Working Directory", cwd)
}

// Set remembers a property of the run.
func (r *RunRecorder) Set(property, value string) {
	r.entries = append(r.entries, RunInfo{Property: property, Value: value})
}

// End writes the remembered properties along with the end time.
func (r *RunRecorder) End() {
	r.Set("End Time", time.Now().Format(runTimeFormat))

	for _, entry := range r.entries {
		r.recorder.InsertData(RunTable, entry)
	}

	r.entries = nil

	r.recorder.Flush()
}
