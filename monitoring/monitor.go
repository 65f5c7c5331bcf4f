// Package monitoring turns an evaluation run into a small web server that
// exposes the evaluated levels and the resources of the process.
package monitoring

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"sync"
	"time"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/rs/xid"
	"github.com/sarchlab/bufeval/buffer"
	"github.com/sarchlab/bufeval/hooking"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"
)

// Monitor keeps the latest evaluation of every registered level and serves it
// over HTTP.
type Monitor struct {
	portNumber int
	listener   net.Listener

	lock    sync.Mutex
	levels  []*buffer.Level
	results map[string]*Result

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// Result is the most recent evaluation of a level.
type Result struct {
	Level      string        `json:"level"`
	Success    bool          `json:"success"`
	FailReason string        `json:"fail_reason,omitempty"`
	Stats      *buffer.Stats `json:"stats"`
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{
		results: make(map[string]*Result),
	}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterLevel makes the level visible to the monitor and records its
// evaluations.
func (m *Monitor) RegisterLevel(l *buffer.Level) {
	m.lock.Lock()
	defer m.lock.Unlock()

	for _, registered := range m.levels {
		if registered == l {
			return
		}
	}

	m.levels = append(m.levels, l)
	l.AcceptHook(m)
}

// Func captures the stats of evaluations.
func (m *Monitor) Func(ctx hooking.HookCtx) {
	if ctx.Pos != buffer.HookPosEvaluated {
		return
	}

	stats := ctx.Item.(*buffer.Stats)
	status := ctx.Detail.(buffer.EvalStatus)

	m.lock.Lock()
	defer m.lock.Unlock()

	m.results[stats.Level] = &Result{
		Level:      stats.Level,
		Success:    status.Success,
		FailReason: status.FailReason,
		Stats:      stats,
	}
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        xid.New().String(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar to be shown on the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// Router returns the handler that serves the monitoring API.
func (m *Monitor) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/list_levels", m.listLevels)
	r.HandleFunc("/api/level/{name}", m.levelDetails)
	r.HandleFunc("/api/result/{name}", m.levelResult)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)

	return r
}

// StartServer starts the monitor as a web server and returns the port it
// listens on.
func (m *Monitor) StartServer() int {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	m.listener = listener
	port := listener.Addr().(*net.TCPAddr).Port

	fmt.Fprintf(os.Stderr,
		"Monitoring evaluation with http://localhost:%d\n", port)

	router := m.Router()
	go func() {
		err := http.Serve(listener, router)
		if err != nil && !errors.Is(err, net.ErrClosed) {
			log.Panic(err)
		}
	}()

	return port
}

// StopServer closes the listener opened by StartServer.
func (m *Monitor) StopServer() error {
	if m.listener == nil {
		return nil
	}

	return m.listener.Close()
}

// OpenInBrowser opens the result page of a level in the default browser.
func (m *Monitor) OpenInBrowser(port int, level string) error {
	url := fmt.Sprintf("http://localhost:%d/api/result/%s", port, level)
	return browser.OpenURL(url)
}

func (m *Monitor) listLevels(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	names := make([]string, 0, len(m.levels))
	for _, l := range m.levels {
		names = append(names, l.Name())
	}
	m.lock.Unlock()

	writeJSON(w, names)
}

func (m *Monitor) levelDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	level := m.findLevelOr404(w, name)
	if level == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(level)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

func (m *Monitor) levelResult(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	if m.findLevelOr404(w, name) == nil {
		return
	}

	m.lock.Lock()
	result, found := m.results[name]
	m.lock.Unlock()

	if !found {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, result)
}

func (m *Monitor) findLevelOr404(
	w http.ResponseWriter,
	name string,
) *buffer.Level {
	m.lock.Lock()
	defer m.lock.Unlock()

	for _, l := range m.levels {
		if l.Name() == name {
			return l
		}
	}

	w.WriteHeader(http.StatusNotFound)
	_, err := w.Write([]byte("Level not found"))
	dieOnErr(err)

	return nil
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	writeJSON(w, m.progressBars)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
