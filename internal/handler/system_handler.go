package handler

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/codeadapt/learn-gateway/internal/config"
	"github.com/codeadapt/learn-gateway/internal/progress"
	"github.com/codeadapt/learn-gateway/internal/response"
	"github.com/codeadapt/learn-gateway/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const statusTimeout = 2 * time.Second

// SystemHandler reports process and gateway state for operators.
type SystemHandler struct {
	rdb       *redis.Client
	sessions  *session.Manager
	store     *progress.Store
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler. rdb may be nil when no queue is in use.
func NewSystemHandler(rdb *redis.Client, sessions *session.Manager, store *progress.Store) *SystemHandler {
	return &SystemHandler{
		rdb:       rdb,
		sessions:  sessions,
		store:     store,
		startTime: time.Now(),
	}
}

type systemStatus struct {
	Timestamp int64  `json:"timestamp"`
	Uptime    string `json:"uptime"`

	// Go Application
	Goroutines  int    `json:"goroutines"`
	HeapAlloc   uint64 `json:"heap_alloc"`
	HeapSys     uint64 `json:"heap_sys"`
	NumGC       uint32 `json:"num_gc"`
	AppRSSBytes uint64 `json:"app_rss_bytes"`
	GoVersion   string `json:"go_version"`

	// Gateway
	ActiveSessions   int   `json:"active_sessions"`
	ProgressDegraded bool  `json:"progress_degraded"`
	QueueReports     int64 `json:"queue_reports"`
}

// Status godoc
// GET /api/v1/system/status
func (h *SystemHandler) Status(c *gin.Context) {
	response.Success(c, http.StatusOK, h.collect(c.Request.Context()))
}

func (h *SystemHandler) collect(ctx context.Context) systemStatus {
	s := systemStatus{
		Timestamp: time.Now().Unix(),
		Uptime:    formatDuration(time.Since(h.startTime)),
		GoVersion: runtime.Version(),
	}

	// ── Go Runtime ──
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	s.Goroutines = runtime.NumGoroutine()
	s.HeapAlloc = ms.HeapAlloc
	s.HeapSys = ms.Sys
	s.NumGC = ms.NumGC

	// ── App RSS ──
	s.AppRSSBytes, _ = readProcessRSS()

	// ── Gateway ──
	if h.sessions != nil {
		s.ActiveSessions = h.sessions.Len()
	}
	if h.store != nil {
		s.ProgressDegraded = h.store.Degraded()
	}
	if h.rdb != nil {
		qctx, cancel := context.WithTimeout(ctx, statusTimeout)
		defer cancel()
		s.QueueReports, _ = h.rdb.LLen(qctx, config.WorkerKey.ReportProgressQueue).Result()
	}

	return s
}

// readProcessRSS reads VmRSS from /proc/self/status.
func readProcessRSS() (uint64, error) {
	f, err := os.Open("/proc/self/status")
	if err != nil {
		return 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "VmRSS:") {
			// Format: "VmRSS:	   12345 kB"
			fields := strings.Fields(line)
			if len(fields) < 2 {
				return 0, fmt.Errorf("unexpected VmRSS line %q", line)
			}
			val, _ := strconv.ParseUint(fields[1], 10, 64)
			return val * 1024, nil
		}
	}
	return 0, fmt.Errorf("VmRSS not found")
}

func formatDuration(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}
