// Package introspect 提供本地诊断 HTTP 服务
//
// 默认绑定到 127.0.0.1，不暴露到网络。
//
// 端点：
//   - GET /debug/connlog            - 完整诊断报告 (JSON)
//   - GET /debug/connlog/stats      - 记录器状态
//   - GET /debug/connlog/recent?n=N - 最近交付的记录
//   - GET /debug/connlog/bandwidth  - 按介质的载荷流量
//   - GET /metrics                  - Prometheus 指标
//   - GET /health                   - 健康检查
//   - GET /debug/pprof/*            - Go pprof 端点
package introspect

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/pprof"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dep2p/go-connlog/internal/core/analytics"
	"github.com/dep2p/go-connlog/internal/core/eventlog"
	"github.com/dep2p/go-connlog/internal/core/metrics"
	"github.com/dep2p/go-connlog/pkg/lib/log"
)

var logger = log.Logger("core/introspect")

// DefaultAddr 默认监听地址
const DefaultAddr = "127.0.0.1:6061"

// defaultRecent /debug/connlog/recent 默认返回条数
const defaultRecent = 10

// StatsSource 记录器状态来源
type StatsSource interface {
	Stats() analytics.Stats
}

// Config 服务配置
type Config struct {
	// Addr 监听地址，默认 DefaultAddr
	Addr string

	// Recorder 必需的记录器
	Recorder StatsSource

	// Memory 可选的内存事件汇
	Memory *eventlog.MemoryLogger

	// Archive 可选的归档事件汇
	Archive *eventlog.StoreLogger

	// Bandwidth 可选的流量统计
	Bandwidth metrics.Reporter

	// Gatherer 可选的指标来源，为 nil 时使用默认注册表
	Gatherer prometheus.Gatherer
}

// Server 本地诊断 HTTP 服务
type Server struct {
	cfg  Config
	addr string

	server   *http.Server
	listener net.Listener

	running bool
	mu      sync.Mutex
}

// New 创建诊断服务
func New(cfg Config) *Server {
	addr := cfg.Addr
	if addr == "" {
		addr = DefaultAddr
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}
	return &Server{cfg: cfg, addr: addr}
}

// Handler 返回服务的路由
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/debug/connlog", s.handleReport)
	mux.HandleFunc("/debug/connlog/stats", s.handleStats)
	mux.HandleFunc("/debug/connlog/recent", s.handleRecent)
	mux.HandleFunc("/debug/connlog/bandwidth", s.handleBandwidth)
	mux.Handle("/metrics", promhttp.HandlerFor(s.cfg.Gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", s.handleHealth)

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	return mux
}

// Start 启动服务
func (s *Server) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = listener
	s.server = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("诊断服务异常退出", "error", err)
		}
	}()

	s.running = true
	logger.Info("诊断服务已启动", "addr", listener.Addr().String())
	return nil
}

// Stop 停止服务
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		logger.Error("关闭诊断服务失败", "error", err)
		return err
	}
	s.running = false
	logger.Info("诊断服务已停止")
	return nil
}

// Addr 返回实际监听地址
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// ============================================================================
//                              HTTP 处理器
// ============================================================================

// Report 完整诊断报告
type Report struct {
	Recorder  analytics.Stats          `json:"recorder"`
	Delivered uint64                   `json:"delivered"`
	Archive   *ArchiveInfo             `json:"archive,omitempty"`
	Bandwidth *metrics.Stats           `json:"bandwidth,omitempty"`
	ByMedium  map[string]metrics.Stats `json:"by_medium,omitempty"`
}

// ArchiveInfo 归档状态
type ArchiveInfo struct {
	LastSeq uint64 `json:"last_seq"`
	Records int64  `json:"records"`
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	report := Report{Recorder: s.cfg.Recorder.Stats()}
	if s.cfg.Memory != nil {
		report.Delivered = s.cfg.Memory.Total()
	}
	if s.cfg.Archive != nil {
		info, err := s.archiveInfo()
		if err != nil {
			logger.Warn("读取归档状态失败", "error", err)
		} else {
			report.Archive = info
		}
	}
	if s.cfg.Bandwidth != nil {
		totals := s.cfg.Bandwidth.Totals()
		report.Bandwidth = &totals
		report.ByMedium = byMedium(s.cfg.Bandwidth)
	}
	s.writeJSON(w, report)
}

func (s *Server) archiveInfo() (*ArchiveInfo, error) {
	last, err := s.cfg.Archive.LastSeq()
	if err != nil {
		return nil, err
	}
	n, err := s.cfg.Archive.Count()
	if err != nil {
		return nil, err
	}
	return &ArchiveInfo{LastSeq: last, Records: n}, nil
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	s.writeJSON(w, s.cfg.Recorder.Stats())
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	if s.cfg.Memory == nil {
		http.Error(w, "recent records not available", http.StatusNotFound)
		return
	}

	n := defaultRecent
	if v := r.URL.Query().Get("n"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			http.Error(w, "invalid n", http.StatusBadRequest)
			return
		}
		n = parsed
	}
	s.writeJSON(w, s.cfg.Memory.Latest(n))
}

func (s *Server) handleBandwidth(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	if s.cfg.Bandwidth == nil {
		http.Error(w, "bandwidth metrics disabled", http.StatusNotFound)
		return
	}
	s.writeJSON(w, byMedium(s.cfg.Bandwidth))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

func byMedium(r metrics.Reporter) map[string]metrics.Stats {
	out := make(map[string]metrics.Stats)
	for m, st := range r.ByMedium() {
		out[m.String()] = st
	}
	return out
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// writeJSON 写入 JSON 响应
func (s *Server) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		logger.Error("JSON 编码失败", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
