package analytics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/dep2p/go-connlog/pkg/interfaces"
	"github.com/dep2p/go-connlog/pkg/lib/log"
	"github.com/dep2p/go-connlog/pkg/types"
)

var logger = log.Logger("core/analytics")

// RecordVersion 记录格式版本
const RecordVersion = "1"

// 确保 Recorder 实现 interfaces.Recorder 接口
var _ interfaces.Recorder = (*Recorder)(nil)

// ============================================================================
//                              Recorder - 连接生命周期记录器
// ============================================================================

// Recorder 连接生命周期记录器
//
// 一个 Recorder 对应一个客户端会话：LogSession 成功后不再接受任何上报。
type Recorder struct {
	sink       interfaces.EventLogger
	clock      clock.Clock
	cfg        Config
	dispatcher *dispatcher

	dropLimiter  *rate.Limiter
	droppedCalls atomic.Uint64

	mu sync.RWMutex

	sessionID          string
	sessionStart       time.Time
	startSessionLogged bool
	// sessionLogged 在写锁内置位，允许无锁读取
	sessionLogged atomic.Bool

	// 已结束的策略会话
	strategySessions []types.StrategySessionRecord
	currentStrategy  types.Strategy
	current          *strategySession

	incomingRequests map[string]*connectionRequest
	outgoingRequests map[string]*connectionRequest
	connections      map[string]*logicalConnection
	upgrades         map[string]*upgradeAttempt

	// seq 为请求与连接分配创建序号，强制结束时按序号输出
	seq uint64
}

// Option 记录器选项
type Option func(*Recorder)

// WithClock 设置时钟
func WithClock(c clock.Clock) Option {
	return func(r *Recorder) {
		if c != nil {
			r.clock = c
		}
	}
}

// WithConfig 设置配置
func WithConfig(cfg Config) Option {
	return func(r *Recorder) {
		r.cfg = cfg
	}
}

// WithNoRecordTime 所有时长记为 0
//
// 用于需要确定性输出的测试。
func WithNoRecordTime() Option {
	return func(r *Recorder) {
		r.cfg.NoRecordTime = true
	}
}

// New 创建记录器
//
// sink 为 nil 时记录器仍可调用，但所有上报都会被丢弃。
func New(sink interfaces.EventLogger, opts ...Option) *Recorder {
	r := &Recorder{
		sink:             sink,
		clock:            clock.New(),
		cfg:              DefaultConfig(),
		incomingRequests: make(map[string]*connectionRequest),
		outgoingRequests: make(map[string]*connectionRequest),
		connections:      make(map[string]*logicalConnection),
		upgrades:         make(map[string]*upgradeAttempt),
	}
	for _, opt := range opts {
		opt(r)
	}

	limit := rate.Inf
	if r.cfg.DropLogInterval > 0 {
		limit = rate.Every(r.cfg.DropLogInterval)
	}
	r.dropLimiter = rate.NewLimiter(limit, 1)

	r.sessionID = uuid.NewString()
	r.sessionStart = r.clock.Now()
	r.dispatcher = newDispatcher(sink)

	logger.Debug("创建记录器", "session", r.sessionID, "noRecordTime", r.cfg.NoRecordTime)
	return r
}

// SessionID 返回客户端会话 ID
func (r *Recorder) SessionID() string {
	return r.sessionID
}

// ============================================================================
//                              守卫与时间
// ============================================================================

// canRecordLocked 检查当前是否允许记录
//
// 调用方必须持有锁。返回 false 时调用被静默丢弃。
func (r *Recorder) canRecordLocked(method string) bool {
	switch {
	case r.sink == nil:
		r.drop(method, "no event logger")
	case !r.cfg.Enabled:
		r.drop(method, "recording disabled")
	case r.sessionLogged.Load():
		r.drop(method, "session already logged")
	default:
		return true
	}
	return false
}

// drop 记录一次被丢弃的上报
func (r *Recorder) drop(method, reason string) {
	r.droppedCalls.Add(1)
	if r.dropLimiter.Allow() {
		logger.Debug("丢弃上报", "method", method, "reason", reason)
	}
}

func (r *Recorder) now() time.Time {
	return r.clock.Now()
}

// since 返回从 t 到现在的时长，NoRecordTime 时为 0
func (r *Recorder) since(t time.Time) time.Duration {
	if r.cfg.NoRecordTime {
		return 0
	}
	return r.clock.Since(t)
}

// between 返回两个时刻之间的时长，NoRecordTime 时为 0
func (r *Recorder) between(from, to time.Time) time.Duration {
	if r.cfg.NoRecordTime || to.Before(from) {
		return 0
	}
	return to.Sub(from)
}

func (r *Recorder) nextSeq() uint64 {
	r.seq++
	return r.seq
}

// ============================================================================
//                              会话
// ============================================================================

// LogStartSession 记录会话开始
//
// 只有第一次调用生效：重置会话起点，并向事件汇投递 StartClientSession 事件。
func (r *Recorder) LogStartSession() {
	r.mu.Lock()
	if !r.canRecordLocked("LogStartSession") || r.startSessionLogged {
		r.mu.Unlock()
		return
	}
	r.startSessionLogged = true
	r.sessionStart = r.now()
	record := &types.ConnectionsLog{
		EventType: types.EventTypeStartClientSession,
		Version:   RecordVersion,
		ClientSession: &types.ClientSessionRecord{
			SessionID: r.sessionID,
		},
	}
	r.mu.Unlock()

	r.submit(record)
}

// LogSession 结束会话并投递完整记录
//
// 结束当前策略会话（及其未关闭的阶段、连接、载荷、升级），在锁内构造
// 不可变记录并置位 logged 标志，释放锁后异步投递。第二次调用是空操作。
func (r *Recorder) LogSession() {
	r.mu.Lock()
	if !r.canRecordLocked("LogSession") {
		r.mu.Unlock()
		return
	}

	r.finishStrategySessionLocked()

	record := &types.ConnectionsLog{
		EventType: types.EventTypeClientSession,
		Version:   RecordVersion,
		ClientSession: &types.ClientSessionRecord{
			SessionID:        r.sessionID,
			Duration:         r.since(r.sessionStart),
			StrategySessions: r.strategySessions,
		},
	}
	r.strategySessions = nil
	r.sessionLogged.Store(true)
	r.mu.Unlock()

	logger.Debug("会话已结束", "session", r.sessionID,
		"strategySessions", len(record.ClientSession.StrategySessions))
	r.submit(record)
}

// IsSessionLogged 报告会话是否已记录
func (r *Recorder) IsSessionLogged() bool {
	return r.sessionLogged.Load()
}

// OnErrorCode 立即投递一条独立错误码记录
func (r *Recorder) OnErrorCode(params types.ErrorCodeParams) {
	r.mu.Lock()
	ok := r.canRecordLocked("OnErrorCode")
	r.mu.Unlock()
	if !ok {
		return
	}

	r.submit(&types.ConnectionsLog{
		EventType: types.EventTypeErrorCode,
		Version:   RecordVersion,
		ErrorCode: &types.ErrorCodeRecord{
			Event:           params.Event,
			Description:     params.Description,
			Medium:          params.Medium,
			ResultCode:      params.ResultCode,
			ConnectionToken: params.ConnectionToken,
		},
	})
}

// OperationResultCategory 对结果码分类
func (r *Recorder) OperationResultCategory(code types.OperationResultCode) types.OperationResultCategory {
	return types.CategoryOf(code)
}

func (r *Recorder) submit(record *types.ConnectionsLog) {
	if !r.dispatcher.submit(flushTask{record: record, eventType: record.EventType}) {
		r.drop(record.EventType.String(), "recorder closed")
	}
}

// Sync 阻塞直到此前提交的所有投递任务完成
func (r *Recorder) Sync() {
	r.dispatcher.drain()
}

// Close 等待已提交的投递完成并停止后台 worker
//
// Close 不会结束会话；需要输出会话时应先调用 LogSession。
func (r *Recorder) Close() error {
	r.dispatcher.close()
	return nil
}

// ============================================================================
//                              只读推导
// ============================================================================

// Stats 记录器状态快照
type Stats struct {
	SessionID                string `json:"session_id"`
	SessionLogged            bool   `json:"session_logged"`
	Strategy                 string `json:"strategy"`
	FinishedStrategySessions int    `json:"finished_strategy_sessions"`
	ActiveConnections        int    `json:"active_connections"`
	PendingRequests          int    `json:"pending_requests"`
	PendingPayloads          int    `json:"pending_payloads"`
	PendingUpgrades          int    `json:"pending_upgrades"`
	PendingFlushes           int    `json:"pending_flushes"`
	FailedFlushes            uint64 `json:"failed_flushes"`
	DroppedCalls             uint64 `json:"dropped_calls"`
}

// Stats 返回状态快照
func (r *Recorder) Stats() Stats {
	r.mu.RLock()
	s := Stats{
		SessionID:                r.sessionID,
		SessionLogged:            r.sessionLogged.Load(),
		Strategy:                 r.currentStrategy.String(),
		FinishedStrategySessions: len(r.strategySessions),
		ActiveConnections:        len(r.connections),
		PendingRequests:          len(r.incomingRequests) + len(r.outgoingRequests),
	}
	for _, lc := range r.connections {
		s.PendingPayloads += len(lc.incoming) + len(lc.outgoing)
	}
	for _, ua := range r.upgrades {
		if !ua.finished {
			s.PendingUpgrades++
		}
	}
	r.mu.RUnlock()

	s.PendingFlushes = r.dispatcher.pending()
	s.FailedFlushes = r.dispatcher.failures()
	s.DroppedCalls = r.droppedCalls.Load()
	return s
}
