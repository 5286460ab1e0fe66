package analytics

import (
	"sort"
	"time"

	"github.com/dep2p/go-connlog/pkg/types"
)

// ============================================================================
//                              logicalConnection - 逻辑连接
// ============================================================================

// physicalConnection 逻辑连接中的一段介质附着
type physicalConnection struct {
	medium      types.Medium
	token       string
	established time.Time

	closed   bool
	duration time.Duration
	reason   types.DisconnectionReason
	result   types.SafeDisconnectionResult

	sent     []types.PayloadRecord
	received []types.PayloadRecord
}

func (p *physicalConnection) toRecord() types.PhysicalConnectionRecord {
	return types.PhysicalConnectionRecord{
		Medium:                  p.medium,
		ConnectionToken:         p.token,
		Duration:                p.duration,
		DisconnectionReason:     p.reason,
		SafeDisconnectionResult: p.result,
		SentPayloads:            p.sent,
		ReceivedPayloads:        p.received,
	}
}

// logicalConnection 一个远端端点的完整连接
//
// 状态：Connected（一段或多段物理连接）→ Closed。Closed 后从 Recorder 中移除，
// 同一端点之后的 ConnectionEstablished 会创建新的实例。
type logicalConnection struct {
	seq      uint64
	episodes []*physicalConnection
	incoming map[int64]*pendingPayload
	outgoing map[int64]*pendingPayload
}

func newLogicalConnection(seq uint64, medium types.Medium, token string, now time.Time) *logicalConnection {
	return &logicalConnection{
		seq:      seq,
		episodes: []*physicalConnection{{medium: medium, token: token, established: now}},
		incoming: make(map[int64]*pendingPayload),
		outgoing: make(map[int64]*pendingPayload),
	}
}

// currentEpisode 返回最近一段打开的物理连接，全部关闭时返回最后一段
func (lc *logicalConnection) currentEpisode() *physicalConnection {
	for i := len(lc.episodes) - 1; i >= 0; i-- {
		if !lc.episodes[i].closed {
			return lc.episodes[i]
		}
	}
	return lc.episodes[len(lc.episodes)-1]
}

// openEpisode 返回该介质最近一段打开的物理连接
func (lc *logicalConnection) openEpisode(medium types.Medium) *physicalConnection {
	for i := len(lc.episodes) - 1; i >= 0; i-- {
		ep := lc.episodes[i]
		if !ep.closed && ep.medium == medium {
			return ep
		}
	}
	return nil
}

func (lc *logicalConnection) hasOpenEpisode() bool {
	for _, ep := range lc.episodes {
		if !ep.closed {
			return true
		}
	}
	return false
}

func (lc *logicalConnection) toRecord() types.LogicalConnectionRecord {
	physical := make([]types.PhysicalConnectionRecord, 0, len(lc.episodes))
	for _, ep := range lc.episodes {
		physical = append(physical, ep.toRecord())
	}
	return types.LogicalConnectionRecord{PhysicalConnections: physical}
}

// ============================================================================
//                              连接上报
// ============================================================================

// ConnectionEstablished 物理连接建立
//
// 端点没有逻辑连接时新建；已有时视为带宽升级：当前物理连接以 Upgraded 结束，
// 进行中的载荷在旧连接上记为 MovedToNewMedium 并在新连接上重新计数。
// 同一介质已经打开时是空操作。
func (r *Recorder) ConnectionEstablished(endpointID string, medium types.Medium, token string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.canRecordLocked("ConnectionEstablished") || r.current == nil {
		return
	}

	now := r.now()
	lc, ok := r.connections[endpointID]
	if !ok {
		r.connections[endpointID] = newLogicalConnection(r.nextSeq(), medium, token, now)
		return
	}
	if lc.openEpisode(medium) != nil {
		return
	}

	if prev := lc.currentEpisode(); !prev.closed {
		r.closeEpisodeLocked(prev, types.DisconnectionReasonUpgraded, types.SafeDisconnectionUnknown, now)
		r.movePayloadsLocked(lc, prev, now)
	}
	lc.episodes = append(lc.episodes, &physicalConnection{medium: medium, token: token, established: now})
}

// ConnectionClosed 物理连接关闭
//
// 最后一段物理连接关闭后，进行中的载荷以 ConnectionClosed 结束，
// 结果码由断开原因推导，逻辑连接输出并移除。
func (r *Recorder) ConnectionClosed(endpointID string, medium types.Medium, reason types.DisconnectionReason,
	result types.SafeDisconnectionResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.canRecordLocked("ConnectionClosed") || r.current == nil {
		return
	}

	lc, ok := r.connections[endpointID]
	if !ok {
		return
	}
	ep := lc.openEpisode(medium)
	if ep == nil {
		return
	}
	r.closeEpisodeLocked(ep, reason, result, r.now())

	if lc.hasOpenEpisode() {
		return
	}
	r.resolvePayloadsLocked(lc, ep, reason)
	delete(r.connections, endpointID)
	r.current.record.Connections = append(r.current.record.Connections, lc.toRecord())
}

func (r *Recorder) closeEpisodeLocked(ep *physicalConnection, reason types.DisconnectionReason,
	result types.SafeDisconnectionResult, now time.Time) {
	ep.closed = true
	ep.duration = r.between(ep.established, now)
	ep.reason = reason
	ep.result = result
}

// movePayloadsLocked 升级时把进行中的载荷快照记录到旧连接
func (r *Recorder) movePayloadsLocked(lc *logicalConnection, prev *physicalConnection, now time.Time) {
	for _, id := range sortedPayloadIDs(lc.incoming) {
		p := lc.incoming[id]
		prev.received = append(prev.received,
			p.toRecord(types.PayloadStatusMovedToNewMedium, types.CodeDetailUnknown, r.between(p.start, now)))
		p.reset(now)
	}
	for _, id := range sortedPayloadIDs(lc.outgoing) {
		p := lc.outgoing[id]
		prev.sent = append(prev.sent,
			p.toRecord(types.PayloadStatusMovedToNewMedium, types.CodeDetailUnknown, r.between(p.start, now)))
		p.reset(now)
	}
}

// resolvePayloadsLocked 连接关闭时结束所有进行中的载荷
func (r *Recorder) resolvePayloadsLocked(lc *logicalConnection, last *physicalConnection,
	reason types.DisconnectionReason) {
	code := types.PendingPayloadResultCode(reason, last.medium)
	for _, id := range sortedPayloadIDs(lc.incoming) {
		p := lc.incoming[id]
		last.received = append(last.received, p.toRecord(types.PayloadStatusConnectionClosed, code, r.since(p.start)))
	}
	for _, id := range sortedPayloadIDs(lc.outgoing) {
		p := lc.outgoing[id]
		last.sent = append(last.sent, p.toRecord(types.PayloadStatusConnectionClosed, code, r.since(p.start)))
	}
	clear(lc.incoming)
	clear(lc.outgoing)
}

// finishOpenConnectionsLocked 策略会话结束时按建立顺序强制关闭所有连接
func (r *Recorder) finishOpenConnectionsLocked() {
	open := make([]*logicalConnection, 0, len(r.connections))
	for _, lc := range r.connections {
		open = append(open, lc)
	}
	sort.Slice(open, func(i, j int) bool { return open[i].seq < open[j].seq })

	now := r.now()
	for _, lc := range open {
		for _, ep := range lc.episodes {
			if !ep.closed {
				r.closeEpisodeLocked(ep, types.DisconnectionReasonUnfinished, types.SafeDisconnectionUnknown, now)
			}
		}
		r.resolvePayloadsLocked(lc, lc.currentEpisode(), types.DisconnectionReasonUnfinished)
		r.current.record.Connections = append(r.current.record.Connections, lc.toRecord())
	}
	clear(r.connections)
}
