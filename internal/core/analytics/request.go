package analytics

import (
	"sort"
	"time"

	"github.com/dep2p/go-connlog/pkg/types"
)

// ============================================================================
//                              connectionRequest - 连接请求握手
// ============================================================================

// connectionRequest 一个端点的请求/响应握手
//
// 请求属于策略会话而不是某个阶段：停止广播或发现后到达的响应仍会记录。
type connectionRequest struct {
	seq       uint64
	direction types.ConnectionAttemptDirection

	requestTime  time.Time
	requestDelay time.Duration

	localResponse      types.ConnectionRequestResponse
	localResponseTime  time.Time
	remoteResponse     types.ConnectionRequestResponse
	remoteResponseTime time.Time
}

func (c *connectionRequest) bothResponded() bool {
	return c.localResponse.Responded() && c.remoteResponse.Responded()
}

// RequestConnection 本地发起连接请求
func (r *Recorder) RequestConnection(strategy types.Strategy, endpointID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.canRecordLocked("RequestConnection") {
		return
	}
	r.updateStrategySessionLocked(strategy, types.RoleDiscoverer)
	r.ensureRequestLocked(r.outgoingRequests, endpointID, types.AttemptDirectionOutgoing)
}

// ConnectionRequestReceived 收到远端连接请求
func (r *Recorder) ConnectionRequestReceived(endpointID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.canRecordLocked("ConnectionRequestReceived") || r.current == nil {
		return
	}
	r.ensureRequestLocked(r.incomingRequests, endpointID, types.AttemptDirectionIncoming)
}

// ConnectionRequestSent 连接请求已发出
//
// 双方都未响应时，请求时刻更新为发送时刻。
func (r *Recorder) ConnectionRequestSent(endpointID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.canRecordLocked("ConnectionRequestSent") || r.current == nil {
		return
	}
	req := r.ensureRequestLocked(r.outgoingRequests, endpointID, types.AttemptDirectionOutgoing)
	if req.localResponse == types.ResponseUnknown && req.remoteResponse == types.ResponseUnknown {
		req.requestTime = r.now()
		req.requestDelay = r.requestDelayLocked(types.AttemptDirectionOutgoing, req.requestTime)
	}
}

// RemoteEndpointAccepted 远端接受连接
func (r *Recorder) RemoteEndpointAccepted(endpointID string) {
	r.respond("RemoteEndpointAccepted", endpointID, false, types.ResponseAccepted)
}

// RemoteEndpointRejected 远端拒绝连接
func (r *Recorder) RemoteEndpointRejected(endpointID string) {
	r.respond("RemoteEndpointRejected", endpointID, false, types.ResponseRejected)
}

// LocalEndpointAccepted 本地接受连接
func (r *Recorder) LocalEndpointAccepted(endpointID string) {
	r.respond("LocalEndpointAccepted", endpointID, true, types.ResponseAccepted)
}

// LocalEndpointRejected 本地拒绝连接
func (r *Recorder) LocalEndpointRejected(endpointID string) {
	r.respond("LocalEndpointRejected", endpointID, true, types.ResponseRejected)
}

// respond 在该端点的入站与出站请求上记录一侧的响应
//
// 同一侧重复响应覆盖旧值；双方都响应后请求结束。
func (r *Recorder) respond(method, endpointID string, local bool, response types.ConnectionRequestResponse) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.canRecordLocked(method) {
		return
	}

	now := r.now()
	for _, requests := range []map[string]*connectionRequest{r.incomingRequests, r.outgoingRequests} {
		req, ok := requests[endpointID]
		if !ok {
			continue
		}
		if local {
			req.localResponse = response
			req.localResponseTime = now
		} else {
			req.remoteResponse = response
			req.remoteResponseTime = now
		}
		if req.bothResponded() {
			r.finishRequestLocked(req)
			delete(requests, endpointID)
		}
	}
}

// ensureRequestLocked 取得或创建请求
func (r *Recorder) ensureRequestLocked(requests map[string]*connectionRequest, endpointID string,
	direction types.ConnectionAttemptDirection) *connectionRequest {
	if req, ok := requests[endpointID]; ok {
		return req
	}

	now := r.now()
	req := &connectionRequest{
		seq:          r.nextSeq(),
		direction:    direction,
		requestTime:  now,
		requestDelay: r.requestDelayLocked(direction, now),
	}
	requests[endpointID] = req
	return req
}

// requestDelayLocked 请求时刻相对所在阶段开始的延迟
//
// 入站请求相对广播阶段，出站请求相对发现阶段；没有对应阶段时相对策略会话开始。
func (r *Recorder) requestDelayLocked(direction types.ConnectionAttemptDirection, at time.Time) time.Duration {
	if r.current == nil {
		return 0
	}
	start := r.current.start
	switch {
	case direction == types.AttemptDirectionIncoming && r.current.advertising != nil:
		start = r.current.advertising.start
	case direction == types.AttemptDirectionOutgoing && r.current.discovery != nil:
		start = r.current.discovery.start
	}
	return r.between(start, at)
}

// finishRequestLocked 把请求转换为记录追加到策略会话
func (r *Recorder) finishRequestLocked(req *connectionRequest) {
	if r.current == nil {
		return
	}

	record := types.ConnectionRequestRecord{
		Direction:      req.direction,
		LocalResponse:  req.localResponse,
		RemoteResponse: req.remoteResponse,
		RequestDelay:   req.requestDelay,
	}
	if !req.localResponseTime.IsZero() {
		record.LocalResponseDelay = r.between(req.requestTime, req.localResponseTime)
	}
	if !req.remoteResponseTime.IsZero() {
		record.RemoteResponseDelay = r.between(req.requestTime, req.remoteResponseTime)
	}
	r.current.record.ConnectionRequests = append(r.current.record.ConnectionRequests, record)
}

// finishOutgoingRequestNotSentLocked 初次出站尝试失败，请求没有机会发出
func (r *Recorder) finishOutgoingRequestNotSentLocked(endpointID string) {
	req, ok := r.outgoingRequests[endpointID]
	if !ok {
		return
	}
	req.localResponse = types.ResponseNotSent
	req.remoteResponse = types.ResponseNotSent
	r.finishRequestLocked(req)
	delete(r.outgoingRequests, endpointID)
}

// finishPendingRequestsLocked 未响应的一侧标记为 ignored 后输出
func (r *Recorder) finishPendingRequestsLocked() {
	pending := make([]*connectionRequest, 0, len(r.incomingRequests)+len(r.outgoingRequests))
	for _, req := range r.incomingRequests {
		pending = append(pending, req)
	}
	for _, req := range r.outgoingRequests {
		pending = append(pending, req)
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].seq < pending[j].seq })

	for _, req := range pending {
		if !req.localResponse.Responded() {
			req.localResponse = types.ResponseIgnored
		}
		if !req.remoteResponse.Responded() {
			req.remoteResponse = types.ResponseIgnored
		}
		r.finishRequestLocked(req)
	}

	clear(r.incomingRequests)
	clear(r.outgoingRequests)
}
