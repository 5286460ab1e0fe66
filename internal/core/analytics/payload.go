package analytics

import (
	"sort"
	"time"

	"github.com/dep2p/go-connlog/pkg/types"
)

// ============================================================================
//                              pendingPayload - 进行中的载荷
// ============================================================================

// pendingPayload 一次进行中的载荷传输
//
// addChunk 只累加，不与 totalSize 校验；记录中的字节数是实际累计值。
type pendingPayload struct {
	payloadType types.PayloadType
	totalSize   int64
	start       time.Time

	bytesTransferred int64
	chunkCount       int
}

func newPendingPayload(payloadType types.PayloadType, totalSize int64, start time.Time) *pendingPayload {
	return &pendingPayload{
		payloadType: payloadType,
		totalSize:   totalSize,
		start:       start,
	}
}

func (p *pendingPayload) addChunk(size int64) {
	p.bytesTransferred += size
	p.chunkCount++
}

// toRecord 以最终状态生成载荷记录
func (p *pendingPayload) toRecord(status types.PayloadStatus, code types.OperationResultCode,
	duration time.Duration) types.PayloadRecord {
	return types.PayloadRecord{
		Type:             p.payloadType,
		TotalSizeBytes:   p.totalSize,
		BytesTransferred: p.bytesTransferred,
		ChunkCount:       p.chunkCount,
		Duration:         duration,
		Status:           status,
		ResultCode:       code,
	}
}

// reset 在新的物理连接上重新开始计数
func (p *pendingPayload) reset(start time.Time) {
	p.start = start
	p.bytesTransferred = 0
	p.chunkCount = 0
}

// sortedPayloadIDs 按 ID 升序返回
func sortedPayloadIDs(payloads map[int64]*pendingPayload) []int64 {
	ids := make([]int64, 0, len(payloads))
	for id := range payloads {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ============================================================================
//                              载荷上报
// ============================================================================

// IncomingPayloadStarted 开始接收载荷，同一 ID 重复开始时覆盖
func (r *Recorder) IncomingPayloadStarted(endpointID string, payloadID int64, payloadType types.PayloadType,
	totalSize int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.canRecordLocked("IncomingPayloadStarted") {
		return
	}
	if lc, ok := r.connections[endpointID]; ok {
		lc.incoming[payloadID] = newPendingPayload(payloadType, totalSize, r.now())
	}
}

// PayloadChunkReceived 收到一个分块
func (r *Recorder) PayloadChunkReceived(endpointID string, payloadID int64, chunkSize int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.canRecordLocked("PayloadChunkReceived") {
		return
	}
	if p := r.pendingPayloadLocked(endpointID, payloadID, true); p != nil {
		p.addChunk(chunkSize)
	}
}

// IncomingPayloadDone 接收结束，未知 ID 是空操作
func (r *Recorder) IncomingPayloadDone(endpointID string, payloadID int64, status types.PayloadStatus,
	code types.OperationResultCode) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.canRecordLocked("IncomingPayloadDone") {
		return
	}
	r.payloadDoneLocked(endpointID, payloadID, true, status, code)
}

// OutgoingPayloadStarted 开始发送载荷，每个端点各建一个进行中的载荷
func (r *Recorder) OutgoingPayloadStarted(endpointIDs []string, payloadID int64, payloadType types.PayloadType,
	totalSize int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.canRecordLocked("OutgoingPayloadStarted") {
		return
	}
	now := r.now()
	for _, endpointID := range endpointIDs {
		if lc, ok := r.connections[endpointID]; ok {
			lc.outgoing[payloadID] = newPendingPayload(payloadType, totalSize, now)
		}
	}
}

// PayloadChunkSent 发出一个分块
func (r *Recorder) PayloadChunkSent(endpointID string, payloadID int64, chunkSize int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.canRecordLocked("PayloadChunkSent") {
		return
	}
	if p := r.pendingPayloadLocked(endpointID, payloadID, false); p != nil {
		p.addChunk(chunkSize)
	}
}

// OutgoingPayloadDone 发送结束，未知 ID 是空操作
func (r *Recorder) OutgoingPayloadDone(endpointID string, payloadID int64, status types.PayloadStatus,
	code types.OperationResultCode) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.canRecordLocked("OutgoingPayloadDone") {
		return
	}
	r.payloadDoneLocked(endpointID, payloadID, false, status, code)
}

func (r *Recorder) pendingPayloadLocked(endpointID string, payloadID int64, incoming bool) *pendingPayload {
	lc, ok := r.connections[endpointID]
	if !ok {
		return nil
	}
	if incoming {
		return lc.incoming[payloadID]
	}
	return lc.outgoing[payloadID]
}

func (r *Recorder) payloadDoneLocked(endpointID string, payloadID int64, incoming bool,
	status types.PayloadStatus, code types.OperationResultCode) {
	lc, ok := r.connections[endpointID]
	if !ok {
		return
	}
	payloads := lc.outgoing
	if incoming {
		payloads = lc.incoming
	}
	p, ok := payloads[payloadID]
	if !ok {
		return
	}
	delete(payloads, payloadID)

	ep := lc.currentEpisode()
	rec := p.toRecord(status, code, r.since(p.start))
	if incoming {
		ep.received = append(ep.received, rec)
	} else {
		ep.sent = append(ep.sent, rec)
	}
}
