package analytics

import (
	"time"

	"github.com/dep2p/go-connlog/pkg/types"
)

// IncomingConnectionAttempt 记录一次入站物理连接尝试
func (r *Recorder) IncomingConnectionAttempt(attemptType types.ConnectionAttemptType, medium types.Medium,
	result types.ConnectionAttemptResult, duration time.Duration, token string,
	md *types.ConnectionAttemptMetadata) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.canRecordLocked("IncomingConnectionAttempt") || r.current == nil {
		return
	}
	r.recordAttemptLocked(types.AttemptDirectionIncoming, attemptType, medium, result, duration, token, md)
}

// OutgoingConnectionAttempt 记录一次出站物理连接尝试
//
// 初次尝试失败时，该端点未决的出站请求以 NotSent 结束。
func (r *Recorder) OutgoingConnectionAttempt(endpointID string, attemptType types.ConnectionAttemptType,
	medium types.Medium, result types.ConnectionAttemptResult, duration time.Duration,
	token string, md *types.ConnectionAttemptMetadata) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.canRecordLocked("OutgoingConnectionAttempt") || r.current == nil {
		return
	}
	r.recordAttemptLocked(types.AttemptDirectionOutgoing, attemptType, medium, result, duration, token, md)

	if attemptType == types.AttemptTypeInitial && result != types.AttemptResultSuccess {
		r.finishOutgoingRequestNotSentLocked(endpointID)
	}
}

func (r *Recorder) recordAttemptLocked(direction types.ConnectionAttemptDirection,
	attemptType types.ConnectionAttemptType, medium types.Medium, result types.ConnectionAttemptResult,
	duration time.Duration, token string, md *types.ConnectionAttemptMetadata) {
	code := types.CodeDetailUnknown
	var metadata *types.ConnectionAttemptMetadata
	if md != nil {
		code = md.ResultCode
		cp := *md
		metadata = &cp
	}

	if r.attemptExistedLocked(medium, direction, token, attemptType, code) {
		logger.Debug("忽略重复的连接尝试", "medium", medium, "direction", direction, "type", attemptType)
		return
	}

	if r.cfg.NoRecordTime {
		duration = 0
	}
	r.current.record.ConnectionAttempts = append(r.current.record.ConnectionAttempts, types.ConnectionAttemptRecord{
		Direction:       direction,
		Type:            attemptType,
		Medium:          medium,
		Result:          result,
		Duration:        duration,
		ConnectionToken: token,
		ResultCode:      code,
		Metadata:        metadata,
	})
}

// attemptExistedLocked 同一物理尝试的重复上报
func (r *Recorder) attemptExistedLocked(medium types.Medium, direction types.ConnectionAttemptDirection,
	token string, attemptType types.ConnectionAttemptType, code types.OperationResultCode) bool {
	for _, a := range r.current.record.ConnectionAttempts {
		if a.Medium == medium && a.Direction == direction && a.ConnectionToken == token &&
			a.Type == attemptType && a.ResultCode == code {
			return true
		}
	}
	return false
}
