package analytics

import (
	"sort"
	"time"

	"github.com/dep2p/go-connlog/pkg/types"
)

// ============================================================================
//                              带宽升级
// ============================================================================

// upgradeAttempt 一个端点的升级尝试
//
// finished 仅在 KeepFailedUpgradeAttempts 开启时出现：失败记录已输出，
// 保留到下一次 Started 供 UpgradeAttempt 查询。
type upgradeAttempt struct {
	seq      uint64
	start    time.Time
	record   types.BandwidthUpgradeAttemptRecord
	finished bool
}

// BandwidthUpgradeStarted 开始升级
//
// 已有未结束的尝试时，旧尝试以 UnfinishedError 结束后被替换。
func (r *Recorder) BandwidthUpgradeStarted(endpointID string, from, to types.Medium,
	direction types.ConnectionAttemptDirection, token string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.canRecordLocked("BandwidthUpgradeStarted") || r.current == nil {
		return
	}

	if prev, ok := r.upgrades[endpointID]; ok && !prev.finished {
		logger.Debug("替换未结束的带宽升级", "endpoint", endpointID)
		r.finishUpgradeLocked(prev, types.UpgradeResultUnfinishedError, types.UpgradeStageUnknown,
			types.CodeUpgradeUnfinished)
	}

	r.upgrades[endpointID] = &upgradeAttempt{
		seq:   r.nextSeq(),
		start: r.now(),
		record: types.BandwidthUpgradeAttemptRecord{
			Direction:       direction,
			FromMedium:      from,
			ToMedium:        to,
			ConnectionToken: token,
		},
	}
}

// BandwidthUpgradeSuccess 升级成功
func (r *Recorder) BandwidthUpgradeSuccess(endpointID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.canRecordLocked("BandwidthUpgradeSuccess") || r.current == nil {
		return
	}
	ua, ok := r.upgrades[endpointID]
	if !ok || ua.finished {
		return
	}
	r.finishUpgradeLocked(ua, types.UpgradeResultSuccess, types.UpgradeStageUpgradeSuccess, types.CodeDetailSuccess)
	delete(r.upgrades, endpointID)
}

// BandwidthUpgradeError 升级失败
//
// KeepFailedUpgradeAttempts 开启时失败记录保留，之后的重复上报被忽略。
func (r *Recorder) BandwidthUpgradeError(endpointID string, result types.BandwidthUpgradeResult,
	stage types.BandwidthUpgradeErrorStage, code types.OperationResultCode) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.canRecordLocked("BandwidthUpgradeError") || r.current == nil {
		return
	}
	ua, ok := r.upgrades[endpointID]
	if !ok || ua.finished {
		return
	}
	r.finishUpgradeLocked(ua, result, stage, code)
	if r.cfg.KeepFailedUpgradeAttempts {
		ua.finished = true
		return
	}
	delete(r.upgrades, endpointID)
}

// UpgradeAttempt 返回端点当前的升级尝试
//
// 未结束的尝试返回到目前为止的时长，结果为 Unknown。
func (r *Recorder) UpgradeAttempt(endpointID string) (types.BandwidthUpgradeAttemptRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ua, ok := r.upgrades[endpointID]
	if !ok {
		return types.BandwidthUpgradeAttemptRecord{}, false
	}
	record := ua.record
	if !ua.finished {
		record.Duration = r.since(ua.start)
	}
	return record, true
}

func (r *Recorder) finishUpgradeLocked(ua *upgradeAttempt, result types.BandwidthUpgradeResult,
	stage types.BandwidthUpgradeErrorStage, code types.OperationResultCode) {
	ua.record.Duration = r.since(ua.start)
	ua.record.Result = result
	ua.record.ErrorStage = stage
	ua.record.ResultCode = code
	r.current.record.UpgradeAttempts = append(r.current.record.UpgradeAttempts, ua.record)
}

// finishPendingUpgradesLocked 策略会话结束时结束未决升级，丢弃保留的失败记录
func (r *Recorder) finishPendingUpgradesLocked() {
	pending := make([]*upgradeAttempt, 0, len(r.upgrades))
	for _, ua := range r.upgrades {
		if !ua.finished {
			pending = append(pending, ua)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].seq < pending[j].seq })

	for _, ua := range pending {
		r.finishUpgradeLocked(ua, types.UpgradeResultUnfinishedError, types.UpgradeStageUnknown,
			types.CodeUpgradeUnfinished)
	}
	clear(r.upgrades)
}
