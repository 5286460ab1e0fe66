package analytics

import (
	"slices"
	"sort"
	"time"

	"github.com/dep2p/go-connlog/pkg/types"
)

// ============================================================================
//                              strategySession - 策略会话
// ============================================================================

// strategySession 当前策略/角色窗口
//
// 已结束的阶段、请求、尝试、连接、升级直接追加到 record；
// 活跃的阶段单独保存，结束时再转换为记录。
type strategySession struct {
	start  time.Time
	record types.StrategySessionRecord

	advertising *advertisingPhase
	discovery   *discoveryPhase
	listening   *listeningPhase
}

func newStrategySession(strategy types.Strategy, start time.Time) *strategySession {
	return &strategySession{
		start:  start,
		record: types.StrategySessionRecord{Strategy: strategy},
	}
}

func (s *strategySession) addRole(role types.SessionRole) {
	if role == types.RoleUnknown || slices.Contains(s.record.Roles, role) {
		return
	}
	s.record.Roles = append(s.record.Roles, role)
}

// updateStrategySessionLocked 策略变化时结束当前策略会话并开启新的
func (r *Recorder) updateStrategySessionLocked(strategy types.Strategy, role types.SessionRole) {
	if r.current == nil || strategy != r.currentStrategy {
		r.finishStrategySessionLocked()
		r.currentStrategy = strategy
		r.current = newStrategySession(strategy, r.now())
		logger.Debug("开始策略会话", "strategy", strategy)
	}
	r.current.addRole(role)
}

// finishStrategySessionLocked 结束当前策略会话
//
// 活跃阶段以 SessionFinished 结束；未决请求标记为 ignored；
// 打开的连接以 Unfinished 关闭；未决升级以 UnfinishedError 结束。
func (r *Recorder) finishStrategySessionLocked() {
	s := r.current
	if s == nil {
		return
	}

	r.finishAdvertisingPhaseLocked(types.StopReasonSessionFinished)
	r.finishDiscoveryPhaseLocked(types.StopReasonSessionFinished)
	r.finishListeningPhaseLocked(types.StopReasonSessionFinished)

	r.finishPendingRequestsLocked()
	r.finishOpenConnectionsLocked()
	r.finishPendingUpgradesLocked()

	s.record.Duration = r.since(s.start)
	r.strategySessions = append(r.strategySessions, s.record)
	r.current = nil
	r.currentStrategy = types.StrategyNone
}

// ============================================================================
//                              广播阶段
// ============================================================================

type advertisingPhase struct {
	start   time.Time
	mediums []types.Medium
	results []types.OperationResultWithMedium

	extendedAdvertisement bool
	apFrequency           int
	nfcAvailable          bool
}

// StartAdvertising 开始广播
//
// 同一策略下广播已在进行时继续当前阶段：介质合并，结果以下一个更新下标追加。
func (r *Recorder) StartAdvertising(strategy types.Strategy, mediums []types.Medium, md *types.AdvertisingMetadata) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.canRecordLocked("StartAdvertising") {
		return
	}
	r.updateStrategySessionLocked(strategy, types.RoleAdvertiser)

	s := r.current
	if s.advertising == nil {
		s.advertising = &advertisingPhase{start: r.now()}
	}
	phase := s.advertising
	index := nextUpdateIndex(phase.results)
	phase.mediums = mergeMediums(phase.mediums, mediums)
	if md != nil {
		phase.extendedAdvertisement = md.ExtendedAdvertisementSupported
		phase.apFrequency = md.ConnectedAPFrequency
		phase.nfcAvailable = md.NFCAvailable
		phase.results = appendResults(phase.results, md.OperationResults, index)
	}
}

// StopAdvertising 停止广播
func (r *Recorder) StopAdvertising() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.canRecordLocked("StopAdvertising") {
		return
	}
	r.finishAdvertisingPhaseLocked(types.StopReasonClientRequest)
}

// NextAdvertisingUpdateIndex 返回当前广播阶段的下一个更新下标
func (r *Recorder) NextAdvertisingUpdateIndex() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.current == nil || r.current.advertising == nil {
		return 0
	}
	return nextUpdateIndex(r.current.advertising.results)
}

func (r *Recorder) finishAdvertisingPhaseLocked(reason types.PhaseStopReason) {
	if r.current == nil || r.current.advertising == nil {
		return
	}
	phase := r.current.advertising
	r.current.record.AdvertisingPhases = append(r.current.record.AdvertisingPhases, types.AdvertisingPhaseRecord{
		Mediums:                        phase.mediums,
		Duration:                       r.since(phase.start),
		StopReason:                     reason,
		ExtendedAdvertisementSupported: phase.extendedAdvertisement,
		ConnectedAPFrequency:           phase.apFrequency,
		NFCAvailable:                   phase.nfcAvailable,
		Results:                        phase.results,
	})
	r.current.advertising = nil
}

// ============================================================================
//                              发现阶段
// ============================================================================

type discoveryPhase struct {
	start   time.Time
	mediums []types.Medium
	results []types.OperationResultWithMedium
	found   map[types.Medium]int

	extendedAdvertisement bool
	apFrequency           int
	nfcAvailable          bool
}

// StartDiscovery 开始发现
func (r *Recorder) StartDiscovery(strategy types.Strategy, mediums []types.Medium, md *types.DiscoveryMetadata) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.canRecordLocked("StartDiscovery") {
		return
	}
	r.updateStrategySessionLocked(strategy, types.RoleDiscoverer)

	s := r.current
	if s.discovery == nil {
		s.discovery = &discoveryPhase{
			start: r.now(),
			found: make(map[types.Medium]int),
		}
	}
	phase := s.discovery
	index := nextUpdateIndex(phase.results)
	phase.mediums = mergeMediums(phase.mediums, mediums)
	if md != nil {
		phase.extendedAdvertisement = md.ExtendedAdvertisementSupported
		phase.apFrequency = md.ConnectedAPFrequency
		phase.nfcAvailable = md.NFCAvailable
		phase.results = appendResults(phase.results, md.OperationResults, index)
	}
}

// StopDiscovery 停止发现
func (r *Recorder) StopDiscovery() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.canRecordLocked("StopDiscovery") {
		return
	}
	r.finishDiscoveryPhaseLocked(types.StopReasonClientRequest)
}

// NextDiscoveryUpdateIndex 返回当前发现阶段的下一个更新下标
func (r *Recorder) NextDiscoveryUpdateIndex() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.current == nil || r.current.discovery == nil {
		return 0
	}
	return nextUpdateIndex(r.current.discovery.results)
}

// OnEndpointFound 发现阶段按介质计数
func (r *Recorder) OnEndpointFound(medium types.Medium) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.canRecordLocked("OnEndpointFound") {
		return
	}
	if r.current == nil || r.current.discovery == nil {
		return
	}
	r.current.discovery.found[medium]++
}

func (r *Recorder) finishDiscoveryPhaseLocked(reason types.PhaseStopReason) {
	if r.current == nil || r.current.discovery == nil {
		return
	}
	phase := r.current.discovery

	found := make([]types.MediumCount, 0, len(phase.found))
	for medium, count := range phase.found {
		found = append(found, types.MediumCount{Medium: medium, Count: count})
	}
	sort.Slice(found, func(i, j int) bool { return found[i].Medium < found[j].Medium })

	r.current.record.DiscoveryPhases = append(r.current.record.DiscoveryPhases, types.DiscoveryPhaseRecord{
		Mediums:                        phase.mediums,
		Duration:                       r.since(phase.start),
		StopReason:                     reason,
		ExtendedAdvertisementSupported: phase.extendedAdvertisement,
		ConnectedAPFrequency:           phase.apFrequency,
		NFCAvailable:                   phase.nfcAvailable,
		EndpointsFound:                 found,
		Results:                        phase.results,
	})
	r.current.discovery = nil
}

// ============================================================================
//                              监听阶段
// ============================================================================

type listeningPhase struct {
	start time.Time
}

// StartListeningForIncomingConnections 开始监听入站连接
func (r *Recorder) StartListeningForIncomingConnections(strategy types.Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.canRecordLocked("StartListeningForIncomingConnections") {
		return
	}
	r.updateStrategySessionLocked(strategy, types.RoleAdvertiser)
	if r.current.listening == nil {
		r.current.listening = &listeningPhase{start: r.now()}
	}
}

// StopListeningForIncomingConnections 停止监听入站连接
func (r *Recorder) StopListeningForIncomingConnections() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.canRecordLocked("StopListeningForIncomingConnections") {
		return
	}
	r.finishListeningPhaseLocked(types.StopReasonClientRequest)
}

func (r *Recorder) finishListeningPhaseLocked(reason types.PhaseStopReason) {
	if r.current == nil || r.current.listening == nil {
		return
	}
	r.current.record.ListeningPhases = append(r.current.record.ListeningPhases, types.ListeningPhaseRecord{
		Duration:   r.since(r.current.listening.start),
		StopReason: reason,
	})
	r.current.listening = nil
}

// ============================================================================
//                              辅助函数
// ============================================================================

// nextUpdateIndex 返回 max(UpdateIndex)+1，没有结果时返回 0
//
// 每次都重新计算，不缓存。
func nextUpdateIndex(results []types.OperationResultWithMedium) int {
	if len(results) == 0 {
		return 0
	}
	latest := results[0].UpdateIndex
	for _, res := range results[1:] {
		if res.UpdateIndex > latest {
			latest = res.UpdateIndex
		}
	}
	return latest + 1
}

// appendResults 以 index 标记并追加一批结果
func appendResults(dst, batch []types.OperationResultWithMedium, index int) []types.OperationResultWithMedium {
	for _, res := range batch {
		res.UpdateIndex = index
		dst = append(dst, res)
	}
	return dst
}

// mergeMediums 合并介质列表，保持首次出现顺序
func mergeMediums(dst, mediums []types.Medium) []types.Medium {
	for _, m := range mediums {
		if !slices.Contains(dst, m) {
			dst = append(dst, m)
		}
	}
	return dst
}
