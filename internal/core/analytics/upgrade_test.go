package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-connlog/pkg/types"
)

func startUpgrade(r *Recorder, endpoint, token string) {
	r.BandwidthUpgradeStarted(endpoint, types.MediumBluetooth, types.MediumWiFiLAN,
		types.AttemptDirectionOutgoing, token)
}

// TestRecorder_UpgradeSuccess 测试升级成功
func TestRecorder_UpgradeSuccess(t *testing.T) {
	r, sink, clk := newTestRecorder(t)

	r.StartAdvertising(types.StrategyP2PStar, []types.Medium{types.MediumBluetooth}, nil)
	startUpgrade(r, "e1", "tok")
	clk.Add(2 * time.Second)

	pending, ok := r.UpgradeAttempt("e1")
	require.True(t, ok)
	assert.Equal(t, types.UpgradeResultUnknown, pending.Result)
	assert.Equal(t, 2*time.Second, pending.Duration)

	r.BandwidthUpgradeSuccess("e1")
	_, ok = r.UpgradeAttempt("e1")
	assert.False(t, ok)

	// 重复的结果上报被忽略
	r.BandwidthUpgradeSuccess("e1")
	r.BandwidthUpgradeError("e1", types.UpgradeResultChannelError, types.UpgradeStageSocketCreation,
		types.CodeUpgradeFailed)

	session := logSession(t, r, sink)
	upgrades := session.StrategySessions[0].UpgradeAttempts
	require.Len(t, upgrades, 1)
	assert.Equal(t, types.UpgradeResultSuccess, upgrades[0].Result)
	assert.Equal(t, types.UpgradeStageUpgradeSuccess, upgrades[0].ErrorStage)
	assert.Equal(t, types.CodeDetailSuccess, upgrades[0].ResultCode)
	assert.Equal(t, types.MediumBluetooth, upgrades[0].FromMedium)
	assert.Equal(t, types.MediumWiFiLAN, upgrades[0].ToMedium)
	assert.Equal(t, types.AttemptDirectionOutgoing, upgrades[0].Direction)
	assert.Equal(t, 2*time.Second, upgrades[0].Duration)
}

// TestRecorder_UpgradeRestarted 测试未结束的升级被新的 Started 替换
func TestRecorder_UpgradeRestarted(t *testing.T) {
	r, sink, _ := newTestRecorder(t)

	r.StartAdvertising(types.StrategyP2PStar, []types.Medium{types.MediumBluetooth}, nil)
	startUpgrade(r, "e1", "first")
	startUpgrade(r, "e1", "second")
	assert.Equal(t, 1, r.Stats().PendingUpgrades)

	current, ok := r.UpgradeAttempt("e1")
	require.True(t, ok)
	assert.Equal(t, "second", current.ConnectionToken)

	r.BandwidthUpgradeSuccess("e1")

	session := logSession(t, r, sink)
	upgrades := session.StrategySessions[0].UpgradeAttempts
	require.Len(t, upgrades, 2)
	assert.Equal(t, "first", upgrades[0].ConnectionToken)
	assert.Equal(t, types.UpgradeResultUnfinishedError, upgrades[0].Result)
	assert.Equal(t, types.UpgradeStageUnknown, upgrades[0].ErrorStage)
	assert.Equal(t, types.CodeUpgradeUnfinished, upgrades[0].ResultCode)
	assert.Equal(t, "second", upgrades[1].ConnectionToken)
	assert.Equal(t, types.UpgradeResultSuccess, upgrades[1].Result)
}

// TestRecorder_UpgradeError 测试升级失败默认移除记录
func TestRecorder_UpgradeError(t *testing.T) {
	r, sink, _ := newTestRecorder(t)

	r.StartDiscovery(types.StrategyP2PCluster, []types.Medium{types.MediumBluetooth}, nil)
	startUpgrade(r, "e1", "tok")
	r.BandwidthUpgradeError("e1", types.UpgradeResultMediumError, types.UpgradeStageConnectToNetwork,
		types.CodeConnectivityRefused)

	_, ok := r.UpgradeAttempt("e1")
	assert.False(t, ok)

	// 失败后可以重新开始
	startUpgrade(r, "e1", "retry")
	assert.Equal(t, 1, r.Stats().PendingUpgrades)

	session := logSession(t, r, sink)
	upgrades := session.StrategySessions[0].UpgradeAttempts
	require.Len(t, upgrades, 2)
	assert.Equal(t, types.UpgradeResultMediumError, upgrades[0].Result)
	assert.Equal(t, types.UpgradeStageConnectToNetwork, upgrades[0].ErrorStage)
	assert.Equal(t, types.CodeConnectivityRefused, upgrades[0].ResultCode)
	assert.Equal(t, types.UpgradeResultUnfinishedError, upgrades[1].Result)
}

// TestRecorder_KeepFailedUpgradeAttempts 测试保留失败的升级记录
func TestRecorder_KeepFailedUpgradeAttempts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.KeepFailedUpgradeAttempts = true
	r, sink, _ := newTestRecorder(t, WithConfig(cfg))

	r.StartAdvertising(types.StrategyP2PStar, []types.Medium{types.MediumBluetooth}, nil)
	startUpgrade(r, "e1", "tok")
	r.BandwidthUpgradeError("e1", types.UpgradeResultProtocolError, types.UpgradeStageClientIntroduction,
		types.CodeUpgradeFailed)

	kept, ok := r.UpgradeAttempt("e1")
	require.True(t, ok)
	assert.Equal(t, types.UpgradeResultProtocolError, kept.Result)
	assert.Equal(t, types.UpgradeStageClientIntroduction, kept.ErrorStage)
	assert.Equal(t, 0, r.Stats().PendingUpgrades)

	// 保留期间重复的上报被忽略
	r.BandwidthUpgradeError("e1", types.UpgradeResultChannelError, types.UpgradeStageSafeToClosePrior,
		types.CodeUpgradeFailed)
	r.BandwidthUpgradeSuccess("e1")

	// 新的 Started 替换保留的记录，不会再次输出
	startUpgrade(r, "e1", "retry")
	r.BandwidthUpgradeSuccess("e1")

	session := logSession(t, r, sink)
	upgrades := session.StrategySessions[0].UpgradeAttempts
	require.Len(t, upgrades, 2)
	assert.Equal(t, types.UpgradeResultProtocolError, upgrades[0].Result)
	assert.Equal(t, types.UpgradeResultSuccess, upgrades[1].Result)
	assert.Equal(t, "retry", upgrades[1].ConnectionToken)
}

// TestRecorder_UpgradeWithoutSession 测试没有策略会话时升级被忽略
func TestRecorder_UpgradeWithoutSession(t *testing.T) {
	r, _, _ := newTestRecorder(t)

	startUpgrade(r, "e1", "tok")
	_, ok := r.UpgradeAttempt("e1")
	assert.False(t, ok)
}
