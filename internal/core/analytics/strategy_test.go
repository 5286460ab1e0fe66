package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-connlog/pkg/types"
)

// TestRecorder_AdvertisingUpdateIndex 测试广播更新下标单调递增
func TestRecorder_AdvertisingUpdateIndex(t *testing.T) {
	r, sink, _ := newTestRecorder(t)

	assert.Equal(t, 0, r.NextAdvertisingUpdateIndex())

	const batches = 5
	for i := 0; i < batches; i++ {
		require.Equal(t, i, r.NextAdvertisingUpdateIndex())
		md := types.BuildAdvertisingMetadata(true, 5180, false,
			types.MediumResult(types.MediumBLE, types.CodeDetailSuccess),
			types.MediumResult(types.MediumWiFiLAN, types.CodeIOErrorWiFiLAN))
		r.StartAdvertising(types.StrategyP2PStar, []types.Medium{types.MediumBLE, types.MediumWiFiLAN}, md)
		r.OnEndpointFound(types.MediumBLE)
	}
	assert.Equal(t, batches, r.NextAdvertisingUpdateIndex())

	session := logSession(t, r, sink)
	phases := session.StrategySessions[0].AdvertisingPhases
	require.Len(t, phases, 1)
	assert.Equal(t, []types.Medium{types.MediumBLE, types.MediumWiFiLAN}, phases[0].Mediums)
	assert.True(t, phases[0].ExtendedAdvertisementSupported)
	assert.Equal(t, 5180, phases[0].ConnectedAPFrequency)

	require.Len(t, phases[0].Results, 2*batches)
	for i, res := range phases[0].Results {
		assert.Equal(t, i/2, res.UpdateIndex)
	}
}

// TestRecorder_DiscoveryUpdateIndex 测试发现更新下标不受 OnEndpointFound 影响
func TestRecorder_DiscoveryUpdateIndex(t *testing.T) {
	r, sink, _ := newTestRecorder(t)

	for i := 0; i < 3; i++ {
		require.Equal(t, i, r.NextDiscoveryUpdateIndex())
		md := types.BuildDiscoveryMetadata(false, types.FrequencyUnset, true,
			types.MediumResult(types.MediumBluetooth, types.CodeDetailSuccess))
		r.StartDiscovery(types.StrategyP2PCluster, []types.Medium{types.MediumBluetooth}, md)
		r.OnEndpointFound(types.MediumBluetooth)
		r.OnEndpointFound(types.MediumBLE)
		require.Equal(t, i+1, r.NextDiscoveryUpdateIndex())
	}
	r.OnEndpointFound(types.MediumBLE)
	r.StopDiscovery()

	// 阶段结束后下标从 0 开始
	assert.Equal(t, 0, r.NextDiscoveryUpdateIndex())
	r.OnEndpointFound(types.MediumBLE)

	session := logSession(t, r, sink)
	phases := session.StrategySessions[0].DiscoveryPhases
	require.Len(t, phases, 1)
	assert.Equal(t, types.StopReasonClientRequest, phases[0].StopReason)
	assert.True(t, phases[0].NFCAvailable)
	assert.Equal(t, []types.MediumCount{
		{Medium: types.MediumBluetooth, Count: 3},
		{Medium: types.MediumBLE, Count: 4},
	}, phases[0].EndpointsFound)
	require.Len(t, phases[0].Results, 3)
	assert.Equal(t, 2, phases[0].Results[2].UpdateIndex)
}

// TestRecorder_PhasesAndRoles 测试阶段停止原因与角色累积
func TestRecorder_PhasesAndRoles(t *testing.T) {
	r, sink, clk := newTestRecorder(t)

	r.StartAdvertising(types.StrategyP2PPointToPoint, []types.Medium{types.MediumBLE}, nil)
	clk.Add(time.Second)
	r.StopAdvertising()
	r.StopAdvertising()

	r.StartListeningForIncomingConnections(types.StrategyP2PPointToPoint)
	clk.Add(2 * time.Second)
	r.StopListeningForIncomingConnections()
	r.StartListeningForIncomingConnections(types.StrategyP2PPointToPoint)

	r.StartDiscovery(types.StrategyP2PPointToPoint, []types.Medium{types.MediumWiFiLAN}, nil)

	session := logSession(t, r, sink)
	require.Len(t, session.StrategySessions, 1)
	ss := session.StrategySessions[0]
	assert.Equal(t, []types.SessionRole{types.RoleAdvertiser, types.RoleDiscoverer}, ss.Roles)

	require.Len(t, ss.AdvertisingPhases, 1)
	assert.Equal(t, time.Second, ss.AdvertisingPhases[0].Duration)
	assert.Equal(t, types.StopReasonClientRequest, ss.AdvertisingPhases[0].StopReason)

	require.Len(t, ss.ListeningPhases, 2)
	assert.Equal(t, 2*time.Second, ss.ListeningPhases[0].Duration)
	assert.Equal(t, types.StopReasonClientRequest, ss.ListeningPhases[0].StopReason)
	assert.Equal(t, types.StopReasonSessionFinished, ss.ListeningPhases[1].StopReason)

	require.Len(t, ss.DiscoveryPhases, 1)
	assert.Equal(t, types.StopReasonSessionFinished, ss.DiscoveryPhases[0].StopReason)
}

// TestRecorder_StrategyChange 测试策略变化结束旧的策略会话
func TestRecorder_StrategyChange(t *testing.T) {
	r, sink, _ := newTestRecorder(t)

	r.StartAdvertising(types.StrategyP2PStar, []types.Medium{types.MediumBLE}, nil)
	r.ConnectionEstablished("e1", types.MediumBLE, "tok1")
	r.OutgoingPayloadStarted([]string{"e1"}, 7, types.PayloadTypeBytes, 64)
	r.PayloadChunkSent("e1", 7, 32)
	r.BandwidthUpgradeStarted("e1", types.MediumBLE, types.MediumWiFiLAN, types.AttemptDirectionOutgoing, "tok1")
	r.ConnectionRequestReceived("e2")

	r.StartDiscovery(types.StrategyP2PCluster, []types.Medium{types.MediumWiFiLAN}, nil)
	assert.Equal(t, 0, r.Stats().ActiveConnections)
	assert.Equal(t, 1, r.Stats().FinishedStrategySessions)

	// 旧连接已结束，后续上报是空操作
	r.OutgoingPayloadDone("e1", 7, types.PayloadStatusSuccess, types.CodeDetailSuccess)

	session := logSession(t, r, sink)
	require.Len(t, session.StrategySessions, 2)

	first := session.StrategySessions[0]
	assert.Equal(t, types.StrategyP2PStar, first.Strategy)
	require.Len(t, first.AdvertisingPhases, 1)
	assert.Equal(t, types.StopReasonSessionFinished, first.AdvertisingPhases[0].StopReason)

	require.Len(t, first.Connections, 1)
	pc := first.Connections[0].PhysicalConnections[0]
	assert.Equal(t, types.DisconnectionReasonUnfinished, pc.DisconnectionReason)
	require.Len(t, pc.SentPayloads, 1)
	assert.Equal(t, types.PayloadStatusConnectionClosed, pc.SentPayloads[0].Status)
	assert.Equal(t, types.CodeSessionUnfinished, pc.SentPayloads[0].ResultCode)
	assert.Equal(t, int64(32), pc.SentPayloads[0].BytesTransferred)

	require.Len(t, first.UpgradeAttempts, 1)
	assert.Equal(t, types.UpgradeResultUnfinishedError, first.UpgradeAttempts[0].Result)

	require.Len(t, first.ConnectionRequests, 1)
	assert.Equal(t, types.ResponseIgnored, first.ConnectionRequests[0].LocalResponse)

	second := session.StrategySessions[1]
	assert.Equal(t, types.StrategyP2PCluster, second.Strategy)
	assert.Equal(t, []types.SessionRole{types.RoleDiscoverer}, second.Roles)
	assert.Len(t, second.DiscoveryPhases, 1)
	assert.Empty(t, second.Connections)
}

// ============================================================================
//                              连接请求
// ============================================================================

// TestRecorder_RequestResolved 测试双方响应后请求结束
func TestRecorder_RequestResolved(t *testing.T) {
	r, sink, clk := newTestRecorder(t)

	r.StartAdvertising(types.StrategyP2PStar, []types.Medium{types.MediumBLE}, nil)
	clk.Add(2 * time.Second)
	r.ConnectionRequestReceived("e1")
	clk.Add(time.Second)
	r.LocalEndpointAccepted("e1")
	r.LocalEndpointRejected("e1")
	assert.Equal(t, 1, r.Stats().PendingRequests)
	clk.Add(3 * time.Second)
	r.RemoteEndpointAccepted("e1")
	assert.Equal(t, 0, r.Stats().PendingRequests)

	// 已结束的请求不会被再次记录
	r.RemoteEndpointRejected("e1")

	session := logSession(t, r, sink)
	requests := session.StrategySessions[0].ConnectionRequests
	require.Len(t, requests, 1)
	req := requests[0]
	assert.Equal(t, types.AttemptDirectionIncoming, req.Direction)
	assert.Equal(t, types.ResponseRejected, req.LocalResponse)
	assert.Equal(t, types.ResponseAccepted, req.RemoteResponse)
	assert.Equal(t, 2*time.Second, req.RequestDelay)
	assert.Equal(t, time.Second, req.LocalResponseDelay)
	assert.Equal(t, 4*time.Second, req.RemoteResponseDelay)
}

// TestRecorder_UnresolvedRequestIgnored 测试未响应的请求在会话结束时标记为 ignored
func TestRecorder_UnresolvedRequestIgnored(t *testing.T) {
	r, sink, _ := newTestRecorder(t)

	r.RequestConnection(types.StrategyP2PCluster, "e1")
	r.ConnectionRequestSent("e1")

	r.RequestConnection(types.StrategyP2PCluster, "e2")
	r.ConnectionRequestSent("e2")
	r.LocalEndpointAccepted("e2")

	session := logSession(t, r, sink)
	ss := session.StrategySessions[0]
	assert.Equal(t, []types.SessionRole{types.RoleDiscoverer}, ss.Roles)
	require.Len(t, ss.ConnectionRequests, 2)

	assert.Equal(t, types.AttemptDirectionOutgoing, ss.ConnectionRequests[0].Direction)
	assert.Equal(t, types.ResponseIgnored, ss.ConnectionRequests[0].LocalResponse)
	assert.Equal(t, types.ResponseIgnored, ss.ConnectionRequests[0].RemoteResponse)

	assert.Equal(t, types.ResponseAccepted, ss.ConnectionRequests[1].LocalResponse)
	assert.Equal(t, types.ResponseIgnored, ss.ConnectionRequests[1].RemoteResponse)
}

// TestRecorder_RequestWithoutSession 测试没有策略会话时的入站请求被忽略
func TestRecorder_RequestWithoutSession(t *testing.T) {
	r, sink, _ := newTestRecorder(t)

	r.ConnectionRequestReceived("e1")
	r.LocalEndpointAccepted("e1")
	assert.Equal(t, 0, r.Stats().PendingRequests)

	session := logSession(t, r, sink)
	assert.Empty(t, session.StrategySessions)
}

// ============================================================================
//                              连接尝试
// ============================================================================

// TestRecorder_AttemptDedup 测试重复的尝试上报被去重
func TestRecorder_AttemptDedup(t *testing.T) {
	r, sink, _ := newTestRecorder(t)

	r.StartDiscovery(types.StrategyP2PCluster, []types.Medium{types.MediumWiFiLAN}, nil)
	md := types.BuildConnectionAttemptMetadata(types.TechnologyUnknown, types.BandWiFi5GHz, 5180, 1,
		types.WithResultCode(types.CodeConnectivityTimeout), types.WithWiFiSpeed(300, 200))

	for i := 0; i < 3; i++ {
		r.OutgoingConnectionAttempt("e1", types.AttemptTypeUpgrade, types.MediumWiFiLAN,
			types.AttemptResultFailure, time.Second, "tok", md)
	}
	// 结果码不同视为另一次尝试
	r.OutgoingConnectionAttempt("e1", types.AttemptTypeUpgrade, types.MediumWiFiLAN,
		types.AttemptResultSuccess, time.Second, "tok", nil)
	// 方向不同
	r.IncomingConnectionAttempt(types.AttemptTypeUpgrade, types.MediumWiFiLAN,
		types.AttemptResultFailure, time.Second, "tok", md)

	// 调用方之后修改元数据不影响记录
	md.TryCount = 9

	session := logSession(t, r, sink)
	attempts := session.StrategySessions[0].ConnectionAttempts
	require.Len(t, attempts, 3)
	assert.Equal(t, types.CodeConnectivityTimeout, attempts[0].ResultCode)
	assert.Equal(t, time.Second, attempts[0].Duration)
	require.NotNil(t, attempts[0].Metadata)
	assert.Equal(t, 1, attempts[0].Metadata.TryCount)
	assert.Equal(t, 300, attempts[0].Metadata.MaxWiFiTxSpeed)
	assert.Equal(t, types.ChannelWidthUnset, attempts[0].Metadata.ChannelWidth)
	assert.Equal(t, types.CodeDetailUnknown, attempts[1].ResultCode)
	assert.Nil(t, attempts[1].Metadata)
	assert.Equal(t, types.AttemptDirectionIncoming, attempts[2].Direction)
}

// TestRecorder_FailedInitialAttempt 测试初次出站尝试失败时请求以 NotSent 结束
func TestRecorder_FailedInitialAttempt(t *testing.T) {
	r, sink, _ := newTestRecorder(t)

	r.RequestConnection(types.StrategyP2PStar, "e1")
	r.RequestConnection(types.StrategyP2PStar, "e2")
	r.OutgoingConnectionAttempt("e1", types.AttemptTypeInitial, types.MediumBluetooth,
		types.AttemptResultFailure, time.Second, "tok1", nil)
	r.OutgoingConnectionAttempt("e2", types.AttemptTypeInitial, types.MediumBluetooth,
		types.AttemptResultSuccess, time.Second, "tok2", nil)
	assert.Equal(t, 1, r.Stats().PendingRequests)

	session := logSession(t, r, sink)
	requests := session.StrategySessions[0].ConnectionRequests
	require.Len(t, requests, 2)
	assert.Equal(t, types.ResponseNotSent, requests[0].LocalResponse)
	assert.Equal(t, types.ResponseNotSent, requests[0].RemoteResponse)
	assert.Equal(t, types.ResponseIgnored, requests[1].LocalResponse)
}

// TestRecorder_AttemptWithoutSession 测试没有策略会话时尝试被忽略
func TestRecorder_AttemptWithoutSession(t *testing.T) {
	r, sink, _ := newTestRecorder(t)

	r.IncomingConnectionAttempt(types.AttemptTypeInitial, types.MediumBLE, types.AttemptResultSuccess,
		time.Second, "tok", nil)

	session := logSession(t, r, sink)
	assert.Empty(t, session.StrategySessions)
}
