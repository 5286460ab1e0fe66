package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestParseMedium 测试介质名称往返
func TestParseMedium(t *testing.T) {
	for m := MediumMDNS; m <= MediumAWDL; m++ {
		assert.Equal(t, m, ParseMedium(m.String()))
	}
	assert.Equal(t, MediumUnknown, ParseMedium("unknown"))
	assert.Equal(t, MediumUnknown, ParseMedium("BLE"))
}

// TestParseStrategy 测试策略名称往返
func TestParseStrategy(t *testing.T) {
	for _, s := range []Strategy{StrategyP2PCluster, StrategyP2PStar, StrategyP2PPointToPoint} {
		assert.Equal(t, s, ParseStrategy(s.String()))
	}
	assert.Equal(t, StrategyNone, ParseStrategy("mesh"))
}

// TestParseDisconnectionReason 测试断开原因名称往返
func TestParseDisconnectionReason(t *testing.T) {
	for r := DisconnectionReasonLocalDisconnection; r <= DisconnectionReasonUnfinished; r++ {
		assert.Equal(t, r, ParseDisconnectionReason(r.String()))
	}
	assert.Equal(t, DisconnectionReasonUnknown, ParseDisconnectionReason(""))
}

// TestConnectionRequestResponse_Responded 测试响应是否已产生
func TestConnectionRequestResponse_Responded(t *testing.T) {
	assert.False(t, ResponseUnknown.Responded())
	assert.True(t, ResponseAccepted.Responded())
	assert.True(t, ResponseRejected.Responded())
	assert.False(t, ResponseIgnored.Responded())
	assert.False(t, ResponseNotSent.Responded())
}

// TestEventType_String 测试事件类型名称
func TestEventType_String(t *testing.T) {
	assert.Equal(t, "start_client_session", EventTypeStartClientSession.String())
	assert.Equal(t, "client_session", EventTypeClientSession.String())
	assert.Equal(t, "error_code", EventTypeErrorCode.String())
	assert.Equal(t, "unknown", EventType(99).String())
}
