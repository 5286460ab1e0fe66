package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCategoryOf 测试结果码分类区间
func TestCategoryOf(t *testing.T) {
	tests := []struct {
		code OperationResultCode
		want OperationResultCategory
	}{
		{CodeDetailUnknown, CategoryUnknown},
		{CodeDetailSuccess, CategorySuccess},
		{CodeClientCancellationLocalDisconnect, CategoryClientError},
		{2999, CategoryClientError},
		{CodeIOErrorBLE, CategorySystemError},
		{CodeSessionUnfinished, CategorySystemError},
		{6000, CategoryUnknown},
		{-1, CategoryUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CategoryOf(tt.code), "code %d", tt.code)
	}
}

// TestChannelIOErrorResultCode 测试介质到 IO 错误码的映射
func TestChannelIOErrorResultCode(t *testing.T) {
	assert.Equal(t, CodeIOErrorBLE, ChannelIOErrorResultCode(MediumBLE))
	assert.Equal(t, CodeIOErrorWebRTC, ChannelIOErrorResultCode(MediumWebRTCNonCellular))
	assert.Equal(t, CodeIOErrorUnknownMedium, ChannelIOErrorResultCode(MediumNFC))
	assert.Equal(t, CodeIOErrorUnknownMedium, ChannelIOErrorResultCode(MediumUnknown))

	// 每个 IO 错误码都是系统侧错误
	for m := MediumUnknown; m <= MediumAWDL; m++ {
		assert.Equal(t, CategorySystemError, CategoryOf(ChannelIOErrorResultCode(m)), m.String())
	}
}

// TestPendingPayloadResultCode 测试断开原因推导载荷结果码
func TestPendingPayloadResultCode(t *testing.T) {
	assert.Equal(t, CodeClientCancellationLocalDisconnect,
		PendingPayloadResultCode(DisconnectionReasonLocalDisconnection, MediumBLE))
	assert.Equal(t, CodeClientCancellationRemoteDisconnect,
		PendingPayloadResultCode(DisconnectionReasonRemoteDisconnection, MediumBLE))
	assert.Equal(t, CodeIOErrorWiFiLAN,
		PendingPayloadResultCode(DisconnectionReasonIOError, MediumWiFiLAN))
	assert.Equal(t, CodeServiceShutdown,
		PendingPayloadResultCode(DisconnectionReasonShutdown, MediumBLE))
	assert.Equal(t, CodeSessionUnfinished,
		PendingPayloadResultCode(DisconnectionReasonUnfinished, MediumBLE))
	assert.Equal(t, CodeDetailUnknown,
		PendingPayloadResultCode(DisconnectionReasonUpgraded, MediumBLE))
}

// TestOperationResultCode_String 测试未命名的结果码
func TestOperationResultCode_String(t *testing.T) {
	assert.Equal(t, "detail_success", CodeDetailSuccess.String())
	assert.Equal(t, "code(4242)", OperationResultCode(4242).String())
}
