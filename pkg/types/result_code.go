package types

import "fmt"

// ============================================================================
//                              OperationResultCode - 细粒度结果码
// ============================================================================

// OperationResultCode 细粒度操作结果码
//
// 取值按区间划分类别：
//   - 0       未知
//   - 1       成功
//   - 1000+   客户端侧错误（取消、参数、权限、重复请求）
//   - 3000+   系统侧错误（介质 IO、连接性、升级、关闭）
//
// 区间之外的值归为未知类别。
type OperationResultCode int32

const (
	// CodeDetailUnknown 未知
	CodeDetailUnknown OperationResultCode = 0
	// CodeDetailSuccess 成功
	CodeDetailSuccess OperationResultCode = 1
)

// 客户端侧错误
const (
	CodeClientCancellationLocalDisconnect  OperationResultCode = 1000
	CodeClientCancellationRemoteDisconnect OperationResultCode = 1001
	CodeClientCancellationCancelled        OperationResultCode = 1002
	CodeClientDuplicateRequest             OperationResultCode = 1003
	CodeClientMissingPermission            OperationResultCode = 1004
	CodeClientUnsupportedMedium            OperationResultCode = 1005
	CodeClientInvalidArgument              OperationResultCode = 1006
	CodeClientAlreadyConnected             OperationResultCode = 1007

	clientErrorFirst OperationResultCode = 1000
	clientErrorLast  OperationResultCode = 2999
)

// 系统侧错误
const (
	CodeIOErrorUnknownMedium OperationResultCode = 3000
	CodeIOErrorBluetooth     OperationResultCode = 3001
	CodeIOErrorBLE           OperationResultCode = 3002
	CodeIOErrorWiFiLAN       OperationResultCode = 3003
	CodeIOErrorWiFiHotspot   OperationResultCode = 3004
	CodeIOErrorWiFiDirect    OperationResultCode = 3005
	CodeIOErrorWiFiAware     OperationResultCode = 3006
	CodeIOErrorWebRTC        OperationResultCode = 3007
	CodeIOErrorAWDL          OperationResultCode = 3008
	CodeIOErrorBLEL2CAP      OperationResultCode = 3009
	CodeIOErrorUSB           OperationResultCode = 3010

	CodeConnectivityTimeout     OperationResultCode = 4000
	CodeConnectivityRefused     OperationResultCode = 4001
	CodeConnectivityUnavailable OperationResultCode = 4002
	CodeUpgradeFailed           OperationResultCode = 4100
	CodeUpgradeUnfinished       OperationResultCode = 4101
	CodeServiceShutdown         OperationResultCode = 4200
	CodeSessionUnfinished       OperationResultCode = 4201

	systemErrorFirst OperationResultCode = 3000
	systemErrorLast  OperationResultCode = 5999
)

// String 返回结果码的字符串表示
func (c OperationResultCode) String() string {
	switch c {
	case CodeDetailUnknown:
		return "detail_unknown"
	case CodeDetailSuccess:
		return "detail_success"
	case CodeClientCancellationLocalDisconnect:
		return "client_cancellation_local_disconnect"
	case CodeClientCancellationRemoteDisconnect:
		return "client_cancellation_remote_disconnect"
	case CodeClientCancellationCancelled:
		return "client_cancellation_cancelled"
	case CodeIOErrorUnknownMedium:
		return "io_error_unknown_medium"
	case CodeServiceShutdown:
		return "service_shutdown"
	case CodeSessionUnfinished:
		return "session_unfinished"
	default:
		return fmt.Sprintf("code(%d)", int32(c))
	}
}

// ============================================================================
//                              OperationResultCategory - 结果类别
// ============================================================================

// OperationResultCategory 结果码的粗粒度类别
type OperationResultCategory int32

const (
	// CategoryUnknown 未知
	CategoryUnknown OperationResultCategory = iota
	// CategorySuccess 成功
	CategorySuccess
	// CategoryClientError 客户端侧错误
	CategoryClientError
	// CategorySystemError 系统侧错误
	CategorySystemError
)

// String 返回类别的字符串表示
func (c OperationResultCategory) String() string {
	switch c {
	case CategorySuccess:
		return "success"
	case CategoryClientError:
		return "client_error"
	case CategorySystemError:
		return "system_error"
	default:
		return "unknown"
	}
}

// CategoryOf 对结果码分类，纯函数
func CategoryOf(code OperationResultCode) OperationResultCategory {
	switch {
	case code == CodeDetailSuccess:
		return CategorySuccess
	case code >= clientErrorFirst && code <= clientErrorLast:
		return CategoryClientError
	case code >= systemErrorFirst && code <= systemErrorLast:
		return CategorySystemError
	default:
		return CategoryUnknown
	}
}

// ChannelIOErrorResultCode 返回介质对应的 IO 错误码
func ChannelIOErrorResultCode(medium Medium) OperationResultCode {
	switch medium {
	case MediumBluetooth:
		return CodeIOErrorBluetooth
	case MediumBLE:
		return CodeIOErrorBLE
	case MediumWiFiLAN:
		return CodeIOErrorWiFiLAN
	case MediumWiFiHotspot:
		return CodeIOErrorWiFiHotspot
	case MediumWiFiDirect:
		return CodeIOErrorWiFiDirect
	case MediumWiFiAware:
		return CodeIOErrorWiFiAware
	case MediumWebRTC, MediumWebRTCNonCellular:
		return CodeIOErrorWebRTC
	case MediumAWDL:
		return CodeIOErrorAWDL
	case MediumBLEL2CAP:
		return CodeIOErrorBLEL2CAP
	case MediumUSB:
		return CodeIOErrorUSB
	default:
		return CodeIOErrorUnknownMedium
	}
}

// PendingPayloadResultCode 根据断开原因推导未完成载荷的结果码
//
// medium 为载荷所在的物理介质，仅在 IO 错误时参与推导。
func PendingPayloadResultCode(reason DisconnectionReason, medium Medium) OperationResultCode {
	switch reason {
	case DisconnectionReasonLocalDisconnection:
		return CodeClientCancellationLocalDisconnect
	case DisconnectionReasonRemoteDisconnection:
		return CodeClientCancellationRemoteDisconnect
	case DisconnectionReasonIOError:
		return ChannelIOErrorResultCode(medium)
	case DisconnectionReasonShutdown:
		return CodeServiceShutdown
	case DisconnectionReasonUnfinished:
		return CodeSessionUnfinished
	default:
		return CodeDetailUnknown
	}
}
