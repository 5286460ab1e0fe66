package types

// ============================================================================
//                              Payload 枚举
// ============================================================================

// PayloadType 载荷类型
type PayloadType int32

const (
	// PayloadTypeUnknown 未知类型
	PayloadTypeUnknown PayloadType = iota
	// PayloadTypeBytes 字节数组
	PayloadTypeBytes
	// PayloadTypeFile 文件
	PayloadTypeFile
	// PayloadTypeStream 流
	PayloadTypeStream
)

// String 返回载荷类型的字符串表示
func (t PayloadType) String() string {
	switch t {
	case PayloadTypeBytes:
		return "bytes"
	case PayloadTypeFile:
		return "file"
	case PayloadTypeStream:
		return "stream"
	default:
		return "unknown"
	}
}

// PayloadStatus 载荷最终状态
type PayloadStatus int32

const (
	// PayloadStatusUnknown 未知
	PayloadStatusUnknown PayloadStatus = iota
	// PayloadStatusSuccess 传输成功
	PayloadStatusSuccess
	// PayloadStatusLocalError 本地错误
	PayloadStatusLocalError
	// PayloadStatusRemoteError 远端错误
	PayloadStatusRemoteError
	// PayloadStatusLocalCancellation 本地取消
	PayloadStatusLocalCancellation
	// PayloadStatusRemoteCancellation 远端取消
	PayloadStatusRemoteCancellation
	// PayloadStatusConnectionClosed 连接关闭时仍未完成
	PayloadStatusConnectionClosed
	// PayloadStatusMovedToNewMedium 带宽升级时迁移到新介质
	PayloadStatusMovedToNewMedium
)

// String 返回载荷状态的字符串表示
func (s PayloadStatus) String() string {
	switch s {
	case PayloadStatusSuccess:
		return "success"
	case PayloadStatusLocalError:
		return "local_error"
	case PayloadStatusRemoteError:
		return "remote_error"
	case PayloadStatusLocalCancellation:
		return "local_cancellation"
	case PayloadStatusRemoteCancellation:
		return "remote_cancellation"
	case PayloadStatusConnectionClosed:
		return "connection_closed"
	case PayloadStatusMovedToNewMedium:
		return "moved_to_new_medium"
	default:
		return "unknown"
	}
}

// ============================================================================
//                              连接尝试枚举
// ============================================================================

// ConnectionAttemptType 连接尝试类型
type ConnectionAttemptType int32

const (
	// AttemptTypeUnknown 未知
	AttemptTypeUnknown ConnectionAttemptType = iota
	// AttemptTypeInitial 首次建连
	AttemptTypeInitial
	// AttemptTypeUpgrade 带宽升级建连
	AttemptTypeUpgrade
)

// String 返回尝试类型的字符串表示
func (t ConnectionAttemptType) String() string {
	switch t {
	case AttemptTypeInitial:
		return "initial"
	case AttemptTypeUpgrade:
		return "upgrade"
	default:
		return "unknown"
	}
}

// ConnectionAttemptResult 连接尝试结果
type ConnectionAttemptResult int32

const (
	// AttemptResultUnknown 未知
	AttemptResultUnknown ConnectionAttemptResult = iota
	// AttemptResultSuccess 成功
	AttemptResultSuccess
	// AttemptResultFailure 失败
	AttemptResultFailure
	// AttemptResultCancelled 已取消
	AttemptResultCancelled
)

// String 返回尝试结果的字符串表示
func (r ConnectionAttemptResult) String() string {
	switch r {
	case AttemptResultSuccess:
		return "success"
	case AttemptResultFailure:
		return "failure"
	case AttemptResultCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// ConnectionAttemptDirection 连接尝试方向
type ConnectionAttemptDirection int32

const (
	// AttemptDirectionUnknown 未知
	AttemptDirectionUnknown ConnectionAttemptDirection = iota
	// AttemptDirectionIncoming 入站
	AttemptDirectionIncoming
	// AttemptDirectionOutgoing 出站
	AttemptDirectionOutgoing
)

// String 返回方向的字符串表示
func (d ConnectionAttemptDirection) String() string {
	switch d {
	case AttemptDirectionIncoming:
		return "incoming"
	case AttemptDirectionOutgoing:
		return "outgoing"
	default:
		return "unknown"
	}
}

// ConnectionTechnology 连接所用的无线技术
type ConnectionTechnology int32

const (
	// TechnologyUnknown 未知
	TechnologyUnknown ConnectionTechnology = iota
	// TechnologyBLEGATT BLE GATT
	TechnologyBLEGATT
	// TechnologyBLEL2CAP BLE L2CAP
	TechnologyBLEL2CAP
	// TechnologyHotspotLocalOnly 仅本地热点
	TechnologyHotspotLocalOnly
	// TechnologyHotspotLegacy 传统热点
	TechnologyHotspotLegacy
	// TechnologyWiFiDirect Wi-Fi Direct
	TechnologyWiFiDirect
)

// ConnectionBand 连接频段
type ConnectionBand int32

const (
	// BandUnknown 未知
	BandUnknown ConnectionBand = iota
	// BandCellular 蜂窝
	BandCellular
	// BandWiFi24GHz 2.4GHz
	BandWiFi24GHz
	// BandWiFi5GHz 5GHz
	BandWiFi5GHz
	// BandWiFi6GHz 6GHz
	BandWiFi6GHz
)

// ============================================================================
//                              连接请求枚举
// ============================================================================

// ConnectionRequestResponse 连接请求一侧的响应
type ConnectionRequestResponse int32

const (
	// ResponseUnknown 尚未响应
	ResponseUnknown ConnectionRequestResponse = iota
	// ResponseAccepted 接受
	ResponseAccepted
	// ResponseRejected 拒绝
	ResponseRejected
	// ResponseIgnored 会话结束时仍未响应
	ResponseIgnored
	// ResponseNotSent 请求未能发出
	ResponseNotSent
)

// String 返回响应的字符串表示
func (r ConnectionRequestResponse) String() string {
	switch r {
	case ResponseAccepted:
		return "accepted"
	case ResponseRejected:
		return "rejected"
	case ResponseIgnored:
		return "ignored"
	case ResponseNotSent:
		return "not_sent"
	default:
		return "unknown"
	}
}

// Responded 报告该侧是否已经给出接受/拒绝
func (r ConnectionRequestResponse) Responded() bool {
	return r == ResponseAccepted || r == ResponseRejected
}

// ============================================================================
//                              断开枚举
// ============================================================================

// DisconnectionReason 物理连接断开原因
type DisconnectionReason int32

const (
	// DisconnectionReasonUnknown 未知
	DisconnectionReasonUnknown DisconnectionReason = iota
	// DisconnectionReasonLocalDisconnection 本地主动断开
	DisconnectionReasonLocalDisconnection
	// DisconnectionReasonRemoteDisconnection 远端主动断开
	DisconnectionReasonRemoteDisconnection
	// DisconnectionReasonIOError 读写错误
	DisconnectionReasonIOError
	// DisconnectionReasonUpgraded 带宽升级后旧介质被替换
	DisconnectionReasonUpgraded
	// DisconnectionReasonShutdown 服务关闭
	DisconnectionReasonShutdown
	// DisconnectionReasonUnfinished 会话结束时连接仍然打开
	DisconnectionReasonUnfinished
)

// String 返回断开原因的字符串表示
func (r DisconnectionReason) String() string {
	switch r {
	case DisconnectionReasonLocalDisconnection:
		return "local_disconnection"
	case DisconnectionReasonRemoteDisconnection:
		return "remote_disconnection"
	case DisconnectionReasonIOError:
		return "io_error"
	case DisconnectionReasonUpgraded:
		return "upgraded"
	case DisconnectionReasonShutdown:
		return "shutdown"
	case DisconnectionReasonUnfinished:
		return "unfinished"
	default:
		return "unknown"
	}
}

// ParseDisconnectionReason 从字符串解析断开原因
func ParseDisconnectionReason(s string) DisconnectionReason {
	for r := DisconnectionReasonLocalDisconnection; r <= DisconnectionReasonUnfinished; r++ {
		if r.String() == s {
			return r
		}
	}
	return DisconnectionReasonUnknown
}

// SafeDisconnectionResult 安全断开握手的结果
type SafeDisconnectionResult int32

const (
	// SafeDisconnectionUnknown 未知
	SafeDisconnectionUnknown SafeDisconnectionResult = iota
	// SafeDisconnectionSuccess 双方确认后断开
	SafeDisconnectionSuccess
	// SafeDisconnectionTimeout 等待确认超时
	SafeDisconnectionTimeout
	// SafeDisconnectionNotEnabled 未启用安全断开
	SafeDisconnectionNotEnabled
	// SafeDisconnectionRemoteNotSupported 远端不支持
	SafeDisconnectionRemoteNotSupported
)

// String 返回安全断开结果的字符串表示
func (r SafeDisconnectionResult) String() string {
	switch r {
	case SafeDisconnectionSuccess:
		return "success"
	case SafeDisconnectionTimeout:
		return "timeout"
	case SafeDisconnectionNotEnabled:
		return "not_enabled"
	case SafeDisconnectionRemoteNotSupported:
		return "remote_not_supported"
	default:
		return "unknown"
	}
}

// ============================================================================
//                              带宽升级枚举
// ============================================================================

// BandwidthUpgradeResult 带宽升级结果
type BandwidthUpgradeResult int32

const (
	// UpgradeResultUnknown 未知
	UpgradeResultUnknown BandwidthUpgradeResult = iota
	// UpgradeResultSuccess 成功
	UpgradeResultSuccess
	// UpgradeResultChannelError 通道错误
	UpgradeResultChannelError
	// UpgradeResultMediumError 介质错误
	UpgradeResultMediumError
	// UpgradeResultProtocolError 协议错误
	UpgradeResultProtocolError
	// UpgradeResultResultError 结果帧错误
	UpgradeResultResultError
	// UpgradeResultUnfinishedError 会话结束或被新尝试取代时仍未完成
	UpgradeResultUnfinishedError
)

// String 返回升级结果的字符串表示
func (r BandwidthUpgradeResult) String() string {
	switch r {
	case UpgradeResultSuccess:
		return "success"
	case UpgradeResultChannelError:
		return "channel_error"
	case UpgradeResultMediumError:
		return "medium_error"
	case UpgradeResultProtocolError:
		return "protocol_error"
	case UpgradeResultResultError:
		return "result_error"
	case UpgradeResultUnfinishedError:
		return "unfinished_error"
	default:
		return "unknown"
	}
}

// BandwidthUpgradeErrorStage 升级失败所处阶段
type BandwidthUpgradeErrorStage int32

const (
	// UpgradeStageUnknown 未知
	UpgradeStageUnknown BandwidthUpgradeErrorStage = iota
	// UpgradeStageNetworkAvailable 检查网络可用
	UpgradeStageNetworkAvailable
	// UpgradeStageConnectToNetwork 连接网络
	UpgradeStageConnectToNetwork
	// UpgradeStageSocketCreation 创建套接字
	UpgradeStageSocketCreation
	// UpgradeStageClientIntroduction 发送客户端介绍帧
	UpgradeStageClientIntroduction
	// UpgradeStageClientIntroductionAck 等待介绍帧确认
	UpgradeStageClientIntroductionAck
	// UpgradeStageSafeToClosePrior 关闭旧通道
	UpgradeStageSafeToClosePrior
	// UpgradeStageUpgradeSuccess 完成切换
	UpgradeStageUpgradeSuccess
)

// String 返回错误阶段的字符串表示
func (s BandwidthUpgradeErrorStage) String() string {
	switch s {
	case UpgradeStageNetworkAvailable:
		return "network_available"
	case UpgradeStageConnectToNetwork:
		return "connect_to_network"
	case UpgradeStageSocketCreation:
		return "socket_creation"
	case UpgradeStageClientIntroduction:
		return "client_introduction"
	case UpgradeStageClientIntroductionAck:
		return "client_introduction_ack"
	case UpgradeStageSafeToClosePrior:
		return "safe_to_close_prior"
	case UpgradeStageUpgradeSuccess:
		return "upgrade_success"
	default:
		return "unknown"
	}
}
