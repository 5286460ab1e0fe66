package types

// ============================================================================
//                              Medium - 物理介质
// ============================================================================

// Medium 物理传输介质
//
// 数值与外部日志 schema 对齐，新增介质只能追加。
type Medium int32

const (
	// MediumUnknown 未知介质
	MediumUnknown Medium = iota
	// MediumMDNS mDNS
	MediumMDNS
	// MediumBluetooth 经典蓝牙
	MediumBluetooth
	// MediumWiFiHotspot Wi-Fi 热点
	MediumWiFiHotspot
	// MediumBLE 低功耗蓝牙
	MediumBLE
	// MediumWiFiLAN 局域网 Wi-Fi
	MediumWiFiLAN
	// MediumWiFiAware Wi-Fi Aware
	MediumWiFiAware
	// MediumNFC NFC
	MediumNFC
	// MediumWiFiDirect Wi-Fi Direct
	MediumWiFiDirect
	// MediumWebRTC WebRTC
	MediumWebRTC
	// MediumBLEL2CAP BLE L2CAP
	MediumBLEL2CAP
	// MediumUSB USB
	MediumUSB
	// MediumWebRTCNonCellular 非蜂窝 WebRTC
	MediumWebRTCNonCellular
	// MediumAWDL AWDL
	MediumAWDL
)

// String 返回介质的字符串表示
func (m Medium) String() string {
	switch m {
	case MediumMDNS:
		return "mdns"
	case MediumBluetooth:
		return "bluetooth"
	case MediumWiFiHotspot:
		return "wifi_hotspot"
	case MediumBLE:
		return "ble"
	case MediumWiFiLAN:
		return "wifi_lan"
	case MediumWiFiAware:
		return "wifi_aware"
	case MediumNFC:
		return "nfc"
	case MediumWiFiDirect:
		return "wifi_direct"
	case MediumWebRTC:
		return "webrtc"
	case MediumBLEL2CAP:
		return "ble_l2cap"
	case MediumUSB:
		return "usb"
	case MediumWebRTCNonCellular:
		return "webrtc_non_cellular"
	case MediumAWDL:
		return "awdl"
	default:
		return "unknown"
	}
}

// ParseMedium 从字符串解析介质，未识别时返回 MediumUnknown
func ParseMedium(s string) Medium {
	for m := MediumMDNS; m <= MediumAWDL; m++ {
		if m.String() == s {
			return m
		}
	}
	return MediumUnknown
}

// ============================================================================
//                              Strategy - 连接策略
// ============================================================================

// Strategy 广播/发现策略
type Strategy int32

const (
	// StrategyNone 未设置策略
	StrategyNone Strategy = iota
	// StrategyP2PCluster M-N 拓扑
	StrategyP2PCluster
	// StrategyP2PStar 1-N 星型拓扑
	StrategyP2PStar
	// StrategyP2PPointToPoint 1-1 点对点
	StrategyP2PPointToPoint
)

// String 返回策略的字符串表示
func (s Strategy) String() string {
	switch s {
	case StrategyP2PCluster:
		return "p2p_cluster"
	case StrategyP2PStar:
		return "p2p_star"
	case StrategyP2PPointToPoint:
		return "p2p_point_to_point"
	default:
		return "none"
	}
}

// ParseStrategy 从字符串解析策略
func ParseStrategy(s string) Strategy {
	switch s {
	case "p2p_cluster":
		return StrategyP2PCluster
	case "p2p_star":
		return StrategyP2PStar
	case "p2p_point_to_point":
		return StrategyP2PPointToPoint
	default:
		return StrategyNone
	}
}

// ============================================================================
//                              SessionRole - 会话角色
// ============================================================================

// SessionRole 策略会话中的本地角色
type SessionRole int32

const (
	// RoleUnknown 未知角色
	RoleUnknown SessionRole = iota
	// RoleAdvertiser 广播方
	RoleAdvertiser
	// RoleDiscoverer 发现方
	RoleDiscoverer
)

// String 返回角色的字符串表示
func (r SessionRole) String() string {
	switch r {
	case RoleAdvertiser:
		return "advertiser"
	case RoleDiscoverer:
		return "discoverer"
	default:
		return "unknown"
	}
}

// ============================================================================
//                              PhaseStopReason - 阶段结束原因
// ============================================================================

// PhaseStopReason 广播/发现/监听窗口的结束原因
type PhaseStopReason int32

const (
	// StopReasonUnknown 未结束或原因未知
	StopReasonUnknown PhaseStopReason = iota
	// StopReasonClientRequest 调用方主动停止
	StopReasonClientRequest
	// StopReasonSessionFinished 策略会话结束时被动收尾
	StopReasonSessionFinished
)

// String 返回结束原因的字符串表示
func (r PhaseStopReason) String() string {
	switch r {
	case StopReasonClientRequest:
		return "client_request"
	case StopReasonSessionFinished:
		return "session_finished"
	default:
		return "unknown"
	}
}

// ============================================================================
//                              EventType - 事件类型
// ============================================================================

// EventType 交给事件汇的记录类型
type EventType int32

const (
	// EventTypeUnknown 未知事件
	EventTypeUnknown EventType = iota
	// EventTypeStartClientSession 客户端会话开始
	EventTypeStartClientSession
	// EventTypeClientSession 完整客户端会话记录
	EventTypeClientSession
	// EventTypeErrorCode 独立错误码记录
	EventTypeErrorCode
)

// String 返回事件类型的字符串表示
func (e EventType) String() string {
	switch e {
	case EventTypeStartClientSession:
		return "start_client_session"
	case EventTypeClientSession:
		return "client_session"
	case EventTypeErrorCode:
		return "error_code"
	default:
		return "unknown"
	}
}
