package types

// ============================================================================
//                              调用元数据
// ============================================================================

// 元数据中表示“未设置”的取值
const (
	// FrequencyUnset 未知频率
	FrequencyUnset = 0
	// ChannelWidthUnset 未知信道宽度
	ChannelWidthUnset = -1
	// SpeedUnset 未知速率
	SpeedUnset = 0
)

// AdvertisingMetadata 广播调用元数据
type AdvertisingMetadata struct {
	ExtendedAdvertisementSupported bool
	ConnectedAPFrequency           int
	NFCAvailable                   bool

	// OperationResults 本次调用各介质的启动结果
	OperationResults []OperationResultWithMedium
}

// DiscoveryMetadata 发现调用元数据
type DiscoveryMetadata struct {
	ExtendedAdvertisementSupported bool
	ConnectedAPFrequency           int
	NFCAvailable                   bool

	// OperationResults 本次调用各介质的启动结果
	OperationResults []OperationResultWithMedium
}

// BuildAdvertisingMetadata 构造广播元数据
func BuildAdvertisingMetadata(extendedAdvertisement bool, apFrequency int, nfcAvailable bool,
	results ...OperationResultWithMedium) *AdvertisingMetadata {
	return &AdvertisingMetadata{
		ExtendedAdvertisementSupported: extendedAdvertisement,
		ConnectedAPFrequency:           apFrequency,
		NFCAvailable:                   nfcAvailable,
		OperationResults:               append([]OperationResultWithMedium(nil), results...),
	}
}

// BuildDiscoveryMetadata 构造发现元数据
func BuildDiscoveryMetadata(extendedAdvertisement bool, apFrequency int, nfcAvailable bool,
	results ...OperationResultWithMedium) *DiscoveryMetadata {
	return &DiscoveryMetadata{
		ExtendedAdvertisementSupported: extendedAdvertisement,
		ConnectedAPFrequency:           apFrequency,
		NFCAvailable:                   nfcAvailable,
		OperationResults:               append([]OperationResultWithMedium(nil), results...),
	}
}

// MediumResult 便捷构造单个介质结果
func MediumResult(medium Medium, code OperationResultCode) OperationResultWithMedium {
	return OperationResultWithMedium{Medium: medium, ResultCode: code}
}

// ConnectionAttemptMetadata 连接尝试元数据
type ConnectionAttemptMetadata struct {
	Technology ConnectionTechnology
	Band       ConnectionBand
	Frequency  int
	TryCount   int

	NetworkOperator string
	CountryCode     string

	TDLSUsed           bool
	WiFiHotspotEnabled bool
	MaxWiFiTxSpeed     int
	MaxWiFiRxSpeed     int
	ChannelWidth       int

	// ResultCode 尝试的细粒度结果码
	ResultCode OperationResultCode
}

// ConnectionAttemptOption 连接尝试元数据选项
type ConnectionAttemptOption func(*ConnectionAttemptMetadata)

// WithNetworkOperator 设置运营商与国家码
func WithNetworkOperator(operator, countryCode string) ConnectionAttemptOption {
	return func(m *ConnectionAttemptMetadata) {
		m.NetworkOperator = operator
		m.CountryCode = countryCode
	}
}

// WithTDLS 标记使用了 TDLS
func WithTDLS() ConnectionAttemptOption {
	return func(m *ConnectionAttemptMetadata) { m.TDLSUsed = true }
}

// WithWiFiHotspot 标记热点已开启
func WithWiFiHotspot() ConnectionAttemptOption {
	return func(m *ConnectionAttemptMetadata) { m.WiFiHotspotEnabled = true }
}

// WithWiFiSpeed 设置最大收发速率（Mbps）
func WithWiFiSpeed(tx, rx int) ConnectionAttemptOption {
	return func(m *ConnectionAttemptMetadata) {
		m.MaxWiFiTxSpeed = tx
		m.MaxWiFiRxSpeed = rx
	}
}

// WithChannelWidth 设置信道宽度
func WithChannelWidth(width int) ConnectionAttemptOption {
	return func(m *ConnectionAttemptMetadata) { m.ChannelWidth = width }
}

// WithResultCode 设置细粒度结果码
func WithResultCode(code OperationResultCode) ConnectionAttemptOption {
	return func(m *ConnectionAttemptMetadata) { m.ResultCode = code }
}

// BuildConnectionAttemptMetadata 构造连接尝试元数据
//
// 未通过选项设置的字段保持“未设置”取值。
func BuildConnectionAttemptMetadata(technology ConnectionTechnology, band ConnectionBand,
	frequency, tryCount int, opts ...ConnectionAttemptOption) *ConnectionAttemptMetadata {
	m := &ConnectionAttemptMetadata{
		Technology:     technology,
		Band:           band,
		Frequency:      frequency,
		TryCount:       tryCount,
		MaxWiFiTxSpeed: SpeedUnset,
		MaxWiFiRxSpeed: SpeedUnset,
		ChannelWidth:   ChannelWidthUnset,
		ResultCode:     CodeDetailUnknown,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ============================================================================
//                              ErrorCodeParams - 错误码参数
// ============================================================================

// ErrorEvent 错误发生时的操作
type ErrorEvent int32

const (
	// ErrorEventUnknown 未知
	ErrorEventUnknown ErrorEvent = iota
	// ErrorEventStartAdvertising 启动广播
	ErrorEventStartAdvertising
	// ErrorEventStopAdvertising 停止广播
	ErrorEventStopAdvertising
	// ErrorEventStartDiscovery 启动发现
	ErrorEventStartDiscovery
	// ErrorEventStopDiscovery 停止发现
	ErrorEventStopDiscovery
	// ErrorEventConnect 建立连接
	ErrorEventConnect
	// ErrorEventUpgrade 带宽升级
	ErrorEventUpgrade
	// ErrorEventSendPayload 发送载荷
	ErrorEventSendPayload
)

// String 返回错误事件的字符串表示
func (e ErrorEvent) String() string {
	switch e {
	case ErrorEventStartAdvertising:
		return "start_advertising"
	case ErrorEventStopAdvertising:
		return "stop_advertising"
	case ErrorEventStartDiscovery:
		return "start_discovery"
	case ErrorEventStopDiscovery:
		return "stop_discovery"
	case ErrorEventConnect:
		return "connect"
	case ErrorEventUpgrade:
		return "upgrade"
	case ErrorEventSendPayload:
		return "send_payload"
	default:
		return "unknown"
	}
}

// ErrorCodeParams 上报跟踪图之外的失败
type ErrorCodeParams struct {
	Event           ErrorEvent
	Description     string
	Medium          Medium
	ResultCode      OperationResultCode
	ConnectionToken string
}
