package types

import "time"

// ============================================================================
//                              ConnectionsLog - 事件记录
// ============================================================================

// ConnectionsLog 交给事件汇的一条完整记录
//
// 记录在交付前已经构造完毕，之后不再修改；事件汇可以安全地并发读取。
// 根据 EventType，ClientSession / ErrorCode 中只有一个非空。
type ConnectionsLog struct {
	// EventType 事件类型
	EventType EventType

	// Version 记录格式版本
	Version string

	// ClientSession 客户端会话（EventTypeStartClientSession / EventTypeClientSession）
	ClientSession *ClientSessionRecord

	// ErrorCode 独立错误码（EventTypeErrorCode）
	ErrorCode *ErrorCodeRecord
}

// ClientSessionRecord 一个连接会话的完整记录
type ClientSessionRecord struct {
	// SessionID 会话标识
	SessionID string

	// Duration 会话时长
	Duration time.Duration

	// StrategySessions 按开始顺序排列的策略会话
	StrategySessions []StrategySessionRecord
}

// StrategySessionRecord 一个策略/角色窗口的记录
type StrategySessionRecord struct {
	Strategy Strategy
	Roles    []SessionRole
	Duration time.Duration

	AdvertisingPhases []AdvertisingPhaseRecord
	DiscoveryPhases   []DiscoveryPhaseRecord
	ListeningPhases   []ListeningPhaseRecord

	ConnectionRequests []ConnectionRequestRecord
	ConnectionAttempts []ConnectionAttemptRecord
	Connections        []LogicalConnectionRecord
	UpgradeAttempts    []BandwidthUpgradeAttemptRecord
}

// OperationResultWithMedium 单个介质一次操作的结果
//
// UpdateIndex 用于把同一次更新调用产生的多个结果归为一组。
type OperationResultWithMedium struct {
	Medium      Medium
	ResultCode  OperationResultCode
	UpdateIndex int
}

// AdvertisingPhaseRecord 一次广播窗口
type AdvertisingPhaseRecord struct {
	Mediums    []Medium
	Duration   time.Duration
	StopReason PhaseStopReason

	ExtendedAdvertisementSupported bool
	ConnectedAPFrequency           int
	NFCAvailable                   bool

	Results []OperationResultWithMedium
}

// MediumCount 介质计数
type MediumCount struct {
	Medium Medium
	Count  int
}

// DiscoveryPhaseRecord 一次发现窗口
type DiscoveryPhaseRecord struct {
	Mediums    []Medium
	Duration   time.Duration
	StopReason PhaseStopReason

	ExtendedAdvertisementSupported bool
	ConnectedAPFrequency           int
	NFCAvailable                   bool

	// EndpointsFound 按介质升序排列的发现计数
	EndpointsFound []MediumCount

	Results []OperationResultWithMedium
}

// ListeningPhaseRecord 一次入站连接监听窗口
type ListeningPhaseRecord struct {
	Duration   time.Duration
	StopReason PhaseStopReason
}

// ConnectionRequestRecord 一次连接请求握手
//
// 记录不含端点 ID。
type ConnectionRequestRecord struct {
	Direction      ConnectionAttemptDirection
	LocalResponse  ConnectionRequestResponse
	RemoteResponse ConnectionRequestResponse

	// RequestDelay 请求时刻相对所在阶段开始的延迟
	RequestDelay time.Duration
	// LocalResponseDelay 本地响应相对请求的延迟
	LocalResponseDelay time.Duration
	// RemoteResponseDelay 远端响应相对请求的延迟
	RemoteResponseDelay time.Duration
}

// ConnectionAttemptRecord 一次物理连接尝试
type ConnectionAttemptRecord struct {
	Direction       ConnectionAttemptDirection
	Type            ConnectionAttemptType
	Medium          Medium
	Result          ConnectionAttemptResult
	Duration        time.Duration
	ConnectionToken string
	ResultCode      OperationResultCode

	// Metadata 可选的尝试元数据
	Metadata *ConnectionAttemptMetadata
}

// LogicalConnectionRecord 一个远端的完整逻辑连接
type LogicalConnectionRecord struct {
	// PhysicalConnections 按建立顺序排列的物理连接片段
	PhysicalConnections []PhysicalConnectionRecord
}

// PhysicalConnectionRecord 逻辑连接中的一次介质附着
type PhysicalConnectionRecord struct {
	Medium                  Medium
	ConnectionToken         string
	Duration                time.Duration
	DisconnectionReason     DisconnectionReason
	SafeDisconnectionResult SafeDisconnectionResult

	SentPayloads     []PayloadRecord
	ReceivedPayloads []PayloadRecord
}

// PayloadRecord 一次已结束的载荷传输
type PayloadRecord struct {
	Type           PayloadType
	TotalSizeBytes int64

	// BytesTransferred 实际累计的字节数，可能与 TotalSizeBytes 不同
	BytesTransferred int64
	ChunkCount       int
	Duration         time.Duration
	Status           PayloadStatus
	ResultCode       OperationResultCode
}

// BandwidthUpgradeAttemptRecord 一次带宽升级尝试
type BandwidthUpgradeAttemptRecord struct {
	Direction       ConnectionAttemptDirection
	FromMedium      Medium
	ToMedium        Medium
	Duration        time.Duration
	Result          BandwidthUpgradeResult
	ErrorStage      BandwidthUpgradeErrorStage
	ConnectionToken string
	ResultCode      OperationResultCode
}

// ErrorCodeRecord 独立于会话图的错误码记录
type ErrorCodeRecord struct {
	Event           ErrorEvent
	Description     string
	Medium          Medium
	ResultCode      OperationResultCode
	ConnectionToken string
}
