// Package interfaces 定义 connlog 的公共接口
//
// 本文件定义事件汇与连接生命周期记录器接口。
package interfaces

import (
	"context"
	"time"

	"github.com/dep2p/go-connlog/pkg/types"
)

// EventLogger 事件汇
//
// 接收一条已构造完毕的记录。记录器在后台任务中调用 Log，
// 返回的错误只会被记录到日志，不会重试。
type EventLogger interface {
	Log(ctx context.Context, record *types.ConnectionsLog, eventType types.EventType) error
}

// EventLoggerFunc 函数适配器
type EventLoggerFunc func(ctx context.Context, record *types.ConnectionsLog, eventType types.EventType) error

// Log 实现 EventLogger
func (f EventLoggerFunc) Log(ctx context.Context, record *types.ConnectionsLog, eventType types.EventType) error {
	return f(ctx, record, eventType)
}

// Recorder 连接生命周期记录器
//
// 所有上报方法都是尽力而为：不返回错误，不阻塞调用方的连接决策。
type Recorder interface {
	// --- 广播 / 发现 / 监听 ---

	StartAdvertising(strategy types.Strategy, mediums []types.Medium, md *types.AdvertisingMetadata)
	StopAdvertising()
	NextAdvertisingUpdateIndex() int

	StartDiscovery(strategy types.Strategy, mediums []types.Medium, md *types.DiscoveryMetadata)
	StopDiscovery()
	NextDiscoveryUpdateIndex() int
	OnEndpointFound(medium types.Medium)

	StartListeningForIncomingConnections(strategy types.Strategy)
	StopListeningForIncomingConnections()

	// --- 连接请求 ---

	RequestConnection(strategy types.Strategy, endpointID string)
	ConnectionRequestReceived(endpointID string)
	ConnectionRequestSent(endpointID string)
	RemoteEndpointAccepted(endpointID string)
	RemoteEndpointRejected(endpointID string)
	LocalEndpointAccepted(endpointID string)
	LocalEndpointRejected(endpointID string)

	// --- 连接尝试 ---

	IncomingConnectionAttempt(attemptType types.ConnectionAttemptType, medium types.Medium,
		result types.ConnectionAttemptResult, duration time.Duration, token string,
		md *types.ConnectionAttemptMetadata)
	OutgoingConnectionAttempt(endpointID string, attemptType types.ConnectionAttemptType,
		medium types.Medium, result types.ConnectionAttemptResult, duration time.Duration,
		token string, md *types.ConnectionAttemptMetadata)

	// --- 逻辑连接 ---

	ConnectionEstablished(endpointID string, medium types.Medium, token string)
	ConnectionClosed(endpointID string, medium types.Medium, reason types.DisconnectionReason,
		result types.SafeDisconnectionResult)

	// --- 载荷 ---

	IncomingPayloadStarted(endpointID string, payloadID int64, payloadType types.PayloadType, totalSize int64)
	PayloadChunkReceived(endpointID string, payloadID int64, chunkSize int64)
	IncomingPayloadDone(endpointID string, payloadID int64, status types.PayloadStatus, code types.OperationResultCode)
	OutgoingPayloadStarted(endpointIDs []string, payloadID int64, payloadType types.PayloadType, totalSize int64)
	PayloadChunkSent(endpointID string, payloadID int64, chunkSize int64)
	OutgoingPayloadDone(endpointID string, payloadID int64, status types.PayloadStatus, code types.OperationResultCode)

	// --- 带宽升级 ---

	BandwidthUpgradeStarted(endpointID string, from, to types.Medium,
		direction types.ConnectionAttemptDirection, token string)
	BandwidthUpgradeSuccess(endpointID string)
	BandwidthUpgradeError(endpointID string, result types.BandwidthUpgradeResult,
		stage types.BandwidthUpgradeErrorStage, code types.OperationResultCode)

	// --- 会话 ---

	OnErrorCode(params types.ErrorCodeParams)
	LogStartSession()
	LogSession()
	IsSessionLogged() bool
	OperationResultCategory(code types.OperationResultCode) types.OperationResultCategory
}
