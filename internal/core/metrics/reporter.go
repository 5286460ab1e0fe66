package metrics

import "github.com/dep2p/go-connlog/pkg/types"

// Reporter 记录和读取按介质划分的载荷流量
type Reporter interface {
	// LogSent 记录一次发送载荷的字节数
	LogSent(medium types.Medium, bytes int64)

	// LogReceived 记录一次接收载荷的字节数
	LogReceived(medium types.Medium, bytes int64)

	// ForMedium 返回单个介质的统计
	ForMedium(medium types.Medium) Stats

	// Totals 返回所有介质合计
	Totals() Stats

	// ByMedium 返回所有出现过的介质的统计
	ByMedium() map[types.Medium]Stats

	// Reset 清空统计
	Reset()
}

var _ Reporter = (*BandwidthCounter)(nil)
