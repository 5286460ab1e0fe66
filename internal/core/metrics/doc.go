// Package metrics 统计按介质划分的载荷流量
//
// 事件汇在会话记录交付时把每个物理连接片段上已结束载荷的
// BytesTransferred 计入对应介质，供诊断服务展示。
//
// # 快速开始
//
//	counter := metrics.NewBandwidthCounter(clock.New())
//	counter.LogSent(types.MediumWiFiLAN, 1024)
//	counter.LogReceived(types.MediumBLE, 256)
//
//	totals := counter.Totals()
//	byMedium := counter.ByMedium()
//
// # 速率
//
// RateMeter 使用 60 个 1 秒桶，速率为最近 60 秒的平均值。
package metrics
