// Package eventlog 提供连接日志的事件汇
//
// 记录器在后台任务中把已构造完毕的 ConnectionsLog 交给事件汇。
// 本包实现：
//
//   - MemoryLogger: 保留最近的记录，供诊断服务展示
//   - SlogLogger: 以结构化日志输出摘要
//   - StoreLogger: 以 protobuf 线格式归档到 BadgerDB，按序号读取
//   - MetricsLogger: 统计 Prometheus 指标与按介质的载荷流量后转交
//   - MultiLogger: 扇出到多个事件汇并合并错误
//
// # 线格式
//
// Marshal / Unmarshal 使用 protowire 手工编码，字段号见 codec.go。
// 时长以毫秒存储。
//
// # 使用示例
//
//	memory := eventlog.NewMemoryLogger(16)
//	sink := eventlog.Multi(memory, eventlog.NewSlogLogger(nil, slog.LevelInfo))
//	rec := analytics.New(sink)
package eventlog
