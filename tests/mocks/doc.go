// Package mocks 提供统一的测试 Mock 实现
//
// # 事件汇 Mock
//
//   - MockEventLogger: 模拟 interfaces.EventLogger，记录每次 Log 调用
//
// # 设计原则
//
// 1. 函数式注入: 通过 LogFunc 字段注入自定义行为（例如返回错误或 panic）
// 2. 调用记录: 记录调用历史，便于验证投递次数与内容
//
// # 使用示例
//
//	sink := mocks.NewMockEventLogger()
//	rec := analytics.New(sink)
//	rec.LogSession()
//	rec.Sync()
//
//	if len(sink.Sessions()) != 1 {
//	    t.Fatal("expected one session")
//	}
//
// 自定义行为:
//
//	sink := &mocks.MockEventLogger{
//	    LogFunc: func(ctx context.Context, r *types.ConnectionsLog, et types.EventType) error {
//	        return errors.New("sink unavailable")
//	    },
//	}
package mocks
