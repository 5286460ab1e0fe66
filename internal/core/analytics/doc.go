// Package analytics 实现连接生命周期记录器
//
// Recorder 观察连接栈的每个阶段（广播、发现、连接请求、物理连接、载荷传输、
// 带宽升级），把并发到达的上报折叠为一份层次化的会话记录，并在会话结束时
// 只交给事件汇一次。
//
// # 实体图
//
//	ClientSession
//	└── StrategySession（策略 + 角色窗口，策略变化时结束并重建）
//	    ├── AdvertisingPhase / DiscoveryPhase / ListeningPhase
//	    ├── ConnectionRequest（按端点，双方都响应后结束）
//	    ├── ConnectionAttempt（独立记录，按介质/方向/令牌/类型/结果码去重）
//	    ├── LogicalConnection（按端点）
//	    │   └── PhysicalConnection（每个介质附着一段，升级时追加）
//	    │       └── Payload（发送 / 接收）
//	    └── BandwidthUpgradeAttempt（按端点）
//
// # 并发模型
//
// 实体图由一把 sync.RWMutex 保护。写操作持写锁，只做内存修改；
// 下标计算等只读推导持读锁。LogSession 在锁内构造不可变快照，
// 释放锁后交给后台 dispatcher 投递，调用方不会被事件汇阻塞。
//
// # 错误处理
//
// 上报方法不返回错误。未知的端点、载荷 ID 直接忽略；会话已记录后的调用
// 被丢弃，仅输出限速的 Debug 日志。
//
// # 使用示例
//
//	rec := analytics.New(sink)
//	defer rec.Close()
//
//	rec.StartAdvertising(types.StrategyP2PStar, []types.Medium{types.MediumBLE}, nil)
//	rec.ConnectionEstablished("e1", types.MediumBLE, "tok1")
//	rec.LogSession()
package analytics
