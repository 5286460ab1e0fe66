// Package connlog 提供连接生命周期遥测记录
//
// connlog 观察点对点连接栈的每个阶段（广播、发现、连接协商、介质建立、
// 载荷传输、带宽升级），把并发到达的事件折叠为一条层级化的会话记录，
// 在会话结束时一次性交给事件汇。
//
// # 快速开始
//
//	import "github.com/dep2p/go-connlog"
//
//	// 1. 只需要记录器：自己提供事件汇
//	rec := connlog.NewRecorder(mySink)
//	defer rec.Close()
//
//	// 2. 完整服务：归档、指标、诊断
//	svc, err := connlog.Open(ctx,
//	    connlog.WithArchive("./data"),
//	    connlog.WithIntrospect("127.0.0.1:6061"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer svc.Close(ctx)
//
//	rec := svc.Recorder()
//	rec.StartAdvertising(types.StrategyP2PStar, []types.Medium{types.MediumBLE}, nil)
//	rec.ConnectionEstablished("e1", types.MediumBLE, "tok")
//
// # 结构
//
//	┌──────────────────────────────────────────────────────────┐
//	│  Recorder        上报 API，单锁保护的实体图               │
//	├──────────────────────────────────────────────────────────┤
//	│  EventLogger     指标统计 → 扇出（内存 / 日志 / 归档）    │
//	├──────────────────────────────────────────────────────────┤
//	│  Storage         BadgerDB，键前缀 cl/connlog/             │
//	└──────────────────────────────────────────────────────────┘
//
// 所有上报方法都是尽力而为，不返回错误，也不会阻塞调用方。
package connlog
