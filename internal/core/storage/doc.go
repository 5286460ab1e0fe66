// Package storage 提供连接日志归档的持久化存储
//
// 基于 BadgerDB，归档事件汇把编码后的 ConnectionsLog 写入
// RootPrefix 下的键空间，dump / export 命令只读打开同一个数据库。
//
//	┌──────────────────────────────┐
//	│   eventlog.StoreLogger       │
//	└──────────────────────────────┘
//	              │
//	              ▼
//	┌──────────────────────────────┐
//	│   kv.Store (cl/ 前缀隔离)     │
//	├──────────────────────────────┤
//	│   engine/badger              │
//	└──────────────────────────────┘
//
// # 使用示例
//
//	app := fx.New(
//	    storage.Module(),
//	    eventlog.Module(),
//	)
//
// 或手动打开：
//
//	eng, store, err := storage.Open("./data/connlog.db", true)
//	if err != nil {
//	    return err
//	}
//	defer eng.Close()
package storage
