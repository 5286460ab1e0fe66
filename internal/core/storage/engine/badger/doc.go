// Package badger 实现基于 BadgerDB 的归档存储引擎
//
// 归档按 "<前缀>/<事件类型>/<序号>" 组织键，BadgerDB 的有序 LSM 存储
// 让同一事件类型下的记录按写入顺序排列。值日志按 GCInterval 周期回收。
//
// # 使用示例
//
//	cfg := engine.DefaultConfig("/var/lib/connlog")
//	db, err := badger.New(cfg)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Put([]byte("key"), []byte("value")); err != nil {
//	    return err
//	}
//	value, err := db.Get([]byte("key"))
package badger
