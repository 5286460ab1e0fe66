// Package kv 提供带前缀隔离的键值存储
//
// Store 在 engine.Engine 之上为所有键自动加前缀，归档与计数器
// 使用不同的子前缀共存于同一个数据库。
//
// # 键空间
//
//   - cl/                        - storage 根前缀
//   - cl/connlog/seq             - 归档序号计数器
//   - cl/connlog/e/<20 位序号>   - 归档的连接日志记录
//
// # 使用示例
//
//	store := kv.New(eng, []byte("cl/"))
//	seq, err := store.IncrUint64([]byte("seq"), 1)
//	err = store.PrefixScan([]byte("e/"), func(key, value []byte) bool {
//	    return true
//	})
package kv
