// Package engine 定义归档存储引擎接口
//
// # 接口
//
//   - Engine: 存储引擎主接口（读写、批量、迭代、生命周期）
//   - Batch: 批量写入
//   - Iterator: 有序迭代器
//
// # 实现
//
//   - badger: BadgerDB 实现
package engine
