// Package interfaces 定义 connlog 的公共接口
//
//   - EventLogger: 事件汇，接收已构造完毕的记录
//   - Recorder:    连接生命周期记录器的上报 API
//
// 实现位于 internal/core/eventlog 与 internal/core/analytics。
package interfaces
