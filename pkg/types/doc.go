// Package types 定义 connlog 的公共数据结构
//
// 这是整个系统的最底层包，不依赖任何其他 connlog 内部包。
// 所有类型都是纯值类型，记录交付后不再修改。
//
// # 文件组织
//
// 枚举:
//   - medium.go            - Medium, Strategy, SessionRole, PhaseStopReason, EventType
//   - connection_enums.go  - 载荷、连接尝试、断开原因、带宽升级相关枚举
//   - result_code.go       - OperationResultCode 及其分类
//
// 记录:
//   - connlog.go           - ConnectionsLog 及嵌套记录
//   - metadata.go          - 广播/发现/连接尝试元数据与构造函数，ErrorCodeParams
//
// # 结果码
//
// 结果码按区间分类：
//
//	1           成功
//	1000-2999   客户端侧错误
//	3000-5999   系统侧错误
//
// CategoryOf 是纯函数，不需要记录器实例。
package types
