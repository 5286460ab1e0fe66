package engine

// Engine 存储引擎
//
// 键按字节序有序；归档记录依赖该顺序按写入先后列出。
type Engine interface {
	// Get 获取值，键不存在时返回 ErrNotFound
	Get(key []byte) ([]byte, error)

	// Put 写入键值对
	Put(key, value []byte) error

	// Delete 删除键
	Delete(key []byte) error

	// Has 检查键是否存在
	Has(key []byte) (bool, error)

	// NewBatch 创建批量写入
	NewBatch() Batch

	// Write 执行批量写入
	Write(batch Batch) error

	// NewIterator 创建迭代器
	NewIterator(opts *IteratorOptions) Iterator

	// NewPrefixIterator 创建前缀迭代器
	NewPrefixIterator(prefix []byte) Iterator

	// Start 启动后台任务（GC）
	Start() error

	// Sync 同步数据到磁盘
	Sync() error

	// Stats 返回统计信息
	Stats() *Stats

	// Close 关闭引擎
	Close() error
}

// Batch 批量写入
type Batch interface {
	Put(key, value []byte)
	Delete(key []byte)
	Write() error
	Reset()
	Size() int
}

// Iterator 有序迭代器
type Iterator interface {
	First() bool
	Next() bool
	Valid() bool
	Key() []byte
	Value() []byte
	Close()
	Error() error
}

// IteratorOptions 迭代器选项
type IteratorOptions struct {
	// Prefix 只迭代该前缀的键
	Prefix []byte

	// StartKey 起始键（包含）
	StartKey []byte

	// EndKey 结束键（不包含）
	EndKey []byte

	// PrefetchValues 是否预取值
	PrefetchValues bool
}

// DefaultIteratorOptions 返回默认迭代器选项
func DefaultIteratorOptions() *IteratorOptions {
	return &IteratorOptions{PrefetchValues: true}
}

// Stats 引擎统计
type Stats struct {
	DiskSize   int64 `json:"disk_size"`
	LSMSize    int64 `json:"lsm_size"`
	VlogSize   int64 `json:"vlog_size"`
	NumWrites  int64 `json:"num_writes"`
	NumReads   int64 `json:"num_reads"`
	NumDeletes int64 `json:"num_deletes"`
}
