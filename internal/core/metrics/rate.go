package metrics

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// ============================================================================
// RateMeter - 速率计算器
// ============================================================================

// RateMeter 速率计算器（60 个 1 秒桶的滑动窗口）
type RateMeter struct {
	mu       sync.RWMutex
	clock    clock.Clock
	buckets  [60]int64
	lastIdx  int
	lastTime time.Time
}

// NewRateMeter 创建速率计算器，clk 为 nil 时使用系统时钟
func NewRateMeter(clk clock.Clock) *RateMeter {
	if clk == nil {
		clk = clock.New()
	}
	return &RateMeter{
		clock:    clk,
		lastTime: clk.Now(),
	}
}

// Add 添加字节数到当前桶
func (r *RateMeter) Add(bytes int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.advanceLocked()
	r.buckets[r.lastIdx] += bytes
}

// advanceLocked 按流逝的整秒数前移并清空经过的桶
func (r *RateMeter) advanceLocked() {
	elapsed := r.clock.Since(r.lastTime)
	if elapsed < time.Second {
		return
	}
	seconds := int(elapsed / time.Second)
	if seconds >= len(r.buckets) {
		r.buckets = [60]int64{}
		r.lastIdx = 0
	} else {
		for i := 0; i < seconds; i++ {
			r.lastIdx = (r.lastIdx + 1) % len(r.buckets)
			r.buckets[r.lastIdx] = 0
		}
	}
	r.lastTime = r.lastTime.Add(time.Duration(seconds) * time.Second)
}

// Rate 返回最近 60 秒的平均速率（字节/秒）
func (r *RateMeter) Rate() float64 {
	return float64(r.Total()) / float64(len(r.buckets))
}

// Total 返回窗口内的总量
func (r *RateMeter) Total() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.advanceLocked()
	var total int64
	for _, v := range r.buckets {
		total += v
	}
	return total
}

// Reset 清空窗口
func (r *RateMeter) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buckets = [60]int64{}
	r.lastIdx = 0
	r.lastTime = r.clock.Now()
}
