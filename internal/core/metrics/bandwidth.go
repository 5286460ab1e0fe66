package metrics

import (
	"sync"
	"sync/atomic"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-connlog/pkg/types"
)

// direction 单方向的累计量与速率
type direction struct {
	total atomic.Int64
	rate  *RateMeter
}

func newDirection(clk clock.Clock) *direction {
	return &direction{rate: NewRateMeter(clk)}
}

func (d *direction) add(bytes int64) {
	d.total.Add(bytes)
	d.rate.Add(bytes)
}

func (d *direction) reset() {
	d.total.Store(0)
	d.rate.Reset()
}

// mediumCounters 单个介质的计数器
type mediumCounters struct {
	in, out  *direction
	payloads atomic.Int64
}

func (m *mediumCounters) stats() Stats {
	return Stats{
		TotalIn:  m.in.total.Load(),
		TotalOut: m.out.total.Load(),
		RateIn:   m.in.rate.Rate(),
		RateOut:  m.out.rate.Rate(),
		Payloads: m.payloads.Load(),
	}
}

// BandwidthCounter 按介质统计载荷流量
type BandwidthCounter struct {
	clock clock.Clock
	total *mediumCounters

	mu      sync.RWMutex
	mediums map[types.Medium]*mediumCounters
}

// NewBandwidthCounter 创建计数器，clk 为 nil 时使用系统时钟
func NewBandwidthCounter(clk clock.Clock) *BandwidthCounter {
	if clk == nil {
		clk = clock.New()
	}
	bwc := &BandwidthCounter{
		clock:   clk,
		mediums: make(map[types.Medium]*mediumCounters),
	}
	bwc.total = bwc.newCounters()
	return bwc
}

func (bwc *BandwidthCounter) newCounters() *mediumCounters {
	return &mediumCounters{in: newDirection(bwc.clock), out: newDirection(bwc.clock)}
}

func (bwc *BandwidthCounter) counters(medium types.Medium) *mediumCounters {
	bwc.mu.RLock()
	c := bwc.mediums[medium]
	bwc.mu.RUnlock()
	if c != nil {
		return c
	}

	bwc.mu.Lock()
	defer bwc.mu.Unlock()
	if c = bwc.mediums[medium]; c == nil {
		c = bwc.newCounters()
		bwc.mediums[medium] = c
	}
	return c
}

// LogSent 记录一次发送载荷
func (bwc *BandwidthCounter) LogSent(medium types.Medium, bytes int64) {
	c := bwc.counters(medium)
	c.out.add(bytes)
	c.payloads.Add(1)
	bwc.total.out.add(bytes)
	bwc.total.payloads.Add(1)
}

// LogReceived 记录一次接收载荷
func (bwc *BandwidthCounter) LogReceived(medium types.Medium, bytes int64) {
	c := bwc.counters(medium)
	c.in.add(bytes)
	c.payloads.Add(1)
	bwc.total.in.add(bytes)
	bwc.total.payloads.Add(1)
}

// ForMedium 返回单个介质的统计，未出现过的介质返回零值
func (bwc *BandwidthCounter) ForMedium(medium types.Medium) Stats {
	bwc.mu.RLock()
	c := bwc.mediums[medium]
	bwc.mu.RUnlock()
	if c == nil {
		return Stats{}
	}
	return c.stats()
}

// Totals 返回所有介质合计
func (bwc *BandwidthCounter) Totals() Stats {
	return bwc.total.stats()
}

// ByMedium 返回所有出现过的介质的统计
func (bwc *BandwidthCounter) ByMedium() map[types.Medium]Stats {
	bwc.mu.RLock()
	defer bwc.mu.RUnlock()

	out := make(map[types.Medium]Stats, len(bwc.mediums))
	for m, c := range bwc.mediums {
		out[m] = c.stats()
	}
	return out
}

// Reset 清空所有统计
func (bwc *BandwidthCounter) Reset() {
	bwc.mu.Lock()
	bwc.mediums = make(map[types.Medium]*mediumCounters)
	bwc.mu.Unlock()

	bwc.total.in.reset()
	bwc.total.out.reset()
	bwc.total.payloads.Store(0)
}
