package analytics

import (
	"context"
	"fmt"
	"sync"

	"github.com/dep2p/go-connlog/pkg/interfaces"
	"github.com/dep2p/go-connlog/pkg/types"
)

// ============================================================================
//                              dispatcher - 后台投递
// ============================================================================

// flushTask 一次投递任务
type flushTask struct {
	record    *types.ConnectionsLog
	eventType types.EventType
}

// dispatcher 把记录交给事件汇的单 worker 队列
//
// 队列无界，submit 不阻塞。submitted / completed 计数用于 drain，
// 任务按提交顺序投递。
type dispatcher struct {
	sink interfaces.EventLogger

	mu        sync.Mutex
	cond      *sync.Cond
	queue     []flushTask
	submitted uint64
	completed uint64
	failed    uint64
	closed    bool

	closeOnce sync.Once
	done      chan struct{}
}

func newDispatcher(sink interfaces.EventLogger) *dispatcher {
	d := &dispatcher{
		sink: sink,
		done: make(chan struct{}),
	}
	d.cond = sync.NewCond(&d.mu)
	go d.run()
	return d
}

// submit 入队，关闭后返回 false
func (d *dispatcher) submit(task flushTask) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return false
	}
	d.queue = append(d.queue, task)
	d.submitted++
	d.cond.Broadcast()
	return true
}

func (d *dispatcher) run() {
	defer close(d.done)

	for {
		d.mu.Lock()
		for len(d.queue) == 0 && !d.closed {
			d.cond.Wait()
		}
		if len(d.queue) == 0 {
			d.mu.Unlock()
			return
		}
		task := d.queue[0]
		d.queue[0] = flushTask{}
		d.queue = d.queue[1:]
		d.mu.Unlock()

		err := d.deliver(task)

		d.mu.Lock()
		d.completed++
		if err != nil {
			d.failed++
		}
		d.cond.Broadcast()
		d.mu.Unlock()
	}
}

// deliver 调用事件汇，错误与 panic 只记录日志
func (d *dispatcher) deliver(task flushTask) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("event logger panic: %v", p)
			logger.Error("事件汇 panic", "eventType", task.eventType, "panic", p)
		}
	}()

	if err = d.sink.Log(context.Background(), task.record, task.eventType); err != nil {
		logger.Warn("事件汇投递失败", "eventType", task.eventType, "error", err)
	}
	return err
}

// drain 阻塞直到调用前提交的任务全部完成
func (d *dispatcher) drain() {
	d.mu.Lock()
	defer d.mu.Unlock()

	target := d.submitted
	for d.completed < target {
		d.cond.Wait()
	}
}

// pending 返回尚未完成的任务数
func (d *dispatcher) pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int(d.submitted - d.completed)
}

// failures 返回投递失败次数
func (d *dispatcher) failures() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.failed
}

// close 停止接收新任务，等待已提交任务投递完毕
func (d *dispatcher) close() {
	d.closeOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		d.cond.Broadcast()
		d.mu.Unlock()
	})
	<-d.done
}
