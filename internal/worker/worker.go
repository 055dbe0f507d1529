package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrStopped 表示 pool 已停止，不再接受工作
var ErrStopped = errors.New("worker pool stopped")

// Task 是 pool 執行的一個背景工作
type Task func(ctx context.Context) error

// Pool 背景工作池
type Pool interface {
	Submit(name string, t Task) error
	Stop()
}

type job struct {
	name string
	task Task
}

// NewPool 建立 n 個 worker 的 pool，n<=0 時視為 1；queue 為待處理佇列長度
func NewPool(n, queue int, log *slog.Logger) Pool {
	if n <= 0 {
		n = 1
	}
	if queue < 0 {
		queue = 0
	}
	if log == nil {
		log = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &pool{jobs: make(chan job, queue), log: log, ctx: ctx, cancel: cancel}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer p.wg.Done()
			for j := range p.jobs {
				p.run(j)
			}
		}()
	}
	return p
}

type pool struct {
	mu      sync.RWMutex
	stopped bool
	jobs    chan job
	wg      sync.WaitGroup
	log     *slog.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

func (p *pool) run(j job) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("task panicked", "task", j.name, "panic", fmt.Sprint(r))
		}
	}()
	if j.task == nil {
		return
	}
	if err := j.task(p.ctx); err != nil {
		p.log.Warn("task failed", "task", j.name, "error", err)
		return
	}
	p.log.Debug("task done", "task", j.name)
}

// Submit 將工作排入佇列，Stop 之後回傳 ErrStopped
func (p *pool) Submit(name string, t Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return ErrStopped
	}
	p.jobs <- job{name: name, task: t}
	return nil
}

// Stop 等待佇列中的工作全部完成
func (p *pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.jobs)
	p.mu.Unlock()
	p.wg.Wait()
	p.cancel()
}
