// Package worker 提供固定大小的 goroutine pool，用來限制 CPU 密集工作 (例如密碼雜湊) 的併發數。
package worker

import (
	"context"
	"errors"
	"sync"
)

// ErrStopped 表示 pool 已經關閉，不再接受工作
var ErrStopped = errors.New("worker pool stopped")

// Task represents a unit of work executed by the pool.
type Task func()

// Pool defines a bounded worker pool.
type Pool interface {
	// Submit 將工作交給空閒的 worker；pool 忙碌時會阻塞直到 ctx 結束
	Submit(ctx context.Context, t Task) error
	// Run 提交工作並等待其完成
	Run(ctx context.Context, t Task) error
	Stop()
}

// NewPool creates a pool with n workers. n<=0 defaults to 1.
func NewPool(n int) Pool {
	if n <= 0 {
		n = 1
	}
	p := &pool{jobs: make(chan Task), quit: make(chan struct{})}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go p.loop()
	}
	return p
}

type pool struct {
	jobs chan Task
	quit chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

func (p *pool) loop() {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.jobs:
			if job != nil {
				job()
			}
		case <-p.quit:
			return
		}
	}
}

func (p *pool) Submit(ctx context.Context, t Task) error {
	select {
	case <-p.quit:
		return ErrStopped
	default:
	}
	select {
	case p.jobs <- t:
		return nil
	case <-p.quit:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *pool) Run(ctx context.Context, t Task) error {
	done := make(chan struct{})
	err := p.Submit(ctx, func() {
		defer close(done)
		if t != nil {
			t()
		}
	})
	if err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop 關閉 pool 並等待執行中的工作結束，可重複呼叫
func (p *pool) Stop() {
	p.once.Do(func() { close(p.quit) })
	p.wg.Wait()
}
