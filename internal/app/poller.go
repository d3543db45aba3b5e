package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	minPollTick    = 100 * time.Millisecond
	minPollTimeout = time.Second
)

// PollFunc одна итерация фоновой задачи
type PollFunc func(ctx context.Context) error

type subscription struct {
	id       uint64
	name     string
	interval time.Duration
	fn       PollFunc
	nextRun  time.Time
	// fanOut задача сама ограничивает время каждого чата, общего дедлайна нет
	fanOut bool
}

// Poller общий цикл опроса: одна горутина вместо таймера на каждую задачу.
// Подписчики выполняются последовательно, ошибки логируются и не останавливают цикл.
type Poller struct {
	logger   *zap.Logger
	stopChan chan struct{}
	stopOnce sync.Once
	wake     chan struct{}

	mu     sync.Mutex
	subs   []*subscription
	nextID uint64

	now func() time.Time
}

// NewPoller создаёт планировщик опроса
func NewPoller(logger *zap.Logger) *Poller {
	return &Poller{
		logger:   logger,
		stopChan: make(chan struct{}),
		wake:     make(chan struct{}, 1),
		now:      time.Now,
	}
}

// Subscribe регистрирует задачу. Первый запуск на ближайшем тике.
func (p *Poller) Subscribe(name string, interval time.Duration, fn PollFunc) (unsubscribe func()) {
	return p.subscribe(name, interval, fn, false)
}

// SubscribeFanOut регистрирует обход по чатам: контекст запуска без дедлайна, только отмена
func (p *Poller) SubscribeFanOut(name string, interval time.Duration, fn PollFunc) (unsubscribe func()) {
	return p.subscribe(name, interval, fn, true)
}

func (p *Poller) subscribe(name string, interval time.Duration, fn PollFunc, fanOut bool) func() {
	if interval < minPollTick {
		interval = minPollTick
	}

	p.mu.Lock()
	p.nextID++
	sub := &subscription{id: p.nextID, name: name, interval: interval, fn: fn, nextRun: p.now(), fanOut: fanOut}
	p.subs = append(p.subs, sub)
	p.mu.Unlock()

	p.notify()

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		for i, s := range p.subs {
			if s.id == sub.id {
				p.subs = append(p.subs[:i], p.subs[i+1:]...)
				break
			}
		}
	}
}

// notify пересчитывает период тикера после изменения подписок
func (p *Poller) notify() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Start запускает цикл опроса
func (p *Poller) Start(ctx context.Context) {
	p.logger.Info("Starting poller")
	go p.loop(ctx)
}

// Stop останавливает цикл опроса, повторный вызов безопасен
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		p.logger.Info("Stopping poller")
		close(p.stopChan)
	})
}

func (p *Poller) loop(ctx context.Context) {
	tick := p.tickInterval()
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	p.runDue(ctx)

	for {
		select {
		case <-ticker.C:
			p.runDue(ctx)
		case <-p.wake:
			if next := p.tickInterval(); next != tick {
				tick = next
				ticker.Reset(tick)
			}
		case <-p.stopChan:
			p.logger.Info("Poller stopped")
			return
		case <-ctx.Done():
			p.logger.Info("Poller cancelled")
			return
		}
	}
}

// tickInterval наименьший интервал среди подписчиков
func (p *Poller) tickInterval() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	tick := time.Duration(0)
	for _, s := range p.subs {
		if tick == 0 || s.interval < tick {
			tick = s.interval
		}
	}
	if tick < minPollTick {
		tick = minPollTick
	}
	return tick
}

// due забирает задачи, время которых пришло, и сдвигает их следующий запуск
func (p *Poller) due() []*subscription {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	var out []*subscription
	for _, s := range p.subs {
		if now.Before(s.nextRun) {
			continue
		}
		s.nextRun = now.Add(s.interval)
		out = append(out, s)
	}
	return out
}

func (p *Poller) runDue(ctx context.Context) {
	for _, s := range p.due() {
		if ctx.Err() != nil {
			return
		}
		p.run(ctx, s)
	}
}

func (p *Poller) run(ctx context.Context, s *subscription) {
	var (
		runCtx context.Context
		cancel context.CancelFunc
	)
	if s.fanOut {
		runCtx, cancel = context.WithCancel(ctx)
	} else {
		timeout := s.interval
		if timeout < minPollTimeout {
			timeout = minPollTimeout
		}
		runCtx, cancel = context.WithTimeout(ctx, timeout)
	}
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Poll task panicked",
				zap.String("task", s.name),
				zap.Any("panic", r))
		}
	}()

	if err := s.fn(runCtx); err != nil {
		p.logger.Warn("Poll task failed",
			zap.String("task", s.name),
			zap.Error(err))
	}
}
