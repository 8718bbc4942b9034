// Package worker содержит сборщик просроченных резервов: заказы,
// зависшие в статусе check дольше отведенного срока, отменяются,
// а удержанное наличие возвращается в каталог.
package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/avc/libco-orders/internal/server/memstore"
)

// Config настройки сборщика
type Config struct {
	Workers        int
	QueueSize      int
	ScanInterval   time.Duration
	ReservationTTL time.Duration
}

// Sweeper представляет пул воркеров, освобождающих просроченные резервы
type Sweeper struct {
	cfg    Config
	orders *memstore.Orders
	logger *zap.Logger
	queue  chan int64
	wg     sync.WaitGroup
}

// NewSweeper создает новый сборщик
func NewSweeper(cfg Config, orders *memstore.Orders, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		cfg:    cfg,
		orders: orders,
		logger: logger,
		queue:  make(chan int64, cfg.QueueSize),
	}
}

// Start запускает воркеры и сканер
func (s *Sweeper) Start(ctx context.Context) {
	for i := 0; i < s.cfg.Workers; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}

	s.wg.Add(1)
	go s.scanner(ctx)
}

// Stop останавливает сборщик
func (s *Sweeper) Stop() {
	close(s.queue)
	s.wg.Wait()
}

// worker отменяет заказы из очереди
func (s *Sweeper) worker(ctx context.Context, id int) {
	defer s.wg.Done()

	s.logger.Info("sweeper worker started", zap.Int("worker_id", id))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper worker stopping", zap.Int("worker_id", id))
			return
		case orderID, ok := <-s.queue:
			if !ok {
				return
			}
			s.expire(orderID)
		}
	}
}

// scanner периодически ищет просроченные резервы
func (s *Sweeper) scanner(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.ScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper scanner stopping")
			return
		case <-ticker.C:
			s.scanStale(ctx)
		}
	}
}

// scanStale отправляет просроченные заказы в очередь
func (s *Sweeper) scanStale(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-s.cfg.ReservationTTL)
	for _, orderID := range s.orders.StaleChecked(cutoff) {
		select {
		case s.queue <- orderID:
		case <-ctx.Done():
			return
		default:
			// Очередь заполнена, заказ попадет в следующий проход
			s.logger.Warn("sweeper queue is full, skipping order", zap.Int64("order_id", orderID))
		}
	}
}

// expire отменяет один просроченный заказ
func (s *Sweeper) expire(orderID int64) {
	order, err := s.orders.Cancel(orderID)
	if err != nil {
		// Заказ успели подтвердить или отменить между сканом и отменой
		s.logger.Debug("stale order no longer cancelable",
			zap.Int64("order_id", orderID),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("stale reservation released",
		zap.Int64("order_id", order.OrderID),
		zap.String("status", string(order.Status)),
	)
}
