package worker

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/avc/libco-orders/internal/domain"
	"github.com/avc/libco-orders/internal/server/memstore"
)

func TestSweeper_ExpiresStaleReservations(t *testing.T) {
	catalog := memstore.NewCatalog()
	product, err := catalog.AddBook("Rayuela", "Julio Cortázar", "978-84-376-0494-7", decimal.RequireFromString("41000"), 3)
	require.NoError(t, err)

	orders := memstore.NewOrders(catalog)
	order, err := orders.Create(1, []domain.OrderItemRequest{{ProductID: product.ProductID, Quantity: 2}})
	require.NoError(t, err)
	_, _, err = orders.Validate(order.OrderID)
	require.NoError(t, err)

	effective, _ := catalog.EffectiveQuantity(product.ProductID)
	require.Equal(t, 1, effective)

	// Отрицательный TTL делает любой резерв просроченным сразу
	sweeper := NewSweeper(Config{
		Workers:        2,
		QueueSize:      8,
		ScanInterval:   10 * time.Millisecond,
		ReservationTTL: -time.Hour,
	}, orders, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	sweeper.Start(ctx)

	require.Eventually(t, func() bool {
		effective, _ := catalog.EffectiveQuantity(product.ProductID)
		return effective == 3
	}, 2*time.Second, 10*time.Millisecond, "reservation was not released")

	cancel()
	time.Sleep(50 * time.Millisecond)
	sweeper.Stop()

	_, err = orders.Cancel(order.OrderID)
	assert.ErrorIs(t, err, memstore.ErrInvalidTransition, "order is already canceled")
}

func TestSweeper_LeavesFreshReservationsAlone(t *testing.T) {
	catalog := memstore.NewCatalog()
	product, err := catalog.AddBook("Ficciones", "Jorge Luis Borges", "978-0-8021-3030-3", decimal.RequireFromString("29900"), 9)
	require.NoError(t, err)

	orders := memstore.NewOrders(catalog)
	order, err := orders.Create(1, []domain.OrderItemRequest{{ProductID: product.ProductID, Quantity: 1}})
	require.NoError(t, err)
	_, _, err = orders.Validate(order.OrderID)
	require.NoError(t, err)

	sweeper := NewSweeper(Config{
		Workers:        1,
		QueueSize:      8,
		ScanInterval:   10 * time.Millisecond,
		ReservationTTL: time.Hour,
	}, orders, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	sweeper.Start(ctx)

	time.Sleep(100 * time.Millisecond)

	cancel()
	time.Sleep(50 * time.Millisecond)
	sweeper.Stop()

	confirmed, err := orders.Confirm(order.OrderID)
	require.NoError(t, err, "fresh reservation must survive the sweeper")
	assert.Equal(t, domain.OrderStatusCompleted, confirmed.Status)
}
