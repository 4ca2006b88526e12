package repository

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	customerdomain "github.com/maplebill/maplebill/internal/customer/domain"
	"github.com/maplebill/maplebill/internal/invoice/domain"
	"github.com/maplebill/maplebill/internal/money"
)

func setupRepo(t *testing.T) domain.Repository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Invoice{}, &domain.Payment{}, &domain.Refund{}))
	return Provide(db)
}

func testInvoice(id snowflake.ID, number string) *domain.Invoice {
	inv := &domain.Invoice{
		ID:              id,
		InvoiceNumber:   number,
		InvoiceDate:     time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		DueDate:         time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		Status:          domain.StatusDraft,
		CustomerID:      7,
		PlaceOfSupplyID: 13,
		BillingAddress: domain.AddressColumn(customerdomain.Address{
			Line1: "100 Queen St W", City: "Toronto", Province: "ON", Country: "CA",
		}),
		Shipping: domain.ShippingColumn(domain.EmptyShipping()),
	}
	li, _ := domain.NewLineItem(domain.ItemSnapshot{
		ItemID:    21,
		SKU:       "WID-1",
		Name:      "Widget",
		UnitPrice: money.MustFromString("50.00"),
		UnitType:  "each",
	}).SetQuantity(money.FromInt(2))
	inv.AddLineItem(li)
	return inv
}

func TestRepository_InsertAndFindByID(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, testInvoice(1, "INV-1")))

	loaded, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "INV-1", loaded.InvoiceNumber)
	assert.Equal(t, "Toronto", loaded.BillingAddress.City)
	require.Len(t, loaded.LineItems, 1)
	assert.Equal(t, "Widget", loaded.LineItems[0].Item.Name)
	assert.Equal(t, "100.00", loaded.Subtotal().StringFixed(2), "totals recompute from the stored aggregate")
}

func TestRepository_FindByID_NotFound(t *testing.T) {
	repo := setupRepo(t)
	_, err := repo.FindByID(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRepository_Update_BumpsVersion(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, testInvoice(1, "INV-1")))

	inv, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, inv.UpdateLineItemQuantity(0, money.FromInt(3)))
	require.NoError(t, repo.Update(ctx, inv))
	assert.Equal(t, int64(1), inv.Version)

	reloaded, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), reloaded.Version)
	assert.Equal(t, "150.00", reloaded.Subtotal().StringFixed(2))
}

func TestRepository_Update_StaleVersionRejected(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, testInvoice(1, "INV-1")))

	// Two actors load the same version.
	first, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, first.UpdateLineItemQuantity(0, money.FromInt(5)))
	require.NoError(t, repo.Update(ctx, first))

	require.NoError(t, second.UpdateLineItemQuantity(0, money.FromInt(9)))
	err = repo.Update(ctx, second)
	assert.ErrorIs(t, err, domain.ErrStaleInvoice)
	assert.Equal(t, int64(0), second.Version, "failed write restores the loaded version")

	// The first writer's change survives.
	current, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "250.00", current.Subtotal().StringFixed(2))
}

func TestRepository_Update_PersistsPaymentSnapshots(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, testInvoice(1, "INV-1")))

	inv, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	inv.ProcessPayment(domain.Payment{
		ID: 100, Amount: money.FromInt(100),
		PaymentDate: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, repo.Update(ctx, inv))

	reloaded, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, reloaded.Payments, 1)
	assert.Equal(t, "100.00", reloaded.TotalPaid().StringFixed(2))
	assert.Equal(t, domain.StatusPaid, reloaded.Status)
}

func TestRepository_List_Filters(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	a := testInvoice(1, "INV-1")
	b := testInvoice(2, "INV-2")
	b.CustomerID = 8
	c := testInvoice(3, "INV-3")
	c.Status = domain.StatusPosted
	for _, inv := range []*domain.Invoice{a, b, c} {
		require.NoError(t, repo.Insert(ctx, inv))
	}

	all, err := repo.List(ctx, domain.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	customer := snowflake.ID(7)
	mine, err := repo.List(ctx, domain.ListFilter{CustomerID: &customer})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	status := domain.StatusPosted
	posted, err := repo.List(ctx, domain.ListFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, posted, 1)
	assert.Equal(t, "INV-3", posted[0].InvoiceNumber)
}

func TestRepository_List_OrdersNewestFirst(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	older := testInvoice(1, "INV-1")
	older.InvoiceDate = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := testInvoice(2, "INV-2")
	newer.InvoiceDate = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Insert(ctx, older))
	require.NoError(t, repo.Insert(ctx, newer))

	list, err := repo.List(ctx, domain.ListFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "INV-2", list[0].InvoiceNumber)
}

func TestRepository_InsertPaymentAndRefundRows(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, testInvoice(1, "INV-1")))

	payment := &domain.Payment{
		ID: 100, InvoiceID: 1, Amount: money.FromInt(100),
		PaymentDate: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		Gateway:     "stripe", GatewayRef: "pi_123",
		Status: domain.PaymentCompleted,
	}
	require.NoError(t, repo.InsertPayment(ctx, payment))

	refund := &domain.Refund{
		ID: 101, InvoiceID: 1, PaymentID: 100,
		Amount:     money.FromInt(25),
		RefundDate: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		Reason:     "returned one widget",
	}
	refund.SetBreakdown(money.MustFromString("22.12"), money.MustFromString("2.88"), money.Zero())
	require.NoError(t, repo.InsertRefund(ctx, refund))
}
