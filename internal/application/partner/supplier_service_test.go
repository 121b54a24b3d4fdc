package partner

import (
	"context"
	"testing"

	"github.com/storeadmin/backend/internal/domain/partner"
	"github.com/storeadmin/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSupplierService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates supplier with purchasing details", func(t *testing.T) {
		repo := new(MockSupplierRepository)
		svc := NewSupplierService(repo, zap.NewNop())
		repo.On("ExistsByCode", ctx, "S1").Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*partner.Supplier")).Return(nil)

		resp, err := svc.Create(ctx, CreateSupplierRequest{
			Code:          "S1",
			Name:          "Fresh Farms",
			ContactPerson: "Dana",
			PaymentTerms:  30,
		})
		require.NoError(t, err)
		assert.Equal(t, "Dana", resp.ContactPerson)
		assert.Equal(t, 30, resp.PaymentTerms)
		assert.Equal(t, 1, resp.Version)
	})

	t.Run("negative payment terms", func(t *testing.T) {
		repo := new(MockSupplierRepository)
		svc := NewSupplierService(repo, zap.NewNop())
		repo.On("ExistsByCode", ctx, "S1").Return(false, nil)

		_, err := svc.Create(ctx, CreateSupplierRequest{Code: "S1", Name: "Fresh Farms", PaymentTerms: -1})
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_PAYMENT_TERMS", de.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestSupplierService_UpdateAndStatus(t *testing.T) {
	ctx := context.Background()
	repo := new(MockSupplierRepository)
	svc := NewSupplierService(repo, zap.NewNop())
	supplier, err := partner.NewSupplier("S1", "Fresh Farms", partner.Contact{})
	require.NoError(t, err)

	repo.On("FindByID", ctx, supplier.ID).Return(supplier, nil)
	repo.On("Save", ctx, supplier).Return(nil)

	resp, err := svc.Update(ctx, supplier.ID, UpdateSupplierRequest{Name: "Fresh Farms Co", PaymentTerms: 45})
	require.NoError(t, err)
	assert.Equal(t, "Fresh Farms Co", resp.Name)
	assert.Equal(t, 45, resp.PaymentTerms)

	resp, err = svc.Deactivate(ctx, supplier.ID)
	require.NoError(t, err)
	assert.Equal(t, "inactive", resp.Status)

	_, err = svc.Activate(ctx, supplier.ID)
	require.NoError(t, err)
}
