package transport

import (
	"encoding/json"
	"net/http"
	"testing"

	"storefront-admin/internal/domain"
	"storefront-admin/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestProductRoutes(t *testing.T) {
	svc := &fakeProductService{summaries: []*domain.ProductSummary{
		{ID: uuid.New(), Name: "Trail Runner", CategoryName: "Shoes", SubCategoryName: "Sneakers", VariantCount: 2, MinPrice: 90, MaxPrice: 120, Stock: 5},
	}}
	router := newTestRouter(t, NewProductHandler(svc, zap.NewNop()))
	base := "/api/seller/stores/corner-store/products"

	assert.Equal(t, http.StatusUnauthorized, do(t, router, http.MethodGet, base, nil, nil).Code)
	assert.Equal(t, http.StatusForbidden, do(t, router, http.MethodGet, base, admin, nil).Code)

	w := do(t, router, http.MethodGet, base+"?view=table", seller, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "corner-store", svc.storeURL)

	var table struct {
		Rows [][]interface{} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &table))
	require.Len(t, table.Rows, 1)
	assert.Equal(t, []interface{}{90.0, 120.0}, table.Rows[0][5])
	assert.Equal(t, 5.0, table.Rows[0][6])

	id := uuid.New()
	w = do(t, router, http.MethodPut, base, seller, domain.ProductInput{ID: id, Name: "Trail Runner"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), id.String())

	assert.Equal(t, http.StatusOK, do(t, router, http.MethodGet, base+"/"+id.String(), seller, nil).Code)
	assert.Equal(t, http.StatusNoContent, do(t, router, http.MethodDelete, base+"/"+id.String(), seller, nil).Code)
}

func TestProductRoutes_Errors(t *testing.T) {
	base := "/api/seller/stores/corner-store/products"

	router := newTestRouter(t, NewProductHandler(&fakeProductService{err: service.ErrNotFound}, zap.NewNop()))
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodDelete, base+"/"+uuid.NewString(), seller, nil).Code)

	router = newTestRouter(t, NewProductHandler(&fakeProductService{err: &service.ConflictError{Entity: "product", Field: "slug"}}, zap.NewNop()))
	assert.Equal(t, http.StatusConflict, do(t, router, http.MethodPut, base, seller, domain.ProductInput{}).Code)

	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPut, base, seller, "not an object").Code)
}
