package httpx

import (
	"net/http"
	"testing"

	"github.com/ariefcatur/healtheek-storefront/internal/orders"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placeOrder(t *testing.T, env *testEnv, session string) orders.Order {
	t.Helper()
	fillCart(t, env, session)
	w := env.do(t, request{method: http.MethodPost, path: "/checkout", headers: checkoutHeaders(session),
		body: CheckoutReq{Billing: testBilling, Payment: orders.PaymentInput{Method: orders.PaymentCOD}}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[CheckoutResp](t, w).Order
}

func TestOrders_GetAndList(t *testing.T) {
	env := newTestEnv(t)
	first := placeOrder(t, env, "a")
	second := placeOrder(t, env, "b")

	w := env.do(t, request{method: http.MethodGet, path: "/orders/" + first.ID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, first.OrderNumber, decode[orders.Order](t, w).OrderNumber)

	w = env.do(t, request{method: http.MethodGet, path: "/orders/nope"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, request{method: http.MethodGet, path: "/orders?userId=u-1"})
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]orders.Order](t, w)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)

	w = env.do(t, request{method: http.MethodGet, path: "/orders?userId=nobody"})
	assert.Equal(t, "[]\n", w.Body.String())

	w = env.do(t, request{method: http.MethodGet, path: "/orders"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
