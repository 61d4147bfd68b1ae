package httpx

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/ariefcatur/healtheek-storefront/internal/academy"
	"github.com/ariefcatur/healtheek-storefront/internal/catalog"
	"github.com/ariefcatur/healtheek-storefront/internal/events"
	"github.com/ariefcatur/healtheek-storefront/internal/orders"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminHeaders() map[string]string {
	return map[string]string{"Authorization": "Bearer " + testAdminToken}
}

func lastCatalogChange(t *testing.T, env *testEnv) events.CatalogChangedPayload {
	t.Helper()
	require.NotZero(t, env.pub.count())
	var envl events.Envelope
	require.NoError(t, json.Unmarshal(env.pub.msgs[env.pub.count()-1].value, &envl))
	require.Equal(t, events.EventCatalogChanged, envl.EventType)
	var p events.CatalogChangedPayload
	require.NoError(t, json.Unmarshal(envl.Payload, &p))
	return p
}

func TestAdmin_RequiresToken(t *testing.T) {
	env := newTestEnv(t)
	body := catalog.ProductInput{Name: "X", Image: "x.png", Category: "business-tools"}

	w := env.do(t, request{method: http.MethodPost, path: "/admin/products", body: body})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = env.do(t, request{method: http.MethodPost, path: "/admin/products", body: body, headers: map[string]string{"Authorization": "Bearer wrong"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, env.pub.count())
}

func TestAdmin_ProductLifecycle(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, request{method: http.MethodPost, path: "/admin/products", headers: adminHeaders(),
		body: catalog.ProductInput{Name: "Omega 3 Gold!", Image: "o.png", Category: "smart-formula-2025", MRPPrice: 900, PrimePrice: 800}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	p := decode[catalog.Product](t, w)
	assert.Equal(t, "omega-3-gold", p.Slug)
	assert.Equal(t, events.CatalogChangedPayload{Entity: events.EntityProduct, EntityID: p.ID, Action: events.ActionCreated}, lastCatalogChange(t, env))

	w = env.do(t, request{method: http.MethodPut, path: "/admin/products/" + p.ID, headers: adminHeaders(),
		body: catalog.ProductInput{Name: "Omega 3", Image: "o.png", Category: "smart-formula-2025"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, events.ActionUpdated, lastCatalogChange(t, env).Action)

	w = env.do(t, request{method: http.MethodDelete, path: "/admin/products/" + p.ID, headers: adminHeaders()})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, events.ActionDeleted, lastCatalogChange(t, env).Action)

	w = env.do(t, request{method: http.MethodDelete, path: "/admin/products/" + p.ID, headers: adminHeaders()})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdmin_ProductValidation(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, request{method: http.MethodPost, path: "/admin/products", headers: adminHeaders(),
		body: catalog.ProductInput{Name: "", Image: "o.png", Category: "x", Rating: 7}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Name")
	assert.Zero(t, env.pub.count())
}

func TestAdmin_Categories(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, request{method: http.MethodPost, path: "/admin/categories", headers: adminHeaders(),
		body: catalog.CategoryInput{Name: "Weight Care"}})
	require.Equal(t, http.StatusCreated, w.Code)
	c := decode[catalog.Category](t, w)
	assert.Equal(t, "weight-care", c.ID)
	assert.Equal(t, events.EntityCategory, lastCatalogChange(t, env).Entity)

	w = env.do(t, request{method: http.MethodPut, path: "/admin/categories/missing", headers: adminHeaders(),
		body: catalog.CategoryInput{Name: "X"}})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, request{method: http.MethodDelete, path: "/admin/categories/weight-care", headers: adminHeaders()})
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestAdmin_BackfillSlugs(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, request{method: http.MethodPost, path: "/admin/products/slugs", headers: adminHeaders()})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]int{"updated": 0}, decode[map[string]int](t, w))
	assert.Zero(t, env.pub.count(), "nothing changed, nothing published")
}

func TestAdmin_Courses(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, request{method: http.MethodPost, path: "/admin/courses", headers: adminHeaders(),
		body: academy.CourseInput{Title: "Gut Health", Description: "d", ImageURL: "g.png", Duration: "4 weeks", Modules: 8, OriginalPrice: 2000, DiscountedPrice: 1500}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	c := decode[courseView](t, w)
	assert.Equal(t, 25, c.DiscountPercent)
	assert.Equal(t, events.EntityCourse, lastCatalogChange(t, env).Entity)

	w = env.do(t, request{method: http.MethodPost, path: "/admin/courses", headers: adminHeaders(), body: academy.CourseInput{Title: "No body"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, request{method: http.MethodDelete, path: "/admin/courses/" + c.ID, headers: adminHeaders()})
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = env.do(t, request{method: http.MethodDelete, path: "/admin/courses/unknown", headers: adminHeaders()})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdmin_OrderStatus(t *testing.T) {
	env := newTestEnv(t)
	o := placeOrder(t, env, "adm")
	path := "/admin/orders/" + o.ID + "/status"

	w := env.do(t, request{method: http.MethodPut, path: path, headers: adminHeaders(), body: StatusReq{Status: orders.StatusProcessing}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, orders.StatusProcessing, decode[orders.Order](t, w).Status)

	w = env.do(t, request{method: http.MethodPut, path: path, headers: adminHeaders(), body: StatusReq{Status: orders.StatusDelivered}})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, request{method: http.MethodPut, path: path, headers: adminHeaders(), body: StatusReq{Status: "lost"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, request{method: http.MethodPut, path: "/admin/orders/none/status", headers: adminHeaders(), body: StatusReq{Status: orders.StatusShipped}})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdmin_DisabledWithoutToken(t *testing.T) {
	h := &AdminHandler{}
	w := newRecorderFor(h.requireToken(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})), "Bearer ")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
