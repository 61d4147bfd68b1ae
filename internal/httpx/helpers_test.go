package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ariefcatur/healtheek-storefront/internal/academy"
	"github.com/ariefcatur/healtheek-storefront/internal/catalog"
	"github.com/ariefcatur/healtheek-storefront/internal/orders"
	"github.com/ariefcatur/healtheek-storefront/internal/pricing"
	"github.com/ariefcatur/healtheek-storefront/internal/redisx"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCatalog struct {
	products   []catalog.Product
	categories []catalog.Category
	err        error
}

func (f *fakeCatalog) ListProducts(context.Context) ([]catalog.Product, error) {
	return f.products, f.err
}

func (f *fakeCatalog) ListCategories(context.Context) ([]catalog.Category, error) {
	return f.categories, f.err
}

type fakeCourses struct {
	courses []academy.Course
	deleted []string
}

func (f *fakeCourses) List(context.Context) ([]academy.Course, error) { return f.courses, nil }

func (f *fakeCourses) Get(_ context.Context, id string) (academy.Course, error) {
	for _, c := range f.courses {
		if c.ID == id {
			return c, nil
		}
	}
	return academy.Course{}, academy.ErrNotFound
}

func (f *fakeCourses) Create(_ context.Context, in academy.CourseInput) (academy.Course, error) {
	c := in.Course(fmt.Sprintf("c-%d", len(f.courses)+1), testNow)
	f.courses = append(f.courses, c)
	return c, nil
}

func (f *fakeCourses) Delete(_ context.Context, id string) error {
	if _, err := f.Get(context.Background(), id); err != nil {
		return err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type memOrders struct {
	mu     sync.Mutex
	orders map[string]orders.Order
	byKey  map[string]string
	seq    int
}

func newMemOrders() *memOrders {
	return &memOrders{orders: map[string]orders.Order{}, byKey: map[string]string{}}
}

func (m *memOrders) Create(_ context.Context, o orders.Order) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.byKey[o.IdempotencyKey]; ok && o.IdempotencyKey != "" {
		return id, true, nil
	}
	m.seq++
	o.ID = fmt.Sprintf("o-%d", m.seq)
	m.orders[o.ID] = o
	if o.IdempotencyKey != "" {
		m.byKey[o.IdempotencyKey] = o.ID
	}
	return o.ID, false, nil
}

func (m *memOrders) Get(_ context.Context, id string) (orders.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return orders.Order{}, orders.ErrNotFound
	}
	return o, nil
}

func (m *memOrders) ListByUser(_ context.Context, userID string, limit int) ([]orders.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []orders.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memOrders) UpdateStatus(_ context.Context, id string, to orders.Status) (orders.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return orders.Order{}, orders.ErrNotFound
	}
	if !orders.CanTransition(o.Status, to) {
		return orders.Order{}, fmt.Errorf("%w: %s -> %s", orders.ErrInvalidTransition, o.Status, to)
	}
	o.Status = to
	m.orders[id] = o
	return o, nil
}

type published struct {
	key     string
	value   []byte
	headers []kafka.Header
}

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []published
}

func (p *recordingPublisher) Publish(_ context.Context, key, value []byte, headers ...kafka.Header) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, published{key: string(key), value: value, headers: headers})
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.msgs)
}

const testAdminToken = "s3cret"

type testEnv struct {
	router  *chi.Mux
	catalog *fakeCatalog
	courses *fakeCourses
	orders  *memOrders
	pub     *recordingPublisher
	mr      *miniredis.Miniredis
}

func sampleCatalog() *fakeCatalog {
	products := []catalog.Product{
		{ID: "p1", Name: "Immuno Boost", Slug: "immuno-boost", MRPPrice: 300, PrimePrice: 250, Category: "smart-formula-2025", Featured: true, InStock: true},
		{ID: "p2", Name: "Calm Mind", Slug: "calm-mind", MRPPrice: 600, PrimePrice: 450, Category: "Prime Formula's", InStock: true},
		{ID: "p3", Name: "Starter Kit", Slug: "starter-kit", MRPPrice: 100, PrimePrice: 0, Category: "business-tools", InStock: true},
	}
	for i := 0; i < 12; i++ {
		products = append(products, catalog.Product{
			ID: fmt.Sprintf("bulk-%02d", i), Name: fmt.Sprintf("Bulk %02d", i), Slug: fmt.Sprintf("bulk-%02d", i),
			MRPPrice: 10, PrimePrice: 10, Category: "smart-formula-2025",
		})
	}
	return &fakeCatalog{
		products: products,
		categories: []catalog.Category{
			{ID: "smart-formula-2025", Name: "Smart Formulas"},
			{ID: "prime-formula", Name: "Prime Formulas"},
			{ID: "business-tools", Name: "Business Tools"},
		},
	}
}

var testNow = mustTime("2025-03-01T10:00:00Z")

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	log := zap.NewNop()
	env := &testEnv{
		catalog: sampleCatalog(),
		courses: &fakeCourses{courses: []academy.Course{
			{ID: "c1", Title: "Nutrition 101", OriginalPrice: 5000, DiscountedPrice: 3000},
		}},
		orders: newMemOrders(),
		pub:    &recordingPublisher{},
		mr:     mr,
	}
	svc := &catalog.Service{Store: env.catalog, Log: log}
	carts := &redisx.CartStorage{R: rdb}

	r := NewRouter(log)
	(&StorefrontHandler{Catalog: svc, Courses: env.courses}).Register(r)
	(&CartHandler{Store: carts, Catalog: svc, Preview: pricing.DefaultSimple(), Log: log}).Register(r)
	(&CheckoutHandler{
		Carts: carts, Orders: env.orders, Publisher: env.pub, Pricing: pricing.DefaultCheckout(),
		Redis: rdb, Service: "storefront-api", Log: log, Now: func() time.Time { return testNow },
	}).Register(r)
	(&OrdersHandler{Orders: env.orders}).Register(r)
	(&AdminHandler{
		Catalog: &fakeCatalogAdmin{}, Courses: env.courses, Orders: env.orders, Publisher: env.pub,
		Token: testAdminToken, Service: "storefront-api", Log: log,
	}).Register(r)
	env.router = r
	return env
}

type request struct {
	method  string
	path    string
	body    any
	headers map[string]string
}

func (e *testEnv) do(t *testing.T, req request) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if req.body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(req.body))
	}
	r := httptest.NewRequest(req.method, req.path, &buf)
	r.Header.Set("Content-Type", "application/json")
	for k, v := range req.headers {
		r.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, r)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func mustTime(s string) time.Time {
	tm, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return tm
}

type fakeCatalogAdmin struct {
	products   map[string]catalog.Product
	categories map[string]catalog.Category
	backfilled int
}

func (f *fakeCatalogAdmin) CreateProduct(_ context.Context, in catalog.ProductInput) (catalog.Product, error) {
	if f.products == nil {
		f.products = map[string]catalog.Product{}
	}
	p := in.Product(fmt.Sprintf("new-%d", len(f.products)+1))
	f.products[p.ID] = p
	return p, nil
}

func (f *fakeCatalogAdmin) UpdateProduct(_ context.Context, id string, in catalog.ProductInput) (catalog.Product, error) {
	if _, ok := f.products[id]; !ok {
		return catalog.Product{}, catalog.ErrNotFound
	}
	p := in.Product(id)
	f.products[id] = p
	return p, nil
}

func (f *fakeCatalogAdmin) DeleteProduct(_ context.Context, id string) error {
	if _, ok := f.products[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeCatalogAdmin) BackfillSlugs(context.Context) (int, error) { return f.backfilled, nil }

func (f *fakeCatalogAdmin) CreateCategory(_ context.Context, in catalog.CategoryInput) (catalog.Category, error) {
	if f.categories == nil {
		f.categories = map[string]catalog.Category{}
	}
	id := in.ID
	if id == "" {
		id = catalog.Slugify(in.Name)
	}
	c := in.Category(id)
	f.categories[id] = c
	return c, nil
}

func (f *fakeCatalogAdmin) UpdateCategory(_ context.Context, id string, in catalog.CategoryInput) (catalog.Category, error) {
	if _, ok := f.categories[id]; !ok {
		return catalog.Category{}, catalog.ErrNotFound
	}
	c := in.Category(id)
	f.categories[id] = c
	return c, nil
}

func (f *fakeCatalogAdmin) DeleteCategory(_ context.Context, id string) error {
	if _, ok := f.categories[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(f.categories, id)
	return nil
}
