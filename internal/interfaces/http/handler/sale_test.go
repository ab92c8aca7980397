package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	saleapp "github.com/saleledger/backend/internal/application/sale"
	syncapp "github.com/saleledger/backend/internal/application/sync"
	"github.com/saleledger/backend/internal/domain/offline"
	"github.com/saleledger/backend/internal/domain/sale"
	"github.com/saleledger/backend/internal/domain/shared"
	"github.com/saleledger/backend/internal/interfaces/http/dto"
	"github.com/saleledger/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// memorySaleStore is an in-memory sale.Repository for handler tests
type memorySaleStore struct {
	mu    sync.Mutex
	sales []sale.Sale
}

func (s *memorySaleStore) Save(_ context.Context, committed *sale.Sale) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.sales {
		if existing.SubmissionKey == committed.SubmissionKey {
			return shared.ErrAlreadyExists
		}
	}
	s.sales = append(s.sales, *committed)
	return nil
}

func (s *memorySaleStore) FindByID(_ context.Context, id uuid.UUID) (*sale.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sales {
		if s.sales[i].ID == id {
			return &s.sales[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s *memorySaleStore) FindByBusinessAndDateRange(_ context.Context, businessID uuid.UUID, from, to time.Time) ([]sale.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []sale.Sale
	for _, committed := range s.sales {
		if committed.BusinessID != businessID {
			continue
		}
		if committed.CreatedAt.Before(from) || committed.CreatedAt.After(to) {
			continue
		}
		out = append(out, committed)
	}
	return out, nil
}

func (s *memorySaleStore) ExistsBySubmissionKey(_ context.Context, key uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, committed := range s.sales {
		if committed.SubmissionKey == key {
			return true, nil
		}
	}
	return false, nil
}

func (s *memorySaleStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sales)
}

// memoryQueue is an in-memory offline.Queue for handler tests
type memoryQueue struct {
	mu        sync.Mutex
	records   []offline.PendingSale
	appendErr error
}

func (q *memoryQueue) Append(_ context.Context, record *offline.PendingSale) (uuid.UUID, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.appendErr != nil {
		return uuid.Nil, q.appendErr
	}
	q.records = append(q.records, *record)
	return record.LocalID, nil
}

func (q *memoryQueue) ListUnsynchronized(_ context.Context, businessID uuid.UUID) ([]offline.PendingSale, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []offline.PendingSale
	for _, r := range q.records {
		if r.Synchronized {
			continue
		}
		if businessID != uuid.Nil && r.Sale.BusinessID != businessID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (q *memoryQueue) MarkSynchronized(_ context.Context, localID uuid.UUID) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i := range q.records {
		if q.records[i].LocalID == localID {
			q.records[i].MarkSynchronized()
		}
	}
	return nil
}

func (q *memoryQueue) PurgeSynchronized(_ context.Context) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var kept []offline.PendingSale
	var purged int64
	for _, r := range q.records {
		if r.Synchronized {
			purged++
			continue
		}
		kept = append(kept, r)
	}
	q.records = kept
	return purged, nil
}

func (q *memoryQueue) CountUnsynchronized(ctx context.Context, businessID uuid.UUID) (int64, error) {
	records, err := q.ListUnsynchronized(ctx, businessID)
	return int64(len(records)), err
}

type fixedRates struct {
	rate decimal.Decimal
}

func (f fixedRates) Rate(context.Context, uuid.UUID) (decimal.Decimal, error) {
	return f.rate, nil
}

func (f fixedRates) LastKnownRate(uuid.UUID) (decimal.Decimal, error) {
	return f.rate, nil
}

type switchableOnline struct {
	mu     sync.Mutex
	online bool
}

func (s *switchableOnline) IsOnline() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.online
}

func (s *switchableOnline) set(online bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.online = online
}

type saleTestEnv struct {
	engine *gin.Engine
	store  *memorySaleStore
	queue  *memoryQueue
	online *switchableOnline
}

func newSaleTestEnv(t *testing.T) *saleTestEnv {
	t.Helper()

	store := &memorySaleStore{}
	queue := &memoryQueue{}
	online := &switchableOnline{online: true}
	rates := fixedRates{rate: decimal.NewFromFloat(0.18)}

	captureService := saleapp.NewCaptureService(store, queue, rates, online, nil)
	submitter := syncapp.NewLedgerSubmitter(store, nil, 0, nil)
	coordinator := syncapp.NewCoordinator(queue, submitter, online, nil, syncapp.DefaultConfig(), nil)

	engine := gin.New()
	api := engine.Group("/api/v1")
	NewSaleHandler(captureService, coordinator).RegisterRoutes(api)

	return &saleTestEnv{engine: engine, store: store, queue: queue, online: online}
}

func (env *saleTestEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)
	return w
}

func recordBody(businessID uuid.UUID) map[string]any {
	return map[string]any{
		"business_id": businessID.String(),
		"recorded_by": uuid.New().String(),
		"items": []map[string]any{
			{"product_name": "Coffee Beans 1kg", "quantity": 2, "unit_price": "30"},
			{"product_name": "Grinder", "quantity": 1, "unit_price": "40"},
		},
		"payment_method": "cash",
	}
}

func TestRecordSale_OnlineReturnsCommitted(t *testing.T) {
	env := newSaleTestEnv(t)
	businessID := uuid.New()

	w := env.do(t, http.MethodPost, "/api/v1/sales", recordBody(businessID))

	require.Equal(t, http.StatusCreated, w.Code)
	var response dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.True(t, response.Success)

	data := response.Data.(map[string]any)
	assert.Equal(t, false, data["queued"])
	committed := data["sale"].(map[string]any)
	assert.Equal(t, "100.00", committed["subtotal"])
	assert.Equal(t, "18.00", committed["vat_amount"])
	assert.Equal(t, "118.00", committed["total"])
	assert.Equal(t, 1, env.store.count())
}

func TestRecordSale_OfflineReturnsQueued(t *testing.T) {
	env := newSaleTestEnv(t)
	env.online.set(false)
	businessID := uuid.New()

	w := env.do(t, http.MethodPost, "/api/v1/sales", recordBody(businessID))

	require.Equal(t, http.StatusAccepted, w.Code)
	var response dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response.Data.(map[string]any)
	assert.Equal(t, true, data["queued"])
	assert.NotEmpty(t, data["local_id"])
	assert.Zero(t, env.store.count())

	pending, err := env.queue.CountUnsynchronized(context.Background(), uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending)
}

func TestRecordSale_ValidationFailure(t *testing.T) {
	env := newSaleTestEnv(t)

	body := recordBody(uuid.New())
	body["items"] = []map[string]any{}
	w := env.do(t, http.MethodPost, "/api/v1/sales", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, env.store.count())
}

func TestRecordSale_StorageUnavailable(t *testing.T) {
	env := newSaleTestEnv(t)
	env.online.set(false)
	env.queue.appendErr = fmt.Errorf("%w: disk full", shared.ErrStorageUnavailable)

	w := env.do(t, http.MethodPost, "/api/v1/sales", recordBody(uuid.New()))

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	var response dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotNil(t, response.Error)
	assert.Equal(t, dto.ErrCodeStorageUnavailable, response.Error.Code)
}

func TestTriggerSync_DrainsOfflineCaptures(t *testing.T) {
	env := newSaleTestEnv(t)
	businessID := uuid.New()

	env.online.set(false)
	for i := 0; i < 3; i++ {
		w := env.do(t, http.MethodPost, "/api/v1/sales", recordBody(businessID))
		require.Equal(t, http.StatusAccepted, w.Code)
	}

	env.online.set(true)
	w := env.do(t, http.MethodPost, "/api/v1/sync?business_id="+businessID.String(), nil)

	require.Equal(t, http.StatusOK, w.Code)
	var response dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response.Data.(map[string]any)
	assert.Equal(t, float64(3), data["synced"])
	assert.Equal(t, float64(0), data["failed"])
	assert.Equal(t, 3, env.store.count())

	pending, err := env.queue.CountUnsynchronized(context.Background(), uuid.Nil)
	require.NoError(t, err)
	assert.Zero(t, pending)
}

func TestTriggerSync_InvalidBusinessID(t *testing.T) {
	env := newSaleTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/sync?business_id=not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSyncStatus(t *testing.T) {
	env := newSaleTestEnv(t)
	businessID := uuid.New()

	env.online.set(false)
	w := env.do(t, http.MethodPost, "/api/v1/sales", recordBody(businessID))
	require.Equal(t, http.StatusAccepted, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/sync/status", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response.Data.(map[string]any)
	assert.Equal(t, float64(1), data["pending"])
	assert.Equal(t, false, data["in_progress"])
}

func TestListSales(t *testing.T) {
	env := newSaleTestEnv(t)
	businessID := uuid.New()

	w := env.do(t, http.MethodPost, "/api/v1/sales", recordBody(businessID))
	require.Equal(t, http.StatusCreated, w.Code)

	from := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	to := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	w = env.do(t, http.MethodGet, "/api/v1/sales?business_id="+businessID.String()+"&start_date="+from+"&end_date="+to, nil)

	require.Equal(t, http.StatusOK, w.Code)
	var response dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	sales := response.Data.([]any)
	require.Len(t, sales, 1)
	first := sales[0].(map[string]any)
	assert.Equal(t, "118.00", first["total"])
}

func TestListSales_InvalidBusinessID(t *testing.T) {
	env := newSaleTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/sales?business_id=not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
