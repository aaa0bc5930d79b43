package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/catalog"
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/commerce"
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/configurator"
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/models"
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/services"
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/storage"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadProduct(t *testing.T) *catalog.Product {
	t.Helper()
	raw, err := os.ReadFile("../catalog/testdata/product.json")
	require.NoError(t, err)

	var envelope models.ProductDetailResponse
	require.NoError(t, json.Unmarshal(raw, &envelope))
	require.NotNil(t, envelope.Result)
	return envelope.Result
}

type stubTokens struct {
	token *models.TokenResponse
	err   error
}

func (s stubTokens) Token(ctx context.Context) (*models.TokenResponse, error) {
	return s.token, s.err
}

type stubCatalog struct {
	products []catalog.Product
	err      error
	lastList models.ProductListRequest
}

func (s *stubCatalog) List(ctx context.Context, req models.ProductListRequest) ([]catalog.Product, error) {
	s.lastList = req
	return s.products, s.err
}

func (s *stubCatalog) Product(ctx context.Context, productID string) (*catalog.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.products {
		if s.products[i].ID == productID {
			return &s.products[i], nil
		}
	}
	return nil, &commerce.UpstreamError{Operation: "product detail", StatusCode: http.StatusNotFound, Message: "not found"}
}

func (s *stubCatalog) Showcase(ctx context.Context) (models.ShowcaseResponse, error) {
	if s.err != nil {
		return models.ShowcaseResponse{}, s.err
	}
	cards := []models.ShowcaseProduct{}
	for i, p := range s.products {
		cards = append(cards, services.ShowcaseCard(p, i))
	}
	return models.ShowcaseResponse{Category: "Dream Lease", Products: cards, Count: len(cards)}, nil
}

type submitCall struct {
	kind      commerce.SubmissionKind
	sessionID string
	req       models.SubmissionRequest
}

type stubSubmissions struct {
	mu      sync.Mutex
	calls   []submitCall
	err     error
	records []models.SubmissionRecord
	lastOpt storage.ListOptions
}

func (s *stubSubmissions) Submit(ctx context.Context, kind commerce.SubmissionKind, sessionID string, req models.SubmissionRequest) (*commerce.SubmissionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, submitCall{kind: kind, sessionID: sessionID, req: req})
	if s.err != nil {
		return nil, s.err
	}
	return &commerce.SubmissionResult{Kind: kind, ID: fmt.Sprintf("801-%s-%d", kind, len(s.calls))}, nil
}

func (s *stubSubmissions) List(ctx context.Context, opts storage.ListOptions) ([]models.SubmissionRecord, error) {
	s.lastOpt = opts
	return s.records, s.err
}

func doRequest(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestWriteCommerceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "missing configuration",
			err:        &commerce.MissingConfigurationError{Keys: []string{commerce.KeyClientID}},
			wantStatus: http.StatusInternalServerError,
			wantCode:   "configuration_error",
		},
		{
			name: "timeout",
			err: &commerce.SubmissionError{Kind: "order",
				Err: fmt.Errorf("%w after 30s: context deadline exceeded", commerce.ErrSubmissionTimeout)},
			wantStatus: http.StatusRequestTimeout,
			wantCode:   "submission_timeout",
		},
		{
			name:       "user not found",
			err:        &commerce.SubmissionError{Kind: "order", Err: commerce.ErrUserNotFound},
			wantStatus: http.StatusNotFound,
			wantCode:   "user_not_found",
		},
		{
			name:       "upstream status passthrough",
			err:        fmt.Errorf("wrapped: %w", &commerce.UpstreamError{StatusCode: http.StatusBadRequest, Message: "invalid_grant"}),
			wantStatus: http.StatusBadRequest,
			wantCode:   "upstream_error",
		},
		{
			name:       "transport failure",
			err:        errors.New("dial tcp: connection refused"),
			wantStatus: http.StatusBadGateway,
			wantCode:   "upstream_unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeCommerceError(rec, "place order", tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
		})
	}
}

func TestWriteCommerceError_TimeoutMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	writeCommerceError(rec, "place quote", commerce.ErrSubmissionTimeout)
	assert.Equal(t, "Request timeout - please try again", decodeError(t, rec).Message)
}

func TestTokenHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h := NewTokenHandler(stubTokens{token: &models.TokenResponse{
			AccessToken: "00D!token", InstanceURL: "https://example.my.salesforce.com", TokenType: "Bearer",
		}})
		rec := doRequest(t, http.HandlerFunc(h.GetToken), http.MethodPost, "/api/salesforce/token", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp models.TokenResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "00D!token", resp.AccessToken)
		assert.Equal(t, "Bearer", resp.TokenType)
	})

	t.Run("missing credentials", func(t *testing.T) {
		h := NewTokenHandler(stubTokens{err: &commerce.MissingConfigurationError{
			Keys: []string{commerce.KeyClientID, commerce.KeyPassword},
		}})
		rec := doRequest(t, http.HandlerFunc(h.GetToken), http.MethodPost, "/api/salesforce/token", nil)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		resp := decodeError(t, rec)
		assert.Contains(t, resp.Message, commerce.KeyClientID)
		assert.Len(t, resp.Details, 2)
	})

	t.Run("rejected grant", func(t *testing.T) {
		h := NewTokenHandler(stubTokens{err: &commerce.UpstreamError{
			Operation: "token request", StatusCode: http.StatusBadRequest, Message: "authentication failure",
		}})
		rec := doRequest(t, http.HandlerFunc(h.GetToken), http.MethodPost, "/api/salesforce/token", nil)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "authentication failure", decodeError(t, rec).Details[0].Issue)
	})
}

func productRouter(h *ProductHandler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/showcase", h.Showcase).Methods(http.MethodGet)
	r.HandleFunc("/api/products", h.ListProducts).Methods(http.MethodPost)
	r.HandleFunc("/api/products/{productId}", h.GetProduct).Methods(http.MethodGet)
	return r
}

func TestProductHandler(t *testing.T) {
	product := loadProduct(t)
	stub := &stubCatalog{products: []catalog.Product{*product}}
	router := productRouter(NewProductHandler(stub))

	t.Run("detail", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/products/"+product.ID, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp models.ProductDetailResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotNil(t, resp.Result)
		assert.Equal(t, "Aurora GT", resp.Result.Name)
	})

	t.Run("detail upstream 404", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/products/01tNOPE", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("list with category", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/api/products",
			models.ProductListRequest{CatalogID: "0ZGCAT", IsCategory: true})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp models.ProductListResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Result, 1)
		assert.Equal(t, models.ProductListRequest{CatalogID: "0ZGCAT", IsCategory: true}, stub.lastList)
	})

	t.Run("list with empty body", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/api/products", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, models.ProductListRequest{}, stub.lastList)
	})

	t.Run("list with malformed body", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/api/products", "{")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid_json", decodeError(t, rec).Code)
	})

	t.Run("showcase", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/showcase", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp models.ShowcaseResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, 1, resp.Count)
		assert.Equal(t, "https://cdn.example.com/aurora.png?w=800&h=600", resp.Products[0].Image)
		assert.Equal(t, "sedan", resp.Products[0].Type)
	})
}

func TestProductHandler_EmptyListIsArray(t *testing.T) {
	router := productRouter(NewProductHandler(&stubCatalog{}))
	rec := doRequest(t, router, http.MethodPost, "/api/products", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"result":[]}`, rec.Body.String())
}

func TestProductHandler_MissingConfiguration(t *testing.T) {
	stub := &stubCatalog{err: &commerce.MissingConfigurationError{Keys: []string{commerce.KeyPricebookID}}}
	router := productRouter(NewProductHandler(stub))

	rec := doRequest(t, router, http.MethodPost, "/api/products", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, commerce.KeyPricebookID, decodeError(t, rec).Details[0].Field)
}

func TestSubmissionHandler(t *testing.T) {
	product := loadProduct(t)
	valid := models.SubmissionRequest{
		Configuration: configurator.Configuration{
			ProductID:          product.ID,
			ProductData:        product,
			SelectedAttributes: map[string]string{catalog.ColourAttribute: "BLK"},
			SelectedComponents: map[string]string{"grp-wheels": "w18"},
			BasePrice:          40000,
			TotalPrice:         41000,
		},
	}

	tests := []struct {
		name       string
		path       string
		body       interface{}
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "order placed",
			path:       "/api/products/order",
			body:       valid,
			wantStatus: http.StatusOK,
			wantBody:   `{"success":true,"data":{"orderId":"801-order-1"},"message":"Order placed successfully"}`,
		},
		{
			name:       "quote created",
			path:       "/api/products/quote",
			body:       valid,
			wantStatus: http.StatusOK,
			wantBody:   `{"success":true,"data":{"quoteId":"801-quote-1"},"message":"Quote created successfully"}`,
		},
		{
			name:       "missing product",
			path:       "/api/products/order",
			body:       models.SubmissionRequest{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed body",
			path:       "/api/products/order",
			body:       "not json",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "timeout",
			path:       "/api/products/order",
			body:       valid,
			err:        &commerce.SubmissionError{Kind: "order", Err: commerce.ErrSubmissionTimeout},
			wantStatus: http.StatusRequestTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubSubmissions{err: tt.err}
			h := NewSubmissionHandler(stub)
			r := mux.NewRouter()
			r.HandleFunc("/api/products/order", h.PlaceOrder).Methods(http.MethodPost)
			r.HandleFunc("/api/products/quote", h.PlaceQuote).Methods(http.MethodPost)

			rec := doRequest(t, r, http.MethodPost, tt.path, tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
			if tt.wantStatus == http.StatusBadRequest {
				assert.Empty(t, stub.calls, "invalid requests never reach upstream")
			}
		})
	}
}

func TestSubmissionHandler_ListSubmissions(t *testing.T) {
	stub := &stubSubmissions{records: []models.SubmissionRecord{
		{ID: 2, Kind: "quote", Status: storage.StatusSucceeded, CreatedAt: time.Now()},
		{ID: 1, Kind: "order", Status: storage.StatusFailed, CreatedAt: time.Now()},
	}}
	h := NewSubmissionHandler(stub)

	rec := doRequest(t, http.HandlerFunc(h.ListSubmissions), http.MethodGet, "/v1/admin/submissions?kind=order&status=failed&limit=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.SubmissionListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, storage.ListOptions{Kind: "order", Status: "failed", Limit: 5}, stub.lastOpt)

	for _, query := range []string{"kind=lease", "status=pending", "limit=0", "limit=abc"} {
		rec := doRequest(t, http.HandlerFunc(h.ListSubmissions), http.MethodGet, "/v1/admin/submissions?"+query, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
	}
}

type sessionFixture struct {
	router      *mux.Router
	sessions    *services.SessionService
	submissions *stubSubmissions
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	product := loadProduct(t)
	fetcher := configurator.CatalogFetcherFunc(func(ctx context.Context, productID string) (*catalog.Product, error) {
		if productID != product.ID {
			return nil, &commerce.UpstreamError{Operation: "product detail", StatusCode: http.StatusNotFound, Message: "not found"}
		}
		return product, nil
	})

	sessions := services.NewSessionService(fetcher, time.Minute, time.Minute, nil)
	t.Cleanup(sessions.Close)
	submissions := &stubSubmissions{}
	h := NewSessionHandler(sessions, submissions)

	r := mux.NewRouter()
	api := r.PathPrefix("/api/sessions").Subrouter()
	api.HandleFunc("", h.CreateSession).Methods(http.MethodPost)
	api.HandleFunc("/{sessionId}", h.GetSession).Methods(http.MethodGet)
	api.HandleFunc("/{sessionId}", h.DeleteSession).Methods(http.MethodDelete)
	api.HandleFunc("/{sessionId}/attributes/{name}", h.UpdateAttribute).Methods(http.MethodPut)
	api.HandleFunc("/{sessionId}/components/{groupId}", h.UpdateComponent).Methods(http.MethodPut)
	api.HandleFunc("/{sessionId}/steps/next", h.NextStep).Methods(http.MethodPost)
	api.HandleFunc("/{sessionId}/steps/previous", h.PreviousStep).Methods(http.MethodPost)
	api.HandleFunc("/{sessionId}/steps/{index:-?[0-9]+}", h.JumpToStep).Methods(http.MethodPost)
	api.HandleFunc("/{sessionId}/financing", h.GetFinancing).Methods(http.MethodGet)
	api.HandleFunc("/{sessionId}/order", h.PlaceOrder).Methods(http.MethodPost)
	api.HandleFunc("/{sessionId}/quote", h.PlaceQuote).Methods(http.MethodPost)

	return &sessionFixture{router: r, sessions: sessions, submissions: submissions}
}

func (f *sessionFixture) create(t *testing.T, productID string) models.SessionView {
	t.Helper()
	rec := doRequest(t, f.router, http.MethodPost, "/api/sessions", models.CreateSessionRequest{ProductID: productID})
	require.Equal(t, http.StatusCreated, rec.Code)

	var view models.SessionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	return view
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) models.SessionView {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var view models.SessionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	return view
}

func TestSessionHandler_Lifecycle(t *testing.T) {
	f := newSessionFixture(t)
	view := f.create(t, "01tWs000001AbCdEFG")

	assert.Equal(t, configurator.StatusReady, view.Status)
	assert.Equal(t, 40000.0, view.BasePrice)
	assert.Equal(t, 41000.0, view.TotalPrice)
	assert.Len(t, view.Steps, 5)
	assert.Equal(t, 0, view.CurrentStep)
	base := "/api/sessions/" + view.ID

	view = decodeView(t, doRequest(t, f.router, http.MethodPut, base+"/attributes/"+catalog.ColourAttribute,
		models.UpdateSelectionRequest{Value: "WHT"}))
	assert.Equal(t, 40000.0, view.TotalPrice)

	view = decodeView(t, doRequest(t, f.router, http.MethodPut, base+"/components/grp-wheels",
		models.UpdateSelectionRequest{Value: "w20"}))
	assert.Equal(t, 42500.0, view.TotalPrice)
	assert.Equal(t, "w20", view.SelectedComponents["grp-wheels"])

	view = decodeView(t, doRequest(t, f.router, http.MethodPost, base+"/steps/next", nil))
	assert.Equal(t, 1, view.CurrentStep)
	view = decodeView(t, doRequest(t, f.router, http.MethodPost, base+"/steps/4", nil))
	assert.Equal(t, 4, view.CurrentStep)
	view = decodeView(t, doRequest(t, f.router, http.MethodPost, base+"/steps/next", nil))
	assert.Equal(t, 4, view.CurrentStep, "summary is terminal")
	view = decodeView(t, doRequest(t, f.router, http.MethodPost, base+"/steps/previous", nil))
	assert.Equal(t, 3, view.CurrentStep)

	rec := doRequest(t, f.router, http.MethodPost, base+"/steps/9", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_step", decodeError(t, rec).Code)

	rec = doRequest(t, f.router, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = doRequest(t, f.router, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessionHandler_UnknownKeys(t *testing.T) {
	f := newSessionFixture(t)
	base := "/api/sessions/" + f.create(t, "01tWs000001AbCdEFG").ID

	rec := doRequest(t, f.router, http.MethodPut, base+"/attributes/Sunroof", models.UpdateSelectionRequest{Value: "Y"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "unknown_attribute", decodeError(t, rec).Code)

	rec = doRequest(t, f.router, http.MethodPut, base+"/components/grp-nope", models.UpdateSelectionRequest{Value: "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "unknown_component_group", decodeError(t, rec).Code)
}

func TestSessionHandler_LoadFailure(t *testing.T) {
	f := newSessionFixture(t)
	view := f.create(t, "01tMISSING")

	assert.Equal(t, configurator.StatusError, view.Status)
	assert.Contains(t, view.Error, "01tMISSING")

	base := "/api/sessions/" + view.ID
	rec := doRequest(t, f.router, http.MethodPut, base+"/attributes/"+catalog.ColourAttribute, models.UpdateSelectionRequest{Value: "WHT"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(t, f.router, http.MethodPost, base+"/steps/next", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(t, f.router, http.MethodPost, base+"/order", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Empty(t, f.submissions.calls)
}

func TestSessionHandler_CreateRequiresProduct(t *testing.T) {
	f := newSessionFixture(t)
	rec := doRequest(t, f.router, http.MethodPost, "/api/sessions", models.CreateSessionRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Product ID is required", decodeError(t, rec).Message)
}

func TestSessionHandler_Financing(t *testing.T) {
	f := newSessionFixture(t)
	base := "/api/sessions/" + f.create(t, "01tWs000001AbCdEFG").ID

	rec := doRequest(t, f.router, http.MethodGet, base+"/financing", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var quote configurator.FinancingQuote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quote))
	assert.Equal(t, configurator.DefaultLeaseTermMonths, quote.LeaseTerm)
	assert.Equal(t, 41000.0, quote.VehiclePrice)
	assert.Equal(t, 8200.0, quote.DownPayment)

	rec = doRequest(t, f.router, http.MethodGet, base+"/financing?term=60&downPayment=100", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quote))
	assert.Equal(t, 60, quote.LeaseTerm)
	assert.Equal(t, 4.0, quote.APR)
	assert.Equal(t, 4100.0, quote.DownPayment, "clamped to the 10% floor")

	rec = doRequest(t, f.router, http.MethodGet, base+"/financing?term=12", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_lease_term", decodeError(t, rec).Code)

	rec = doRequest(t, f.router, http.MethodGet, base+"/financing?downPayment=lots", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionHandler_Submit(t *testing.T) {
	f := newSessionFixture(t)
	view := f.create(t, "01tWs000001AbCdEFG")
	base := "/api/sessions/" + view.ID

	down := 10000.0
	rec := doRequest(t, f.router, http.MethodPost, base+"/quote", models.SessionSubmitRequest{LeaseTerm: 48, DownPayment: &down})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"success":true,"data":{"quoteId":"801-quote-1"},"message":"Quote created successfully"}`, rec.Body.String())

	require.Len(t, f.submissions.calls, 1)
	call := f.submissions.calls[0]
	assert.Equal(t, commerce.KindQuote, call.kind)
	assert.Equal(t, view.ID, call.sessionID)
	assert.Equal(t, "01tWs000001AbCdEFG", call.req.ProductID)
	assert.Equal(t, 41000.0, call.req.TotalPrice)
	require.NotNil(t, call.req.Financing)
	assert.Equal(t, 48, call.req.Financing.LeaseTerm)
	assert.Equal(t, 10000.0, call.req.Financing.DownPayment)
}

func TestSessionHandler_SubmitFailureKeepsSession(t *testing.T) {
	f := newSessionFixture(t)
	f.submissions.err = &commerce.SubmissionError{Kind: "order", Err: commerce.ErrSubmissionTimeout}
	view := f.create(t, "01tWs000001AbCdEFG")
	base := "/api/sessions/" + view.ID

	decodeView(t, doRequest(t, f.router, http.MethodPut, base+"/attributes/"+catalog.ColourAttribute,
		models.UpdateSelectionRequest{Value: "WHT"}))

	rec := doRequest(t, f.router, http.MethodPost, base+"/order", nil)
	assert.Equal(t, http.StatusRequestTimeout, rec.Code)

	after := decodeView(t, doRequest(t, f.router, http.MethodGet, base, nil))
	assert.Equal(t, "WHT", after.SelectedAttributes[catalog.ColourAttribute])
	assert.Equal(t, 40000.0, after.TotalPrice)
}

func TestSessionHandler_UnknownSession(t *testing.T) {
	f := newSessionFixture(t)
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/sessions/nope"},
		{http.MethodDelete, "/api/sessions/nope"},
		{http.MethodPost, "/api/sessions/nope/steps/next"},
		{http.MethodGet, "/api/sessions/nope/financing"},
		{http.MethodPost, "/api/sessions/nope/order"},
	} {
		rec := doRequest(t, f.router, tc.method, tc.path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, tc.path)
	}
}

type fixedCount int

func (c fixedCount) Count() int { return int(c) }

func TestHealthHandler(t *testing.T) {
	h := NewHealthHandler(fixedCount(3), nil)
	rec := doRequest(t, http.HandlerFunc(h.Health), http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","commerce_configured":true,"active_sessions":3}`, rec.Body.String())

	h = NewHealthHandler(nil, &commerce.MissingConfigurationError{Keys: []string{commerce.KeyOrderUser}})
	rec = doRequest(t, http.HandlerFunc(h.Health), http.MethodGet, "/health", nil)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["commerce_configured"])
	assert.Contains(t, body["commerce_error"], commerce.KeyOrderUser)
}

func TestRateLimitStatusHandler_Unavailable(t *testing.T) {
	h := NewRateLimitStatusHandler(nil)

	rec := doRequest(t, http.HandlerFunc(h.GetRateLimitStatus), http.MethodGet, "/v1/admin/rate-limit/status", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = doRequest(t, http.HandlerFunc(h.ResetRateLimits), http.MethodPost, "/v1/admin/rate-limit/reset", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "rate_limiter_unavailable", decodeError(t, rec).Code)
}
