package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipecart/backend/config"
	"github.com/recipecart/backend/internal/domain"
	"github.com/recipecart/backend/internal/infrastructure/session"
	"github.com/recipecart/backend/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubCatalog serves scripted hits keyed by search term.
type stubCatalog struct {
	hits map[string][]domain.CatalogProduct
}

func (s *stubCatalog) SearchProducts(ctx context.Context, query string) ([]domain.CatalogProduct, error) {
	return s.hits[query], nil
}

// stubCart records adds and can fail selected products.
type stubCart struct {
	added   map[string]int
	failing map[string]bool
}

func (s *stubCart) AddItem(ctx context.Context, productID string, count int) error {
	if s.failing[productID] {
		return errors.New("vendor rejected the item")
	}
	if s.added == nil {
		s.added = make(map[string]int)
	}
	s.added[productID] += count
	return nil
}

func newTestRouter(catalog domain.CatalogGateway, cart domain.CartGateway) *gin.Engine {
	extractor := usecase.NewIngredientExtractor(usecase.ExtractorConfig{})
	matcher := usecase.NewCatalogMatcher(catalog, nil, usecase.MatcherConfig{})
	sessions := session.NewStore(time.Minute)
	resolver := usecase.NewResolutionService(extractor, matcher, cart, sessions, usecase.ResolverConfig{})

	cfg := &config.Config{}
	cfg.Server.AllowedOrigins = []string{"http://localhost:3000"}
	return SetupRouter(cfg, NewHandler(resolver))
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
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
	router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(&stubCatalog{}, &stubCart{})

	w := doJSON(t, router, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "recipecart-backend", body["service"])
}

func TestResolveEndpoint(t *testing.T) {
	catalog := &stubCatalog{hits: map[string][]domain.CatalogProduct{
		"flour": {{ID: "p-flour", Name: "Flour", Price: 129}},
		"egg":   {{ID: "p-egg", Name: "Egg"}},
	}}

	t.Run("opens a review session", func(t *testing.T) {
		router := newTestRouter(catalog, &stubCart{})

		w := doJSON(t, router, http.MethodPost, "/api/v1/recipes/resolve", gin.H{
			"text":  "2 cups flour\n3 eggs",
			"title": "Pancakes",
		})

		require.Equal(t, http.StatusCreated, w.Code)
		var got domain.ResolutionSession
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.NotEmpty(t, got.ID)
		assert.Equal(t, "Pancakes", got.Title)
		assert.Equal(t, domain.StateReview, got.State)
		require.NotNil(t, got.Batch)
		require.Len(t, got.Batch.Records, 2)
		assert.Equal(t, domain.StatusMatched, got.Batch.Records[0].Status)
	})

	t.Run("accepts pre-extracted lines", func(t *testing.T) {
		router := newTestRouter(catalog, &stubCart{})

		w := doJSON(t, router, http.MethodPost, "/api/v1/recipes/resolve", gin.H{
			"lines": []string{"2 cups flour"},
		})

		require.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("missing input", func(t *testing.T) {
		router := newTestRouter(catalog, &stubCart{})
		w := doJSON(t, router, http.MethodPost, "/api/v1/recipes/resolve", gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		router := newTestRouter(catalog, &stubCart{})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/recipes/resolve", bytes.NewReader([]byte("{")))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("nothing to parse is a distinct code", func(t *testing.T) {
		router := newTestRouter(catalog, &stubCart{})

		w := doJSON(t, router, http.MethodPost, "/api/v1/recipes/resolve", gin.H{
			"text": "Step 1: preheat the oven\nhttps://example.com",
		})

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "nothing_to_parse", body["code"])
	})
}

func TestSessionLifecycleEndpoints(t *testing.T) {
	catalog := &stubCatalog{hits: map[string][]domain.CatalogProduct{
		"flour": {{ID: "p-flour", Name: "Flour"}},
		"milk": {
			{ID: "p-milk", Name: "Milk"},
			{ID: "p-oat", Name: "Oat Milk Drink"},
		},
	}}

	resolve := func(t *testing.T, router *gin.Engine) domain.ResolutionSession {
		t.Helper()
		w := doJSON(t, router, http.MethodPost, "/api/v1/recipes/resolve", gin.H{
			"text": "2 cups flour\n1 cup milk",
		})
		require.Equal(t, http.StatusCreated, w.Code)
		var got domain.ResolutionSession
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		return got
	}

	t.Run("get session", func(t *testing.T) {
		router := newTestRouter(catalog, &stubCart{})
		created := resolve(t, router)

		w := doJSON(t, router, http.MethodGet, "/api/v1/recipes/sessions/"+created.ID, nil)

		require.Equal(t, http.StatusOK, w.Code)
		var got domain.ResolutionSession
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("get unknown session", func(t *testing.T) {
		router := newTestRouter(catalog, &stubCart{})
		w := doJSON(t, router, http.MethodGet, "/api/v1/recipes/sessions/unknown", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("update selection", func(t *testing.T) {
		router := newTestRouter(catalog, &stubCart{})
		created := resolve(t, router)

		w := doJSON(t, router, http.MethodPut,
			"/api/v1/recipes/sessions/"+created.ID+"/records/1/selection",
			gin.H{"candidateIndex": 1})

		require.Equal(t, http.StatusOK, w.Code)
		var got domain.ResolutionSession
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.NotNil(t, got.Batch.Records[1].Selected)
		assert.Equal(t, "p-oat", got.Batch.Records[1].Selected.ProductID)
	})

	t.Run("exclude record via null selection", func(t *testing.T) {
		router := newTestRouter(catalog, &stubCart{})
		created := resolve(t, router)

		w := doJSON(t, router, http.MethodPut,
			"/api/v1/recipes/sessions/"+created.ID+"/records/0/selection",
			gin.H{"candidateIndex": nil})

		require.Equal(t, http.StatusOK, w.Code)
		var got domain.ResolutionSession
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Nil(t, got.Batch.Records[0].Selected)
	})

	t.Run("selection index out of range", func(t *testing.T) {
		router := newTestRouter(catalog, &stubCart{})
		created := resolve(t, router)

		w := doJSON(t, router, http.MethodPut,
			"/api/v1/recipes/sessions/"+created.ID+"/records/9/selection",
			gin.H{"candidateIndex": 0})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("commit reports per item results", func(t *testing.T) {
		cart := &stubCart{failing: map[string]bool{"p-milk": true}}
		router := newTestRouter(catalog, cart)
		created := resolve(t, router)

		w := doJSON(t, router, http.MethodPost, "/api/v1/recipes/sessions/"+created.ID+"/commit", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var got domain.CommitResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, 1, got.Added)
		assert.Equal(t, 1, got.Failed)
		require.Len(t, got.Items, 2)
		assert.Equal(t, 1, cart.added["p-flour"])
	})

	t.Run("cancel then commit conflicts", func(t *testing.T) {
		router := newTestRouter(catalog, &stubCart{})
		created := resolve(t, router)

		w := doJSON(t, router, http.MethodPost, "/api/v1/recipes/sessions/"+created.ID+"/cancel", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var cancelled domain.ResolutionSession
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cancelled))
		assert.Equal(t, domain.StateCancelled, cancelled.State)

		w = doJSON(t, router, http.MethodPost, "/api/v1/recipes/sessions/"+created.ID+"/commit", nil)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("non-numeric record index", func(t *testing.T) {
		router := newTestRouter(catalog, &stubCart{})
		created := resolve(t, router)

		w := doJSON(t, router, http.MethodPut,
			"/api/v1/recipes/sessions/"+created.ID+"/records/abc/selection",
			gin.H{"candidateIndex": 0})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
