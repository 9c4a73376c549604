package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"investment-portfolio/auth"
	"investment-portfolio/config"
	"investment-portfolio/database"
	"investment-portfolio/metrics"
	"investment-portfolio/models"
	"investment-portfolio/quotes"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeQuotes serves quotes from memory. When err is set every call fails with it.
type fakeQuotes struct {
	mu         sync.Mutex
	quotes     map[string]quotes.Quote
	err        error
	batchCalls int
}

func newFakeQuotes(qs ...quotes.Quote) *fakeQuotes {
	f := &fakeQuotes{quotes: map[string]quotes.Quote{}}
	for _, q := range qs {
		f.quotes[q.Symbol] = q
	}
	return f
}

func (f *fakeQuotes) setPrice(symbol string, price float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q := f.quotes[symbol]
	q.Symbol = symbol
	q.RegularMarketPrice = price
	f.quotes[symbol] = q
}

func (f *fakeQuotes) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeQuotes) GetQuote(ctx context.Context, ticker string) (*quotes.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	q, ok := f.quotes[models.NormalizeTicker(ticker)]
	if !ok {
		return nil, quotes.ErrTickerNotFound
	}
	return &q, nil
}

func (f *fakeQuotes) GetFundamentals(ctx context.Context, ticker string) (*quotes.Quote, error) {
	return f.GetQuote(ctx, ticker)
}

func (f *fakeQuotes) GetQuotes(ctx context.Context, tickers []string) ([]quotes.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batchCalls++
	if f.err != nil {
		return nil, f.err
	}
	out := []quotes.Quote{}
	for _, t := range tickers {
		if q, ok := f.quotes[models.NormalizeTicker(t)]; ok {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeQuotes) Search(ctx context.Context, query string) ([]string, error) {
	all, err := f.Available(ctx)
	if err != nil {
		return nil, err
	}
	out := []string{}
	for _, s := range all {
		if strings.Contains(s, strings.ToUpper(query)) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeQuotes) Available(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]string, 0, len(f.quotes))
	for s := range f.quotes {
		out = append(out, s)
	}
	sort.Strings(out)
	return out, nil
}

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	quotes *fakeQuotes
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := &config.Config{
		DBDriver:   config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "api.db"),
	}
	db, err := config.OpenDB(cfg, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// newTestEnv builds the full router. withSessions backs refresh tokens by miniredis.
func newTestEnv(t *testing.T, withSessions bool) *testEnv {
	t.Helper()

	fq := newFakeQuotes(
		quotes.Quote{Symbol: "PETR4", ShortName: "PETROBRAS PN", LongName: "Petroleo Brasileiro S.A. - Petrobras", RegularMarketPrice: 38.45},
		quotes.Quote{Symbol: "VALE3", ShortName: "VALE ON", RegularMarketPrice: 61.2},
	)
	env := newTestEnvWithProvider(t, fq, withSessions)
	env.quotes = fq
	return env
}

// newTestEnvWithProvider builds the router over any quote provider.
func newTestEnvWithProvider(t *testing.T, provider QuoteProvider, withSessions bool) *testEnv {
	t.Helper()

	db := newTestDB(t)

	var sessions auth.SessionStore
	if withSessions {
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { rdb.Close() })
		sessions = auth.NewRedisSessionStore(rdb)
	}

	issuer := auth.NewTokenIssuer("test-secret", 30*time.Minute, time.Hour)
	h := New(db, provider, issuer, sessions, zerolog.Nop())
	router := NewRouter(h, RouterConfig{
		Log:            zerolog.Nop(),
		Metrics:        metrics.New(),
		AllowedOrigins: []string{"*"},
	})

	return &testEnv{router: router, db: db}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
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
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// signup registers a user and returns its access token.
func (e *testEnv) signup(t *testing.T, name, email string) string {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/api/auth/register", gin.H{"name": name, "email": email, "password": "secret123"}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = e.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": email, "password": "secret123"}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.AccessToken
}

// addAsset creates an asset and returns its id.
func (e *testEnv) addAsset(t *testing.T, token, ticker string, qty int, price float64) uint {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/api/assets", gin.H{"ticker": ticker, "quantity": qty, "purchase_price": price}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var asset models.AssetResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &asset))
	return asset.ID
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	msg, _ := decodeMap(t, rec)["error"].(string)
	return msg
}
