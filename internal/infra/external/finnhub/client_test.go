package finnhub

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchCompanyNews(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/company-news", r.URL.Path)
		gotQuery = map[string]string{
			"symbol": r.URL.Query().Get("symbol"),
			"from":   r.URL.Query().Get("from"),
			"to":     r.URL.Query().Get("to"),
			"token":  r.URL.Query().Get("token"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"datetime": 1760868000, "headline": "Apple ships", "source": "Reuters", "summary": "s", "url": "https://n/1", "image": "https://img/1"},
			{"datetime": 1760864400, "headline": "", "url": "https://n/2"},
			{"datetime": 1760860800, "headline": "No link", "url": ""},
			{"datetime": 1760857200, "headline": "Apple earnings", "url": "https://n/3"}
		]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret", time.Second)
	from := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	articles, err := client.FetchCompanyNews(context.Background(), "aapl", from, to)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"symbol": "AAPL", "from": "2026-10-12", "to": "2026-10-19", "token": "secret",
	}, gotQuery)

	require.Len(t, articles, 2)
	assert.Equal(t, "AAPL", articles[0].Ticker)
	assert.Equal(t, "Apple ships", articles[0].Headline)
	assert.Equal(t, "https://img/1", articles[0].ImageURL)
	assert.Equal(t, time.Unix(1760868000, 0).UTC(), articles[0].PublishedAt)
	assert.Equal(t, "https://n/3", articles[1].URL)
}

func TestFetchCompanyNews_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Invalid API key"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "bad", time.Second)
	_, err := client.FetchCompanyNews(context.Background(), "AAPL", time.Now(), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "Invalid API key")
}

func TestFetchCompanyNews_TransportErrorHidesToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(srv.URL, "topsecret", time.Second)
	_, err := client.FetchCompanyNews(context.Background(), "AAPL", time.Now(), time.Now())
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "topsecret")
}

func TestFetchSymbols_FiltersCommonStock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stock/symbol", r.URL.Path)
		assert.Equal(t, "US", r.URL.Query().Get("exchange"))
		w.Write([]byte(`[
			{"symbol": "AAPL", "description": "APPLE INC", "type": "Common Stock"},
			{"symbol": "SPY", "description": "SPDR S&P 500", "type": "ETP"},
			{"symbol": "", "description": "BLANK", "type": "Common Stock"},
			{"symbol": "MSFT", "description": "MICROSOFT CORP", "type": "Common Stock"}
		]`))
	}))
	defer srv.Close()

	symbols, err := NewClient(srv.URL, "k", time.Second).FetchSymbols(context.Background())
	require.NoError(t, err)
	require.Len(t, symbols, 2)
	assert.Equal(t, "AAPL", symbols[0].Symbol)
	assert.Equal(t, "APPLE INC", symbols[0].Description)
	assert.Equal(t, "MSFT", symbols[1].Symbol)
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("", "k", 0)
	assert.Equal(t, defaultBaseURL, c.baseURL)
	assert.Equal(t, defaultTimeout, c.httpClient.Timeout)
}
