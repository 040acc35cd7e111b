package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wonny/tickernews/internal/api/response"
	"github.com/wonny/tickernews/internal/domain/news"
)

const newsServiceName = "Finnhub"

// NewsService reconciler operations used by the API
type NewsService interface {
	GetNews(ctx context.Context, ticker string, limit, days int) (*news.Result, error)
	ListTickers(ctx context.Context) ([]news.Symbol, error)
}

// NewsHandler handles ticker and news requests
type NewsHandler struct {
	service NewsService
}

// NewNewsHandler creates a new NewsHandler
func NewNewsHandler(service NewsService) *NewsHandler {
	return &NewsHandler{service: service}
}

// TickersResponse GET /api/tickers body
type TickersResponse struct {
	Tickers []news.Symbol `json:"tickers"`
	Count   int           `json:"count"`
}

// NewsResponse GET /api/news/:ticker body
type NewsResponse struct {
	Ticker   string          `json:"ticker"`
	Articles []*news.Article `json:"articles"`
	Count    int             `json:"count"`
	Cached   bool            `json:"cached"`
}

// ListTickers handles GET /api/tickers
func (h *NewsHandler) ListTickers(c *gin.Context) {
	symbols, err := h.service.ListTickers(c.Request.Context())
	if err != nil {
		response.FromError(c, newsServiceName, err)
		return
	}

	if symbols == nil {
		symbols = []news.Symbol{}
	}
	c.JSON(http.StatusOK, TickersResponse{Tickers: symbols, Count: len(symbols)})
}

// GetNews handles GET /api/news/:ticker?limit=20&days=7
func (h *NewsHandler) GetNews(c *gin.Context) {
	var fields []response.FieldError

	limit, err := queryInt(c, "limit", news.DefaultLimit)
	if err == nil {
		err = news.ValidateLimit(limit)
	}
	if err != nil {
		fields = append(fields, response.FieldError{Field: "limit", Message: "must be an integer between 1 and 100"})
	}

	days, err := queryInt(c, "days", news.DefaultDays)
	if err == nil {
		err = news.ValidateDays(days)
	}
	if err != nil {
		fields = append(fields, response.FieldError{Field: "days", Message: "must be an integer between 1 and 30"})
	}

	if len(fields) > 0 {
		response.ValidationError(c, fields)
		return
	}

	result, err := h.service.GetNews(c.Request.Context(), c.Param("ticker"), limit, days)
	if err != nil {
		response.FromError(c, newsServiceName, err)
		return
	}

	articles := result.Articles
	if articles == nil {
		articles = []*news.Article{}
	}

	c.JSON(http.StatusOK, NewsResponse{
		Ticker:   result.Ticker,
		Articles: articles,
		Count:    len(articles),
		Cached:   result.Cached,
	})
}

// queryInt reads an integer query parameter, falling back when absent
func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
