package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wonny/tickernews/internal/api/response"
	"github.com/wonny/tickernews/internal/domain/news"
	"github.com/wonny/tickernews/internal/domain/quote"
)

const quoteServiceName = "Yahoo Finance"

// StockHandler serves quote and history passthrough requests
type StockHandler struct {
	provider quote.Provider
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(provider quote.Provider) *StockHandler {
	return &StockHandler{provider: provider}
}

// HistoryResponse GET /api/stock/:ticker/history body
type HistoryResponse struct {
	Ticker   string         `json:"ticker"`
	Period   string         `json:"period"`
	Interval string         `json:"interval"`
	Data     []quote.Candle `json:"data"`
	Count    int            `json:"count"`
}

// GetQuote handles GET /api/stock/:ticker
func (h *StockHandler) GetQuote(c *gin.Context) {
	ticker := news.NormalizeTicker(c.Param("ticker"))

	q, err := h.provider.GetQuote(c.Request.Context(), ticker)
	if err != nil {
		h.fail(c, ticker, err)
		return
	}

	c.JSON(http.StatusOK, q)
}

// GetHistory handles GET /api/stock/:ticker/history?period=1mo&interval=1d
func (h *StockHandler) GetHistory(c *gin.Context) {
	ticker := news.NormalizeTicker(c.Param("ticker"))
	period := c.DefaultQuery("period", quote.DefaultPeriod)
	interval := c.DefaultQuery("interval", quote.DefaultInterval)

	var fields []response.FieldError
	if err := quote.ValidatePeriod(period); err != nil {
		fields = append(fields, response.FieldError{Field: "period", Message: err.Error()})
	}
	if err := quote.ValidateInterval(interval); err != nil {
		fields = append(fields, response.FieldError{Field: "interval", Message: err.Error()})
	}
	if len(fields) > 0 {
		response.ValidationError(c, fields)
		return
	}

	candles, err := h.provider.GetHistory(c.Request.Context(), ticker, period, interval)
	if err != nil {
		h.fail(c, ticker, err)
		return
	}

	c.JSON(http.StatusOK, HistoryResponse{
		Ticker:   ticker,
		Period:   period,
		Interval: interval,
		Data:     candles,
		Count:    len(candles),
	})
}

func (h *StockHandler) fail(c *gin.Context, ticker string, err error) {
	switch {
	case errors.Is(err, quote.ErrQuoteNotFound):
		response.NotFound(c, "Stock not found: "+ticker)
	case errors.Is(err, quote.ErrHistoryNotFound):
		response.NotFound(c, "No history found for: "+ticker)
	default:
		response.ExternalAPIError(c, quoteServiceName, err)
	}
}
