package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"

	"indicators/internal/config"
	apierrors "indicators/internal/errors"
	"indicators/internal/normalize"
	"indicators/internal/store"
)

// SeriesReader reads recent rows of a series dataset
type SeriesReader interface {
	RecentSeries(ctx context.Context, ds store.Dataset, since string, limit int) ([]store.SeriesRow, error)
}

// ExchangeRate is one row of the exchange rate response
type ExchangeRate struct {
	Date string  `json:"date"`
	Rate float64 `json:"rate"`
}

// ExchangeRateHandler answers exchange rate queries
type ExchangeRateHandler struct {
	reader       SeriesReader
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	now          func() time.Time
}

// NewExchangeRateHandler creates the handler
func NewExchangeRateHandler(reader SeriesReader, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ExchangeRateHandler {
	return &ExchangeRateHandler{
		reader:       reader,
		logger:       logger.With(slog.String("handler", "exchange_rate")),
		errorHandler: errorHandler,
		now:          time.Now,
	}
}

// GetRecent handles GET /api/exchange-rate. It returns up to limit non-null
// rates from the last days days, newest first.
func (h *ExchangeRateHandler) GetRecent(w http.ResponseWriter, r *http.Request) {
	limit, err := boundedParam(r, "limit", config.QueryDefaultLimit, config.QueryMaxLimit)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	days, err := boundedParam(r, "days", config.QueryDefaultDays, config.QueryMaxDays)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	since := h.now().AddDate(0, 0, -days).Format(normalize.DateLayout)
	rows, err := h.reader.RecentSeries(r.Context(), store.ExchangeRate, since, limit)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrDatasetUnavailable(store.ExchangeRate.Name, err))
		return
	}

	out := make([]ExchangeRate, 0, len(rows))
	for _, row := range rows {
		if row.Value == nil {
			continue
		}
		out = append(out, ExchangeRate{Date: row.Timestamp, Rate: *row.Value})
	}

	h.logger.DebugContext(r.Context(), "exchange_rate_query",
		slog.String("since", since),
		slog.Int("limit", limit),
		slog.Int("rows", len(out)))
	render.JSON(w, r, out)
}

// boundedParam reads an integer query parameter in [1, max], or def when
// absent.
func boundedParam(r *http.Request, name string, def, max int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 || v > max {
		return 0, apierrors.ErrValidation(name, fmt.Sprintf("must be an integer between 1 and %d", max))
	}
	return v, nil
}
