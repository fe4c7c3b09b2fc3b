package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "seasonpulse/internal/errors"
	"seasonpulse/pkg/contracts/domain"
)

// SeasonalityHandler serves the derived seasonality data endpoints.
type SeasonalityHandler struct {
	records    RecordReader
	patterns   PatternReader
	statistics StatisticsProvider
	logger     *slog.Logger
}

// NewSeasonalityHandler creates a seasonality handler.
func NewSeasonalityHandler(records RecordReader, patterns PatternReader, statistics StatisticsProvider, logger *slog.Logger) *SeasonalityHandler {
	return &SeasonalityHandler{
		records:    records,
		patterns:   patterns,
		statistics: statistics,
		logger:     logger.With(slog.String("component", "seasonality_handler")),
	}
}

// Routes returns the seasonality routes.
func (h *SeasonalityHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Route("/instruments/{symbol}", func(r chi.Router) {
		r.Use(SymbolCtx)
		r.Get("/records/{timeframe}", h.GetRecords)
		r.Get("/patterns", h.GetPatterns)
		r.Get("/statistics/{timeframe}", h.GetStatistics)
	})

	return r
}

// SymbolCtx validates the symbol parameter.
func SymbolCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		symbol := chi.URLParam(r, "symbol")
		if symbol == "" || len(symbol) > 20 {
			apierrors.WriteError(w, apierrors.ErrValidation("symbol", "Instrument symbol is required and must be at most 20 characters"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// timeframeParam parses and validates the timeframe URL parameter.
func timeframeParam(r *http.Request) (domain.Timeframe, *apierrors.APIError) {
	tf := domain.Timeframe(chi.URLParam(r, "timeframe"))
	if !tf.IsValid() {
		return "", apierrors.ErrValidation("timeframe", "Unknown timeframe: "+string(tf))
	}
	return tf, nil
}

// RecordsResponse is the payload for GET /instruments/{symbol}/records/{timeframe}.
type RecordsResponse struct {
	Symbol    string                   `json:"symbol"`
	Timeframe domain.Timeframe         `json:"timeframe"`
	Count     int                      `json:"count"`
	Records   []domain.TimeframeRecord `json:"records"`
}

// GetRecords handles GET /instruments/{symbol}/records/{timeframe}.
func (h *SeasonalityHandler) GetRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	symbol := chi.URLParam(r, "symbol")
	tf, apiErr := timeframeParam(r)
	if apiErr != nil {
		apierrors.WriteError(w, apiErr)
		return
	}

	records, err := h.records.LoadRecords(ctx, symbol, tf)
	if err != nil {
		h.logger.ErrorContext(ctx, "load records failed",
			slog.String("symbol", symbol),
			slog.String("timeframe", string(tf)),
			slog.String("error", err.Error()))
		apierrors.WriteError(w, apierrors.StorageError("record lookup", err))
		return
	}
	if len(records) == 0 {
		apierrors.WriteError(w, apierrors.ErrInstrumentNotFound)
		return
	}

	render.JSON(w, r, RecordsResponse{
		Symbol:    symbol,
		Timeframe: tf,
		Count:     len(records),
		Records:   records,
	})
}

// PatternsResponse is the payload for GET /instruments/{symbol}/patterns.
type PatternsResponse struct {
	Symbol   string             `json:"symbol"`
	Type     domain.PatternType `json:"type"`
	Count    int                `json:"count"`
	Patterns []domain.Pattern   `json:"patterns"`
}

// GetPatterns handles GET /instruments/{symbol}/patterns?type=monthly_seasonal.
func (h *SeasonalityHandler) GetPatterns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	symbol := chi.URLParam(r, "symbol")

	pt := domain.PatternType(r.URL.Query().Get("type"))
	if pt == "" {
		pt = domain.PatternMonthlySeasonal
	}
	if !pt.IsValid() {
		apierrors.WriteError(w, apierrors.ErrValidation("type", "Unknown pattern type: "+string(pt)))
		return
	}

	patterns, err := h.patterns.PatternsBySymbol(ctx, symbol, pt)
	if err != nil {
		h.logger.ErrorContext(ctx, "load patterns failed",
			slog.String("symbol", symbol),
			slog.String("type", string(pt)),
			slog.String("error", err.Error()))
		apierrors.WriteError(w, apierrors.StorageError("pattern lookup", err))
		return
	}
	if len(patterns) == 0 {
		apierrors.WriteError(w, apierrors.ErrPatternNotFound)
		return
	}

	render.JSON(w, r, PatternsResponse{
		Symbol:   symbol,
		Type:     pt,
		Count:    len(patterns),
		Patterns: patterns,
	})
}

// GetStatistics handles GET /instruments/{symbol}/statistics/{timeframe}.
func (h *SeasonalityHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	symbol := chi.URLParam(r, "symbol")
	tf, apiErr := timeframeParam(r)
	if apiErr != nil {
		apierrors.WriteError(w, apiErr)
		return
	}

	start := time.Now()
	snapshot, err := h.statistics.Comprehensive(ctx, symbol, tf)
	if err != nil {
		switch {
		case apierrors.IsInsufficientData(err):
			apierrors.WriteError(w, apierrors.InsufficientDataError(err))
		case apierrors.IsType(err, apierrors.ErrTypeNotFound):
			apierrors.WriteError(w, apierrors.ErrInstrumentNotFound)
		default:
			h.logger.ErrorContext(ctx, "statistics computation failed",
				slog.String("symbol", symbol),
				slog.String("timeframe", string(tf)),
				slog.String("error", err.Error()))
			apierrors.WriteError(w, apierrors.ErrInternalServer)
		}
		return
	}

	h.logger.DebugContext(ctx, "served statistics snapshot",
		slog.String("symbol", symbol),
		slog.String("timeframe", string(tf)),
		slog.Duration("took", time.Since(start)))
	render.JSON(w, r, snapshot)
}
