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

// BasketHandler serves basket aggregation and political overlay endpoints.
type BasketHandler struct {
	analyzer   BasketAnalyzer
	maxSymbols int
	logger     *slog.Logger
}

// NewBasketHandler creates a basket handler.
func NewBasketHandler(analyzer BasketAnalyzer, maxSymbols int, logger *slog.Logger) *BasketHandler {
	if maxSymbols <= 0 {
		maxSymbols = 50
	}
	return &BasketHandler{
		analyzer:   analyzer,
		maxSymbols: maxSymbols,
		logger:     logger.With(slog.String("component", "basket_handler")),
	}
}

// Routes returns the basket and political routes.
func (h *BasketHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/basket/analyze", h.AnalyzeBasket)
	r.Get("/political/impact", h.GetPoliticalImpact)
	r.Get("/political/special-days", h.GetSpecialDays)

	return r
}

// BasketRequest is the payload for POST /basket/analyze.
type BasketRequest struct {
	Name    string             `json:"name"`
	Symbols []string           `json:"symbols"`
	Type    domain.PatternType `json:"type"`
}

// Bind implements render.Binder.
func (b *BasketRequest) Bind(*http.Request) error { return nil }

// AnalyzeBasket handles POST /basket/analyze.
func (h *BasketHandler) AnalyzeBasket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req BasketRequest
	if err := render.Bind(r, &req); err != nil {
		apierrors.WriteError(w, apierrors.InvalidRequestWithError(err))
		return
	}
	if len(req.Symbols) == 0 {
		apierrors.WriteError(w, apierrors.ErrValidation("symbols", "At least one symbol is required"))
		return
	}
	if len(req.Symbols) > h.maxSymbols {
		apierrors.WriteError(w, apierrors.ErrValidation("symbols", "Too many symbols in basket"))
		return
	}
	if req.Type == "" {
		req.Type = domain.PatternMonthlySeasonal
	}
	if !req.Type.IsValid() {
		apierrors.WriteError(w, apierrors.ErrValidation("type", "Unknown pattern type: "+string(req.Type)))
		return
	}

	result, err := h.analyzer.Analyze(ctx, req.Name, req.Symbols, req.Type)
	if err != nil {
		h.logger.ErrorContext(ctx, "basket analysis failed",
			slog.String("basket", req.Name),
			slog.Int("symbols", len(req.Symbols)),
			slog.String("error", err.Error()))
		apierrors.WriteError(w, apierrors.ErrInternalServer)
		return
	}

	render.JSON(w, r, result)
}

// PoliticalImpactResponse is the payload for GET /political/impact.
type PoliticalImpactResponse struct {
	Date    string  `json:"date"`
	Country string  `json:"country"`
	Impact  float64 `json:"impact"`
}

// GetPoliticalImpact handles GET /political/impact?date=2024-11-05&country=US.
func (h *BasketHandler) GetPoliticalImpact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dateStr := r.URL.Query().Get("date")
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		apierrors.WriteError(w, apierrors.ErrValidation("date", "Date must be in YYYY-MM-DD format"))
		return
	}
	country := r.URL.Query().Get("country")
	if country == "" {
		country = domain.CountryGlobal
	}

	impact, err := h.analyzer.PoliticalImpact(ctx, date, country)
	if err != nil {
		h.logger.ErrorContext(ctx, "political impact lookup failed",
			slog.String("date", dateStr),
			slog.String("country", country),
			slog.String("error", err.Error()))
		apierrors.WriteError(w, apierrors.ErrInternalServer)
		return
	}

	render.JSON(w, r, PoliticalImpactResponse{Date: dateStr, Country: country, Impact: impact})
}

// SpecialDaysResponse is the payload for GET /political/special-days.
type SpecialDaysResponse struct {
	Country string              `json:"country"`
	Count   int                 `json:"count"`
	Days    []domain.SpecialDay `json:"days"`
}

// GetSpecialDays handles GET /political/special-days?start=...&end=...&country=...
func (h *BasketHandler) GetSpecialDays(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	start, err := time.Parse("2006-01-02", r.URL.Query().Get("start"))
	if err != nil {
		apierrors.WriteError(w, apierrors.ErrValidation("start", "Start date must be in YYYY-MM-DD format"))
		return
	}
	end, err := time.Parse("2006-01-02", r.URL.Query().Get("end"))
	if err != nil {
		apierrors.WriteError(w, apierrors.ErrValidation("end", "End date must be in YYYY-MM-DD format"))
		return
	}
	if end.Before(start) {
		apierrors.WriteError(w, apierrors.ErrValidation("end", "End date must not precede start date"))
		return
	}
	country := r.URL.Query().Get("country")

	days, err := h.analyzer.SpecialDays(ctx, start, end, country)
	if err != nil {
		h.logger.ErrorContext(ctx, "special days lookup failed",
			slog.String("country", country),
			slog.String("error", err.Error()))
		apierrors.WriteError(w, apierrors.ErrInternalServer)
		return
	}

	render.JSON(w, r, SpecialDaysResponse{Country: country, Count: len(days), Days: days})
}
