package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "seasonpulse/internal/errors"
)

// PipelineHandler exposes pipeline run triggers.
type PipelineHandler struct {
	runner PipelineRunner
	logger *slog.Logger
}

// NewPipelineHandler creates a pipeline handler.
func NewPipelineHandler(runner PipelineRunner, logger *slog.Logger) *PipelineHandler {
	return &PipelineHandler{
		runner: runner,
		logger: logger.With(slog.String("component", "pipeline_handler")),
	}
}

// Routes returns the pipeline routes.
func (h *PipelineHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/run", h.RunAll)
	r.With(SymbolCtx).Post("/run/{symbol}", h.RunSymbol)

	return r
}

// RunAll handles POST /pipeline/run. The run is synchronous; large
// universes should be processed through the CLI instead.
func (h *PipelineHandler) RunAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	summary, err := h.runner.ProcessAll(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "pipeline run failed",
			slog.String("error", err.Error()))
		apierrors.WriteError(w, apierrors.ErrPipelineFailed)
		return
	}

	render.JSON(w, r, summary)
}

// RunSymbol handles POST /pipeline/run/{symbol}.
func (h *PipelineHandler) RunSymbol(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	symbol := chi.URLParam(r, "symbol")

	result, err := h.runner.ProcessSymbol(ctx, symbol)
	if err != nil {
		if apierrors.IsInsufficientData(err) {
			apierrors.WriteError(w, apierrors.InsufficientDataError(err))
			return
		}
		h.logger.ErrorContext(ctx, "pipeline run failed",
			slog.String("symbol", symbol),
			slog.String("error", err.Error()))
		apierrors.WriteError(w, apierrors.ErrPipelineFailed)
		return
	}

	render.JSON(w, r, result)
}
