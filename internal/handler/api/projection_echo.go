package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	models "PremCast/internal/domain/models"
	domrepo "PremCast/internal/domain/repository"
	"PremCast/internal/service/ratelimit"
	"PremCast/internal/usecase"
	xhttp "PremCast/pkg/http"
	xlogger "PremCast/pkg/logger"
)

// RateLimitSettings carries the token bucket parameters applied per client.
type RateLimitSettings struct {
	Enabled      bool
	Capacity     float64
	RefillPerSec float64
}

// ProjectionEchoHandler exposes the projection engine over HTTP.
type ProjectionEchoHandler struct {
	logger    *xlogger.Logger
	projector *usecase.Projector
	store     domrepo.RunStore
	rl        *ratelimit.Limiter
	rlCfg     RateLimitSettings
}

func NewProjectionEchoHandler(logger *xlogger.Logger, projector *usecase.Projector, store domrepo.RunStore, rlCfg RateLimitSettings) *ProjectionEchoHandler {
	return &ProjectionEchoHandler{
		logger:    logger,
		projector: projector,
		store:     store,
		rl:        ratelimit.New(),
		rlCfg:     rlCfg,
	}
}

func (h *ProjectionEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/projection", h.Project)
	g.GET("/projection/history", h.History)

	e.GET("/ws/projection", h.ProjectStream)
	e.GET("/healthz", h.Health)
}

// Project computes a 5-year projection for the posted assumptions. Omitted
// fields fall back to the documented defaults.
func (h *ProjectionEchoHandler) Project(c echo.Context) error {
	if !h.allow(c, "project") {
		return xhttp.TooManyRequestsResponse(c)
	}

	req := &models.ProjectionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.projector.Run(c.Request().Context(), req, "api")
	if err != nil {
		h.logger.Error("projection usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

// History lists the most recent persisted runs, newest first.
func (h *ProjectionEchoHandler) History(c echo.Context) error {
	if !h.allow(c, "history") {
		return xhttp.TooManyRequestsResponse(c)
	}

	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if h.store == nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("run history is not configured"))
	}

	rows, err := h.store.RecentRuns(c.Request().Context(), req.Limit)
	if err != nil {
		h.logger.Error("history query error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

// Health reports liveness, and history backend reachability when one is
// configured.
func (h *ProjectionEchoHandler) Health(c echo.Context) error {
	status := map[string]string{"status": "ok"}
	if h.store != nil {
		if err := h.store.Health(c.Request().Context()); err != nil {
			h.logger.Warn("history backend unhealthy", xlogger.Error(err))
			status["status"] = "degraded"
			status["history"] = err.Error()
			return xhttp.ServiceUnavailableResponse(c, status)
		}
		status["history"] = "ok"
	}
	return xhttp.DataResponse(c, http.StatusOK, status)
}

func (h *ProjectionEchoHandler) allow(c echo.Context, op string) bool {
	if !h.rlCfg.Enabled {
		return true
	}
	if h.rl.Allow(c.RealIP()+":"+op, h.rlCfg.Capacity, h.rlCfg.RefillPerSec) {
		return true
	}
	h.logger.Warn("rate limited", xlogger.String("op", op), xlogger.String("remote", c.RealIP()))
	return false
}
