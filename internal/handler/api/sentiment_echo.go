package api

import (
	"net/http"
	"time"

	models "SentiPulse/internal/domain/models"
	domrepo "SentiPulse/internal/domain/repository"
	"SentiPulse/internal/service/ratelimit"
	"SentiPulse/internal/usecase"
	xhttp "SentiPulse/pkg/http"
	xlogger "SentiPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// refresh endpoint throttling, per client IP
const (
	refreshBurst  = 3
	refreshPerSec = 0.2 // one refresh per 5s sustained
)

// SentimentEchoHandler exposes the sentiment index over HTTP.
type SentimentEchoHandler struct {
	logger      *xlogger.Logger
	svc         *usecase.SentimentService
	hist        *usecase.HistoryService
	market      domrepo.MarketDataStore
	stream      *StreamHub
	limiter     *ratelimit.Limiter
	queryWindow time.Duration
}

func NewSentimentEchoHandler(
	logger *xlogger.Logger,
	svc *usecase.SentimentService,
	hist *usecase.HistoryService,
	market domrepo.MarketDataStore,
	stream *StreamHub,
	queryWindow time.Duration,
) *SentimentEchoHandler {
	if queryWindow <= 0 {
		queryWindow = time.Hour
	}
	return &SentimentEchoHandler{
		logger:      logger,
		svc:         svc,
		hist:        hist,
		market:      market,
		stream:      stream,
		limiter:     ratelimit.New(),
		queryWindow: queryWindow,
	}
}

func (h *SentimentEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/sentiment", h.Current)
	g.POST("/sentiment/refresh", h.Refresh)
	g.GET("/sentiment/history", h.History)
	g.GET("/sentiment/stats", h.Stats)
	if h.stream != nil {
		g.GET("/sentiment/stream", h.stream.ServeWS)
	}
	e.GET("/healthz", h.Health)
}

func (h *SentimentEchoHandler) Current(c echo.Context) error {
	req := &models.CurrentRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.svc.CurrentWithin(c.Request().Context(), h.maxAge(req))
	if err != nil {
		h.logger.Error("current sentiment error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=30")
	return xhttp.SuccessResponse(c, res)
}

// maxAge bounds the client's staleness tolerance by the configured query
// window, which also serves as the default when max_age is absent.
func (h *SentimentEchoHandler) maxAge(req *models.CurrentRequest) time.Duration {
	d := time.Duration(req.MaxAgeMin) * time.Minute
	if d <= 0 || d > h.queryWindow {
		return h.queryWindow
	}
	return d
}

// Refresh forces a recorded aggregation run, same pipeline as the
// scheduler. Unlike the scheduled path, persistence failures propagate.
func (h *SentimentEchoHandler) Refresh(c echo.Context) error {
	if !h.limiter.Allow(c.RealIP(), refreshBurst, refreshPerSec) {
		return xhttp.AppErrorResponse(c,
			xhttp.NewAppError("ERR_RATE_LIMITED", "", "too many refresh requests", http.StatusTooManyRequests))
	}

	res, err := h.svc.ComputeAndRecord(c.Request().Context())
	if err != nil {
		h.logger.Error("refresh error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *SentimentEchoHandler) History(c echo.Context) error {
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	points, err := h.hist.History(c.Request().Context(), req.Days)
	if err != nil {
		h.logger.Error("history error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, points, int64(len(points)))
}

func (h *SentimentEchoHandler) Stats(c echo.Context) error {
	req := &models.StatsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	start, ok := xhttp.ParseTime(req.Start)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("start is not a valid date"))
	}
	end, ok := xhttp.ParseEndTime(req.End)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("end is not a valid date"))
	}
	if end.Before(start) {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("end precedes start"))
	}

	summary, err := h.hist.Stats(c.Request().Context(), start, end)
	if err != nil {
		h.logger.Error("stats error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if summary == nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("no records in range"))
	}
	return xhttp.SuccessResponse(c, summary)
}

func (h *SentimentEchoHandler) Health(c echo.Context) error {
	if err := h.market.Health(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
