package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/app/ports"
	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/app/replay"
	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/app/session"
	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/domain/game"
)

// SessionLauncher starts a session run. Launch returns once the
// session is accepted; the run itself proceeds in the background.
type SessionLauncher interface {
	Launch(ctx context.Context, scenario game.Scenario) (string, error)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

type Handler struct {
	Launcher SessionLauncher
	Sessions ports.SessionRepository
	ReplayUC replay.UseCase
	KPI      kpiSnapshotProvider
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())

	sessions := s.Group("/api/sessions")
	sessions.POST("", h.launch)
	sessions.GET("/:session_id", h.get)
	sessions.GET("/:session_id/replay", h.replay)

	s.GET("/ops/kpi", h.kpi)
}

type launchResponse struct {
	SessionID string `json:"session_id"`
}

type sessionResponse struct {
	SessionID string        `json:"session_id"`
	Scenario  game.Scenario `json:"scenario"`
	StartedAt time.Time     `json:"started_at"`
	EndedAt   *time.Time    `json:"ended_at,omitempty"`
	Outcome   string        `json:"outcome,omitempty"`
	Rounds    int           `json:"rounds"`
}

func (h Handler) launch(c context.Context, ctx *app.RequestContext) {
	if h.Launcher == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "session launcher not configured")
		return
	}

	var scenario game.Scenario
	if err := decodeJSON(ctx, &scenario); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	sessionID, err := h.Launcher.Launch(c, scenario)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusAccepted, launchResponse{SessionID: sessionID})
}

func (h Handler) get(c context.Context, ctx *app.RequestContext) {
	sessionID := string(ctx.Param("session_id"))
	record, err := h.Sessions.Get(c, sessionID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, sessionResponse{
		SessionID: record.SessionID,
		Scenario:  record.Scenario,
		StartedAt: record.StartedAt,
		EndedAt:   record.EndedAt,
		Outcome:   record.Outcome,
		Rounds:    record.Rounds,
	})
}

func (h Handler) replay(c context.Context, ctx *app.RequestContext) {
	limit, _ := strconv.Atoi(string(ctx.Query("limit")))
	roundFrom, _ := strconv.Atoi(string(ctx.Query("round_from")))
	roundTo, _ := strconv.Atoi(string(ctx.Query("round_to")))

	resp, err := h.ReplayUC.Execute(c, replay.Request{
		SessionID: string(ctx.Param("session_id")),
		Limit:     limit,
		RoundFrom: roundFrom,
		RoundTo:   roundTo,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, session.ErrFatalConfiguration):
		writeErrorBody(ctx, consts.StatusBadRequest, "fatal_configuration", err.Error())
	case errors.Is(err, replay.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
