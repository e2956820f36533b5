package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"citysim/internal/app/command"
	"citysim/internal/app/ports"
	"citysim/internal/app/replay"
	"citysim/internal/app/status"
	"citysim/internal/domain/city"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const idempotencyKeyHeader = "Idempotency-Key"

const defaultEventLimit = 50

type Handler struct {
	CityID     string
	CommandUC  command.UseCase
	StatusUC   status.UseCase
	ReplayUC   replay.UseCase
	EventLimit int
	// AllowOrigin is the CORS origin; empty allows any.
	AllowOrigin string
	KPI         kpiSnapshotProvider
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware(h.AllowOrigin))

	api := s.Group("/api/city")
	api.POST("/buildings", h.place)
	api.POST("/bulldoze", h.bulldoze)
	api.POST("/advance", h.advance)
	api.GET("/status", h.status)
	api.GET("/tiles/:x/:y", h.tile)
	api.GET("/events", h.events)

	s.GET("/api/catalog", h.catalog)
	s.GET("/ops/kpi", h.kpi)
}

type placeRequest struct {
	IdempotencyKey string `json:"idempotency_key"`
	X              int    `json:"x"`
	Y              int    `json:"y"`
	Type           string `json:"type"`
}

type bulldozeRequest struct {
	IdempotencyKey string `json:"idempotency_key"`
	X              int    `json:"x"`
	Y              int    `json:"y"`
}

type advanceRequest struct {
	IdempotencyKey string `json:"idempotency_key"`
	Ticks          int    `json:"ticks"`
}

func (h Handler) place(c context.Context, ctx *app.RequestContext) {
	var body placeRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	if !hasJSONField(ctx.Request.Body(), "x") || !hasJSONField(ctx.Request.Body(), "y") {
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", "x and y are required")
		return
	}
	resp, err := h.CommandUC.Place(c, command.PlaceRequest{
		IdempotencyKey: idempotencyKey(ctx, body.IdempotencyKey),
		X:              body.X,
		Y:              body.Y,
		Type:           body.Type,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(commandStatus(resp, consts.StatusCreated), resp)
}

func (h Handler) bulldoze(c context.Context, ctx *app.RequestContext) {
	var body bulldozeRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	if !hasJSONField(ctx.Request.Body(), "x") || !hasJSONField(ctx.Request.Body(), "y") {
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", "x and y are required")
		return
	}
	resp, err := h.CommandUC.Bulldoze(c, command.BulldozeRequest{
		IdempotencyKey: idempotencyKey(ctx, body.IdempotencyKey),
		X:              body.X,
		Y:              body.Y,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) advance(c context.Context, ctx *app.RequestContext) {
	var body advanceRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.CommandUC.Advance(c, command.AdvanceRequest{
		IdempotencyKey: idempotencyKey(ctx, body.IdempotencyKey),
		Ticks:          body.Ticks,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) status(c context.Context, ctx *app.RequestContext) {
	resp, err := h.StatusUC.Execute(c, status.Request{})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) tile(c context.Context, ctx *app.RequestContext) {
	x, errX := strconv.Atoi(ctx.Param("x"))
	y, errY := strconv.Atoi(ctx.Param("y"))
	if errX != nil || errY != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", "tile coordinates must be integers")
		return
	}
	resp, err := h.StatusUC.Tile(c, status.TileRequest{X: x, Y: y})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) events(c context.Context, ctx *app.RequestContext) {
	defaultLimit := h.EventLimit
	if defaultLimit <= 0 {
		defaultLimit = defaultEventLimit
	}
	limit, ok := queryInt(ctx, "limit", defaultLimit)
	if !ok {
		return
	}
	fromTick, ok := queryInt(ctx, "from_tick", 0)
	if !ok {
		return
	}
	toTick, ok := queryInt(ctx, "to_tick", 0)
	if !ok {
		return
	}
	resp, err := h.ReplayUC.Execute(c, replay.Request{
		CityID:   h.CityID,
		Limit:    limit,
		FromTick: fromTick,
		ToTick:   toTick,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) catalog(c context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, h.StatusUC.Catalog(c))
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

// queryInt writes a 400 and reports false when the parameter is not an integer.
func queryInt(ctx *app.RequestContext, name string, fallback int) (int, bool) {
	raw := string(ctx.Query(name))
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", name+" must be an integer")
		return 0, false
	}
	return n, true
}

func idempotencyKey(ctx *app.RequestContext, fromBody string) string {
	if key := strings.TrimSpace(fromBody); key != "" {
		return key
	}
	return strings.TrimSpace(string(ctx.Request.Header.Peek(idempotencyKeyHeader)))
}

// commandStatus answers a replayed command with 200 instead of the create status.
func commandStatus(resp command.Response, created int) int {
	if resp.Replayed {
		return consts.StatusOK
	}
	return created
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func hasJSONField(body []byte, key string) bool {
	if len(body) == 0 {
		return false
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(body, &m); err != nil {
		return false
	}
	_, ok := m[key]
	return ok
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, city.ErrCooldownActive):
		details := map[string]any{}
		var cdErr *city.CooldownActiveError
		if errors.As(err, &cdErr) {
			details["remaining_ticks"] = cdErr.RemainingTicks
		}
		writeRejected(ctx, consts.StatusConflict, "cooldown_active", err.Error(), details)
	case errors.Is(err, city.ErrInsufficientFunds):
		details := map[string]any{}
		var fundsErr *city.InsufficientFundsError
		if errors.As(err, &fundsErr) {
			details["cost"] = fundsErr.Cost
			details["budget"] = fundsErr.Budget
		}
		writeRejected(ctx, consts.StatusConflict, "insufficient_funds", err.Error(), details)
	case errors.Is(err, city.ErrOccupiedFootprint):
		details := map[string]any{}
		var occErr *city.OccupiedFootprintError
		if errors.As(err, &occErr) {
			details["x"] = occErr.At.X
			details["y"] = occErr.At.Y
			details["building_id"] = uint64(occErr.Building)
		}
		writeRejected(ctx, consts.StatusConflict, "occupied_footprint", err.Error(), details)
	case errors.Is(err, city.ErrNothingToBulldoze):
		writeErrorBody(ctx, consts.StatusConflict, "nothing_to_bulldoze", err.Error())
	case errors.Is(err, city.ErrInvalidCoordinates):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_coordinates", err.Error())
	case errors.Is(err, city.ErrUnrecognizedBuildingType):
		writeErrorBody(ctx, consts.StatusBadRequest, "unrecognized_building_type", err.Error())
	case errors.Is(err, command.ErrInvalidRequest),
		errors.Is(err, replay.ErrInvalidRequest):
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

func writeRejected(ctx *app.RequestContext, status int, code, message string, details map[string]any) {
	ctx.JSON(status, map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
