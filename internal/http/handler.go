package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/loadsight/pallet-analysis/internal/crosslog"
	"github.com/loadsight/pallet-analysis/internal/domain/dto"
	"github.com/loadsight/pallet-analysis/internal/i18n"
	"github.com/loadsight/pallet-analysis/internal/metrics"
	"github.com/loadsight/pallet-analysis/internal/middleware"
	"github.com/loadsight/pallet-analysis/internal/service"
)

// maxUploadBytes caps the size of an uploaded crosslog file.
const maxUploadBytes = 4 << 20

// Handler provides HTTP handlers for load analysis routes.
type Handler struct {
	sessions  service.SessionManager
	stability service.StabilityCalculator
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithStability sets the stability calculator used for the safety-limit
// settings endpoints.
func WithStability(stability service.StabilityCalculator) HandlerOption {
	return func(h *Handler) {
		h.stability = stability
	}
}

// NewHandler creates a new Handler instance.
func NewHandler(sessions service.SessionManager, opts ...HandlerOption) *Handler {
	h := &Handler{
		sessions: sessions,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// CreateLoad handles POST /api/loads requests.
//
// @Summary      Upload a crosslog load file
// @Description  Parses a crosslog text file into a load session. The file must declare its pallet count and every pallet section must match the strict section layout; any deviation is rejected with the offending line number. Returns the session ID, the pallet summaries and the deterministic item-type color table.
// @Tags         Loads
// @Accept       text/plain
// @Produce      json
// @Param        file body string true "Crosslog file contents"
// @Success      201 {object} dto.SuccessResponse "Load session created"
// @Failure      400 {object} dto.ErrorResponse "Bad request - malformed crosslog file"
// @Param        Authorization header string false "Bearer token (required if auth enabled)"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      429 {object} dto.ErrorResponse "Too many requests - rate limit exceeded"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /api/loads [post]
func (h *Handler) CreateLoad(c *gin.Context) {
	builder := NewResponseBuilder(c)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	start := time.Now()
	order, err := crosslog.Parse(c.Request.Body)
	if err != nil {
		metrics.RecordParse(time.Since(start), "error")
		var formatErr *crosslog.FormatError
		if errors.As(err, &formatErr) {
			builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidCrosslog, err)
		} else {
			builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		}
		return
	}
	metrics.RecordParse(time.Since(start), "success")

	sess, err := h.sessions.Create(order)
	if err != nil {
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyInternalError, err)
		return
	}

	// Audit log (async)
	if loggingService, exists := c.Get("logging_service"); exists {
		if ls, ok := loggingService.(service.LoggingService); ok {
			middleware.AuditLog(ls, c, "create_load", "Crosslog load file uploaded", map[string]interface{}{
				"session_id":   sess.ID,
				"order_id":     order.ID,
				"pallet_count": order.PalletCount,
			})
		}
	}

	builder.SuccessCreated(buildLoadResponse(sess))
}

// GetLoad handles GET /api/loads/:id requests.
//
// @Summary      Get a load session
// @Description  Returns the parsed order behind a session: pallet summaries, the active pallet, the placement position and the item-type color table.
// @Tags         Loads
// @Accept       json
// @Produce      json
// @Param        id path string true "Load session ID"
// @Success      200 {object} dto.SuccessResponse "Load session"
// @Failure      404 {object} dto.ErrorResponse "Load session not found or expired"
// @Param        Authorization header string false "Bearer token (required if auth enabled)"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Security     BearerAuth
// @Router       /api/loads/{id} [get]
func (h *Handler) GetLoad(c *gin.Context) {
	builder := NewResponseBuilder(c)

	sess, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		builder.Error(http.StatusNotFound, i18n.ErrKeyLoadNotFound, err)
		return
	}

	builder.SuccessOK(buildLoadResponse(sess))
}

// GetPallet handles GET /api/loads/:id/pallets/:pallet requests.
//
// @Summary      Get one pallet of a load
// @Description  Returns a single pallet including its full box list, with each box in engine coordinates and carrying its assigned color.
// @Tags         Loads
// @Accept       json
// @Produce      json
// @Param        id path string true "Load session ID"
// @Param        pallet path int true "Pallet index (zero-based)"
// @Success      200 {object} dto.SuccessResponse "Pallet detail"
// @Failure      400 {object} dto.ErrorResponse "Pallet index out of range"
// @Failure      404 {object} dto.ErrorResponse "Load session not found or expired"
// @Param        Authorization header string false "Bearer token (required if auth enabled)"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Security     BearerAuth
// @Router       /api/loads/{id}/pallets/{pallet} [get]
func (h *Handler) GetPallet(c *gin.Context) {
	builder := NewResponseBuilder(c)

	sess, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		builder.Error(http.StatusNotFound, i18n.ErrKeyLoadNotFound, err)
		return
	}

	idx, err := strconv.Atoi(c.Param("pallet"))
	if err != nil || idx < 0 || idx >= len(sess.Order().Pallets) {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidPalletIndex, service.ErrPalletIndex)
		return
	}

	pallet := &sess.Order().Pallets[idx]
	builder.SuccessOK(dto.PalletDetail{
		PalletSummary: dto.NewPalletSummary(idx, pallet),
		Boxes:         pallet.Boxes,
	})
}

// Step handles POST /api/loads/:id/step requests.
//
// @Summary      Mutate the placed-box set
// @Description  Applies one placement mutation (place, remove, seek or reset) to the active pallet and synchronously recomputes the weight distribution grid, the load stability index and the volume efficiency ratio. Supports idempotency via Idempotency-Key header.
// @Tags         Loads
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Idempotency key for request deduplication"
// @Param        id path string true "Load session ID"
// @Param        request body dto.StepRequest true "Mutation to apply"
// @Success      200 {object} dto.SuccessResponse "Recomputed metrics"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid action or step"
// @Failure      404 {object} dto.ErrorResponse "Load session not found or expired"
// @Param        Authorization header string false "Bearer token (required if auth enabled)"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      429 {object} dto.ErrorResponse "Too many requests - rate limit exceeded"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /api/loads/{id}/step [post]
func (h *Handler) Step(c *gin.Context) {
	builder := NewResponseBuilder(c)

	var req dto.StepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}
	if err := req.Validate(); err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err)
		return
	}

	snapshot, err := h.sessions.Apply(c.Param("id"), service.MutationAction(req.Action), req.Step, req.HeightCm)
	if err != nil {
		h.sessionError(builder, err)
		return
	}

	sess, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		builder.Error(http.StatusNotFound, i18n.ErrKeyLoadNotFound, err)
		return
	}

	builder.SuccessOK(dto.StepResponse{
		SessionID:    sess.ID,
		ActivePallet: sess.PalletIndex(),
		PlacedBoxes:  sess.Placed(),
		Metrics:      snapshot,
	})
}

// SelectPallet handles PUT /api/loads/:id/pallet requests.
//
// @Summary      Switch the active pallet
// @Description  Switches the session to another pallet of the order, resets placement and recomputes all metrics for the empty stack.
// @Tags         Loads
// @Accept       json
// @Produce      json
// @Param        id path string true "Load session ID"
// @Param        request body dto.SelectPalletRequest true "Pallet to activate"
// @Success      200 {object} dto.SuccessResponse "Recomputed metrics"
// @Failure      400 {object} dto.ErrorResponse "Pallet index out of range"
// @Failure      404 {object} dto.ErrorResponse "Load session not found or expired"
// @Param        Authorization header string false "Bearer token (required if auth enabled)"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Security     BearerAuth
// @Router       /api/loads/{id}/pallet [put]
func (h *Handler) SelectPallet(c *gin.Context) {
	builder := NewResponseBuilder(c)

	var req dto.SelectPalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}
	if err := req.Validate(); err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err)
		return
	}

	snapshot, err := h.sessions.SelectPallet(c.Param("id"), req.Pallet)
	if err != nil {
		h.sessionError(builder, err)
		return
	}

	sess, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		builder.Error(http.StatusNotFound, i18n.ErrKeyLoadNotFound, err)
		return
	}

	builder.SuccessOK(dto.StepResponse{
		SessionID:    sess.ID,
		ActivePallet: sess.PalletIndex(),
		PlacedBoxes:  sess.Placed(),
		Metrics:      snapshot,
	})
}

// GetMetrics handles GET /api/loads/:id/metrics requests.
//
// @Summary      Get the current metrics snapshot
// @Description  Returns the metrics snapshot from the latest recomputation without mutating the session.
// @Tags         Loads
// @Accept       json
// @Produce      json
// @Param        id path string true "Load session ID"
// @Success      200 {object} dto.SuccessResponse "Metrics snapshot"
// @Failure      404 {object} dto.ErrorResponse "Load session not found or expired"
// @Param        Authorization header string false "Bearer token (required if auth enabled)"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Security     BearerAuth
// @Router       /api/loads/{id}/metrics [get]
func (h *Handler) GetMetrics(c *gin.Context) {
	builder := NewResponseBuilder(c)

	sess, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		builder.Error(http.StatusNotFound, i18n.ErrKeyLoadNotFound, err)
		return
	}

	builder.SuccessOK(sess.Snapshot())
}

// GetHistory handles GET /api/loads/:id/history requests.
//
// @Summary      Get the snapshot history of a load session
// @Description  Returns the persisted metrics snapshots recorded after each mutation, newest first. Empty when snapshot persistence is disabled.
// @Tags         Loads
// @Accept       json
// @Produce      json
// @Param        id path string true "Load session ID"
// @Param        limit query int false "Limit number of results"
// @Success      200 {object} dto.SuccessResponse "Snapshot history"
// @Failure      404 {object} dto.ErrorResponse "Load session not found or expired"
// @Param        Authorization header string false "Bearer token (required if auth enabled)"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /api/loads/{id}/history [get]
func (h *Handler) GetHistory(c *gin.Context) {
	builder := NewResponseBuilder(c)

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	docs, err := h.sessions.History(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		h.sessionError(builder, err)
		return
	}

	builder.SuccessOK(docs)
}

// Analyze handles POST /api/analyze requests.
//
// @Summary      Analyze an explicit box list
// @Description  Runs the weight distribution grid, the load stability index and the volume efficiency ratio once against the boxes in the request, with no session state involved.
// @Tags         Analysis
// @Accept       json
// @Produce      json
// @Param        request body dto.AnalyzeRequest true "Boxes to analyze"
// @Success      200 {object} dto.SuccessResponse "Metrics snapshot"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid box list"
// @Param        Authorization header string false "Bearer token (required if auth enabled)"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      429 {object} dto.ErrorResponse "Too many requests - rate limit exceeded"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /api/analyze [post]
func (h *Handler) Analyze(c *gin.Context) {
	builder := NewResponseBuilder(c)

	var req dto.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}

	if err := req.Validate(); err != nil {
		if _, ok := err.(*dto.ValidationError); ok {
			builder.Error(http.StatusBadRequest, i18n.ErrKeyValidationBoxes, err)
		} else {
			builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		}
		return
	}

	// Audit log (async)
	if loggingService, exists := c.Get("logging_service"); exists {
		if ls, ok := loggingService.(service.LoggingService); ok {
			middleware.AuditLog(ls, c, "analyze", "Stateless load analysis requested", map[string]interface{}{
				"box_count": len(req.Boxes),
			})
		}
	}

	builder.SuccessOK(h.sessions.Analyze(req.BoxList(), req.HeightCm))
}

// UpdateSafetyLimit handles PUT /api/settings/safety-limit requests.
//
// @Summary      Update the center-of-mass safety limit
// @Description  Sets the stability calculator's safety limit, either by named profile (conservative, standard, liberal) or as an explicit distance in centimeters. The limit is clamped to the supported range.
// @Tags         Settings
// @Accept       json
// @Produce      json
// @Param        request body dto.SafetyLimitRequest true "Profile or explicit limit"
// @Success      200 {object} dto.SuccessResponse "Effective safety limit"
// @Failure      400 {object} dto.ErrorResponse "Bad request - unknown profile or out-of-range limit"
// @Param        Authorization header string false "Bearer token (required if auth enabled)"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Security     BearerAuth
// @Router       /api/settings/safety-limit [put]
func (h *Handler) UpdateSafetyLimit(c *gin.Context) {
	builder := NewResponseBuilder(c)

	if h.stability == nil {
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyInternalError, nil)
		return
	}

	var req dto.SafetyLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}
	if err := req.Validate(); err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidSafetyLimit, err)
		return
	}

	if req.Profile != "" {
		h.stability.SetSafetyProfile(service.SafetyProfile(req.Profile))
	} else {
		h.stability.SetSafetyLimitCm(req.LimitCm)
	}

	// Audit log (async)
	if loggingService, exists := c.Get("logging_service"); exists {
		if ls, ok := loggingService.(service.LoggingService); ok {
			middleware.AuditLog(ls, c, "update_safety_limit", "Safety limit updated", map[string]interface{}{
				"profile":  req.Profile,
				"limit_cm": h.stability.SafetyLimitCm(),
			})
		}
	}

	builder.SuccessOK(dto.SafetyLimitResponse{
		Profile: req.Profile,
		LimitCm: h.stability.SafetyLimitCm(),
	})
}

// GetSafetyLimit handles GET /api/settings/safety-limit requests.
//
// @Summary      Get the center-of-mass safety limit
// @Description  Returns the effective safety limit in centimeters.
// @Tags         Settings
// @Accept       json
// @Produce      json
// @Success      200 {object} dto.SuccessResponse "Effective safety limit"
// @Param        Authorization header string false "Bearer token (required if auth enabled)"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Security     BearerAuth
// @Router       /api/settings/safety-limit [get]
func (h *Handler) GetSafetyLimit(c *gin.Context) {
	builder := NewResponseBuilder(c)

	if h.stability == nil {
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyInternalError, nil)
		return
	}

	builder.SuccessOK(dto.SafetyLimitResponse{
		LimitCm: h.stability.SafetyLimitCm(),
	})
}

// sessionError maps service-level session errors to HTTP responses.
func (h *Handler) sessionError(builder *ResponseBuilder, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		builder.Error(http.StatusNotFound, i18n.ErrKeyLoadNotFound, err)
	case errors.Is(err, service.ErrPalletIndex):
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidPalletIndex, err)
	case errors.Is(err, service.ErrInvalidStep), errors.Is(err, service.ErrUnknownAction):
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err)
	default:
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyInternalError, err)
	}
}

// buildLoadResponse assembles the session summary DTO.
func buildLoadResponse(sess *service.Session) dto.LoadResponse {
	order := sess.Order()

	pallets := make([]dto.PalletSummary, len(order.Pallets))
	for i := range order.Pallets {
		pallets[i] = dto.NewPalletSummary(i, &order.Pallets[i])
	}

	return dto.LoadResponse{
		SessionID:    sess.ID,
		OrderID:      order.ID,
		PalletCount:  order.PalletCount,
		ActivePallet: sess.PalletIndex(),
		PlacedBoxes:  sess.Placed(),
		Pallets:      pallets,
		Colors:       order.Colors(),
		CreatedAt:    sess.CreatedAt,
	}
}
