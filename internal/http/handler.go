package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"route-service/internal/http/middleware"
	"route-service/internal/model"
	"route-service/internal/service"
)

type Handler struct {
	scheduleService   *service.ScheduleService
	segmentService    *service.SegmentService
	rescheduleService *service.RescheduleService
	reportService     *service.ReportService
	wasteService      *service.WasteService
	loc               *time.Location
	log               zerolog.Logger
}

func NewHandler(
	scheduleService *service.ScheduleService,
	segmentService *service.SegmentService,
	rescheduleService *service.RescheduleService,
	reportService *service.ReportService,
	wasteService *service.WasteService,
	loc *time.Location,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		scheduleService:   scheduleService,
		segmentService:    segmentService,
		rescheduleService: rescheduleService,
		reportService:     reportService,
		wasteService:      wasteService,
		loc:               loc,
		log:               log,
	}
}

type segmentPayload struct {
	FromZoneID     string  `json:"from_zone_id"`
	ToZoneID       string  `json:"to_zone_id"`
	FromTerminalID string  `json:"from_terminal_id"`
	ToTerminalID   string  `json:"to_terminal_id"`
	DistanceKm     float64 `json:"distance_km"`
	PlannedMinutes int     `json:"planned_minutes" binding:"required"`
	SpeedKph       float64 `json:"speed_kph"`
}

func (h *Handler) createSchedule(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	var req struct {
		TruckID        string           `json:"truck_id" binding:"required"`
		DriverID       string           `json:"driver_id" binding:"required"`
		BarangayID     string           `json:"barangay_id" binding:"required"`
		PickupDatetime string           `json:"pickup_datetime" binding:"required"`
		Remarks        string           `json:"remarks"`
		Segments       []segmentPayload `json:"segments"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	truckID, err := uuid.Parse(strings.TrimSpace(req.TruckID))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid truck_id"))
		return
	}
	driverID, err := uuid.Parse(strings.TrimSpace(req.DriverID))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid driver_id"))
		return
	}
	barangayID, err := uuid.Parse(strings.TrimSpace(req.BarangayID))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid barangay_id"))
		return
	}
	pickupAt, err := h.parseTimestamp(req.PickupDatetime)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid pickup_datetime"))
		return
	}

	segments, err := h.convertSegmentPayloads(req.Segments)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	schedule, err := h.scheduleService.Create(c.Request.Context(), principal, service.CreateScheduleInput{
		TruckID:    truckID,
		DriverID:   driverID,
		BarangayID: barangayID,
		PickupAt:   pickupAt,
		Remarks:    req.Remarks,
		Segments:   segments,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(schedule))
}

func (h *Handler) updateSchedule(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid schedule id"))
		return
	}

	var req struct {
		TruckID        *string `json:"truck_id"`
		DriverID       *string `json:"driver_id"`
		BarangayID     *string `json:"barangay_id"`
		PickupDatetime *string `json:"pickup_datetime"`
		Remarks        *string `json:"remarks"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	var input service.UpdateScheduleInput
	if req.TruckID != nil {
		truckID, err := uuid.Parse(strings.TrimSpace(*req.TruckID))
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid truck_id"))
			return
		}
		input.TruckID = &truckID
	}
	if req.DriverID != nil {
		driverID, err := uuid.Parse(strings.TrimSpace(*req.DriverID))
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid driver_id"))
			return
		}
		input.DriverID = &driverID
	}
	if req.BarangayID != nil {
		barangayID, err := uuid.Parse(strings.TrimSpace(*req.BarangayID))
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid barangay_id"))
			return
		}
		input.BarangayID = &barangayID
	}
	if req.PickupDatetime != nil {
		pickupAt, err := h.parseTimestamp(*req.PickupDatetime)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid pickup_datetime"))
			return
		}
		input.PickupAt = &pickupAt
	}
	input.Remarks = req.Remarks

	schedule, err := h.scheduleService.Update(c.Request.Context(), principal, id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(schedule))
}

func (h *Handler) getSchedule(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid schedule id"))
		return
	}

	schedule, err := h.scheduleService.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(schedule))
}

func (h *Handler) listSchedules(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	opts, err := h.parseScheduleQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	schedules, err := h.scheduleService.List(c.Request.Context(), principal, opts)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"items": schedules}))
}

func (h *Handler) updateScheduleStatus(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid schedule id"))
		return
	}

	var req struct {
		Status  string `json:"status" binding:"required"`
		Remarks string `json:"remarks"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	status := model.ScheduleStatus(strings.ToLower(strings.TrimSpace(req.Status)))

	if err := h.scheduleService.UpdateStatus(c.Request.Context(), principal, id, status, req.Remarks); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"status": "updated"}))
}

func (h *Handler) advanceSegment(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid route detail id"))
		return
	}

	var req struct {
		Status      string `json:"status" binding:"required"`
		StartTime   string `json:"start_time"`
		CompletedAt string `json:"completed_at"`
		Remarks     string `json:"remarks"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	input := service.AdvanceInput{
		Status:  model.SegmentStatus(strings.ToLower(strings.TrimSpace(req.Status))),
		Remarks: req.Remarks,
	}
	if req.StartTime != "" {
		ts, err := h.parseTimestamp(req.StartTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid start_time"))
			return
		}
		input.StartTime = &ts
	}
	if req.CompletedAt != "" {
		ts, err := h.parseTimestamp(req.CompletedAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid completed_at"))
			return
		}
		input.CompletedAt = &ts
	}

	segment, err := h.segmentService.Advance(c.Request.Context(), principal, id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(segment))
}

func (h *Handler) listSegments(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	var opts service.ListSegmentsOptions
	if statusParam := c.Query("status"); statusParam != "" {
		for _, val := range splitCSV(statusParam) {
			opts.Statuses = append(opts.Statuses, model.SegmentStatus(strings.ToLower(val)))
		}
	}
	if unviewed := strings.TrimSpace(c.Query("unviewed")); unviewed != "" {
		opts.UnviewedOnly = unviewed == "true" || unviewed == "1"
	}
	if scheduleID := strings.TrimSpace(c.Query("schedule_id")); scheduleID != "" {
		id, err := uuid.Parse(scheduleID)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid schedule_id"))
			return
		}
		opts.ScheduleID = &id
	}
	opts.Limit, opts.Offset = parsePagination(c)

	segments, err := h.segmentService.List(c.Request.Context(), principal, opts)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"items": segments}))
}

func (h *Handler) markSegmentViewed(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid route detail id"))
		return
	}

	if err := h.segmentService.MarkViewed(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"status": "viewed"}))
}

func (h *Handler) reschedule(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	var req struct {
		LegIDs         []string `json:"leg_ids" binding:"required"`
		RescheduleTime string   `json:"reschedule_time" binding:"required"`
		TruckID        string   `json:"truck_id" binding:"required"`
		DriverID       string   `json:"driver_id" binding:"required"`
		Remarks        string   `json:"remarks"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	legIDs := make([]uuid.UUID, 0, len(req.LegIDs))
	for _, raw := range req.LegIDs {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse(fmt.Sprintf("invalid leg id %q", raw)))
			return
		}
		legIDs = append(legIDs, id)
	}

	pickupAt, err := h.parseTimestamp(req.RescheduleTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid reschedule_time"))
		return
	}
	truckID, err := uuid.Parse(strings.TrimSpace(req.TruckID))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid truck_id"))
		return
	}
	driverID, err := uuid.Parse(strings.TrimSpace(req.DriverID))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid driver_id"))
		return
	}

	result, err := h.rescheduleService.Reschedule(c.Request.Context(), principal, service.RescheduleInput{
		LegIDs:   legIDs,
		PickupAt: pickupAt,
		TruckID:  truckID,
		DriverID: driverID,
		Remarks:  req.Remarks,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	skipped := result.SkippedIDs
	if skipped == nil {
		skipped = []uuid.UUID{}
	}
	message := fmt.Sprintf("%d leg(s) moved to a new reschedule", result.CreatedCount)
	if len(skipped) > 0 {
		message = fmt.Sprintf("%s, %d skipped", message, len(skipped))
	}

	c.JSON(http.StatusCreated, successResponse(gin.H{
		"success":         true,
		"message":         message,
		"new_schedule_id": result.ReSchedule.ID,
		"created_count":   result.CreatedCount,
		"skipped_ids":     skipped,
		"reschedule":      result.ReSchedule,
	}))
}

func (h *Handler) listReschedules(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	opts, err := h.parseScheduleQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	rescheds, err := h.rescheduleService.List(c.Request.Context(), principal, opts)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"items": rescheds}))
}

func (h *Handler) getReschedule(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid reschedule id"))
		return
	}

	resched, err := h.rescheduleService.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(resched))
}

func (h *Handler) driverStats(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	driverID, err := uuid.Parse(strings.TrimSpace(c.Query("driver_id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid driver_id"))
		return
	}

	var scheduleID *uuid.UUID
	if raw := strings.TrimSpace(c.Query("schedule_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid schedule_id"))
			return
		}
		scheduleID = &id
	}

	stats, err := h.reportService.DriverStats(c.Request.Context(), principal, driverID, scheduleID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(stats))
}

func (h *Handler) routeSummary(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	scheduleID, err := uuid.Parse(strings.TrimSpace(c.Param("schedule_id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid schedule id"))
		return
	}

	summary, err := h.reportService.Summarize(c.Request.Context(), principal, scheduleID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(summary))
}

func (h *Handler) createWasteCollection(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	var req struct {
		RouteDetailID      string `json:"route_detail_id"`
		RescheduleDetailID string `json:"reschedule_detail_id"`
		BiodegradableSacks int    `json:"biodegradable_sacks"`
		NonBioSacks        int    `json:"non_biodegradable_sacks"`
		RecyclableSacks    int    `json:"recyclable_sacks"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	var input service.RecordWasteInput
	input.BiodegradableSacks = req.BiodegradableSacks
	input.NonBioSacks = req.NonBioSacks
	input.RecyclableSacks = req.RecyclableSacks
	if raw := strings.TrimSpace(req.RouteDetailID); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid route_detail_id"))
			return
		}
		input.RouteDetailID = &id
	}
	if raw := strings.TrimSpace(req.RescheduleDetailID); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid reschedule_detail_id"))
			return
		}
		input.RescheduleDetailID = &id
	}

	record, err := h.wasteService.Record(c.Request.Context(), principal, input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(record))
}

func (h *Handler) wasteSummary(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	driverID, err := uuid.Parse(strings.TrimSpace(c.Query("driver_id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid driver_id"))
		return
	}

	var scheduleID *uuid.UUID
	if raw := strings.TrimSpace(c.Query("schedule_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid schedule_id"))
			return
		}
		scheduleID = &id
	}

	totals, err := h.wasteService.SumByCategory(c.Request.Context(), principal, driverID, scheduleID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(totals))
}

func (h *Handler) handleError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	var conflictErr *service.ConflictError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"message": validationErr.Error(),
			"errors":  gin.H{validationErr.Field: validationErr.Reason},
		})
	case errors.As(err, &conflictErr):
		// Business conflict, not malformed input: surfaced under a
		// dedicated duplicate key so clients can disambiguate.
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"message": conflictErr.Error(),
			"errors":  gin.H{"duplicate": conflictErr.Error()},
		})
	case errors.Is(err, service.ErrNoEligibleSegments):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, errorResponse(err.Error()))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, service.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	default:
		h.log.Error().Err(err).Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

func (h *Handler) parseScheduleQuery(c *gin.Context) (service.ListSchedulesOptions, error) {
	var opts service.ListSchedulesOptions

	if statusParam := c.Query("status"); statusParam != "" {
		for _, val := range splitCSV(statusParam) {
			opts.Statuses = append(opts.Statuses, model.ScheduleStatus(strings.ToLower(val)))
		}
	}
	if truckID := strings.TrimSpace(c.Query("truck_id")); truckID != "" {
		id, err := uuid.Parse(truckID)
		if err != nil {
			return opts, err
		}
		opts.TruckID = &id
	}
	if driverID := strings.TrimSpace(c.Query("driver_id")); driverID != "" {
		id, err := uuid.Parse(driverID)
		if err != nil {
			return opts, err
		}
		opts.DriverID = &id
	}
	if barangayID := strings.TrimSpace(c.Query("barangay_id")); barangayID != "" {
		id, err := uuid.Parse(barangayID)
		if err != nil {
			return opts, err
		}
		opts.BarangayID = &id
	}
	if dateFrom := strings.TrimSpace(c.Query("date_from")); dateFrom != "" {
		ts, err := h.parseTimestamp(dateFrom)
		if err != nil {
			return opts, err
		}
		opts.DateFrom = &ts
	}
	if dateTo := strings.TrimSpace(c.Query("date_to")); dateTo != "" {
		ts, err := h.parseTimestamp(dateTo)
		if err != nil {
			return opts, err
		}
		opts.DateTo = &ts
	}
	opts.Limit, opts.Offset = parsePagination(c)

	return opts, nil
}

func (h *Handler) convertSegmentPayloads(payloads []segmentPayload) ([]service.SegmentInput, error) {
	result := make([]service.SegmentInput, 0, len(payloads))
	for _, p := range payloads {
		var seg service.SegmentInput
		seg.DistanceKm = p.DistanceKm
		seg.PlannedMinutes = p.PlannedMinutes
		seg.SpeedKph = p.SpeedKph
		var err error
		if seg.FromZoneID, err = parseOptionalUUID(p.FromZoneID, "from_zone_id"); err != nil {
			return nil, err
		}
		if seg.ToZoneID, err = parseOptionalUUID(p.ToZoneID, "to_zone_id"); err != nil {
			return nil, err
		}
		if seg.FromTerminalID, err = parseOptionalUUID(p.FromTerminalID, "from_terminal_id"); err != nil {
			return nil, err
		}
		if seg.ToTerminalID, err = parseOptionalUUID(p.ToTerminalID, "to_terminal_id"); err != nil {
			return nil, err
		}
		result = append(result, seg)
	}
	return result, nil
}

// parseTimestamp accepts RFC3339 or the dispatcher UI's local
// "YYYY-MM-DD HH:MM:SS" form, normalizing both into the configured zone.
func (h *Handler) parseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts.In(h.loc), nil
	}
	return time.ParseInLocation("2006-01-02 15:04:05", raw, h.loc)
}

func parseOptionalUUID(raw, field string) (*uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s", field)
	}
	return &id, nil
}

func parsePagination(c *gin.Context) (limit, offset int) {
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			limit = v
		}
	}
	if raw := strings.TrimSpace(c.Query("offset")); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			offset = v
		}
	}
	return limit, offset
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

type responseEnvelope struct {
	Data interface{} `json:"data"`
}

func successResponse(data interface{}) responseEnvelope {
	return responseEnvelope{Data: data}
}

func errorResponse(msg string) gin.H {
	return gin.H{"error": msg}
}
