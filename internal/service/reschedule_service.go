package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"route-service/internal/model"
)

// RescheduleService folds missed legs into a fresh pickup run while
// keeping each clone's lineage to the schedule it was missed under.
type RescheduleService struct {
	scheduleRepo   ScheduleRepository
	segmentRepo    SegmentRepository
	rescheduleRepo RescheduleRepository
	log            zerolog.Logger
}

func NewRescheduleService(
	scheduleRepo ScheduleRepository,
	segmentRepo SegmentRepository,
	rescheduleRepo RescheduleRepository,
	log zerolog.Logger,
) *RescheduleService {
	return &RescheduleService{
		scheduleRepo:   scheduleRepo,
		segmentRepo:    segmentRepo,
		rescheduleRepo: rescheduleRepo,
		log:            log,
	}
}

type RescheduleInput struct {
	LegIDs   []uuid.UUID
	PickupAt time.Time
	TruckID  uuid.UUID
	DriverID uuid.UUID
	Remarks  string
}

type RescheduleResult struct {
	ReSchedule   *model.ReSchedule `json:"reschedule"`
	CreatedCount int               `json:"created_count"`
	SkippedIDs   []uuid.UUID       `json:"skipped_ids"`
}

// Reschedule clones every leg in legIDs that is currently missed into one
// new reschedule run and flips the originals to rescheduled, atomically.
// Ineligible ids are skipped, not errors; an all-skipped call is a no-op
// failing with ErrNoEligibleSegments.
func (s *RescheduleService) Reschedule(ctx context.Context, principal model.Principal, input RescheduleInput) (*RescheduleResult, error) {
	if !principal.CanDispatch() {
		return nil, ErrPermissionDenied
	}
	if len(input.LegIDs) == 0 {
		return nil, &ValidationError{Field: "leg_ids", Reason: "at least one leg id is required"}
	}

	segments, err := s.segmentRepo.ListByIDs(ctx, input.LegIDs)
	if err != nil {
		return nil, err
	}

	found := make(map[uuid.UUID]*model.RouteSegment, len(segments))
	for i := range segments {
		found[segments[i].ID] = &segments[i]
	}

	var eligible []*model.RouteSegment
	var skipped []uuid.UUID
	seen := make(map[uuid.UUID]bool, len(input.LegIDs))
	for _, id := range input.LegIDs {
		// A repeated id would clone the same leg twice; the repeat is
		// skipped like any other ineligible entry.
		if seen[id] {
			skipped = append(skipped, id)
			continue
		}
		seen[id] = true
		seg, ok := found[id]
		if !ok || seg.Status != model.SegmentStatusMissed {
			skipped = append(skipped, id)
			continue
		}
		eligible = append(eligible, seg)
	}

	if len(eligible) == 0 {
		return nil, ErrNoEligibleSegments
	}

	if err := s.checkTruckSlot(ctx, input.TruckID, input.PickupAt); err != nil {
		return nil, err
	}

	// The new run's barangay comes from the first eligible leg's origin
	// schedule. Legs from schedules in other barangays are still moved,
	// with a warning for the audit trail.
	origin, err := s.scheduleRepo.GetByID(ctx, eligible[0].ScheduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.warnOnMixedBarangays(ctx, eligible, origin)

	resched := &model.ReSchedule{
		TruckID:    input.TruckID,
		DriverID:   input.DriverID,
		BarangayID: origin.BarangayID,
		PickupAt:   input.PickupAt,
		Status:     model.ScheduleStatusPending,
		Remarks:    rescheduleRemarks(input.Remarks, eligible),
	}

	clones := make([]model.RouteSegment, 0, len(eligible))
	flipIDs := make([]uuid.UUID, 0, len(eligible))
	logs := make([]model.SegmentStatusLog, 0, len(eligible))
	for _, seg := range eligible {
		clones = append(clones, model.RouteSegment{
			// Lineage: the origin schedule, never the new reschedule.
			ScheduleID:  seg.ScheduleID,
			FromZoneID:  seg.FromZoneID,
			ToZoneID:    seg.ToZoneID,
			FromTermID:  seg.FromTermID,
			ToTermID:    seg.ToTermID,
			DistanceKm:  seg.DistanceKm,
			PlannedMins: seg.PlannedMins,
			SpeedKph:    seg.SpeedKph,
			Status:      model.SegmentStatusPending,
			StartTime:   &input.PickupAt,
		})
		flipIDs = append(flipIDs, seg.ID)
		missed := model.SegmentStatusMissed
		logs = append(logs, model.SegmentStatusLog{
			SegmentID: seg.ID,
			OldStatus: &missed,
			NewStatus: model.SegmentStatusRescheduled,
			Note:      "moved to a reschedule run",
			ChangedBy: &principal.UserID,
		})
	}

	if err := s.rescheduleRepo.CreateWithClones(ctx, resched, clones, flipIDs, logs); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{TruckID: input.TruckID, PickupAt: input.PickupAt}
		}
		return nil, err
	}

	created, err := s.rescheduleRepo.GetByID(ctx, resched.ID)
	if err != nil {
		return nil, err
	}

	return &RescheduleResult{
		ReSchedule:   created,
		CreatedCount: len(eligible),
		SkippedIDs:   skipped,
	}, nil
}

func (s *RescheduleService) Get(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.ReSchedule, error) {
	resched, err := s.rescheduleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !resolveScope(principal).AllowsDriver(resched.DriverID) {
		return nil, ErrPermissionDenied
	}
	return resched, nil
}

func (s *RescheduleService) List(ctx context.Context, principal model.Principal, opts ListSchedulesOptions) ([]model.ReSchedule, error) {
	scope := resolveScope(principal)

	filter := model.RunFilter{
		Scope:      scope,
		Statuses:   opts.Statuses,
		TruckID:    opts.TruckID,
		DriverID:   opts.DriverID,
		BarangayID: opts.BarangayID,
		DateFrom:   opts.DateFrom,
		DateTo:     opts.DateTo,
		Limit:      opts.Limit,
		Offset:     opts.Offset,
	}
	if scope.Type == model.ScopeDriver {
		filter.DriverID = scope.DriverID
	}

	return s.rescheduleRepo.List(ctx, filter)
}

// checkTruckSlot rejects a pickup time the truck is already booked for,
// by either a schedule or another reschedule run. As with schedule
// creation, the authoritative guard is the unique index behind
// CreateWithClones; this pre-check only gives the friendlier error.
func (s *RescheduleService) checkTruckSlot(ctx context.Context, truckID uuid.UUID, pickupAt time.Time) error {
	exists, err := s.scheduleRepo.ExistsAtTime(ctx, truckID, pickupAt, nil)
	if err != nil {
		return err
	}
	if !exists {
		exists, err = s.rescheduleRepo.ExistsAtTime(ctx, truckID, pickupAt)
		if err != nil {
			return err
		}
	}
	if exists {
		return &ConflictError{TruckID: truckID, PickupAt: pickupAt}
	}
	return nil
}

func (s *RescheduleService) warnOnMixedBarangays(ctx context.Context, eligible []*model.RouteSegment, origin *model.Schedule) {
	seen := map[uuid.UUID]bool{origin.ID: true}
	for _, seg := range eligible {
		if seen[seg.ScheduleID] {
			continue
		}
		seen[seg.ScheduleID] = true
		other, err := s.scheduleRepo.GetByID(ctx, seg.ScheduleID)
		if err != nil {
			continue
		}
		if other.BarangayID != origin.BarangayID {
			s.log.Warn().
				Str("origin_schedule", origin.ID.String()).
				Str("other_schedule", other.ID.String()).
				Msg("reschedule spans schedules from different barangays")
		}
	}
}

// rescheduleRemarks records which original legs were folded in, so the
// run carries its own audit trail.
func rescheduleRemarks(remarks string, eligible []*model.RouteSegment) string {
	ids := make([]string, 0, len(eligible))
	for _, seg := range eligible {
		ids = append(ids, seg.ID.String())
	}
	audit := fmt.Sprintf("reattempt of %d missed leg(s): %s", len(eligible), strings.Join(ids, ", "))
	if strings.TrimSpace(remarks) == "" {
		return audit
	}
	return remarks + " | " + audit
}
