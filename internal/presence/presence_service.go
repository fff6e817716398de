package presence

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	presenceerrors "github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/presence/errors"
	"github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/schedule"
	"github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/shared/clock"
	"github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/shared/geo"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// defaultRadiusMeters dipakai saat jadwal punya pusat geofence tapi
// radius tidak diisi.
const defaultRadiusMeters = 50.0

// minExcuseRunes: alasan izin harus lebih panjang dari ini agar klaim
// diperlakukan sebagai Excused, bukan Present.
const minExcuseRunes = 3

// ScheduleStore adalah potongan repository jadwal yang dibutuhkan
// engine presensi.
type ScheduleStore interface {
	FindByID(ctx context.Context, id string) (*schedule.Schedule, error)
	FindActiveByUnit(ctx context.Context, unitID string) ([]schedule.Schedule, error)
}

//go:generate mockgen -source=presence_service.go -destination=mock/presence_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, userID, scheduleID string, req SubmitPresenceRequest) (PresenceResponse, error)
	History(ctx context.Context, userID, unitID string) ([]HistoryEntry, error)
	GetBySchedule(ctx context.Context, unitID, scheduleID string) ([]PresenceResponse, error)
}

type service struct {
	repo      Repository
	schedules ScheduleStore
	cal       clock.Clock
	logger    *zap.Logger
}

func NewService(repo Repository, schedules ScheduleStore, cal clock.Clock, logger ...*zap.Logger) Service {
	l := zap.L().Named("presence.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("presence.service")
	}
	return &service{
		repo:      repo,
		schedules: schedules,
		cal:       cal,
		logger:    l,
	}
}

// Submit memutuskan satu klaim presensi. Urutan pemeriksaan mengikat:
// duplikat, eksistensi jadwal, window, lalu (untuk Present) geofence.
// Kegagalan pertama menghentikan evaluasi.
func (s *service) Submit(ctx context.Context, userID, scheduleID string, req SubmitPresenceRequest) (PresenceResponse, error) {
	s.logger.Debug("submit presence requested",
		zap.String("user_id", userID),
		zap.String("schedule_id", scheduleID),
	)

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return PresenceResponse{}, presenceerrors.ErrInvalidUserID
	}
	scheduleUUID, err := uuid.Parse(scheduleID)
	if err != nil {
		return PresenceResponse{}, presenceerrors.ErrInvalidScheduleID
	}

	// Pemeriksaan duplikat awal agar AlreadySubmitted menang atas
	// penolakan lain; penentu akhirnya tetap unique index saat insert.
	existing, err := s.repo.FindByUserAndSchedule(ctx, userID, scheduleID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return PresenceResponse{}, err
	}
	if err == nil && existing != nil {
		return PresenceResponse{}, presenceerrors.ErrAlreadySubmitted
	}

	sched, err := s.schedules.FindByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PresenceResponse{}, presenceerrors.ErrScheduleNotFound
		}
		return PresenceResponse{}, err
	}

	openTod, err := clock.ParseTimeOfDay(sched.OpenTime)
	if err != nil {
		return PresenceResponse{}, err
	}
	closeTod, err := clock.ParseTimeOfDay(sched.CloseTime)
	if err != nil {
		return PresenceResponse{}, err
	}
	openAt, closeAt := s.cal.Window(sched.ScheduleDate, openTod, closeTod)
	now := s.cal.Now()

	row := &PresenceRecord{
		ID:          uuid.New(),
		UserID:      userUUID,
		ScheduleID:  scheduleUUID,
		SubmittedAt: now,
	}

	if utf8.RuneCountInString(req.Reason) > minExcuseRunes {
		// Klaim Excused: hanya batas close yang berlaku, geofence
		// dilewati sepenuhnya.
		if now.After(closeAt) {
			s.logger.Warn("excused claim after window close",
				zap.String("schedule_id", scheduleID),
				zap.Time("close_at", closeAt),
			)
			return PresenceResponse{}, presenceerrors.ErrWindowClosed
		}
		reason := req.Reason
		row.Status = StatusExcused
		row.Reason = &reason
	} else {
		if now.Before(openAt) {
			s.logger.Warn("present claim before window open",
				zap.String("schedule_id", scheduleID),
				zap.Time("open_at", openAt),
			)
			return PresenceResponse{}, presenceerrors.ErrWindowNotOpen
		}
		if now.After(closeAt) {
			s.logger.Warn("present claim after window close",
				zap.String("schedule_id", scheduleID),
				zap.Time("close_at", closeAt),
			)
			return PresenceResponse{}, presenceerrors.ErrWindowClosed
		}

		if sched.HasGeofence() {
			if req.Latitude == nil || req.Longitude == nil {
				return PresenceResponse{}, presenceerrors.ErrLocationRequired
			}

			radius := defaultRadiusMeters
			if sched.RadiusMeters != nil {
				radius = *sched.RadiusMeters
			}

			distance := geo.DistanceMeters(*req.Latitude, *req.Longitude, *sched.Latitude, *sched.Longitude)
			if distance > radius {
				s.logger.Warn("present claim outside geofence",
					zap.String("schedule_id", scheduleID),
					zap.Float64("distance_meters", distance),
					zap.Float64("radius_meters", radius),
				)
				return PresenceResponse{}, presenceerrors.OutsideGeofence(distance, radius)
			}

			row.Latitude = req.Latitude
			row.Longitude = req.Longitude
		}

		row.Status = StatusPresent
	}

	if err := s.repo.Create(ctx, row); err != nil {
		if IsUniqueViolation(err) {
			// Kalah balapan dari submission paralel user yang sama.
			return PresenceResponse{}, presenceerrors.ErrAlreadySubmitted
		}
		s.logger.Error("submit presence persist failed",
			zap.String("user_id", userID),
			zap.String("schedule_id", scheduleID),
			zap.Error(err),
		)
		return PresenceResponse{}, err
	}

	s.logger.Info("submit presence success",
		zap.String("presence_id", row.ID.String()),
		zap.String("schedule_id", scheduleID),
		zap.String("status", row.Status),
	)

	return mapToResponse(*row), nil
}

// History menggabungkan semua jadwal non-cancelled unit dengan record
// presensi user. Jadwal tanpa record mendapat status tampilan turunan;
// tidak ada yang ditulis balik ke store.
func (s *service) History(ctx context.Context, userID, unitID string) ([]HistoryEntry, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, presenceerrors.ErrInvalidUserID
	}
	if _, err := uuid.Parse(unitID); err != nil {
		return nil, presenceerrors.ErrInvalidUnitID
	}

	scheds, err := s.schedules.FindActiveByUnit(ctx, unitID)
	if err != nil {
		return nil, err
	}

	records, err := s.repo.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	bySchedule := make(map[string]PresenceRecord, len(records))
	for _, rec := range records {
		bySchedule[rec.ScheduleID.String()] = rec
	}

	now := s.cal.Now()
	entries := make([]HistoryEntry, 0, len(scheds))
	for _, sched := range scheds {
		entry := HistoryEntry{
			ScheduleID:     sched.ID.String(),
			Title:          sched.Title,
			ScheduleDate:   sched.ScheduleDate.Format("2006-01-02"),
			StartTime:      sched.StartTime,
			EndTime:        sched.EndTime,
			ScheduleStatus: sched.Status,
		}

		if rec, ok := bySchedule[sched.ID.String()]; ok {
			entry.PresenceStatus = rec.Status
			entry.Reason = rec.Reason
			submitted := rec.SubmittedAt.Format(time.RFC3339)
			entry.SubmittedAt = &submitted
		} else {
			entry.PresenceStatus = s.deriveMissingStatus(sched, now)
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

func (s *service) GetBySchedule(ctx context.Context, unitID, scheduleID string) ([]PresenceResponse, error) {
	if _, err := uuid.Parse(unitID); err != nil {
		return nil, presenceerrors.ErrInvalidUnitID
	}
	if _, err := uuid.Parse(scheduleID); err != nil {
		return nil, presenceerrors.ErrInvalidScheduleID
	}

	sched, err := s.schedules.FindByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, presenceerrors.ErrScheduleNotFound
		}
		return nil, err
	}
	if sched.UnitID.String() != unitID {
		return nil, presenceerrors.ErrScheduleNotFound
	}

	rows, err := s.repo.FindAllBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	resp := make([]PresenceResponse, len(rows))
	for i, row := range rows {
		resp[i] = mapToResponse(row)
	}
	return resp, nil
}

// deriveMissingStatus: tanpa record, user dianggap ABSENT setelah batas
// close lewat; sebelum itu NOT_YET_RECORDED.
func (s *service) deriveMissingStatus(sched schedule.Schedule, now time.Time) string {
	openTod, err := clock.ParseTimeOfDay(sched.OpenTime)
	if err != nil {
		s.logger.Warn("schedule has unparseable open time, history falls back to NOT_YET_RECORDED",
			zap.String("schedule_id", sched.ID.String()),
			zap.String("open_time", sched.OpenTime),
		)
		return DisplayNotYetRecorded
	}
	closeTod, err := clock.ParseTimeOfDay(sched.CloseTime)
	if err != nil {
		s.logger.Warn("schedule has unparseable close time, history falls back to NOT_YET_RECORDED",
			zap.String("schedule_id", sched.ID.String()),
			zap.String("close_time", sched.CloseTime),
		)
		return DisplayNotYetRecorded
	}

	_, closeAt := s.cal.Window(sched.ScheduleDate, openTod, closeTod)
	if now.After(closeAt) {
		return DisplayAbsent
	}
	return DisplayNotYetRecorded
}

func mapToResponse(p PresenceRecord) PresenceResponse {
	return PresenceResponse{
		ID:          p.ID.String(),
		UserID:      p.UserID.String(),
		ScheduleID:  p.ScheduleID.String(),
		Status:      p.Status,
		Reason:      p.Reason,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
		SubmittedAt: p.SubmittedAt.Format(time.RFC3339),
	}
}
