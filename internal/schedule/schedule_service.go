package schedule

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/events"
	"github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/messaging/kafka"
	scheduleerrors "github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/schedule/errors"
	"github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/shared/clock"
	"github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const unitSchedulesKeyPrefix = "schedules:unit:"

func GetUnitSchedulesKey(unitID string) string {
	return unitSchedulesKeyPrefix + unitID
}

// PresenceStore adalah potongan repository presensi yang dibutuhkan
// cascade pembatalan dan hard delete; didefinisikan lokal agar tidak
// terjadi import cycle dengan package presence.
type PresenceStore interface {
	CancelByScheduleTx(ctx context.Context, tx *sql.Tx, scheduleID string) (int64, error)
	DeleteByScheduleTx(ctx context.Context, tx *sql.Tx, scheduleID string) (int64, error)
}

//go:generate mockgen -source=schedule_service.go -destination=mock/schedule_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, unitID, actorID string, req CreateScheduleRequest) (ScheduleResponse, error)
	GetAll(ctx context.Context, unitID string) ([]ScheduleResponse, error)
	GetByID(ctx context.Context, unitID, id string) (ScheduleResponse, error)
	Update(ctx context.Context, unitID, id string, req UpdateScheduleRequest) (ScheduleResponse, error)
	Cancel(ctx context.Context, unitID, id string) (ScheduleResponse, error)
	Delete(ctx context.Context, unitID, id string) error
}

type service struct {
	db       *sql.DB
	repo     Repository
	presence PresenceStore
	outbox   kafka.OutboxRepository
	cal      clock.Clock
	rdb      *redis.Client
	sf       *singleflight.Group
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	presence PresenceStore,
	outboxRepo kafka.OutboxRepository,
	cal clock.Clock,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("schedule.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("schedule.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		presence: presence,
		outbox:   outboxRepo,
		cal:      cal,
		rdb:      rdb,
		sf:       &singleflight.Group{},
		logger:   l,
	}
}

func (s *service) Create(ctx context.Context, unitID, actorID string, req CreateScheduleRequest) (ScheduleResponse, error) {
	s.logger.Debug("create schedule requested",
		zap.String("unit_id", unitID),
		zap.String("actor_id", actorID),
		zap.String("schedule_date", req.ScheduleDate),
	)

	unitUUID, err := uuid.Parse(unitID)
	if err != nil {
		return ScheduleResponse{}, scheduleerrors.ErrInvalidUnitID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return ScheduleResponse{}, scheduleerrors.ErrInvalidActorID
	}

	date, err := parseDate(req.ScheduleDate)
	if err != nil {
		return ScheduleResponse{}, err
	}
	if err := validateTimes(req.StartTime, req.EndTime, req.OpenTime, req.CloseTime); err != nil {
		return ScheduleResponse{}, err
	}
	if err := validateGeofence(req.Latitude, req.Longitude); err != nil {
		return ScheduleResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create schedule begin tx failed", zap.Error(err))
		return ScheduleResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	row := &Schedule{
		ID:               uuid.New(),
		UnitID:           unitUUID,
		Title:            req.Title,
		ScheduleDate:     date,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		OpenTime:         req.OpenTime,
		CloseTime:        req.CloseTime,
		ToleranceMinutes: req.ToleranceMinutes,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		RadiusMeters:     req.RadiusMeters,
		MeetingURL:       req.MeetingURL,
		Status:           StatusActive,
		CreatedBy:        actorUUID,
	}

	if err := qtx.Create(ctx, row); err != nil {
		s.logger.Error("create schedule persist failed", zap.Error(err))
		return ScheduleResponse{}, err
	}

	// Pengumuman jadwal baru lewat outbox, satu transaksi dengan insert
	// jadwal supaya tidak ada pengumuman untuk jadwal yang batal commit.
	if s.outbox != nil {
		event := events.ScheduleCreatedEvent{
			EventType:    "schedule_created",
			ScheduleID:   row.ID.String(),
			UnitID:       unitID,
			Title:        row.Title,
			ScheduleDate: row.ScheduleDate.Format("2006-01-02"),
			StartTime:    row.StartTime,
			OccurredAt:   s.cal.Now(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			return ScheduleResponse{}, err
		}

		outboxRepo := s.outbox.WithTx(tx)
		if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     contextutil.GetRequestID(ctx),
			AggregateType: "schedule",
			AggregateID:   row.ID.String(),
			EventType:     event.EventType,
			Topic:         events.ScheduleCreatedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("create schedule outbox persist failed",
				zap.String("schedule_id", row.ID.String()),
				zap.Error(err),
			)
			return ScheduleResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create schedule commit failed", zap.Error(err))
		return ScheduleResponse{}, err
	}

	s.invalidateUnitCache(ctx, unitID)
	s.logger.Info("create schedule success",
		zap.String("schedule_id", row.ID.String()),
		zap.String("unit_id", unitID),
	)

	return s.mapToResponse(*row), nil
}

func (s *service) GetAll(ctx context.Context, unitID string) ([]ScheduleResponse, error) {
	cacheKey := GetUnitSchedulesKey(unitID)

	// Cache menyimpan baris mentah, bukan response: lifecycle harus
	// selalu dihitung ulang terhadap waktu baca.
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var rows []Schedule
			if json.Unmarshal([]byte(cached), &rows) == nil {
				return s.mapToListResponse(rows), nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		rows, err := s.repo.FindAllByUnit(ctx, unitID)
		if err != nil {
			return nil, err
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(rows); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, 5*time.Minute)
			}
		}

		return rows, nil
	})
	if err != nil {
		return nil, err
	}

	return s.mapToListResponse(v.([]Schedule)), nil
}

func (s *service) GetByID(ctx context.Context, unitID, id string) (ScheduleResponse, error) {
	row, err := s.findOwned(ctx, unitID, id)
	if err != nil {
		return ScheduleResponse{}, err
	}
	return s.mapToResponse(*row), nil
}

func (s *service) Update(ctx context.Context, unitID, id string, req UpdateScheduleRequest) (ScheduleResponse, error) {
	s.logger.Debug("update schedule requested",
		zap.String("schedule_id", id),
		zap.String("unit_id", unitID),
	)

	date, err := parseDate(req.ScheduleDate)
	if err != nil {
		return ScheduleResponse{}, err
	}
	if err := validateTimes(req.StartTime, req.EndTime, req.OpenTime, req.CloseTime); err != nil {
		return ScheduleResponse{}, err
	}
	if err := validateGeofence(req.Latitude, req.Longitude); err != nil {
		return ScheduleResponse{}, err
	}

	row, err := s.findOwned(ctx, unitID, id)
	if err != nil {
		return ScheduleResponse{}, err
	}
	if row.Status == StatusCancelled {
		return ScheduleResponse{}, scheduleerrors.ErrScheduleCancelled
	}

	row.Title = req.Title
	row.ScheduleDate = date
	row.StartTime = req.StartTime
	row.EndTime = req.EndTime
	row.OpenTime = req.OpenTime
	row.CloseTime = req.CloseTime
	row.ToleranceMinutes = req.ToleranceMinutes
	row.Latitude = req.Latitude
	row.Longitude = req.Longitude
	row.RadiusMeters = req.RadiusMeters
	row.MeetingURL = req.MeetingURL

	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Error("update schedule persist failed",
			zap.String("schedule_id", id),
			zap.Error(err),
		)
		return ScheduleResponse{}, err
	}

	s.invalidateUnitCache(ctx, unitID)
	s.logger.Info("update schedule success", zap.String("schedule_id", id))

	return s.mapToResponse(*row), nil
}

// Cancel menandai jadwal CANCELLED dan menyeret seluruh record presensi
// jadwal itu ke CANCELLED dalam satu transaksi. Kegagalan salah satu
// langkah membatalkan keduanya.
func (s *service) Cancel(ctx context.Context, unitID, id string) (ScheduleResponse, error) {
	s.logger.Debug("cancel schedule requested",
		zap.String("schedule_id", id),
		zap.String("unit_id", unitID),
	)

	row, err := s.findOwned(ctx, unitID, id)
	if err != nil {
		return ScheduleResponse{}, err
	}
	if row.Status == StatusCancelled {
		return ScheduleResponse{}, scheduleerrors.ErrScheduleCancelled
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("cancel schedule begin tx failed", zap.Error(err))
		return ScheduleResponse{}, err
	}
	defer tx.Rollback()

	affected, err := s.repo.UpdateStatusTx(ctx, tx, id, StatusCancelled)
	if err != nil {
		s.logger.Error("cancel schedule persist failed",
			zap.String("schedule_id", id),
			zap.Error(err),
		)
		return ScheduleResponse{}, err
	}
	if affected == 0 {
		return ScheduleResponse{}, scheduleerrors.ErrScheduleNotFound
	}

	cancelled, err := s.presence.CancelByScheduleTx(ctx, tx, id)
	if err != nil {
		s.logger.Error("cancel schedule presence cascade failed",
			zap.String("schedule_id", id),
			zap.Error(err),
		)
		return ScheduleResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("cancel schedule commit failed",
			zap.String("schedule_id", id),
			zap.Error(err),
		)
		return ScheduleResponse{}, err
	}

	s.invalidateUnitCache(ctx, unitID)
	s.logger.Info("cancel schedule success",
		zap.String("schedule_id", id),
		zap.Int64("presence_cancelled", cancelled),
	)

	row.Status = StatusCancelled
	return s.mapToResponse(*row), nil
}

// Delete menghapus jadwal beserta seluruh record presensinya tanpa
// validasi tambahan. Tidak ada soft delete.
func (s *service) Delete(ctx context.Context, unitID, id string) error {
	if _, err := s.findOwned(ctx, unitID, id); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := s.presence.DeleteByScheduleTx(ctx, tx, id); err != nil {
		s.logger.Error("delete schedule presence cascade failed",
			zap.String("schedule_id", id),
			zap.Error(err),
		)
		return err
	}
	if _, err := s.repo.DeleteTx(ctx, tx, id); err != nil {
		s.logger.Error("delete schedule persist failed",
			zap.String("schedule_id", id),
			zap.Error(err),
		)
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.invalidateUnitCache(ctx, unitID)
	s.logger.Info("delete schedule success", zap.String("schedule_id", id))
	return nil
}

func (s *service) findOwned(ctx context.Context, unitID, id string) (*Schedule, error) {
	if _, err := uuid.Parse(unitID); err != nil {
		return nil, scheduleerrors.ErrInvalidUnitID
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, scheduleerrors.ErrInvalidScheduleID
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, scheduleerrors.ErrScheduleNotFound
		}
		return nil, err
	}
	if row.UnitID.String() != unitID {
		return nil, scheduleerrors.ErrScheduleNotFound
	}
	return row, nil
}

func (s *service) invalidateUnitCache(ctx context.Context, unitID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetUnitSchedulesKey(unitID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Warn("invalidate schedule cache failed",
			zap.String("key", cacheKey),
			zap.Error(err),
		)
	}
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, scheduleerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func validateTimes(values ...string) error {
	for _, v := range values {
		if _, err := clock.ParseTimeOfDay(v); err != nil {
			return scheduleerrors.ErrInvalidTimeFormat
		}
	}
	return nil
}

func validateGeofence(lat, lon *float64) error {
	if (lat == nil) != (lon == nil) {
		return scheduleerrors.ErrGeofenceIncomplete
	}
	return nil
}

func (s *service) mapToResponse(row Schedule) ScheduleResponse {
	return ScheduleResponse{
		ID:               row.ID.String(),
		UnitID:           row.UnitID.String(),
		Title:            row.Title,
		ScheduleDate:     row.ScheduleDate.Format("2006-01-02"),
		StartTime:        row.StartTime,
		EndTime:          row.EndTime,
		OpenTime:         row.OpenTime,
		CloseTime:        row.CloseTime,
		ToleranceMinutes: row.ToleranceMinutes,
		Latitude:         row.Latitude,
		Longitude:        row.Longitude,
		RadiusMeters:     row.RadiusMeters,
		MeetingURL:       row.MeetingURL,
		Status:           row.Status,
		Lifecycle:        DeriveLifecycle(row, s.cal, s.cal.Now()),
		CreatedBy:        row.CreatedBy.String(),
	}
}

func (s *service) mapToListResponse(rows []Schedule) []ScheduleResponse {
	resp := make([]ScheduleResponse, len(rows))
	for i, row := range rows {
		resp[i] = s.mapToResponse(row)
	}
	return resp
}
