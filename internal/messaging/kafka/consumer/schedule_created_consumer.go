package consumer

import (
	"context"
	"encoding/json"

	"github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeScheduleCreated adalah dispatcher pengumuman fire-and-forget:
// setiap event schedule_created diteruskan sebagai notifikasi ke anggota
// unit. Kanal pengiriman nyata (push/email) dipasang lewat Notifier.
type Notifier interface {
	NotifyScheduleCreated(ctx context.Context, event events.ScheduleCreatedEvent) error
}

func ConsumeScheduleCreated(
	ctx context.Context,
	reader *kafkago.Reader,
	notifier Notifier,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.schedule_created")
	log.Info("schedule created consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("schedule created consumer stopped")
				return
			}
			log.Error("fetch schedule created message failed", zap.Error(err))
			continue
		}

		var event events.ScheduleCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode schedule_created event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := notifier.NotifyScheduleCreated(ctx, event); err != nil {
			log.Error("dispatch schedule announcement failed",
				zap.String("schedule_id", event.ScheduleID),
				zap.String("unit_id", event.UnitID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit schedule created message failed", zap.Error(err))
			continue
		}

		log.Info("schedule announcement dispatched",
			zap.String("schedule_id", event.ScheduleID),
			zap.String("unit_id", event.UnitID),
		)
	}
}

// LogNotifier menulis pengumuman ke log; cukup untuk lingkungan tanpa
// kanal notifikasi eksternal.
type LogNotifier struct {
	Logger *zap.Logger
}

func (n *LogNotifier) NotifyScheduleCreated(_ context.Context, event events.ScheduleCreatedEvent) error {
	n.Logger.Named("notifier").Info("new schedule announced",
		zap.String("schedule_id", event.ScheduleID),
		zap.String("unit_id", event.UnitID),
		zap.String("title", event.Title),
		zap.String("schedule_date", event.ScheduleDate),
		zap.String("start_time", event.StartTime),
	)
	return nil
}
