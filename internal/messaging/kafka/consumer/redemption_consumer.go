package consumer

import (
	"context"
	"encoding/json"

	"go-incentive/internal/events"
	"go-incentive/internal/mailer"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeRedemptionEvents mails the assigned approver on each redemption
// lifecycle event. Mail failures leave the message uncommitted so it is
// retried on the next fetch.
func ConsumeRedemptionEvents(
	ctx context.Context,
	reader *kafkago.Reader,
	mail mailer.Mailer,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.redemption")
	log.Info("redemption consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("redemption consumer stopped")
				return
			}
			log.Error("fetch redemption message failed", zap.Error(err))
			continue
		}

		var event events.RedemptionEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			// Unparseable payload will never succeed, commit and move on.
			log.Error("decode redemption event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := notify(mail, event); err != nil {
			log.Error("redemption notification failed",
				zap.String("request_id", event.RequestID),
				zap.String("event_type", event.EventType),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit redemption message failed", zap.Error(err))
			continue
		}

		log.Info("redemption notification sent",
			zap.String("request_id", event.RequestID),
			zap.String("event_type", event.EventType),
		)
	}
}

func notify(mail mailer.Mailer, event events.RedemptionEvent) error {
	switch event.EventType {
	case events.TypeRedeemRequested:
		return mail.SendRedemptionRequested(event)
	case events.TypeRedeemRedeemed:
		return mail.SendRedemptionRedeemed(event)
	default:
		return nil
	}
}
