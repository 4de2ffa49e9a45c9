package events

import "time"

const (
	RedeemRequestedTopic = "credits.redeem.requested.v1"
	RedeemRedeemedTopic  = "credits.redeem.redeemed.v1"

	TypeRedeemRequested = "redeem_requested"
	TypeRedeemRedeemed  = "redeem_redeemed"
)

// RedemptionEvent is emitted on redemption lifecycle transitions. Delivery
// is best-effort through the outbox; it never gates the core transaction.
type RedemptionEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	UserID     string    `json:"user_id"`
	Amount     int64     `json:"amount"`
	AdminEmail string    `json:"admin_email,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
