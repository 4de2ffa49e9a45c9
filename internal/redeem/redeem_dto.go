package redeem

// CreateRequestPayload is the body for POST /redeem/request. AdminEmail is
// optional; when omitted the first configured admin receives the request.
type CreateRequestPayload struct {
	Amount     int64   `json:"amount" binding:"required,gt=0"`
	Note       *string `json:"note" binding:"omitempty,max=500"`
	AdminEmail string  `json:"admin_email" binding:"omitempty,email"`
}

type DirectRedeemPayload struct {
	Amount int64   `json:"amount" binding:"required,gt=0"`
	Note   *string `json:"note" binding:"omitempty,max=500"`
}

type RequestResponse struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id"`
	Amount     int64   `json:"amount"`
	Note       *string `json:"note,omitempty"`
	AdminEmail string  `json:"admin_email"`
	Approved   bool    `json:"approved"`
	Redeemed   bool    `json:"redeemed"`
	CreatedAt  string  `json:"created_at"`
}

type RedeemResultResponse struct {
	RequestID string `json:"request_id,omitempty"`
	Amount    int64  `json:"amount"`
	Available int64  `json:"available"`
}
