package admin

type OverviewResponse struct {
	Date           string `json:"date"`
	TotalUsers     int64  `json:"total_users"`
	Admins         int64  `json:"admins"`
	Participants   int64  `json:"participants"`
	PresentToday   int64  `json:"present_today"`
	PendingRedeems int64  `json:"pending_redeems"`
}
