package attendance

type AttendanceResponse struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id"`
	LoginTime  string  `json:"login_time"`
	LogoutTime *string `json:"logout_time,omitempty"`
}

type TodayResponse struct {
	Records []AttendanceResponse `json:"records"`
}
