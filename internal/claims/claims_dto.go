package claims

type TodayClaimResponse struct {
	Date            string  `json:"date"`
	FirstLogin      *string `json:"first_login"`
	LastLogout      *string `json:"last_logout"`
	MorningEligible bool    `json:"morning_eligible"`
	EveningEligible bool    `json:"evening_eligible"`
	MorningCredit   int64   `json:"morning_credit"`
	EveningCredit   int64   `json:"evening_credit"`
	TotalCredit     int64   `json:"total_credit"`
}

type ClaimResponse struct {
	ID        string  `json:"id"`
	Amount    int64   `json:"amount"`
	Note      *string `json:"note,omitempty"`
	ClaimedAt string  `json:"claimed_at"`
}

type MonthClaimsResponse struct {
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	Count        int             `json:"count"`
	TotalClaimed int64           `json:"total_claimed"`
	Claims       []ClaimResponse `json:"claims"`
}

type MonthSummaryResponse struct {
	Year           int   `json:"year"`
	Month          int   `json:"month"`
	EarnedInMonth  int64 `json:"earned_in_month"`
	ClaimedInMonth int64 `json:"claimed_in_month"`
	Remaining      int64 `json:"remaining"`
}

type DayEarningsResponse struct {
	Date          string `json:"date"`
	MorningCredit int64  `json:"morning_credit"`
	EveningCredit int64  `json:"evening_credit"`
	TotalCredit   int64  `json:"total_credit"`
}

type MonthEarningsResponse struct {
	Year  int                   `json:"year"`
	Month int                   `json:"month"`
	Days  []DayEarningsResponse `json:"days"`
}

type AvailableResponse struct {
	Earned    int64 `json:"earned"`
	Claimed   int64 `json:"claimed"`
	Available int64 `json:"available"`
}
