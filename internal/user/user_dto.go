package user

type IncentivesResponse struct {
	MorningIncentive int64 `json:"morning_incentive"`
	EveningIncentive int64 `json:"evening_incentive"`
}

type AdminEmailsResponse struct {
	Admins []string `json:"admins"`
}
