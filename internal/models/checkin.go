package models

// CheckinRequest is the POST /checkins payload.
// date is optional and defaults to today; only today's progress can be changed.
type CheckinRequest struct {
	SubGoalID int64  `json:"sub_goal_id"`
	Date      string `json:"date,omitempty"`
	Completed *bool  `json:"completed"`
}

// CheckinResponse is returned by POST /checkins and GET /checkins/:sub_goal_id.
// Found is false when nothing has been logged for the day yet.
type CheckinResponse struct {
	SubGoalID int64  `json:"sub_goal_id"`
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
	Found     bool   `json:"found"`
}

// MomentumResponse is returned by GET /progress/momentum.
// Value is null until the log has at least Window dates.
type MomentumResponse struct {
	Window int      `json:"window"`
	Value  *float64 `json:"value"`
}

// TrendResponse is returned by GET /progress/trend.
type TrendResponse struct {
	Trend *string `json:"trend"`
}
