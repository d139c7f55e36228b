// Package model defines the data models for the group points bot.
package model

// MaxHistory is the number of points records kept per account.
// Older records are evicted first.
const MaxHistory = 10

// Account represents a user's persistent points record.
// Accounts are keyed by user ID and shared across all groups.
type Account struct {
	Balance         int64          `json:"total_points"`
	LastCheckinDate string         `json:"last_checkin_date,omitempty"`
	CheckinCount    int64          `json:"total_checkin_count"`
	History         []PointsRecord `json:"points_history"`
}

// PointsRecord is a single balance change entry in an account's history.
type PointsRecord struct {
	Time        string `json:"date"` // "2006-01-02 15:04:05"
	Action      string `json:"action"`
	Points      int64  `json:"points"`
	Description string `json:"description"`
	Source      int64  `json:"source,omitempty"` // counterparty user ID, if any
	Balance     int64  `json:"balance"`          // balance after the change
}

// RobberyProfile tracks a user's adaptive robbery state.
type RobberyProfile struct {
	SuccessRate  float64 `json:"success_rate"`
	TotalCount   int64   `json:"total_rob_count"`
	SuccessCount int64   `json:"success_count"`
	FailCount    int64   `json:"fail_count"`
	LastAttempt  int64   `json:"last_rob_time,omitempty"` // unix seconds
}

// GroupImageSettings holds a group's image-command permission overrides.
// Groups without an entry fall back to the global configuration.
type GroupImageSettings struct {
	Normal bool `json:"normal_setu"`
	R18    bool `json:"r18_setu"`
}

// Actions for categorizing points changes.
const (
	ActionCheckin    = "签到"
	ActionRobSuccess = "抢劫成功"
	ActionRobbed     = "被抢劫"
	ActionRobFail    = "抢劫失败"
	ActionCounterRob = "反抢"
	ActionReward     = "奖励"
	ActionImage      = "涩图"
)
