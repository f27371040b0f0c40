package domain

// VantageScore is the composite 0-100 execution quality score with its six
// sub-scores. Each sub-score is independently bounded to [0,100]. A zero
// trade set yields the zero value.
type VantageScore struct {
	VantageScore        float64 `json:"vantage_score"`
	ProfitFactorScore   float64 `json:"profit_factor_score"`
	AvgWinLossScore     float64 `json:"avg_win_loss_score"`
	MaxDrawdownScore    float64 `json:"max_drawdown_score"`
	WinRateScore        float64 `json:"win_rate_score"`
	ConsistencyScore    float64 `json:"consistency_score"`
	RecoveryFactorScore float64 `json:"recovery_factor_score"`
}
