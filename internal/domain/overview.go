package domain

// VettingOverview is the admin dashboard aggregation.
type VettingOverview struct {
	Applications ApplicationCounts  `json:"applications"`
	Tasks        TaskCounts         `json:"tasks"`
	Companies    CompanyCounts      `json:"companies"`
	Officers     OfficerCounts      `json:"officers"`
	Performance  PerformanceMetrics `json:"performance"`
}

type ApplicationCounts struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"by_status"`
	ByUserType map[string]int `json:"by_user_type"`
	ByPriority map[string]int `json:"by_priority"`
	ByTier     map[string]int `json:"by_tier"`
}

type TaskCounts struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
	ByType   map[string]int `json:"by_type"`
}

type CompanyCounts struct {
	Total  int `json:"total"`
	Active int `json:"active"`
}

type OfficerCounts struct {
	Total            int            `json:"total"`
	Active           int            `json:"active"`
	ByAccessLevel    map[string]int `json:"by_access_level"`
	ByClearanceLevel map[string]int `json:"by_clearance_level"`
}

// PerformanceMetrics are derived from stored applications and tasks.
type PerformanceMetrics struct {
	ApprovalRate          float64 `json:"approval_rate"`
	EscalationRate        float64 `json:"escalation_rate"`
	QualityScore          float64 `json:"quality_score"`
	AverageProcessingDays float64 `json:"average_processing_days"`
}
