package dto

// LeaderboardEntry is one ranked student
type LeaderboardEntry struct {
	Rank          int     `json:"rank"`
	StudentID     int64   `json:"studentId"`
	StudentName   string  `json:"studentName"`
	TotalObtained int64   `json:"totalObtained"`
	TotalMax      int64   `json:"totalMax"`
	Percentage    float64 `json:"percentage"`
}

// GenderRatioResponse counts students by gender
type GenderRatioResponse struct {
	Male        int64   `json:"male"`
	Female      int64   `json:"female"`
	Total       int64   `json:"total"`
	MaleRatio   float64 `json:"maleRatio"`
	FemaleRatio float64 `json:"femaleRatio"`
}

// FeeSummaryResponse summarizes a class's fees for one month
type FeeSummaryResponse struct {
	ClassID     int64   `json:"classId"`
	Month       string  `json:"month"`
	Students    int64   `json:"students"`
	Paid        int64   `json:"paid"`
	Unpaid      int64   `json:"unpaid"`
	Collected   int64   `json:"collected"`
	Outstanding int64   `json:"outstanding"`
	PaidRatio   float64 `json:"paidRatio"`
}

// PayrollSummaryResponse summarizes salaries and advances for one month
type PayrollSummaryResponse struct {
	Month            string  `json:"month"`
	Records          int64   `json:"records"`
	Paid             int64   `json:"paid"`
	Unpaid           int64   `json:"unpaid"`
	Pending          int64   `json:"pending"`
	AdvancesApproved int64   `json:"advancesApproved"`
	AdvancesPending  int64   `json:"advancesPending"`
	TotalAdvanced    int64   `json:"totalAdvanced"`
	PaidRatio        float64 `json:"paidRatio"`
}
