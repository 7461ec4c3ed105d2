package dto

// StudentDashboardResponse aggregates a student's assignment progress.
type StudentDashboardResponse struct {
	StudentID    string   `json:"studentId"`
	Total        int      `json:"total"`
	NotStarted   int      `json:"notStarted"`
	InProgress   int      `json:"inProgress"`
	Completed    int      `json:"completed"`
	AverageScore *float64 `json:"averageScore"`
}
