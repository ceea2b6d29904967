package dto

// DashboardClass summarizes one class for the teacher dashboard.
type DashboardClass struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	StudentCount int64  `json:"student_count"`
}

// TeacherDashboardResponse aggregates a teacher's headline numbers.
type TeacherDashboardResponse struct {
	StudentCount     int64              `json:"student_count"`
	ActivityCount    int64              `json:"activity_count"`
	GoalCount        int64              `json:"goal_count"`
	Classes          []DashboardClass   `json:"classes"`
	RecentActivities []ActivityResponse `json:"recent_activities"`
}

// AdminOverviewResponse aggregates platform-wide headline numbers.
type AdminOverviewResponse struct {
	StudentCount  int64 `json:"student_count"`
	TeacherCount  int64 `json:"teacher_count"`
	ClassCount    int64 `json:"class_count"`
	ActivityCount int64 `json:"activity_count"`
}

// StudentDashboardResponse aggregates a student's progress numbers.
type StudentDashboardResponse struct {
	GoalTotal          int64   `json:"goal_total"`
	GoalCompleted      int64   `json:"goal_completed"`
	GoalCompletionRate float64 `json:"goal_completion_rate"`
	Registered         int64   `json:"registered"`
	Completed          int64   `json:"completed"`
	Cancelled          int64   `json:"cancelled"`
	ClassCount         int64   `json:"class_count"`
}
