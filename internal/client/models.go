package client

// PlatformStats is the payload of GET /api/stats.
type PlatformStats struct {
	TotalServices      int     `json:"total_services"`
	ActiveDevelopers   int     `json:"active_developers"`
	UptimePercent      float64 `json:"uptime_percent"`
	DeploymentsToday   int     `json:"deployments_today"`
	TotalRepos         int     `json:"total_repos"`
	OpenIncidents      int     `json:"open_incidents"`
	AvgBuildTimeSec    int     `json:"avg_build_time_sec"`
	CodeReviewsPending int     `json:"code_reviews_pending"`
}

// Project is one element of GET /api/projects.
type Project struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	TechStack   []string `json:"tech_stack"`
	Status      string   `json:"status"`
	TeamLead    string   `json:"team_lead"`
	TeamSize    int      `json:"team_size"`
	LastDeploy  string   `json:"last_deploy"`
	DeployCount int      `json:"deploy_count"`
	Health      string   `json:"health"`
	Repo        string   `json:"repo"`
}

// ActivityEvent is one element of GET /api/activity.
type ActivityEvent struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Author      string `json:"author"`
	Timestamp   string `json:"timestamp"`
	Project     string `json:"project"`
	Status      string `json:"status"`
}

// Repository is one element of GET /api/codebase, or the body of
// GET /api/codebase/{name}. SampleFiles is only present on the detail view.
type Repository struct {
	Name         string            `json:"name"`
	Language     string            `json:"language"`
	Framework    string            `json:"framework"`
	LinesOfCode  int               `json:"lines_of_code"`
	Contributors int               `json:"contributors"`
	OpenPRs      int               `json:"open_prs"`
	LastCommit   string            `json:"last_commit"`
	BranchCount  int               `json:"branch_count"`
	TestCoverage float64           `json:"test_coverage"`
	Description  string            `json:"description"`
	SampleFiles  map[string]string `json:"sample_files,omitempty"`

	// Error is set when the server reports an unknown repository with a 200.
	Error string `json:"error,omitempty"`
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the reply of POST /chat.
type ChatResponse struct {
	FolderStructure string            `json:"folder_structure"`
	Files           map[string]string `json:"files"`
	Explanation     string            `json:"explanation"`
}
