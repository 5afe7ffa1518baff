package protocol

import "time"

// ChildOutcome is the result of one page within a build.
type ChildOutcome struct {
	Page            string  `json:"page" validate:"required,notblank"`
	Status          string  `json:"status" validate:"required,outcome_status"`
	Right           int     `json:"right,omitempty" validate:"gte=0"`
	Wrong           int     `json:"wrong,omitempty" validate:"gte=0"`
	Ignores         int     `json:"ignores,omitempty" validate:"gte=0"`
	Exceptions      int     `json:"exceptions,omitempty" validate:"gte=0"`
	DurationSeconds float64 `json:"duration_seconds,omitempty" validate:"gte=0"`
}

type BuildResult struct {
	Number     int64          `json:"number"`
	Project    string         `json:"project"`
	StartedUTC time.Time      `json:"started_utc,omitempty"`
	Outcomes   []ChildOutcome `json:"outcomes"`
}

type RecordBuildRequest struct {
	StartedUTC time.Time      `json:"started_utc,omitempty"`
	Outcomes   []ChildOutcome `json:"outcomes" validate:"dive"`
}

type RecordBuildResponse struct {
	Build BuildResult `json:"build"`
}

type ProjectSummary struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Builds     int       `json:"builds"`
	LastBuild  int64     `json:"last_build,omitempty"`
	UpdatedUTC time.Time `json:"updated_utc,omitempty"`
}

type ListProjectsResponse struct {
	Projects []ProjectSummary `json:"projects"`
}

type PageRank struct {
	Page        string `json:"page"`
	Erraticness int    `json:"erraticness"`
	Switches    int    `json:"switches"`
	Occurrences int    `json:"occurrences"`
}

type PageHistoryResponse struct {
	Project ProjectSummary `json:"project"`
	Pages   []string       `json:"pages"`
	Ranking []PageRank     `json:"ranking"`
	Builds  []BuildResult  `json:"builds"`
	Error   string         `json:"error,omitempty"`
}

type ServerInfoResponse struct {
	Name       string `json:"name"`
	APIVersion int    `json:"api_version"`
	Version    string `json:"version"`
	Hostname   string `json:"hostname,omitempty"`
}
