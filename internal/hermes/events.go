package hermes

import "time"

type SessionCreatedEvent struct {
	SessionID    string    `json:"session_id"`
	AssessmentID string    `json:"assessment_id"`
	Participant  string    `json:"participant"`
	Organization string    `json:"organization,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

type ResponseSavedEvent struct {
	SessionID string    `json:"session_id"`
	TopicID   string    `json:"topic_id"`
	Current   float64   `json:"current"`
	Target    float64   `json:"target"`
	Touched   bool      `json:"touched"`
	Timestamp time.Time `json:"timestamp"`
}

// ReportComputedEvent summarizes a freshly built report; consumers fetch the
// full report over HTTP.
type ReportComputedEvent struct {
	SessionID         string    `json:"session_id"`
	AssessmentID      string    `json:"assessment_id"`
	StageID           string    `json:"stage_id"`
	StageLabel        string    `json:"stage_label"`
	ConfidenceLabel   string    `json:"confidence_label"`
	ConfidenceRatio   float64   `json:"confidence_ratio"`
	CurrentAvg        float64   `json:"current_avg"`
	TargetAvg         float64   `json:"target_avg"`
	GapAvg            float64   `json:"gap_avg"`
	TopRecommendation string    `json:"top_recommendation,omitempty"`
	Timestamp         time.Time `json:"timestamp"`
}
