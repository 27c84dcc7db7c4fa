package domain

// Analysis holds the qualitative part of an AI (or heuristic) evaluation.
// Strengths and Weaknesses are never empty: producers fill in a single
// fallback entry when no specific finding applies.
type Analysis struct {
	ContentQuality string   `json:"content_quality"`
	EngagementRate string   `json:"engagement_rate"`
	ViralPotential string   `json:"viral_potential"`
	Strengths      []string `json:"strengths"`
	Weaknesses     []string `json:"weaknesses"`
}

// Suggestions holds concrete optimization advice per aspect.
type Suggestions struct {
	Title     string   `json:"title"`
	Thumbnail string   `json:"thumbnail"`
	Timing    string   `json:"timing"`
	Tags      []string `json:"tags"`
	Content   string   `json:"content"`
}

// AnalysisResult is the full evaluation of a VideoRecord. Score is always
// within [0,100].
type AnalysisResult struct {
	Score       int         `json:"score"`
	Analysis    Analysis    `json:"analysis"`
	Suggestions Suggestions `json:"suggestions"`
}
