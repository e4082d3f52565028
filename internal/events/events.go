package events

import "time"

const SubjectRankingAll = "apotek.ranking.>"

func SubjectRankingComputed(id string) string { return "apotek.ranking." + id + ".computed" }
func SubjectRankingFailed(id string) string   { return "apotek.ranking." + id + ".failed" }

type Weights struct {
	Service      float64 `json:"service"`
	Availability float64 `json:"availability"`
	Distance     float64 `json:"distance"`
}

type RankingComputedEvent struct {
	RecommendationID string    `json:"recommendation_id"`
	Mode             string    `json:"mode,omitempty"`
	Normalization    string    `json:"normalization"`
	Weights          Weights   `json:"weights"`
	Alternatives     int       `json:"alternatives"`
	Excluded         int       `json:"excluded"`
	TopChoice        string    `json:"top_choice,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}

type RankingFailedEvent struct {
	RecommendationID string    `json:"recommendation_id"`
	Error            string    `json:"error"`
	Timestamp        time.Time `json:"timestamp"`
}
