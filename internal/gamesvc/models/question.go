package models

// Question is immutable template content. The answer key never leaves the
// service; responses carry a redacted view (see QuestionView).
type Question struct {
	ID           int64             `json:"id" bson:"_id"`
	GameID       int64             `json:"game_id" bson:"game_id"`
	Text         string            `json:"text" bson:"text"`
	Answer       string            `json:"answer" bson:"answer"`
	Options      map[string]string `json:"options" bson:"options"`
	TimeLimitSec int               `json:"time_limit_sec" bson:"time_limit_sec"`
	Weight       int               `json:"weight" bson:"weight"` // authoring-side point weight, unused by live scoring
	Source       string            `json:"source,omitempty" bson:"source,omitempty"`
	MediaURL     string            `json:"media_url,omitempty" bson:"media_url,omitempty"`
}

// QuestionView is the player-facing projection of a question: the answer key
// is withheld, the player's own prior submission (if any) is attached.
type QuestionView struct {
	ID              int64             `json:"id"`
	Text            string            `json:"text"`
	Options         map[string]string `json:"options"`
	TimeLimitSec    int               `json:"time_limit_sec"`
	Source          string            `json:"source,omitempty"`
	MediaURL        string            `json:"media_url,omitempty"`
	Answered        bool              `json:"answered"`
	SubmittedAnswer string            `json:"submitted_answer,omitempty"`
}
