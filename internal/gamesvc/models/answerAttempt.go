package models

import "time"

// AnswerAttempt is the immutable record of one player's response to one
// question. At most one row exists per (player_id, question_id).
type AnswerAttempt struct {
	ID              int64     `json:"id"`
	PlayerID        int64     `json:"player_id"`
	QuestionID      int64     `json:"question_id"`
	SubmittedAnswer string    `json:"submitted_answer"`
	CorrectAnswer   string    `json:"correct_answer"` // answer key captured at write time
	IsCorrect       bool      `json:"is_correct"`
	TimeLimit       int       `json:"time_limit"` // seconds, copied from the question
	TimeTaken       int       `json:"time_taken"` // seconds, client reported
	PointsAwarded   int       `json:"points_awarded"`
	CreatedAt       time.Time `json:"created_at"`
}
