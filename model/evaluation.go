package model

import (
	"time"

	"CareerBot/wizard"
)

// Ratings run from 1 to 5. Zero means the category was not rated.
const (
	MinRating = 1
	MaxRating = 5
)

// MaxCommentLength caps each free-text comment, in characters.
const MaxCommentLength = 1000

type EvaluationRatings struct {
	Technical      int `json:"technical"`
	Communication  int `json:"communication"`
	ProblemSolving int `json:"problemSolving"`
	Collaboration  int `json:"collaboration"`
	TimeManagement int `json:"timeManagement"`
	Overall        int `json:"overall"`
}

func (EvaluationRatings) Step() wizard.StepID { return StepRatings }

type EvaluationComments struct {
	Technical      string `json:"technical,omitempty"`
	Communication  string `json:"communication,omitempty"`
	ProblemSolving string `json:"problemSolving,omitempty"`
	Collaboration  string `json:"collaboration,omitempty"`
	TimeManagement string `json:"timeManagement,omitempty"`
	Overall        string `json:"overall,omitempty"`
	Final          string `json:"final,omitempty"`
}

func (EvaluationComments) Step() wizard.StepID { return StepComments }

// Evaluation is an interviewer's feedback on a mock interview.
type Evaluation struct {
	ID          string             `json:"id"`
	InterviewID string             `json:"interviewID"`
	EvaluatorID int64              `json:"evaluatorid"`
	CreatedAt   time.Time          `json:"createdAt"`
	Ratings     EvaluationRatings  `json:"ratings"`
	Comments    EvaluationComments `json:"comments"`
}
