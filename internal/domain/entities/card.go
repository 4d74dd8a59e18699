package entities

import "time"

const (
	// MinStage is the stage of a word the user just failed or only met.
	MinStage = 0
	// MaxStage is the mastery ceiling; correct answers past it keep the card there.
	MaxStage = 6
)

// stageIntervals maps a stage to the number of days until the next review.
var stageIntervals = [...]int{1, 2, 3, 5, 7, 10, 14}

// ReviewCard tracks spaced-repetition state for one (user, vocabulary) pair.
type ReviewCard struct {
	UserID        int64
	VocabularyID  int64
	Stage         int // retention confidence, always within [MinStage, MaxStage]
	NextReviewAt  time.Time
	LastResult    *bool // nil until the first recorded answer
	CorrectCount  int
	TotalAttempts int
}

// NewReviewCard creates a card for the first recorded answer to a vocabulary item.
func NewReviewCard(userID, vocabularyID int64) *ReviewCard {
	return &ReviewCard{
		UserID:       userID,
		VocabularyID: vocabularyID,
		Stage:        MinStage,
	}
}

// Advance applies one answer to the card: correct answers move the stage up,
// incorrect ones move it down, clamped to [MinStage, MaxStage]. The next review
// date is scheduled from now using the stage interval table.
func (c *ReviewCard) Advance(correct bool, now time.Time) {
	if correct {
		if c.TotalAttempts == 0 {
			c.Stage = 1
		} else {
			c.Stage = min(c.Stage+1, MaxStage)
		}
		c.CorrectCount++
	} else {
		c.Stage = max(c.Stage-1, MinStage)
	}

	c.TotalAttempts++
	result := correct
	c.LastResult = &result
	c.NextReviewAt = now.AddDate(0, 0, IntervalDays(c.Stage))
}

// IntervalDays returns the review interval for a stage.
// Stages above MaxStage fall back to the longest interval.
func IntervalDays(stage int) int {
	if stage < MinStage {
		stage = MinStage
	}
	if stage > MaxStage {
		stage = MaxStage
	}
	return stageIntervals[stage]
}

// Due reports whether the card is due for review at the given time.
func (c *ReviewCard) Due(now time.Time) bool {
	return !c.NextReviewAt.After(now)
}
