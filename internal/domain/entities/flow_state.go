package entities

import "time"

// StateTag names the multi-step interaction a user is currently inside.
// The tag decides how the opaque flow state payload is decoded.
type StateTag string

const (
	StateExercise         StateTag = "exercise"
	StateReview           StateTag = "review"
	StateLearnNewWords    StateTag = "learn_new_words"
	StateDictionarySearch StateTag = "dictionary_search"
	StateDictionaryAdd    StateTag = "dictionary_add_custom"
	StateHomeworkAnswer   StateTag = "homework_text_answer"
	StateSupportMessage   StateTag = "support_message"
)

// FlowState is the persisted marker of an in-progress interaction.
// At most one exists per user; it is replaced wholesale on every step and
// cleared on completion or abandonment. Payload is opaque at this level.
type FlowState struct {
	UserID    int64
	State     StateTag
	Payload   []byte
	UpdatedAt time.Time
}

// DictionarySearchPayload marks that the next message is a dictionary query.
type DictionarySearchPayload struct{}

// DictionaryAddPayload holds the partially entered custom word while the
// bot waits for the user to type the translation.
type DictionaryAddPayload struct {
	Word string `json:"word,omitempty"`
}

// HomeworkAnswerPayload points at the homework question awaiting a free-text
// answer.
type HomeworkAnswerPayload struct {
	HomeworkID int64 `json:"homework_id"`
	QuestionID int64 `json:"question_id"`
}

// SupportMessagePayload is intentionally empty: the tag alone marks that the
// next message should be forwarded to support. The shape is still versioned
// by the tag like every other payload.
type SupportMessagePayload struct{}
