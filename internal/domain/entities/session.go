package entities

// Direction tells which way a question asks the user to translate.
type Direction string

const (
	// DirectionForward shows the target-language word and asks for the translation.
	DirectionForward Direction = "forward"
	// DirectionReverse shows the native translation and asks for the target-language word.
	DirectionReverse Direction = "reverse"
)

// QuestionSourceType identifies where a session question was derived from.
// Only vocabulary- and dictionary-sourced answers feed back into the
// spaced-repetition scheduler.
type QuestionSourceType string

const (
	SourceVocabulary QuestionSourceType = "vocabulary"
	SourceDictionary QuestionSourceType = "dictionary"
	SourceHomework   QuestionSourceType = "homework"
)

// QuestionSource references the record a question was built from.
type QuestionSource struct {
	Type  QuestionSourceType `json:"type"`
	RefID int64              `json:"ref_id"`
}

// Question is a single fully precomputed quiz question. An empty Options
// slice means a free-text answer is expected.
type Question struct {
	ID        string         `json:"id"`
	Source    QuestionSource `json:"source"`
	Prompt    string         `json:"prompt"`
	Answer    string         `json:"answer"`
	Options   []string       `json:"options,omitempty"`
	Direction Direction      `json:"direction,omitempty"`
}

// MultipleChoice reports whether the question offers answer options.
func (q Question) MultipleChoice() bool {
	return len(q.Options) > 0
}

// SessionPayload is a whole quiz or review session computed up front.
// Questions are immutable once built; only the cursor and the score move,
// and they only move forward.
type SessionPayload struct {
	Questions    []Question `json:"questions"`
	CurrentIndex int        `json:"current_index"`
	CorrectCount int        `json:"correct_count"`
}

// Current returns the question at the cursor, or false when the session is done.
func (p *SessionPayload) Current() (Question, bool) {
	if p.CurrentIndex < 0 || p.CurrentIndex >= len(p.Questions) {
		return Question{}, false
	}
	return p.Questions[p.CurrentIndex], true
}

// Advance moves the cursor past the current question, counting a correct answer.
func (p *SessionPayload) Advance(correct bool) {
	if p.CurrentIndex >= len(p.Questions) {
		return
	}
	if correct {
		p.CorrectCount++
	}
	p.CurrentIndex++
}

// Done reports whether every question has been answered.
func (p *SessionPayload) Done() bool {
	return p.CurrentIndex >= len(p.Questions)
}

// Total returns the number of questions in the session.
func (p *SessionPayload) Total() int {
	return len(p.Questions)
}
