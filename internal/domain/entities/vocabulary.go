package entities

import "time"

// VocabularyItem is a single word of the shared course vocabulary.
// Items belong to a lesson and are treated as immutable reference data.
type VocabularyItem struct {
	ID            int64
	LessonID      int64
	Word          string // word in the target language
	Translation   string // translation into the learner's native language
	Pronunciation string // optional transcription
	Example       string // optional usage example
}

// Lesson groups vocabulary and homework. Order defines the course sequence.
type Lesson struct {
	ID    int64
	Order int
	Title string
}

// DictionaryEntry is a word/translation pair the user added to their
// personal dictionary.
type DictionaryEntry struct {
	ID          int64
	UserID      int64
	Word        string
	Translation string
	CreatedAt   time.Time
}
