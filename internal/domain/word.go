package domain

// VocabEntry is one word of the vocabulary source
type VocabEntry struct {
	ID          int
	Word        string
	Translation string
	Explanation string
	Level       Level
	Goal        Goal
}

// Question is a single multiple-choice quiz turn.
// Answer and Explanation stay on the server until the question is answered.
type Question struct {
	Number      int
	Word        string
	Options     []string
	Answer      string
	Explanation string
}

// Public returns a copy that is safe to show before the question is answered
func (q *Question) Public() *Question {
	if q == nil {
		return nil
	}
	return &Question{
		Number:  q.Number,
		Word:    q.Word,
		Options: append([]string(nil), q.Options...),
	}
}
