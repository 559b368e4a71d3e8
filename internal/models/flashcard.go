package models

// CardType distinguishes multiple-choice cards from term/definition cards.
type CardType string

const (
	CardTypeMCQ  CardType = "mcq"
	CardTypeTerm CardType = "term"
)

// Flashcard is one reviewable card. Difficulty, Interval, ReviewCount and
// NextReview are SRS metadata owned by the backend scheduler; the client
// only displays them and reports grades back.
type Flashcard struct {
	ID          string   `json:"id"`
	Type        CardType `json:"type"`
	Question    string   `json:"question"`
	Answer      string   `json:"answer"`
	Options     []string `json:"options,omitempty"`
	Rationale   string   `json:"rationale,omitempty"`
	Difficulty  float64  `json:"difficulty"`
	Interval    int      `json:"interval"`
	ReviewCount int      `json:"reviewCount"`
	NextReview  string   `json:"nextReview"`
}

// CardList is the backend response to a due-cards fetch.
type CardList struct {
	Cards    []Flashcard `json:"cards"`
	TotalDue int         `json:"totalDue"`
}

// FlashcardSession is one local study run over a snapshotted card list.
// Counters obey correct + incorrect == currentIndex at every point.
type FlashcardSession struct {
	Cards        []Flashcard `json:"cards"`
	CurrentIndex int         `json:"currentIndex"`
	Correct      int         `json:"correct"`
	Incorrect    int         `json:"incorrect"`
	Streak       int         `json:"streak"`
}

// SRSGrade is the user's self-reported recall quality for one review.
type SRSGrade int

const (
	GradeAgain SRSGrade = 0
	GradeHard  SRSGrade = 1
	GradeGood  SRSGrade = 2
	GradeEasy  SRSGrade = 3
)

// Valid reports whether g is one of the four defined grade levels.
func (g SRSGrade) Valid() bool {
	return g >= GradeAgain && g <= GradeEasy
}

// Correct reports whether g counts as a correct answer for session
// statistics. Good and Easy are correct; Again and Hard are not.
func (g SRSGrade) Correct() bool {
	return g >= GradeGood
}

func (g SRSGrade) String() string {
	switch g {
	case GradeAgain:
		return "again"
	case GradeHard:
		return "hard"
	case GradeGood:
		return "good"
	case GradeEasy:
		return "easy"
	default:
		return "unknown"
	}
}
