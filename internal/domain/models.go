package domain

// Phase is the coarse stage of the quiz session.
type Phase string

const (
	PhaseLobby          Phase = "lobby"
	PhaseCategoryVoting Phase = "category-voting"
	PhasePlaying        Phase = "playing"
	PhaseFinished       Phase = "finished"
)

// ApprovalThreshold is the number of distinct suggesters that approves a category.
const ApprovalThreshold = 3

// MaxMandatoryQuestions caps how many questions must be played before a category can be skipped.
const MaxMandatoryQuestions = 5

// Player is a participant identified by their normalized display name.
type Player struct {
	Name    string
	Score   int
	Answers map[string]string   // question id -> submitted answer
	Bets    map[string]struct{} // question ids the player bet on
}

// NewPlayer returns a player with a zero score.
func NewPlayer(name string) *Player {
	return &Player{
		Name:    name,
		Answers: make(map[string]string),
		Bets:    make(map[string]struct{}),
	}
}

// HasBet reports whether the player holds a bet on the question.
func (p *Player) HasBet(questionID string) bool {
	_, ok := p.Bets[questionID]
	return ok
}

// SuggestedCategory is a category proposed during voting.
type SuggestedCategory struct {
	Name       string
	Suggesters map[string]struct{}
	Questions  []Question
}

// NewSuggestedCategory returns a category with no suggesters.
func NewSuggestedCategory(name string) *SuggestedCategory {
	return &SuggestedCategory{
		Name:       name,
		Suggesters: make(map[string]struct{}),
	}
}

// Votes is the number of distinct suggesters.
func (c *SuggestedCategory) Votes() int {
	return len(c.Suggesters)
}

// Approved reports whether enough players suggested the category.
func (c *SuggestedCategory) Approved() bool {
	return c.Votes() >= ApprovalThreshold
}

// SelectedCategory is the immutable snapshot of an approved category taken at quiz start.
type SelectedCategory struct {
	Name       string     `json:"name"`
	Questions  []Question `json:"questions"`
	Suggesters []string   `json:"suggesters"`
}

// BankCategory is a category record from the external question bank.
type BankCategory struct {
	Name      string     `json:"name" yaml:"name"`
	Questions []Question `json:"questions" yaml:"questions"`
}
