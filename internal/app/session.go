package app

import (
	"sort"

	"pubquiz-service/internal/domain"
)

// Outcome is what a session mutation produced: events for the transport and whether
// the public projection needs to be rebroadcast.
type Outcome struct {
	Changed bool
	Events  []domain.Message
}

func changed(events ...domain.Message) Outcome {
	return Outcome{Changed: true, Events: events}
}

// Session is the single mutable source of truth of a quiz. It is not safe for
// concurrent use; QuizService serializes every call.
type Session struct {
	phase          domain.Phase
	suggested      map[string]*domain.SuggestedCategory
	suggestedOrder []string
	selected       []domain.SelectedCategory
	categoryIndex  int
	questionIndex  int
	showAnswer     bool
	players        map[string]*domain.Player
	playerOrder    []string
	skipVotes      map[string]struct{}
	correctPlayers map[string]struct{}
	revealed       map[string]struct{}
	quizStarted    bool
	connections    map[string]string // client id -> player name
}

// NewSession returns a session in the lobby with an empty roster.
func NewSession() *Session {
	return &Session{
		phase:          domain.PhaseLobby,
		suggested:      make(map[string]*domain.SuggestedCategory),
		questionIndex:  -1,
		players:        make(map[string]*domain.Player),
		skipVotes:      make(map[string]struct{}),
		correctPlayers: make(map[string]struct{}),
		revealed:       make(map[string]struct{}),
		connections:    make(map[string]string),
	}
}

// Phase returns the current phase.
func (s *Session) Phase() domain.Phase {
	return s.phase
}

// Player looks up a player by any casing of their name.
func (s *Session) Player(name string) (*domain.Player, bool) {
	p, ok := s.players[domain.NormalizePlayerName(name)]
	return p, ok
}

// Join adds the player on first sight and binds the client connection to them.
// Joining twice is idempotent.
func (s *Session) Join(clientID, rawName string) Outcome {
	name := domain.NormalizePlayerName(rawName)
	if name == "" {
		return Outcome{}
	}
	if _, ok := s.players[name]; !ok {
		s.players[name] = domain.NewPlayer(name)
		s.playerOrder = append(s.playerOrder, name)
	}
	if clientID == "" {
		return changed()
	}
	s.connections[clientID] = name
	return changed(domain.Unicast(clientID, domain.EventNameUpdated, domain.NameUpdatedPayload{Name: name}))
}

// Disconnect unbinds a client. A player without any remaining connection loses
// their skip vote but keeps their score.
func (s *Session) Disconnect(clientID string) Outcome {
	name, ok := s.connections[clientID]
	if !ok {
		return Outcome{}
	}
	delete(s.connections, clientID)
	if !s.isConnected(name) {
		delete(s.skipVotes, name)
	}
	return changed()
}

func (s *Session) isConnected(name string) bool {
	for _, bound := range s.connections {
		if bound == name {
			return true
		}
	}
	return false
}

// connectedPlayers counts distinct players with at least one live connection.
func (s *Session) connectedPlayers() int {
	names := make(map[string]struct{}, len(s.connections))
	for _, name := range s.connections {
		if _, ok := s.players[name]; ok {
			names[name] = struct{}{}
		}
	}
	return len(names)
}

// StartVoting discards suggestions and selections and opens category voting.
// The roster and scores are kept.
func (s *Session) StartVoting() Outcome {
	s.phase = domain.PhaseCategoryVoting
	s.suggested = make(map[string]*domain.SuggestedCategory)
	s.suggestedOrder = nil
	s.selected = nil
	s.categoryIndex = 0
	s.questionIndex = -1
	s.quizStarted = false
	s.revealed = make(map[string]struct{})
	s.clearSkipVotes()
	s.hideAnswer()
	return changed()
}

// StartQuiz selects every approved category that has questions and starts playing.
// Categories without admin-entered questions are filled through lookup.
func (s *Session) StartQuiz(lookup func(name string) []domain.Question) (Outcome, error) {
	if s.phase == domain.PhasePlaying || s.phase == domain.PhaseFinished {
		return Outcome{}, nil
	}

	var approved []*domain.SuggestedCategory
	for _, key := range s.suggestedOrder {
		if c := s.suggested[key]; c.Approved() {
			approved = append(approved, c)
		}
	}
	if len(approved) == 0 {
		return Outcome{}, domain.ErrNoApprovedCategories
	}

	selected := make([]domain.SelectedCategory, 0, len(approved))
	for _, c := range approved {
		if len(c.Questions) == 0 && lookup != nil {
			c.Questions = lookup(c.Name)
		}
		if len(c.Questions) == 0 {
			continue
		}
		questions := make([]domain.Question, len(c.Questions))
		copy(questions, c.Questions)
		sort.SliceStable(questions, func(i, j int) bool {
			return questions[i].Rank() < questions[j].Rank()
		})
		selected = append(selected, domain.SelectedCategory{
			Name:       c.Name,
			Questions:  questions,
			Suggesters: sortedNames(c.Suggesters),
		})
	}
	if len(selected) == 0 {
		return Outcome{}, domain.ErrNoCategoryQuestions
	}
	sort.SliceStable(selected, func(i, j int) bool {
		return len(selected[i].Suggesters) > len(selected[j].Suggesters)
	})

	s.selected = selected
	s.phase = domain.PhasePlaying
	s.quizStarted = true
	s.categoryIndex = 0
	s.questionIndex = 0
	s.revealed = make(map[string]struct{})
	s.clearSkipVotes()
	s.hideAnswer()
	return changed(), nil
}

// NextQuestion moves within the category, or on to the next category when the
// current one is exhausted.
func (s *Session) NextQuestion() Outcome {
	if !s.hasActiveQuestion() {
		return Outcome{}
	}
	if s.questionIndex+1 < len(s.selected[s.categoryIndex].Questions) {
		s.questionIndex++
		s.hideAnswer()
		return changed()
	}
	s.advanceCategory()
	return changed()
}

// PrevQuestion steps back inside the current category.
func (s *Session) PrevQuestion() Outcome {
	if !s.hasActiveQuestion() || s.questionIndex == 0 {
		return Outcome{}
	}
	s.questionIndex--
	s.hideAnswer()
	return changed()
}

// NextCategory skips the rest of the current category.
func (s *Session) NextCategory() Outcome {
	if !s.hasActiveQuestion() {
		return Outcome{}
	}
	s.advanceCategory()
	return changed()
}

// ToggleAnswer flips the reveal flag. A question is scored the first time its answer
// is shown; showing it again only restores the list of correct players.
func (s *Session) ToggleAnswer() Outcome {
	q, ok := s.currentQuestion()
	if !ok {
		return Outcome{}
	}
	if s.showAnswer {
		s.hideAnswer()
		return changed()
	}
	s.showAnswer = true
	_, scored := s.revealed[q.ID]
	s.revealed[q.ID] = struct{}{}
	s.scoreReveal(q, !scored)
	return changed()
}

// Reset wipes everything, roster and connections included.
func (s *Session) Reset() Outcome {
	*s = *NewSession()
	return changed()
}

// advanceCategory moves to the first question of the next category, or finishes the quiz.
func (s *Session) advanceCategory() {
	s.clearSkipVotes()
	s.hideAnswer()
	if s.categoryIndex+1 < len(s.selected) {
		s.categoryIndex++
		s.questionIndex = 0
		return
	}
	s.phase = domain.PhaseFinished
	s.questionIndex = -1
}

func (s *Session) hideAnswer() {
	s.showAnswer = false
	s.correctPlayers = make(map[string]struct{})
}

func (s *Session) clearSkipVotes() {
	s.skipVotes = make(map[string]struct{})
}

func (s *Session) hasActiveQuestion() bool {
	_, ok := s.currentQuestion()
	return ok
}

func (s *Session) currentCategory() (domain.SelectedCategory, bool) {
	if s.phase != domain.PhasePlaying || s.categoryIndex < 0 || s.categoryIndex >= len(s.selected) {
		return domain.SelectedCategory{}, false
	}
	return s.selected[s.categoryIndex], true
}

func (s *Session) currentQuestion() (domain.Question, bool) {
	c, ok := s.currentCategory()
	if !ok || s.questionIndex < 0 || s.questionIndex >= len(c.Questions) {
		return domain.Question{}, false
	}
	return c.Questions[s.questionIndex], true
}

// nextQuestion is the question after the active one, crossing into the next category.
func (s *Session) nextQuestion() (domain.Question, bool) {
	c, ok := s.currentCategory()
	if !ok || s.questionIndex < 0 {
		return domain.Question{}, false
	}
	if s.questionIndex+1 < len(c.Questions) {
		return c.Questions[s.questionIndex+1], true
	}
	for i := s.categoryIndex + 1; i < len(s.selected); i++ {
		if len(s.selected[i].Questions) > 0 {
			return s.selected[i].Questions[0], true
		}
	}
	return domain.Question{}, false
}

// findSuggested resolves a category name case-insensitively to its canonical entry.
func (s *Session) findSuggested(name string) (*domain.SuggestedCategory, bool) {
	for _, key := range s.suggestedOrder {
		if domain.SameName(key, name) {
			return s.suggested[key], true
		}
	}
	return nil, false
}

func sortedNames(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
