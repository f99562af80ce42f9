package app

import (
	"errors"
	"testing"

	"pubquiz-service/internal/domain"
)

// playingSession joins players, approves "Movies" with the first three of them and
// starts the quiz with the given questions.
func playingSession(t *testing.T, players []string, questions ...domain.Question) *Session {
	t.Helper()
	s := NewSession()
	for i, name := range players {
		s.Join(clientID(i), name)
	}
	s.StartVoting()
	for _, name := range players[:3] {
		s.SuggestCategory(name, "Movies")
	}
	for _, q := range questions {
		s.AddQuestion("Movies", q)
	}
	if _, err := s.StartQuiz(nil); err != nil {
		t.Fatalf("start quiz: %v", err)
	}
	return s
}

func clientID(i int) string {
	return "client-" + string(rune('a'+i))
}

func textQuestion(id, answer string) domain.Question {
	return domain.Question{ID: id, Type: domain.QuestionText, Question: "Question " + id, Answer: domain.AnswerText(answer)}
}

func TestNewSessionStartsInLobby(t *testing.T) {
	s := NewSession()
	state := s.State()
	if state.Phase != domain.PhaseLobby {
		t.Fatalf("expected lobby, got %s", state.Phase)
	}
	if state.CurrentQuestionIndex != -1 {
		t.Fatalf("expected no active question, got %d", state.CurrentQuestionIndex)
	}
	if state.CurrentQuestion != nil || state.CurrentCategory != nil {
		t.Fatalf("expected no current question or category")
	}
}

func TestJoinNormalizesAndIsIdempotent(t *testing.T) {
	s := NewSession()
	out := s.Join("c1", "maRTIJN")
	if len(out.Events) != 1 || out.Events[0].Type != domain.EventNameUpdated || out.Events[0].Recipient != "c1" {
		t.Fatalf("expected unicast nameUpdated, got %+v", out.Events)
	}
	if payload := out.Events[0].Payload.(domain.NameUpdatedPayload); payload.Name != "Martijn" {
		t.Fatalf("expected Martijn, got %q", payload.Name)
	}
	s.Join("c2", "martijn")
	s.Join("c3", "jan-willem")

	players := s.Players()
	if len(players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(players))
	}
	if players[0].Name != "Martijn" || players[1].Name != "Jan-Willem" {
		t.Fatalf("unexpected roster %+v", players)
	}
	if out := s.Join("c4", "   "); out.Changed {
		t.Fatalf("expected blank name to be ignored")
	}
}

func TestStartQuizRequiresApprovedCategory(t *testing.T) {
	s := NewSession()
	s.StartVoting()
	s.SuggestCategory("Ann", "Movies")
	s.SuggestCategory("Bob", "Movies")

	_, err := s.StartQuiz(func(string) []domain.Question { return []domain.Question{textQuestion("q1", "x")} })
	if !errors.Is(err, domain.ErrNoApprovedCategories) {
		t.Fatalf("expected ErrNoApprovedCategories, got %v", err)
	}
	if s.Phase() != domain.PhaseCategoryVoting {
		t.Fatalf("expected phase unchanged, got %s", s.Phase())
	}
}

func TestStartQuizRequiresQuestions(t *testing.T) {
	s := NewSession()
	s.StartVoting()
	for _, name := range []string{"Ann", "Bob", "Cas"} {
		s.SuggestCategory(name, "Movies")
	}

	_, err := s.StartQuiz(func(string) []domain.Question { return nil })
	if !errors.Is(err, domain.ErrNoCategoryQuestions) {
		t.Fatalf("expected ErrNoCategoryQuestions, got %v", err)
	}
	if s.Phase() != domain.PhaseCategoryVoting {
		t.Fatalf("expected phase unchanged, got %s", s.Phase())
	}
}

func TestStartQuizOrdersCategoriesAndQuestions(t *testing.T) {
	s := NewSession()
	s.StartVoting()
	for _, name := range []string{"Ann", "Bob", "Cas"} {
		s.SuggestCategory(name, "Music")
	}
	for _, name := range []string{"Ann", "Bob", "Cas", "Dirk"} {
		s.SuggestCategory(name, "Movies")
	}
	for _, name := range []string{"Ann", "Bob", "Cas"} {
		s.SuggestCategory(name, "Empty")
	}
	s.SuggestCategory("Ann", "Unpopular")

	hard := domain.Question{ID: "hard", Type: domain.QuestionNumber, Question: "Year?", Answer: "1994"}
	easy := domain.Question{ID: "easy", Type: domain.QuestionMultipleChoice, Question: "Pick", Answer: "A", Options: []string{"A", "B"}}
	medium := textQuestion("medium", "Heat")
	s.AddQuestion("movies", hard)
	s.AddQuestion("Movies", medium)
	s.AddQuestion("MOVIES", easy)

	lookups := map[string]int{}
	lookup := func(name string) []domain.Question {
		lookups[name]++
		if name == "Music" {
			return []domain.Question{textQuestion("m1", "Queen")}
		}
		return nil
	}
	if _, err := s.StartQuiz(lookup); err != nil {
		t.Fatalf("start quiz: %v", err)
	}

	state := s.State()
	if state.Phase != domain.PhasePlaying || state.CurrentCategoryIndex != 0 || state.CurrentQuestionIndex != 0 {
		t.Fatalf("unexpected state after start: %+v", state)
	}
	if len(state.Categories) != 2 || state.Categories[0] != "Movies" || state.Categories[1] != "Music" {
		t.Fatalf("expected [Movies Music], got %v", state.Categories)
	}
	if lookups["Movies"] != 0 {
		t.Fatalf("expected admin-entered questions to win over the bank")
	}
	if lookups["Unpopular"] != 0 {
		t.Fatalf("expected unapproved categories not to be looked up")
	}
	got := []string{}
	for _, q := range s.selected[0].Questions {
		got = append(got, q.ID)
	}
	if len(got) != 3 || got[0] != "easy" || got[1] != "medium" || got[2] != "hard" {
		t.Fatalf("expected questions sorted by difficulty, got %v", got)
	}
}

func TestNavigation(t *testing.T) {
	s := NewSession()
	s.StartVoting()
	for _, name := range []string{"Ann", "Bob", "Cas", "Dirk"} {
		s.SuggestCategory(name, "Movies")
	}
	for _, name := range []string{"Ann", "Bob", "Cas"} {
		s.SuggestCategory(name, "Music")
	}
	s.AddQuestion("Movies", textQuestion("q1", "a"))
	s.AddQuestion("Movies", textQuestion("q2", "b"))
	s.AddQuestion("Music", textQuestion("q3", "c"))
	if _, err := s.StartQuiz(nil); err != nil {
		t.Fatalf("start quiz: %v", err)
	}

	if out := s.PrevQuestion(); out.Changed {
		t.Fatalf("expected prev at first question to be a no-op")
	}

	s.ToggleAnswer()
	s.NextQuestion()
	if s.questionIndex != 1 || s.showAnswer {
		t.Fatalf("expected second question with hidden answer, got index %d show %v", s.questionIndex, s.showAnswer)
	}

	s.ToggleAnswer()
	s.PrevQuestion()
	if s.questionIndex != 0 || s.showAnswer {
		t.Fatalf("expected first question with hidden answer")
	}

	s.NextQuestion()
	s.NextQuestion()
	if s.categoryIndex != 1 || s.questionIndex != 0 {
		t.Fatalf("expected exhaustion to move to next category, got %d/%d", s.categoryIndex, s.questionIndex)
	}

	s.NextQuestion()
	state := s.State()
	if state.Phase != domain.PhaseFinished || state.CurrentQuestionIndex != -1 {
		t.Fatalf("expected finished with no question, got %+v", state)
	}
	if state.CurrentQuestion != nil {
		t.Fatalf("expected no question exposed after finish")
	}
	if out := s.NextQuestion(); out.Changed {
		t.Fatalf("expected next after finish to be a no-op")
	}
}

func TestNextCategoryFinishesOnLastCategory(t *testing.T) {
	s := playingSession(t, []string{"Ann", "Bob", "Cas"}, textQuestion("q1", "a"), textQuestion("q2", "b"))
	s.NextCategory()
	if s.Phase() != domain.PhaseFinished {
		t.Fatalf("expected finished, got %s", s.Phase())
	}
}

func TestStartVotingDiscardsSuggestionsKeepsRoster(t *testing.T) {
	s := playingSession(t, []string{"Ann", "Bob", "Cas"}, textQuestion("q1", "a"))
	s.UpdateScore("Ann", 4)

	s.StartVoting()
	if s.Phase() != domain.PhaseCategoryVoting {
		t.Fatalf("expected voting, got %s", s.Phase())
	}
	if len(s.CategoryVotes()) != 0 || len(s.State().Categories) != 0 {
		t.Fatalf("expected suggestions and selections cleared")
	}
	if p, _ := s.Player("ann"); p.Score != 4 {
		t.Fatalf("expected score kept, got %d", p.Score)
	}
}

func TestResetWipesEverything(t *testing.T) {
	s := playingSession(t, []string{"Ann", "Bob", "Cas"}, textQuestion("q1", "a"))
	s.VoteSkipCategory("Ann")

	s.Reset()
	state := s.State()
	if state.Phase != domain.PhaseLobby || state.QuizStarted {
		t.Fatalf("expected lobby, got %+v", state)
	}
	if len(s.Players()) != 0 || len(s.CategoryVotes()) != 0 || len(state.Categories) != 0 {
		t.Fatalf("expected empty roster and categories")
	}
	if s.SkipStatus().Votes != 0 {
		t.Fatalf("expected skip votes cleared")
	}
}
