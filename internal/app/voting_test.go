package app

import (
	"testing"

	"pubquiz-service/internal/domain"
)

func approvals(out Outcome) []string {
	var names []string
	for _, ev := range out.Events {
		if ev.Type == domain.EventCategoryApproved {
			names = append(names, ev.Payload.(domain.CategoryApprovedPayload).CategoryName)
		}
	}
	return names
}

func TestSuggestCategoryApprovesOnce(t *testing.T) {
	s := NewSession()
	s.StartVoting()

	var fired []string
	for _, name := range []string{"Ann", "Bob", "Cas", "Dirk", "Eva"} {
		fired = append(fired, approvals(s.SuggestCategory(name, "Movies"))...)
	}
	if len(fired) != 1 || fired[0] != "Movies" {
		t.Fatalf("expected a single approval for Movies, got %v", fired)
	}
	votes := s.CategoryVotes()
	if len(votes) != 1 || votes[0].Votes != 5 || !votes[0].Approved {
		t.Fatalf("unexpected votes %+v", votes)
	}
}

func TestSuggestCategoryDedupes(t *testing.T) {
	s := NewSession()
	s.StartVoting()

	s.SuggestCategory("ann", "Movies")
	s.SuggestCategory("ANN", "movies")
	s.SuggestCategory("Bob", "  MOVIES ")

	votes := s.CategoryVotes()
	if len(votes) != 1 {
		t.Fatalf("expected one category, got %+v", votes)
	}
	if votes[0].Name != "Movies" {
		t.Fatalf("expected first casing to win, got %q", votes[0].Name)
	}
	if votes[0].Votes != 2 || votes[0].Suggesters[0] != "Ann" || votes[0].Suggesters[1] != "Bob" {
		t.Fatalf("expected Ann and Bob, got %+v", votes[0])
	}
}

func TestSuggestCategoryPreconditions(t *testing.T) {
	s := NewSession()
	if out := s.SuggestCategory("Ann", "Movies"); out.Changed {
		t.Fatalf("expected suggestion in lobby to be ignored")
	}
	s.StartVoting()
	if out := s.SuggestCategory("Ann", "   "); out.Changed {
		t.Fatalf("expected blank category to be ignored")
	}
	if out := s.SuggestCategory("", "Movies"); out.Changed {
		t.Fatalf("expected blank player to be ignored")
	}
}

func TestCategoryVotesSortedByVotes(t *testing.T) {
	s := NewSession()
	s.StartVoting()
	s.SuggestCategory("Ann", "Sports")
	s.SuggestCategory("Ann", "History")
	s.SuggestCategory("Bob", "History")
	s.SuggestCategory("Cas", "Art")

	votes := s.CategoryVotes()
	if votes[0].Name != "History" || votes[1].Name != "Sports" || votes[2].Name != "Art" {
		t.Fatalf("expected History, Sports, Art; got %+v", votes)
	}
}

func TestMandatoryQuestions(t *testing.T) {
	for suggesters, want := range map[int]int{0: 1, 3: 1, 4: 2, 6: 4, 7: 5, 12: 5} {
		if got := MandatoryQuestions(suggesters); got != want {
			t.Fatalf("MandatoryQuestions(%d) = %d, want %d", suggesters, got, want)
		}
	}
}

func TestSkipVoteQuorumSkipsCategory(t *testing.T) {
	s := NewSession()
	for i, name := range []string{"Ann", "Bob", "Cas", "Dirk"} {
		s.Join(clientID(i), name)
	}
	s.StartVoting()
	for _, name := range []string{"Ann", "Bob", "Cas"} {
		s.SuggestCategory(name, "Movies")
		s.SuggestCategory(name, "Music")
	}
	s.AddQuestion("Movies", textQuestion("q1", "a"))
	s.AddQuestion("Movies", textQuestion("q2", "b"))
	s.AddQuestion("Music", textQuestion("q3", "c"))
	if _, err := s.StartQuiz(nil); err != nil {
		t.Fatalf("start quiz: %v", err)
	}

	status := s.SkipStatus()
	if status.VotesNeeded != 3 || status.MandatoryQuestions != 1 || status.QuestionsAnswered != 1 || !status.CanSkipYet {
		t.Fatalf("unexpected status %+v", status)
	}

	s.VoteSkipCategory("Ann")
	s.VoteSkipCategory("ann")
	s.VoteSkipCategory("Bob")
	if s.categoryIndex != 0 {
		t.Fatalf("expected no skip below quorum")
	}
	if voters := s.SkipStatus().Voters; len(voters) != 2 || voters[0] != "Ann" || voters[1] != "Bob" {
		t.Fatalf("unexpected voters %v", voters)
	}

	s.RemoveSkipVote("Bob")
	s.VoteSkipCategory("Bob")
	s.VoteSkipCategory("Cas")
	if s.categoryIndex != 1 || s.questionIndex != 0 {
		t.Fatalf("expected skip to Music, got %d/%d", s.categoryIndex, s.questionIndex)
	}
	if s.SkipStatus().Votes != 0 {
		t.Fatalf("expected skip votes cleared after category advance")
	}
}

func TestSkipVoteWaitsForMandatoryQuestions(t *testing.T) {
	s := NewSession()
	players := []string{"Ann", "Bob", "Cas", "Dirk", "Eva"}
	for i, name := range players {
		s.Join(clientID(i), name)
	}
	s.StartVoting()
	for _, name := range players {
		s.SuggestCategory(name, "Movies")
	}
	for _, id := range []string{"q1", "q2", "q3", "q4"} {
		s.AddQuestion("Movies", textQuestion(id, "x"))
	}
	if _, err := s.StartQuiz(nil); err != nil {
		t.Fatalf("start quiz: %v", err)
	}

	for _, name := range players {
		s.VoteSkipCategory(name)
	}
	status := s.SkipStatus()
	if s.categoryIndex != 0 || status.CanSkipYet || status.MandatoryQuestions != 3 {
		t.Fatalf("expected gate to hold the skip, got %+v", status)
	}

	s.NextQuestion()
	s.NextQuestion()
	if s.SkipStatus().Votes != 5 {
		t.Fatalf("expected votes kept while moving inside the category")
	}
	if !s.SkipStatus().CanSkipYet {
		t.Fatalf("expected gate satisfied on third question")
	}

	s.RemoveSkipVote("Eva")
	if s.Phase() != domain.PhasePlaying {
		t.Fatalf("expected removing a vote not to trigger a skip")
	}
	s.VoteSkipCategory("Eva")
	if s.Phase() != domain.PhaseFinished {
		t.Fatalf("expected skip of the only category to finish the quiz, got %s", s.Phase())
	}
}

func TestDisconnectAffectsQuorum(t *testing.T) {
	s := playingSession(t, []string{"Ann", "Bob", "Cas", "Dirk"}, textQuestion("q1", "a"), textQuestion("q2", "b"))
	if s.SkipStatus().VotesNeeded != 3 {
		t.Fatalf("expected 3 votes needed with 4 players")
	}
	s.VoteSkipCategory("Dirk")
	s.Disconnect(clientID(3))
	status := s.SkipStatus()
	if status.VotesNeeded != 2 || status.PlayerCount != 3 {
		t.Fatalf("expected quorum to follow connected players, got %+v", status)
	}
	if status.Votes != 0 {
		t.Fatalf("expected the departed player's vote to be dropped")
	}
	if _, ok := s.Player("Dirk"); !ok {
		t.Fatalf("expected roster to keep disconnected players")
	}
}
