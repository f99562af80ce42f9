package app

import (
	"sort"
	"strings"

	"pubquiz-service/internal/domain"
)

// State is the public game state. Nothing that would give the answer away is
// included until the answer is shown.
func (s *Session) State() domain.GameState {
	state := domain.GameState{
		Phase:                s.phase,
		QuizStarted:          s.quizStarted,
		CurrentCategoryIndex: s.categoryIndex,
		CurrentQuestionIndex: s.questionIndex,
		ShowAnswer:           s.showAnswer,
		TotalCategories:      len(s.selected),
		Categories:           make([]string, 0, len(s.selected)),
		CorrectPlayers:       []string{},
		PlayerCount:          len(s.players),
	}
	for _, c := range s.selected {
		state.Categories = append(state.Categories, c.Name)
	}
	if c, ok := s.currentCategory(); ok {
		state.CurrentCategory = &domain.CategoryView{
			Name:          c.Name,
			Suggesters:    c.Suggesters,
			QuestionCount: len(c.Questions),
		}
	}
	if q, ok := s.currentQuestion(); ok {
		view := questionView(q, s.questionIndex+1, s.showAnswer)
		state.CurrentQuestion = &view
	}
	if s.showAnswer {
		state.CorrectPlayers = sortedNames(s.correctPlayers)
	}
	return state
}

func questionView(q domain.Question, number int, reveal bool) domain.QuestionView {
	view := domain.QuestionView{
		ID:         q.ID,
		Type:       q.Type,
		Question:   q.Question,
		Number:     number,
		Difficulty: q.Rank(),
	}
	switch q.Type {
	case domain.QuestionMultipleChoice:
		view.Options = q.Options
	case domain.QuestionNumber:
		view.Tolerance = q.Tolerance
	case domain.QuestionMusic:
		view.YouTubeID = q.YouTubeID
		view.PlaySeconds = q.PlaySeconds
		if reveal {
			view.Song = q.Song
			view.Artist = q.Artist
		}
	case domain.QuestionVideo:
		view.YouTubeID = q.YouTubeID
		view.PlaySeconds = q.PlaySeconds
		if reveal {
			view.ClipTitle = q.ClipTitle
			view.ClipSource = q.ClipSource
		}
	case domain.QuestionImage:
		view.ImageURL = q.ImageURL
		if reveal {
			view.ImageCredit = q.ImageCredit
		}
	}
	if reveal {
		view.Answer = q.Answer.String()
		view.AcceptedAnswers = q.AcceptedAnswers
	}
	return view
}

// Players is the leaderboard, highest score first. Ties keep join order.
func (s *Session) Players() []domain.PlayerView {
	q, active := s.currentQuestion()
	connected := make(map[string]bool, len(s.connections))
	for _, name := range s.connections {
		connected[name] = true
	}

	players := make([]domain.PlayerView, 0, len(s.playerOrder))
	for _, name := range s.playerOrder {
		p := s.players[name]
		view := domain.PlayerView{
			Name:      p.Name,
			Score:     p.Score,
			Connected: connected[p.Name],
		}
		if active {
			view.Answered = strings.TrimSpace(p.Answers[q.ID]) != ""
			view.HasBet = p.HasBet(q.ID)
		}
		players = append(players, view)
	}
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Score > players[j].Score
	})
	return players
}

// CategoryVotes summarizes suggestions, most suggested first.
func (s *Session) CategoryVotes() []domain.CategoryVote {
	votes := make([]domain.CategoryVote, 0, len(s.suggestedOrder))
	for _, key := range s.suggestedOrder {
		c := s.suggested[key]
		votes = append(votes, domain.CategoryVote{
			Name:          c.Name,
			Votes:         c.Votes(),
			Suggesters:    sortedNames(c.Suggesters),
			Approved:      c.Approved(),
			QuestionCount: len(c.Questions),
		})
	}
	sort.SliceStable(votes, func(i, j int) bool {
		return votes[i].Votes > votes[j].Votes
	})
	return votes
}

// SkipStatus reports the skip vote against quorum and the mandatory-question gate.
func (s *Session) SkipStatus() domain.SkipVoteStatus {
	return domain.SkipVoteStatus{
		Votes:              len(s.skipVotes),
		VotesNeeded:        s.votesNeeded(),
		PlayerCount:        s.connectedPlayers(),
		MandatoryQuestions: s.mandatoryQuestions(),
		QuestionsAnswered:  s.questionsAnswered(),
		CanSkipYet:         s.canSkipYet(),
		Voters:             sortedNames(s.skipVotes),
	}
}

// Snapshot is the full set of projections a (re)connecting client needs.
func (s *Session) Snapshot() []domain.Message {
	return []domain.Message{
		domain.Broadcast(domain.EventGameState, s.State()),
		domain.Broadcast(domain.EventPlayerUpdate, s.Players()),
		domain.Broadcast(domain.EventCategoryVotes, s.CategoryVotes()),
		domain.Broadcast(domain.EventSkipVoteUpdate, s.SkipStatus()),
	}
}
