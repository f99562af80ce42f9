package app

import (
	"strings"

	"pubquiz-service/internal/domain"
)

// SuggestCategory records playerName as a suggester of categoryName. The first
// casing seen becomes the canonical name. categoryApproved fires once, on the
// suggestion that reaches the approval threshold.
func (s *Session) SuggestCategory(playerName, categoryName string) Outcome {
	if s.phase != domain.PhaseCategoryVoting {
		return Outcome{}
	}
	player := domain.NormalizePlayerName(playerName)
	category := strings.Join(strings.Fields(categoryName), " ")
	if player == "" || category == "" {
		return Outcome{}
	}

	c := s.ensureSuggested(category)
	if _, ok := c.Suggesters[player]; ok {
		return Outcome{}
	}
	c.Suggesters[player] = struct{}{}

	if c.Votes() == domain.ApprovalThreshold {
		return changed(domain.Broadcast(domain.EventCategoryApproved, domain.CategoryApprovedPayload{CategoryName: c.Name}))
	}
	return changed()
}

// AddQuestion attaches an admin-entered question to a category, creating the
// category without suggesters when nobody proposed it yet.
func (s *Session) AddQuestion(categoryName string, q domain.Question) Outcome {
	if s.phase != domain.PhaseCategoryVoting {
		return Outcome{}
	}
	category := strings.Join(strings.Fields(categoryName), " ")
	if category == "" || strings.TrimSpace(q.Question) == "" || strings.TrimSpace(q.Answer.String()) == "" {
		return Outcome{}
	}
	c := s.ensureSuggested(category)
	c.Questions = append(c.Questions, q.WithDefaults())
	return changed()
}

func (s *Session) ensureSuggested(name string) *domain.SuggestedCategory {
	if c, ok := s.findSuggested(name); ok {
		return c
	}
	c := domain.NewSuggestedCategory(name)
	s.suggested[name] = c
	s.suggestedOrder = append(s.suggestedOrder, name)
	return c
}

// VoteSkipCategory adds a skip vote and skips the category as soon as the vote
// reaches quorum and enough questions were played.
func (s *Session) VoteSkipCategory(playerName string) Outcome {
	if !s.hasActiveQuestion() {
		return Outcome{}
	}
	p, ok := s.Player(playerName)
	if !ok {
		return Outcome{}
	}
	if _, voted := s.skipVotes[p.Name]; voted {
		return Outcome{}
	}
	s.skipVotes[p.Name] = struct{}{}

	if len(s.skipVotes) >= s.votesNeeded() && s.canSkipYet() {
		s.advanceCategory()
	}
	return changed()
}

// RemoveSkipVote withdraws a skip vote. It never triggers a skip.
func (s *Session) RemoveSkipVote(playerName string) Outcome {
	p, ok := s.Player(playerName)
	if !ok {
		return Outcome{}
	}
	if _, voted := s.skipVotes[p.Name]; !voted {
		return Outcome{}
	}
	delete(s.skipVotes, p.Name)
	return changed()
}

// votesNeeded is a strict majority of connected players.
func (s *Session) votesNeeded() int {
	return s.connectedPlayers()/2 + 1
}

// mandatoryQuestions is how many questions of the current category must be played
// before it can be skipped: suggesters minus two, between 1 and MaxMandatoryQuestions.
func (s *Session) mandatoryQuestions() int {
	c, ok := s.currentCategory()
	if !ok {
		return 0
	}
	return MandatoryQuestions(len(c.Suggesters))
}

// MandatoryQuestions maps a suggester count to the minimum questions played before a skip.
func MandatoryQuestions(suggesters int) int {
	n := suggesters - 2
	if n > domain.MaxMandatoryQuestions {
		n = domain.MaxMandatoryQuestions
	}
	if n < 1 {
		n = 1
	}
	return n
}

func (s *Session) questionsAnswered() int {
	if !s.hasActiveQuestion() {
		return 0
	}
	return s.questionIndex + 1
}

func (s *Session) canSkipYet() bool {
	if !s.hasActiveQuestion() {
		return false
	}
	return s.questionsAnswered() >= s.mandatoryQuestions()
}
