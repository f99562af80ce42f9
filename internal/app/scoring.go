package app

import (
	"strings"

	"pubquiz-service/internal/domain"
	"pubquiz-service/internal/matcher"
)

// SubmitAnswer stores a player's answer for the active question while it is still hidden.
// Later submissions overwrite earlier ones.
func (s *Session) SubmitAnswer(playerName, questionID, answer string) Outcome {
	q, ok := s.currentQuestion()
	if !ok || s.showAnswer {
		return Outcome{}
	}
	if questionID != "" && questionID != q.ID {
		return Outcome{}
	}
	p, ok := s.Player(playerName)
	if !ok {
		return Outcome{}
	}
	p.Answers[q.ID] = answer
	return changed(domain.Broadcast(domain.EventAnswerSubmitted, domain.AnswerSubmittedPayload{
		PlayerName: p.Name,
		QuestionID: q.ID,
	}))
}

// PlaceBet places a blind bet on the question after the active one. Questions that
// were already revealed cannot be bet on.
func (s *Session) PlaceBet(clientID, playerName string) Outcome {
	next, ok := s.nextQuestion()
	if !ok {
		return Outcome{}
	}
	if _, seen := s.revealed[next.ID]; seen {
		return Outcome{}
	}
	p, ok := s.Player(playerName)
	if !ok {
		return Outcome{}
	}
	ack := domain.Unicast(clientID, domain.EventBetPlaced, domain.BetPlacedPayload{
		PlayerName: p.Name,
		QuestionID: next.ID,
	})
	if p.HasBet(next.ID) {
		return Outcome{Events: []domain.Message{ack}}
	}
	p.Bets[next.ID] = struct{}{}
	return changed(ack)
}

// scoreReveal records who answered q correctly. With award set it also gives 1 point
// per correct answer, 2 with a bet, and takes 1 point for a wrong answer backed by a
// bet. Players without an answer are skipped.
func (s *Session) scoreReveal(q domain.Question, award bool) {
	for _, name := range s.playerOrder {
		p := s.players[name]
		answer := strings.TrimSpace(p.Answers[q.ID])
		if answer == "" {
			continue
		}
		correct := matcher.CheckAnswer(answer, q)
		if correct {
			s.correctPlayers[p.Name] = struct{}{}
		}
		if !award {
			continue
		}
		bet := p.HasBet(q.ID)
		if correct {
			if bet {
				p.Score += 2
			} else {
				p.Score++
			}
			continue
		}
		if bet {
			p.Score--
		}
	}
}

// UpdateScore overrides a player's score.
func (s *Session) UpdateScore(playerName string, score int) Outcome {
	p, ok := s.Player(playerName)
	if !ok {
		return Outcome{}
	}
	p.Score = score
	return changed()
}

// AwardPoints adds points for a question, doubled when the player bet on it.
func (s *Session) AwardPoints(playerName string, points int, questionID string) Outcome {
	p, ok := s.Player(playerName)
	if !ok {
		return Outcome{}
	}
	if p.HasBet(questionID) {
		points *= 2
	}
	p.Score += points
	if q, ok := s.currentQuestion(); ok && q.ID == questionID && points > 0 {
		s.correctPlayers[p.Name] = struct{}{}
	}
	return changed()
}

// DeductBetPoints takes points from a player who bet on the question. Without a bet it does nothing.
func (s *Session) DeductBetPoints(playerName string, points int, questionID string) Outcome {
	p, ok := s.Player(playerName)
	if !ok || !p.HasBet(questionID) {
		return Outcome{}
	}
	p.Score -= points
	return changed()
}
