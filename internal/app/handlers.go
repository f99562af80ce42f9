package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"

	"pubquiz-service/internal/domain"
)

func (s *QuizService) routes() map[string]handlerFunc {
	return map[string]handlerFunc{
		domain.ActionPlayerJoin: withPayload(func(_ context.Context, clientID string, p domain.PlayerJoinPayload) (Outcome, error) {
			return s.session.Join(clientID, p.Name), nil
		}),
		domain.ActionSuggestCategory: withPayload(func(_ context.Context, _ string, p domain.SuggestCategoryPayload) (Outcome, error) {
			return s.session.SuggestCategory(p.PlayerName, p.CategoryName), nil
		}),
		domain.ActionAddQuestion: withPayload(func(_ context.Context, _ string, p domain.AddQuestionPayload) (Outcome, error) {
			return s.session.AddQuestion(p.CategoryName, p.ToQuestion()), nil
		}),
		domain.ActionStartCategoryVoting: func(context.Context, string, json.RawMessage) (Outcome, error) {
			return s.session.StartVoting(), nil
		},
		domain.ActionStartQuiz: func(ctx context.Context, _ string, _ json.RawMessage) (Outcome, error) {
			return s.session.StartQuiz(bankLookup(ctx, s.bank))
		},
		domain.ActionSubmitAnswer: withPayload(func(_ context.Context, _ string, p domain.SubmitAnswerPayload) (Outcome, error) {
			return s.session.SubmitAnswer(p.PlayerName, p.QuestionID, p.Answer), nil
		}),
		domain.ActionPlaceBet: withPayload(func(_ context.Context, clientID string, p domain.PlayerPayload) (Outcome, error) {
			return s.session.PlaceBet(clientID, p.PlayerName), nil
		}),
		domain.ActionVoteSkipCategory: withPayload(func(_ context.Context, _ string, p domain.PlayerPayload) (Outcome, error) {
			return s.session.VoteSkipCategory(p.PlayerName), nil
		}),
		domain.ActionRemoveSkipVote: withPayload(func(_ context.Context, _ string, p domain.PlayerPayload) (Outcome, error) {
			return s.session.RemoveSkipVote(p.PlayerName), nil
		}),
		domain.ActionNextQuestion: func(context.Context, string, json.RawMessage) (Outcome, error) {
			return s.session.NextQuestion(), nil
		},
		domain.ActionPrevQuestion: func(context.Context, string, json.RawMessage) (Outcome, error) {
			return s.session.PrevQuestion(), nil
		},
		domain.ActionNextCategory: func(context.Context, string, json.RawMessage) (Outcome, error) {
			return s.session.NextCategory(), nil
		},
		domain.ActionToggleAnswer: func(context.Context, string, json.RawMessage) (Outcome, error) {
			return s.session.ToggleAnswer(), nil
		},
		domain.ActionUpdateScore: withPayload(func(_ context.Context, _ string, p domain.UpdateScorePayload) (Outcome, error) {
			return s.session.UpdateScore(p.PlayerName, p.Score), nil
		}),
		domain.ActionAwardPoints: withPayload(func(_ context.Context, _ string, p domain.PointsPayload) (Outcome, error) {
			return s.session.AwardPoints(p.PlayerName, p.Points, p.QuestionID), nil
		}),
		domain.ActionDeductBetPoints: withPayload(func(_ context.Context, _ string, p domain.PointsPayload) (Outcome, error) {
			return s.session.DeductBetPoints(p.PlayerName, p.Points, p.QuestionID), nil
		}),
		domain.ActionResetQuiz: func(context.Context, string, json.RawMessage) (Outcome, error) {
			return s.session.Reset(), nil
		},
		domain.ActionRefreshQuestions: func(ctx context.Context, _ string, _ json.RawMessage) (Outcome, error) {
			if s.bank == nil {
				return Outcome{}, nil
			}
			s.bank.Invalidate(ctx)
			log.Printf("question bank refreshed: %d categories", len(loadBank(ctx, s.bank)))
			return changed(), nil
		},
	}
}

// withPayload decodes the raw payload into T before calling fn. A missing payload
// decodes to the zero value.
func withPayload[T any](fn func(ctx context.Context, clientID string, payload T) (Outcome, error)) handlerFunc {
	return func(ctx context.Context, clientID string, raw json.RawMessage) (Outcome, error) {
		var payload T
		if len(bytes.TrimSpace(raw)) > 0 {
			if err := json.Unmarshal(raw, &payload); err != nil {
				return Outcome{}, fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
			}
		}
		return fn(ctx, clientID, payload)
	}
}
