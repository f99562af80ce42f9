package domain

import "encoding/json"

// Inbound actions (client -> server).
const (
	ActionPlayerJoin          = "playerJoin"
	ActionSuggestCategory     = "suggestCategory"
	ActionAddQuestion         = "addQuestion"
	ActionStartCategoryVoting = "startCategoryVoting"
	ActionStartQuiz           = "startQuiz"
	ActionSubmitAnswer        = "submitAnswer"
	ActionPlaceBet            = "placeBet"
	ActionVoteSkipCategory    = "voteSkipCategory"
	ActionRemoveSkipVote      = "removeSkipVote"
	ActionNextQuestion        = "nextQuestion"
	ActionPrevQuestion        = "prevQuestion"
	ActionNextCategory        = "nextCategory"
	ActionToggleAnswer        = "toggleAnswer"
	ActionUpdateScore         = "updateScore"
	ActionAwardPoints         = "awardPoints"
	ActionDeductBetPoints     = "deductBetPoints"
	ActionResetQuiz           = "resetQuiz"
	ActionRefreshQuestions    = "refreshQuestions"
)

// Outbound events (server -> clients).
const (
	EventGameState        = "gameState"
	EventPlayerUpdate     = "playerUpdate"
	EventCategoryVotes    = "categoryVotesUpdate"
	EventSkipVoteUpdate   = "skipVoteUpdate"
	EventCategoryApproved = "categoryApproved"
	EventNameUpdated      = "nameUpdated"
	EventAnswerSubmitted  = "answerSubmitted"
	EventBetPlaced        = "betPlaced"
	EventError            = "error"
)

// Inbound is a client action with its raw payload.
type Inbound struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Message is an outbound event. A non-empty Recipient makes it unicast.
type Message struct {
	Type      string `json:"type"`
	Payload   any    `json:"payload"`
	Recipient string `json:"-"`
}

// Broadcast builds a message for every subscriber.
func Broadcast(typ string, payload any) Message {
	return Message{Type: typ, Payload: payload}
}

// Unicast builds a message for a single client.
func Unicast(clientID, typ string, payload any) Message {
	return Message{Type: typ, Payload: payload, Recipient: clientID}
}

type PlayerJoinPayload struct {
	Name string `json:"name"`
}

type SuggestCategoryPayload struct {
	PlayerName   string `json:"playerName"`
	CategoryName string `json:"categoryName"`
}

// AddQuestionPayload carries an admin-entered question. Fields beyond question and
// answer are optional and defaulted.
type AddQuestionPayload struct {
	CategoryName    string   `json:"categoryName"`
	Question        string   `json:"question"`
	Answer          string   `json:"answer"`
	Type            string   `json:"type,omitempty"`
	Options         []string `json:"options,omitempty"`
	Tolerance       float64  `json:"tolerance,omitempty"`
	Song            string   `json:"song,omitempty"`
	Artist          string   `json:"artist,omitempty"`
	ClipTitle       string   `json:"clipTitle,omitempty"`
	ClipSource      string   `json:"clipSource,omitempty"`
	ImageURL        string   `json:"imageUrl,omitempty"`
	ImageCredit     string   `json:"imageCredit,omitempty"`
	YouTubeID       string   `json:"youtubeId,omitempty"`
	PlaySeconds     int      `json:"playSeconds,omitempty"`
	Difficulty      int      `json:"difficulty,omitempty"`
	AcceptedAnswers []string `json:"acceptedAnswers,omitempty"`
}

// ToQuestion builds a defaulted question record.
func (p AddQuestionPayload) ToQuestion() Question {
	return Question{
		Type:            QuestionType(p.Type),
		Question:        p.Question,
		Answer:          AnswerText(p.Answer),
		Options:         p.Options,
		Tolerance:       p.Tolerance,
		Song:            p.Song,
		Artist:          p.Artist,
		ClipTitle:       p.ClipTitle,
		ClipSource:      p.ClipSource,
		ImageURL:        p.ImageURL,
		ImageCredit:     p.ImageCredit,
		YouTubeID:       p.YouTubeID,
		PlaySeconds:     p.PlaySeconds,
		Difficulty:      p.Difficulty,
		AcceptedAnswers: p.AcceptedAnswers,
	}.WithDefaults()
}

type SubmitAnswerPayload struct {
	PlayerName string `json:"playerName"`
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
}

type PlayerPayload struct {
	PlayerName string `json:"playerName"`
}

type UpdateScorePayload struct {
	PlayerName string `json:"playerName"`
	Score      int    `json:"score"`
}

type PointsPayload struct {
	PlayerName string `json:"playerName"`
	Points     int    `json:"points"`
	QuestionID string `json:"questionId"`
}

// GameState is the client-safe view of the session. The answer and reveal-only
// fields are present only while the answer is shown.
type GameState struct {
	Phase                Phase         `json:"phase"`
	QuizStarted          bool          `json:"quizStarted"`
	CurrentCategoryIndex int           `json:"currentCategoryIndex"`
	CurrentQuestionIndex int           `json:"currentQuestionIndex"`
	ShowAnswer           bool          `json:"showAnswer"`
	TotalCategories      int           `json:"totalCategories"`
	Categories           []string      `json:"categories"`
	CurrentCategory      *CategoryView `json:"currentCategory"`
	CurrentQuestion      *QuestionView `json:"currentQuestion"`
	CorrectPlayers       []string      `json:"correctPlayers"`
	PlayerCount          int           `json:"playerCount"`
}

// CategoryView describes the active category.
type CategoryView struct {
	Name          string   `json:"name"`
	Suggesters    []string `json:"suggesters"`
	QuestionCount int      `json:"questionCount"`
}

// QuestionView exposes only the fields relevant to the question type.
type QuestionView struct {
	ID              string       `json:"id"`
	Type            QuestionType `json:"type"`
	Question        string       `json:"question"`
	Number          int          `json:"number"`
	Difficulty      int          `json:"difficulty"`
	Options         []string     `json:"options,omitempty"`
	Tolerance       float64      `json:"tolerance,omitempty"`
	YouTubeID       string       `json:"youtubeId,omitempty"`
	PlaySeconds     int          `json:"playSeconds,omitempty"`
	ImageURL        string       `json:"imageUrl,omitempty"`
	Answer          string       `json:"answer,omitempty"`
	AcceptedAnswers []string     `json:"acceptedAnswers,omitempty"`
	Song            string       `json:"song,omitempty"`
	Artist          string       `json:"artist,omitempty"`
	ClipTitle       string       `json:"clipTitle,omitempty"`
	ClipSource      string       `json:"clipSource,omitempty"`
	ImageCredit     string       `json:"imageCredit,omitempty"`
}

// PlayerView is a leaderboard row.
type PlayerView struct {
	Name      string `json:"name"`
	Score     int    `json:"score"`
	Connected bool   `json:"connected"`
	Answered  bool   `json:"answered"`
	HasBet    bool   `json:"hasBet"`
}

// CategoryVote summarizes one suggested category.
type CategoryVote struct {
	Name          string   `json:"name"`
	Votes         int      `json:"votes"`
	Suggesters    []string `json:"suggesters"`
	Approved      bool     `json:"approved"`
	QuestionCount int      `json:"questionCount"`
}

// SkipVoteStatus reports progress toward skipping the current category.
type SkipVoteStatus struct {
	Votes              int      `json:"votes"`
	VotesNeeded        int      `json:"votesNeeded"`
	PlayerCount        int      `json:"playerCount"`
	MandatoryQuestions int      `json:"mandatoryQuestions"`
	QuestionsAnswered  int      `json:"questionsAnswered"`
	CanSkipYet         bool     `json:"canSkipYet"`
	Voters             []string `json:"voters"`
}

type NameUpdatedPayload struct {
	Name string `json:"name"`
}

type CategoryApprovedPayload struct {
	CategoryName string `json:"categoryName"`
}

type AnswerSubmittedPayload struct {
	PlayerName string `json:"playerName"`
	QuestionID string `json:"questionId"`
}

type BetPlacedPayload struct {
	PlayerName string `json:"playerName"`
	QuestionID string `json:"questionId"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
