// Package game runs quiz games: it loads an adaptive question set, scores
// answers against a per-question timer and writes the result back to the
// learner's progress, coins and achievements.
//
// A Session is not safe for concurrent use. The blocking step, question
// generation, is split out as Pending.Fetch so a UI can run it off its
// event loop and hand the result back with Begin.
package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/odysseyquest/odyssey/internal/content"
	"github.com/odysseyquest/odyssey/internal/learner"
	"github.com/odysseyquest/odyssey/internal/rewards"
)

var (
	ErrUnknownGame = errors.New("unknown game")
	ErrComingSoon  = errors.New("game coming soon")
	ErrNotPlaying  = errors.New("no game in progress")
	ErrNoMatch     = errors.New("answer not recognised")
)

// State is the session lifecycle.
type State string

const (
	StateIdle     State = "idle"
	StateLoading  State = "loading"
	StatePlaying  State = "playing"
	StateFinished State = "finished"
)

// Defaults.
const (
	DefaultQuestionCount = 7
	DefaultPrior         = 0.5
)

// Progress is the learner state a session reads and writes.
// *learner.Service implements it.
type Progress interface {
	SubjectProgress(ctx context.Context, subject string) (learner.SubjectProgress, bool, error)
	RecordProgress(ctx context.Context, partial map[string]learner.SubjectUpdate) (learner.Progress, error)
	RecordStudySession(ctx context.Context, subject string, durationSec int, score float64) (learner.Progress, error)
}

var _ Progress = (*learner.Service)(nil)

// Speaker receives spoken feedback. *speech.Voice implements it.
type Speaker interface {
	Speak(text string)
}

// Listener captures one spoken answer. *speech.Voice implements it.
type Listener interface {
	ListenOnce(ctx context.Context) (string, error)
}

// Options configures a Session.
type Options struct {
	QuestionCount int
	DefaultPrior  float64
	Speaker       Speaker
	Listener      Listener
	Logger        *zap.Logger
	Clock         func() time.Time
}

// Feedback describes how one answer was scored.
type Feedback struct {
	QuestionID    string
	Chosen        int // -1 for a timeout
	Correct       bool
	TimedOut      bool
	CorrectOption string
	Explanation   string
	Streak        int
}

// Result is the summary of a finished game.
type Result struct {
	Game       Game
	Score      int
	Total      int
	FinalScore float64
	BestStreak int
	Difficulty int
	Duration   time.Duration
	Outcome    rewards.Outcome
}

// Snapshot is a read-only view for presentation.
type Snapshot struct {
	State      State
	Game       *Game
	Question   *content.Question
	Index      int
	Total      int
	Score      int
	Streak     int
	TimeLeft   int // seconds; zero when the game has no timer
	Difficulty int
	Err        error
	Feedback   *Feedback
	Result     *Result
}

// Session is one learner's game loop.
type Session struct {
	catalog  *Catalog
	gen      content.Generator
	progress Progress
	rewards  *rewards.Service
	speaker  Speaker
	listener Listener
	log      *zap.Logger
	now      func() time.Time
	count    int
	prior    float64

	grade      int
	state      State
	game       *Game
	pending    *Pending
	questions  []content.Question
	difficulty int
	index      int
	score      int
	streak     int
	bestStreak int
	timeLeft   int
	startedAt  time.Time
	err        error
	feedback   *Feedback
	result     *Result
}

// NewSession creates an idle session.
func NewSession(catalog *Catalog, gen content.Generator, progress Progress, rw *rewards.Service, opts Options) *Session {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if opts.QuestionCount <= 0 {
		opts.QuestionCount = DefaultQuestionCount
	}
	if opts.DefaultPrior <= 0 || opts.DefaultPrior > 1 {
		opts.DefaultPrior = DefaultPrior
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Session{
		catalog:  catalog,
		gen:      gen,
		progress: progress,
		rewards:  rw,
		speaker:  opts.Speaker,
		listener: opts.Listener,
		log:      opts.Logger.Named("game"),
		now:      opts.Clock,
		count:    opts.QuestionCount,
		prior:    opts.DefaultPrior,
		state:    StateIdle,
	}
}

// SetGrade sets the learner grade used for base difficulty. Zero means
// unknown.
func (s *Session) SetGrade(grade int) { s.grade = grade }

// Catalog returns the session's catalog.
func (s *Session) Catalog() *Catalog { return s.catalog }

func (s *Session) speak(text string) {
	if s.speaker != nil {
		s.speaker.Speak(text)
	}
}

// Pending is a question request waiting to be fetched.
type Pending struct {
	Game    Game
	Request content.QuestionRequest
}

// Fetch generates the questions. It does not touch the session and may run
// on any goroutine.
func (p *Pending) Fetch(ctx context.Context, gen content.Generator) ([]content.Question, error) {
	return gen.GenerateQuestions(ctx, p.Request)
}

// Prepare moves the session to loading and returns the request to fetch.
// Coming-soon games speak a notice and leave the session idle.
func (s *Session) Prepare(ctx context.Context, gameID string) (*Pending, error) {
	g, ok := s.catalog.Get(gameID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGame, gameID)
	}
	if g.ComingSoon {
		s.speak(msgComingSoon)
		return nil, fmt.Errorf("%w: %s", ErrComingSoon, g.Title)
	}

	prior := s.prior
	sp, found, err := s.progress.SubjectProgress(ctx, string(g.Subject))
	switch {
	case err != nil:
		s.log.Warn("read prior performance", zap.String("subject", string(g.Subject)), zap.Error(err))
	case found:
		prior = sp.Performance
	}

	p := &Pending{
		Game: g,
		Request: content.QuestionRequest{
			Subject:          g.Subject,
			Difficulty:       g.BaseDifficulty(s.grade),
			Count:            s.count,
			PriorPerformance: prior,
		},
	}
	s.reset()
	s.state = StateLoading
	s.game = &g
	s.pending = p
	s.difficulty = content.AdjustDifficulty(p.Request.Difficulty, prior)
	return p, nil
}

// Begin applies fetched questions. Results for a superseded request are
// ignored. A fetch error or an empty set returns the session to idle with
// the error recorded; nothing is retried.
func (s *Session) Begin(p *Pending, questions []content.Question, fetchErr error) error {
	if p == nil || p != s.pending {
		return nil
	}
	s.pending = nil

	if fetchErr == nil && len(questions) == 0 {
		fetchErr = content.ErrGenerationFailed
	}
	if fetchErr != nil {
		s.log.Warn("question generation failed", zap.String("game", p.Game.ID), zap.Error(fetchErr))
		s.state = StateIdle
		s.err = fmt.Errorf("load game: %w", fetchErr)
		return s.err
	}

	s.questions = questions
	s.state = StatePlaying
	s.timeLeft = timerSeconds(p.Game)
	s.startedAt = s.now()
	s.log.Info("game started",
		zap.String("game", p.Game.ID),
		zap.Int("questions", len(questions)),
		zap.Int("difficulty", s.difficulty))
	s.speak(msgStarting(p.Game.Title))
	return nil
}

// Start is Prepare, Fetch and Begin in one blocking call.
func (s *Session) Start(ctx context.Context, gameID string) error {
	p, err := s.Prepare(ctx, gameID)
	if err != nil {
		return err
	}
	qs, err := p.Fetch(ctx, s.gen)
	return s.Begin(p, qs, err)
}

// Reset abandons any game and returns to idle.
func (s *Session) Reset() {
	s.reset()
	s.state = StateIdle
}

func (s *Session) reset() {
	s.game = nil
	s.pending = nil
	s.questions = nil
	s.difficulty = 0
	s.index = 0
	s.score = 0
	s.streak = 0
	s.bestStreak = 0
	s.timeLeft = 0
	s.err = nil
	s.feedback = nil
	s.result = nil
}

func timerSeconds(g Game) int {
	return int(g.TimeLimit / time.Second)
}

func (s *Session) current() *content.Question {
	if s.state != StatePlaying || s.index >= len(s.questions) {
		return nil
	}
	return &s.questions[s.index]
}

// Answer scores option index for the current question and advances. The
// returned error reports a failure to persist the result of the final
// question; the session is finished regardless.
func (s *Session) Answer(ctx context.Context, index int) (*Feedback, error) {
	return s.answer(ctx, index, false)
}

func (s *Session) answer(ctx context.Context, index int, timedOut bool) (*Feedback, error) {
	q := s.current()
	if q == nil {
		return nil, ErrNotPlaying
	}

	fb := &Feedback{
		QuestionID:    q.ID,
		Chosen:        index,
		Correct:       q.IsCorrect(index),
		TimedOut:      timedOut,
		CorrectOption: q.CorrectOption(),
		Explanation:   q.Explanation,
	}
	if fb.Correct {
		s.score++
		s.streak++
		s.bestStreak = max(s.bestStreak, s.streak)
		if s.streak >= streakCallout {
			s.speak(msgStreak(s.streak))
		} else {
			s.speak(msgCorrect)
		}
	} else {
		s.streak = 0
		s.speak(msgIncorrect(fb.CorrectOption))
	}
	fb.Streak = s.streak
	s.feedback = fb

	s.index++
	if s.index < len(s.questions) {
		s.timeLeft = timerSeconds(*s.game)
		return fb, nil
	}
	return fb, s.finish(ctx)
}

// Tick counts down one second. When the timer runs out the question is
// answered with -1, which is always wrong.
func (s *Session) Tick(ctx context.Context) (*Feedback, error) {
	if s.state != StatePlaying || s.game.TimeLimit <= 0 {
		return nil, nil
	}
	s.timeLeft--
	if s.timeLeft > 0 {
		return nil, nil
	}
	return s.answer(ctx, -1, true)
}

// VoiceAnswer listens once and applies the transcript.
func (s *Session) VoiceAnswer(ctx context.Context) (*Feedback, error) {
	q := s.current()
	if q == nil {
		return nil, ErrNotPlaying
	}
	if s.listener == nil {
		return s.ApplyTranscript(ctx, q.ID, "", errors.New("no listener configured"))
	}
	text, err := s.listener.ListenOnce(ctx)
	return s.ApplyTranscript(ctx, q.ID, text, err)
}

// ApplyTranscript answers question questionID from a transcript or a
// listen failure. Failures and unmatched transcripts leave the question
// open for manual input. A transcript for a question that is no longer
// current is dropped.
func (s *Session) ApplyTranscript(ctx context.Context, questionID, transcript string, listenErr error) (*Feedback, error) {
	q := s.current()
	if q == nil {
		return nil, ErrNotPlaying
	}
	if q.ID != questionID {
		return nil, nil
	}
	if listenErr != nil {
		s.log.Debug("voice answer failed", zap.Error(listenErr))
		s.speak(msgVoiceFailed)
		return nil, listenErr
	}
	idx, ok := MatchTranscript(transcript, q.Options)
	if !ok {
		s.speak(msgNoMatch)
		return nil, fmt.Errorf("%w: %q", ErrNoMatch, transcript)
	}
	return s.Answer(ctx, idx)
}

// finish scores the game and persists progress, a study session, coins and
// achievements. Every step is attempted; the first error is returned.
func (s *Session) finish(ctx context.Context) error {
	total := len(s.questions)
	fs := float64(s.score) / float64(total)
	now := s.now()
	g := *s.game
	subject := string(g.Subject)

	res := &Result{
		Game:       g,
		Score:      s.score,
		Total:      total,
		FinalScore: fs,
		BestStreak: s.bestStreak,
		Difficulty: s.difficulty,
		Duration:   now.Sub(s.startedAt),
	}
	s.state = StateFinished
	s.result = res

	var errs []error
	prev, _, err := s.progress.SubjectProgress(ctx, subject)
	if err != nil {
		errs = append(errs, fmt.Errorf("read progress: %w", err))
	}
	_, err = s.progress.RecordProgress(ctx, map[string]learner.SubjectUpdate{
		subject: {
			Performance: learner.Ptr(fs),
			LastPlayed:  learner.Ptr(now),
			TotalGames:  learner.Ptr(prev.TotalGames + 1),
			BestScore:   learner.Ptr(max(fs, prev.BestScore)),
		},
	})
	if err != nil {
		errs = append(errs, fmt.Errorf("record progress: %w", err))
	}
	if _, err := s.progress.RecordStudySession(ctx, subject, int(res.Duration/time.Second), fs); err != nil {
		errs = append(errs, fmt.Errorf("record study session: %w", err))
	}

	if s.rewards != nil {
		out, err := s.rewards.Grant(ctx, rewards.Result{
			GameID:     g.ID,
			Score:      s.score,
			Total:      total,
			BestStreak: s.bestStreak,
		})
		res.Outcome = out
		switch {
		case errors.Is(err, learner.ErrNoUser):
			s.log.Warn("rewards skipped without a profile", zap.String("game", g.ID))
		case err != nil:
			errs = append(errs, fmt.Errorf("grant rewards: %w", err))
		}
	} else {
		res.Outcome = rewards.Evaluate(rewards.Result{GameID: g.ID, Score: s.score, Total: total, BestStreak: s.bestStreak})
	}

	s.log.Info("game finished",
		zap.String("game", g.ID),
		zap.Int("score", s.score),
		zap.Int("total", total),
		zap.Int("coins", res.Outcome.Coins))
	s.speak(msgGameOver(s.score, total, fs))

	if len(errs) > 0 {
		s.err = errs[0]
		return errs[0]
	}
	return nil
}

// Snapshot returns the current state for display.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		State:      s.state,
		Game:       s.game,
		Question:   s.current(),
		Index:      s.index,
		Total:      len(s.questions),
		Score:      s.score,
		Streak:     s.streak,
		TimeLeft:   s.timeLeft,
		Difficulty: s.difficulty,
		Err:        s.err,
		Feedback:   s.feedback,
		Result:     s.result,
	}
}
