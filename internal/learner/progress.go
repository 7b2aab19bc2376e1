package learner

import (
	"context"

	"go.uber.org/zap"

	"github.com/odysseyquest/odyssey/internal/store"
)

// Progress returns the progress document, empty when none is stored.
func (s *Service) Progress(ctx context.Context) (Progress, error) {
	var p Progress
	if err := s.load(ctx, store.KeyProgress, &p); err != nil {
		return Progress{}, err
	}
	if p.Subjects == nil {
		p.Subjects = make(map[string]SubjectProgress)
	}
	return p, nil
}

// SubjectProgress returns the entry for subject and whether it exists.
func (s *Service) SubjectProgress(ctx context.Context, subject string) (SubjectProgress, bool, error) {
	p, err := s.Progress(ctx)
	if err != nil {
		return SubjectProgress{}, false, err
	}
	sp, ok := p.Subjects[subject]
	return sp, ok, nil
}

// RecordProgress merges partial into the stored progress field by field,
// recomputes the overall performance and persists the whole document.
// Updates addressed to the overall entry are ignored.
func (s *Service) RecordProgress(ctx context.Context, partial map[string]SubjectUpdate) (Progress, error) {
	p, err := s.Progress(ctx)
	if err != nil {
		return Progress{}, err
	}

	for subject, u := range partial {
		if subject == OverallKey {
			s.log.Warn("ignoring write to overall progress")
			continue
		}
		p.Subjects[subject] = u.apply(p.Subjects[subject])
	}

	p.Overall = computeOverall(p.Subjects, s.now())

	if err := s.save(ctx, store.KeyProgress, p); err != nil {
		return Progress{}, err
	}
	return p, nil
}

// RecordStudySession appends a session to subject, accumulates total time
// and recomputes the average session score.
func (s *Service) RecordStudySession(ctx context.Context, subject string, durationSec int, score float64) (Progress, error) {
	current, _, err := s.SubjectProgress(ctx, subject)
	if err != nil {
		return Progress{}, err
	}

	sessions := append(append([]StudySession(nil), current.Sessions...), StudySession{
		Subject:   subject,
		Duration:  durationSec,
		Score:     score,
		Timestamp: s.now(),
	})
	total := 0.0
	for _, ss := range sessions {
		total += ss.Score
	}

	s.log.Debug("study session",
		zap.String("subject", subject),
		zap.Int("duration_sec", durationSec),
		zap.Float64("score", score))

	return s.RecordProgress(ctx, map[string]SubjectUpdate{
		subject: {
			Sessions:     sessions,
			TotalTime:    Ptr(current.TotalTime + durationSec),
			AverageScore: Ptr(total / float64(len(sessions))),
		},
	})
}
