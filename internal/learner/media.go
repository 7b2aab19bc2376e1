package learner

import (
	"context"

	"go.uber.org/zap"

	"github.com/odysseyquest/odyssey/internal/store"
)

// ExpiryDays is how long cached videos and offline content are kept.
const ExpiryDays = 30

// CacheVideo stores v under videoID, stamping cachedAt.
func (s *Service) CacheVideo(ctx context.Context, videoID string, v CachedVideo) (map[string]CachedVideo, error) {
	videos, err := s.CachedVideos(ctx)
	if err != nil {
		return nil, err
	}
	v.CachedAt = s.now()
	videos[videoID] = v
	if err := s.save(ctx, store.KeyCachedVideos, videos); err != nil {
		return nil, err
	}
	return videos, nil
}

// TouchVideo stamps lastAccessed on a cached video. Unknown ids are ignored.
func (s *Service) TouchVideo(ctx context.Context, videoID string) error {
	videos, err := s.CachedVideos(ctx)
	if err != nil {
		return err
	}
	v, ok := videos[videoID]
	if !ok {
		return nil
	}
	v.LastAccessed = s.now()
	videos[videoID] = v
	return s.save(ctx, store.KeyCachedVideos, videos)
}

// CachedVideos returns cached video metadata keyed by video id.
func (s *Service) CachedVideos(ctx context.Context) (map[string]CachedVideo, error) {
	videos := make(map[string]CachedVideo)
	if err := s.load(ctx, store.KeyCachedVideos, &videos); err != nil {
		return nil, err
	}
	return videos, nil
}

func (s *Service) RemoveCachedVideo(ctx context.Context, videoID string) (map[string]CachedVideo, error) {
	videos, err := s.CachedVideos(ctx)
	if err != nil {
		return nil, err
	}
	delete(videos, videoID)
	if err := s.save(ctx, store.KeyCachedVideos, videos); err != nil {
		return nil, err
	}
	return videos, nil
}

// SaveForOffline stores c under contentID, stamping savedAt.
func (s *Service) SaveForOffline(ctx context.Context, contentID string, c OfflineContent) (map[string]OfflineContent, error) {
	content, err := s.OfflineContent(ctx)
	if err != nil {
		return nil, err
	}
	c.SavedAt = s.now()
	content[contentID] = c
	if err := s.save(ctx, store.KeyOfflineContent, content); err != nil {
		return nil, err
	}
	return content, nil
}

func (s *Service) OfflineContent(ctx context.Context) (map[string]OfflineContent, error) {
	content := make(map[string]OfflineContent)
	if err := s.load(ctx, store.KeyOfflineContent, &content); err != nil {
		return nil, err
	}
	return content, nil
}

func (s *Service) RemoveOfflineContent(ctx context.Context, contentID string) (map[string]OfflineContent, error) {
	content, err := s.OfflineContent(ctx)
	if err != nil {
		return nil, err
	}
	delete(content, contentID)
	if err := s.save(ctx, store.KeyOfflineContent, content); err != nil {
		return nil, err
	}
	return content, nil
}

// ClearExpired removes cached videos and offline content stamped before
// now minus ExpiryDays and returns how many entries were dropped.
func (s *Service) ClearExpired(ctx context.Context) (int, error) {
	cutoff := s.now().AddDate(0, 0, -ExpiryDays)

	videos, err := s.CachedVideos(ctx)
	if err != nil {
		return 0, err
	}
	content, err := s.OfflineContent(ctx)
	if err != nil {
		return 0, err
	}

	cleared := 0
	for id, v := range videos {
		if v.CachedAt.Before(cutoff) {
			delete(videos, id)
			cleared++
		}
	}
	for id, c := range content {
		if c.SavedAt.Before(cutoff) {
			delete(content, id)
			cleared++
		}
	}

	if err := s.save(ctx, store.KeyCachedVideos, videos); err != nil {
		return 0, err
	}
	if err := s.save(ctx, store.KeyOfflineContent, content); err != nil {
		return 0, err
	}

	s.log.Info("expired content swept", zap.Int("removed", cleared), zap.Time("cutoff", cutoff))
	return cleared, nil
}
