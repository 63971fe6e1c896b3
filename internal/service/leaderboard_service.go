package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"quizleader_backend/internal/repository"
	"quizleader_backend/internal/util"
	"quizleader_backend/pkg/logger"
	"quizleader_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

type LeaderboardService struct {
	AttemptRepo *repository.QuizAttemptRepository
	Redis       *redis.Client

	mu  sync.RWMutex
	ttl time.Duration
}

func NewLeaderboardService(attemptRepo *repository.QuizAttemptRepository, rdb *redis.Client, ttl time.Duration) *LeaderboardService {
	return &LeaderboardService{
		AttemptRepo: attemptRepo,
		Redis:       rdb,
		ttl:         ttl,
	}
}

// SetCacheTTL 配置热更新回调使用；榜单允许的最大陈旧度
func (s *LeaderboardService) SetCacheTTL(ttl time.Duration) {
	s.mu.Lock()
	s.ttl = ttl
	s.mu.Unlock()
}

func (s *LeaderboardService) cacheTTL() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ttl
}

// SubjectLeaderboard 科目榜：top-10 窗口内分页。
// subjectID 0 是聚合层的全局哨兵值，不是合法科目，按无数据处理。
func (s *LeaderboardService) SubjectLeaderboard(ctx context.Context, subjectID uint, page, pageSize int) (*util.PageResponse, error) {
	if subjectID == 0 {
		return nil, util.ErrNoLeaderboardData
	}
	key := fmt.Sprintf("leaderboard:subject:%d:page:%d:size:%d", subjectID, page, pageSize)
	return s.leaderboard(ctx, key, subjectID, util.SubjectLeaderboardLimit, page, pageSize)
}

// GlobalLeaderboard 全局榜：top-25 窗口内分页
func (s *LeaderboardService) GlobalLeaderboard(ctx context.Context, page, pageSize int) (*util.PageResponse, error) {
	key := fmt.Sprintf("leaderboard:global:page:%d:size:%d", page, pageSize)
	return s.leaderboard(ctx, key, 0, util.GlobalLeaderboardLimit, page, pageSize)
}

// leaderboard 读穿缓存取完整窗口，再在窗口内切页。
// 缓存只靠TTL过期，新提交不主动失效，榜单陈旧以TTL为上界。
func (s *LeaderboardService) leaderboard(ctx context.Context, cacheKey string, subjectID uint, windowLimit, page, pageSize int) (*util.PageResponse, error) {
	window, err := s.windowFromCache(ctx, cacheKey)
	if err != nil {
		// 缓存不可用时直接回源，榜单本身可随时重算
		logger.Log.Warn("leaderboard cache read failed", zap.Error(err))
	}

	if window == nil {
		window, err = s.AttemptRepo.AggregateByUser(subjectID, windowLimit)
		if err != nil {
			return nil, err
		}
		if len(window) == 0 {
			return nil, util.ErrNoLeaderboardData
		}
		s.storeWindow(ctx, cacheKey, window)
	}

	return paginateWindow(window, windowLimit, page, pageSize)
}

func (s *LeaderboardService) windowFromCache(ctx context.Context, key string) ([]repository.LeaderboardRow, error) {
	val, err := s.Redis.Get(ctx, key).Result()
	if err == redis.Nil {
		monitoring.LeaderboardCacheHits.WithLabelValues("miss").Inc()
		return nil, nil
	}
	if err != nil {
		monitoring.LeaderboardCacheHits.WithLabelValues("error").Inc()
		return nil, err
	}

	var window []repository.LeaderboardRow
	if err := json.Unmarshal([]byte(val), &window); err != nil {
		return nil, err
	}
	monitoring.LeaderboardCacheHits.WithLabelValues("hit").Inc()
	return window, nil
}

func (s *LeaderboardService) storeWindow(ctx context.Context, key string, window []repository.LeaderboardRow) {
	payload, err := json.Marshal(window)
	if err != nil {
		return
	}
	if err := s.Redis.Set(ctx, key, payload, s.cacheTTL()).Err(); err != nil {
		logger.Log.Warn("leaderboard cache write failed", zap.Error(err))
	}
}

// paginateWindow 只在固定窗口内分页，永远不翻出 top-N 之外
func paginateWindow(window []repository.LeaderboardRow, windowLimit, page, pageSize int) (*util.PageResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > windowLimit {
		pageSize = windowLimit
	}

	start := (page - 1) * pageSize
	if start >= len(window) {
		return nil, util.ErrInvalidPage
	}
	end := start + pageSize
	if end > len(window) {
		end = len(window)
	}

	resp := &util.PageResponse{
		Count:   len(window),
		Results: window[start:end],
	}
	if end < len(window) {
		next := page + 1
		resp.Next = &next
	}
	if page > 1 {
		previous := page - 1
		resp.Previous = &previous
	}
	return resp, nil
}
