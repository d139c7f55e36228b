package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"group-points-bot/internal/imageapi"
	"group-points-bot/internal/model"
	"group-points-bot/internal/pkg/lock"
	"group-points-bot/internal/store"
)

// ImageFetcher is the external image collaborator.
type ImageFetcher interface {
	Fetch(ctx context.Context, r18 bool) (*imageapi.Image, error)
}

// ImageResult describes the outcome of an image redemption.
type ImageResult struct {
	OK      bool
	Message string
	Image   *imageapi.Image
	Cost    int64
	Balance int64
}

// ImageService exchanges points for a fetched image. Points are debited only
// after the external call returns a usable payload; every failure path leaves
// both the balance and the cooldown untouched.
type ImageService struct {
	ledger  *store.LedgerStore
	locks   *lock.UserLock
	fetcher ImageFetcher

	normalCost int64
	r18Cost    int64
	cooldown   time.Duration

	// Admission gate bounding simultaneous external fetches.
	sem *semaphore.Weighted

	mu      sync.Mutex
	lastUse map[int64]time.Time
}

// NewImageService creates an ImageService.
func NewImageService(ledger *store.LedgerStore, locks *lock.UserLock, fetcher ImageFetcher,
	normalCost, r18Cost int64, cooldown time.Duration, maxConcurrent int64) *ImageService {
	return &ImageService{
		ledger:     ledger,
		locks:      locks,
		fetcher:    fetcher,
		normalCost: normalCost,
		r18Cost:    r18Cost,
		cooldown:   cooldown,
		sem:        semaphore.NewWeighted(maxConcurrent),
		lastUse:    make(map[int64]time.Time),
	}
}

func imageName(r18 bool) string {
	if r18 {
		return "R18涩图"
	}
	return "涩图"
}

// Redeem fetches an image for the user, charging the category's cost.
func (s *ImageService) Redeem(ctx context.Context, userID int64, r18 bool, now time.Time) *ImageResult {
	cost := s.normalCost
	if r18 {
		cost = s.r18Cost
	}
	name := imageName(r18)

	if s.cooldown > 0 {
		s.mu.Lock()
		last, ok := s.lastUse[userID]
		s.mu.Unlock()
		if ok {
			if elapsed := now.Sub(last); elapsed < s.cooldown {
				remaining := s.cooldown - elapsed
				return &ImageResult{Message: fmt.Sprintf("冷却中，请等待 %.1f 秒后重试", remaining.Seconds())}
			}
		}
	}

	s.locks.Lock(userID)
	balance := s.ledger.GetOrCreate(userID).Balance
	s.locks.Unlock(userID)
	if balance < cost {
		return &ImageResult{Message: fmt.Sprintf(
			"积分不足！\n%s需要 %d 积分，当前积分：%d 分", name, cost, balance)}
	}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return &ImageResult{Message: "网络错误，积分未扣除。"}
	}
	img, err := s.fetcher.Fetch(ctx, r18)
	s.sem.Release(1)
	if err != nil {
		return &ImageResult{Message: fetchFailureMessage(err, name)}
	}

	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	acct := s.ledger.GetOrCreate(userID)
	if acct.Balance < cost {
		// Balance was spent elsewhere while the fetch was in flight.
		return &ImageResult{Message: fmt.Sprintf(
			"积分不足！\n%s需要 %d 积分，当前积分：%d 分", name, cost, acct.Balance)}
	}

	acct.Balance -= cost
	s.ledger.AppendRecord(acct, -cost, model.ActionImage, "获取"+name, 0)
	s.ledger.Save()

	if s.cooldown > 0 {
		s.mu.Lock()
		s.lastUse[userID] = now
		s.mu.Unlock()
	}

	return &ImageResult{
		OK:      true,
		Image:   img,
		Cost:    cost,
		Balance: acct.Balance,
		Message: fmt.Sprintf("%s来啦！\n标题：%s\n作者：%s\n消耗积分：%d 分\n剩余积分：%d 分",
			name, img.Title, img.Author, cost, acct.Balance),
	}
}

// LastUse returns the user's cooldown timestamp, if any.
func (s *ImageService) LastUse(userID int64) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.lastUse[userID]
	return t, ok
}

// fetchFailureMessage maps an external-call failure to a user-facing reason.
// Every branch reports that no points were charged.
func fetchFailureMessage(err error, name string) string {
	var statusErr *imageapi.StatusError
	var netErr net.Error

	switch {
	case errors.Is(err, imageapi.ErrEmptyResult):
		return fmt.Sprintf("没有找到%s，积分未扣除。", name)
	case errors.As(err, &statusErr):
		log.Error().Int("status", statusErr.Code).Msgf("获取%s时发生HTTP错误", name)
		return fmt.Sprintf("获取%s失败（HTTP %d），积分未扣除。", name, statusErr.Code)
	case errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()):
		log.Error().Err(err).Msgf("获取%s超时", name)
		return fmt.Sprintf("获取%s超时，请稍后重试，积分未扣除。", name)
	default:
		log.Error().Err(err).Msgf("获取%s时发生网络错误", name)
		return "网络错误，积分未扣除。"
	}
}
