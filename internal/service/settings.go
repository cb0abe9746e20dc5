package service

import (
	"context"
	"strconv"
	"time"

	"quizmart/internal/models"
	"quizmart/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const settingCachePrefix = "setting:"

// SettingsService reads commission percentages and flat fees, with an
// optional redis cache in front of the settings table. A nil redis client
// degrades to plain DB reads.
type SettingsService struct {
	repo *repository.SettingRepository
	rdb  *redis.Client
	ttl  time.Duration
}

func NewSettingsService(repo *repository.SettingRepository, rdb *redis.Client, ttl time.Duration) *SettingsService {
	return &SettingsService{repo: repo, rdb: rdb, ttl: ttl}
}

func (s *SettingsService) Get(ctx context.Context, key string) (string, error) {
	if s.rdb != nil {
		val, err := s.rdb.Get(ctx, settingCachePrefix+key).Result()
		if err == nil {
			return val, nil
		}
		if err != redis.Nil {
			logrus.WithError(err).WithField("key", key).Warn("settings cache read failed")
		}
	}
	val, err := s.repo.Get(key)
	if err != nil {
		return "", err
	}
	if s.rdb != nil {
		if err := s.rdb.Set(ctx, settingCachePrefix+key, val, s.ttl).Err(); err != nil {
			logrus.WithError(err).WithField("key", key).Warn("settings cache write failed")
		}
	}
	return val, nil
}

func (s *SettingsService) GetInt64(ctx context.Context, key string) (int64, error) {
	val, err := s.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(val, 10, 64)
}

// Set writes through to the DB and drops the cached entry.
func (s *SettingsService) Set(ctx context.Context, key, value string) error {
	if err := s.repo.Set(key, value); err != nil {
		return err
	}
	if s.rdb != nil {
		if err := s.rdb.Del(ctx, settingCachePrefix+key).Err(); err != nil {
			logrus.WithError(err).WithField("key", key).Warn("settings cache invalidation failed")
		}
	}
	return nil
}

func (s *SettingsService) GetAll() ([]models.SystemSetting, error) {
	return s.repo.GetAll()
}
