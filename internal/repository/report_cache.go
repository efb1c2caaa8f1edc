package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"labgrade_backend/internal/model"
	"time"

	"github.com/go-redis/redis/v8"
)

// ReportCache 学生报告缓存，评分或学生信息变更时失效
type ReportCache struct {
	Redis *redis.Client
	TTL   time.Duration
}

func NewReportCache(rdb *redis.Client, ttl time.Duration) *ReportCache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &ReportCache{Redis: rdb, TTL: ttl}
}

const reportKeyPattern = "report:student:*"

func reportKey(studentID uint) string {
	return fmt.Sprintf("report:student:%d", studentID)
}

func (c *ReportCache) Get(ctx context.Context, studentID uint) (*model.StudentReport, bool, error) {
	val, err := c.Redis.Get(ctx, reportKey(studentID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var report model.StudentReport
	if err := json.Unmarshal(val, &report); err != nil {
		// 缓存内容损坏，按未命中处理
		c.Redis.Del(ctx, reportKey(studentID))
		return nil, false, nil
	}
	return &report, true, nil
}

func (c *ReportCache) Set(ctx context.Context, report *model.StudentReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return c.Redis.Set(ctx, reportKey(report.Student.ID), data, c.TTL).Err()
}

func (c *ReportCache) Invalidate(ctx context.Context, studentID uint) error {
	return c.Redis.Del(ctx, reportKey(studentID)).Err()
}

// InvalidateAll 清除全部学生报告，科目参考列表变化时使用
func (c *ReportCache) InvalidateAll(ctx context.Context) error {
	iter := c.Redis.Scan(ctx, 0, reportKeyPattern, 100).Iterator()
	keys := make([]string, 0, 100)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == cap(keys) {
			if err := c.Redis.Del(ctx, keys...).Err(); err != nil {
				return err
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) > 0 {
		return c.Redis.Del(ctx, keys...).Err()
	}
	return nil
}
