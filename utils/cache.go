package utils

import (
	"GoOss/internal/repo"
	"GoOss/model"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Obj metadata cache. Redis only short-circuits reads; MySQL stays the source
// of truth, so every helper degrades to a miss when Redis is unavailable.

const objCacheKeyPrefix = "oss:obj"

func objCacheKey(id uint64) string {
	return fmt.Sprintf("%s:id:%d", objCacheKeyPrefix, id)
}

func objContentCacheKey(hash string, size int64) string {
	return fmt.Sprintf("%s:content:%s:%d", objCacheKeyPrefix, hash, size)
}

// SetObjToCache stores an Obj by id and indexes it by content address.
func SetObjToCache(ctx context.Context, obj *model.Obj, ttl time.Duration) error {
	if repo.Redis == nil || obj == nil {
		return nil
	}
	data, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	if err := repo.Redis.Set(ctx, objCacheKey(obj.ID), string(data), ttl).Err(); err != nil {
		return err
	}
	return repo.Redis.Set(ctx, objContentCacheKey(obj.Hash, obj.Size), strconv.FormatUint(obj.ID, 10), ttl).Err()
}

// GetObjFromCache reads a cached Obj by id.
func GetObjFromCache(ctx context.Context, id uint64) (*model.Obj, bool) {
	if repo.Redis == nil {
		return nil, false
	}
	val, err := repo.Redis.Get(ctx, objCacheKey(id)).Result()
	if err != nil {
		return nil, false
	}
	var obj model.Obj
	if err := json.Unmarshal([]byte(val), &obj); err != nil {
		return nil, false
	}
	return &obj, true
}

// GetObjIDByContent reads a cached obj id by content address.
func GetObjIDByContent(ctx context.Context, hash string, size int64) (uint64, bool) {
	if repo.Redis == nil {
		return 0, false
	}
	val, err := repo.Redis.Get(ctx, objContentCacheKey(hash, size)).Result()
	if err != nil {
		return 0, false
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// InvalidateObjCache drops both entries for an Obj.
func InvalidateObjCache(ctx context.Context, obj *model.Obj) error {
	if repo.Redis == nil || obj == nil {
		return nil
	}
	return repo.Redis.Del(ctx, objCacheKey(obj.ID), objContentCacheKey(obj.Hash, obj.Size)).Err()
}

// InvalidateObjContentCache drops a stale content-address index entry.
func InvalidateObjContentCache(ctx context.Context, hash string, size int64) error {
	if repo.Redis == nil {
		return nil
	}
	return repo.Redis.Del(ctx, objContentCacheKey(hash, size)).Err()
}
