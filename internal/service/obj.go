package service

import (
	"GoOss/internal/repo"
	"GoOss/model"
	"GoOss/utils"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"gorm.io/gorm"
)

const objCacheTTL = 5 * time.Minute

// dateShardPath formats a timestamp into the storage directory shard.
func dateShardPath(format string, now time.Time) string {
	return now.Format(format)
}

// buildObjDir returns the directory a new object file belongs in.
func (s *Svc) buildObjDir(bucketName string, now time.Time) string {
	return filepath.Join(s.cfg.StorageRoot, bucketName, dateShardPath(s.cfg.DateDirFormat, now))
}

// GetObjByID finds an object, consulting the cache first.
func (s *Svc) GetObjByID(id uint64) (*model.Obj, error) {
	if cached, ok := utils.GetObjFromCache(context.Background(), id); ok {
		return cached, nil
	}
	var obj model.Obj
	if err := s.db.First(&obj, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("obj <%d>: %w", id, ErrNotFound)
		}
		return nil, err
	}
	_ = utils.SetObjToCache(context.Background(), &obj, objCacheTTL)
	return &obj, nil
}

// lookupObjByContent finds an object by its content address. The cache entry
// only short-circuits to a primary-key read; a stale entry is dropped and the
// lookup falls through to the content-address index.
func lookupObjByContent(db *gorm.DB, hash string, size int64) (*model.Obj, error) {
	ctx := context.Background()
	if id, ok := utils.GetObjIDByContent(ctx, hash, size); ok {
		var obj model.Obj
		err := db.First(&obj, "id = ?", id).Error
		if err == nil {
			return &obj, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		_ = utils.InvalidateObjContentCache(ctx, hash, size)
	}
	var obj model.Obj
	if err := db.Where("hash = ? AND size = ?", hash, size).First(&obj).Error; err != nil {
		return nil, err
	}
	_ = utils.SetObjToCache(ctx, &obj, objCacheTTL)
	return &obj, nil
}

// resolveOrCreateObj returns the object holding the given content, creating it
// if this is the first upload of that content. On creation the temp file is
// moved into its final path before the caller commits; a crash in between
// leaves an orphan file for the sweep, never a committed row without a file.
//
// Lookup-then-insert is racy: two uploads of identical content can both miss
// the lookup. The unique (hash,size) constraint picks the winner; the loser
// sees a duplicate-key failure, re-reads outside the transaction snapshot and
// reuses the winner's row. Bounded retries turn a persistent race into
// ErrDedupRetryExhausted.
func (s *Svc) resolveOrCreateObj(tx *gorm.DB, bucketName, ext, hash string, size int64, tempPath string, currentUserID uint64) (*model.Obj, bool, error) {
	lookupDB := tx
	for attempt := 0; attempt < s.cfg.DedupRetryMax; attempt++ {
		obj, err := lookupObjByContent(lookupDB, hash, size)
		if err == nil {
			return obj, false, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, err
		}

		id := s.nextID()
		name := fmt.Sprintf("%d.%s", id, ext)
		dir := s.buildObjDir(bucketName, time.Now())
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, false, err
		}
		newObj := model.Obj{
			ID:          id,
			Path:        filepath.Join(dir, name),
			Hash:        hash,
			Size:        size,
			URL:         "/oss/file/preview/" + name,
			IsCompleted: true,
			CreatorID:   currentUserID,
		}
		if err := tx.Create(&newObj).Error; err != nil {
			err = repo.ClassifyError(err)
			if repo.IsDuplicateKey(err, "hash+size") {
				// Lost the race. The winner's row is committed by another
				// session, so re-read through a fresh connection rather than
				// this transaction's snapshot.
				lookupDB = s.db
				continue
			}
			return nil, false, err
		}
		if err := moveFile(tempPath, newObj.Path); err != nil {
			return nil, false, err
		}
		// Not cached here: the row is invisible until the caller commits, and a
		// rollback must not leave a phantom entry behind.
		return &newObj, true, nil
	}
	return nil, false, fmt.Errorf("content <%s:%d>: %w", hash, size, ErrDedupRetryExhausted)
}

// moveFile renames src onto dst, falling back to copy-then-remove when the
// two paths live on different filesystems.
func moveFile(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !isCrossDeviceError(err) {
		return err
	}
	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

func isCrossDeviceError(err error) bool {
	return errors.Is(err, syscall.EXDEV)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// deleteObjWithFile removes an object row and its file as one unit. Only the
// reference manager calls this, after observing zero remaining references.
// A file that is already gone does not block deleting the row; any other
// filesystem failure rolls the row delete back.
func deleteObjWithFile(tx *gorm.DB, id, currentUserID uint64) error {
	var obj model.Obj
	if err := tx.First(&obj, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("obj <%d>: %w", id, ErrNotFound)
		}
		return err
	}

	log.Printf("user <%d> deleting obj %d at %s", currentUserID, obj.ID, obj.Path)
	if err := tx.Delete(&model.Obj{}, "id = ?", id).Error; err != nil {
		return err
	}
	if err := os.Remove(obj.Path); err != nil && !os.IsNotExist(err) {
		return err
	}
	_ = utils.InvalidateObjCache(context.Background(), &obj)
	return nil
}

// DeleteOrphanObjs removes every object with zero references, row and file
// together, one transaction per object so a single failure does not block the
// sweep. It returns the number of objects removed.
func (s *Svc) DeleteOrphanObjs(currentUserID uint64) (int, error) {
	var orphans []model.Obj
	err := s.db.
		Where("NOT EXISTS (SELECT 1 FROM oss_obj_ref WHERE oss_obj_ref.obj_id = oss_obj.id)").
		Find(&orphans).Error
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, obj := range orphans {
		objID := obj.ID
		err := s.db.Transaction(func(tx *gorm.DB) error {
			return deleteObjWithFile(tx, objID, currentUserID)
		})
		if err != nil {
			log.Printf("orphan sweep: delete obj %d failed: %v", objID, err)
			continue
		}
		removed++
	}
	return removed, nil
}
