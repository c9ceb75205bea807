package service

import (
	"GoOss/internal/repo"
	"GoOss/model"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"
)

// CreateBucket creates a named bucket. Names are unique; a collision surfaces
// as a DuplicateKeyError.
func (s *Svc) CreateBucket(name, remark string, currentUserID uint64) (*model.Bucket, error) {
	bucket := model.Bucket{
		ID:        s.nextID(),
		Name:      name,
		Remark:    remark,
		CreatorID: currentUserID,
		UpdatorID: currentUserID,
	}
	if err := s.db.Create(&bucket).Error; err != nil {
		return nil, repo.ClassifyError(err)
	}
	return &bucket, nil
}

// GetBucketByID finds a bucket by id.
func (s *Svc) GetBucketByID(id uint64) (*model.Bucket, error) {
	return getBucketByID(s.db, id)
}

func getBucketByID(db *gorm.DB, id uint64) (*model.Bucket, error) {
	var bucket model.Bucket
	if err := db.First(&bucket, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("bucket <%d>: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &bucket, nil
}

// GetBucketByName finds a bucket by its unique name.
func (s *Svc) GetBucketByName(name string) (*model.Bucket, error) {
	return getBucketByName(s.db, name)
}

func getBucketByName(db *gorm.DB, name string) (*model.Bucket, error) {
	var bucket model.Bucket
	if err := db.Where("name = ?", name).First(&bucket).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("bucket <%s>: %w", name, ErrNotFound)
		}
		return nil, err
	}
	return &bucket, nil
}

// ListBuckets returns all buckets.
func (s *Svc) ListBuckets() ([]model.Bucket, error) {
	var buckets []model.Bucket
	if err := s.db.Order("create_timestamp asc").Find(&buckets).Error; err != nil {
		return nil, err
	}
	return buckets, nil
}

// ModifyBucket updates a bucket's name and remark.
func (s *Svc) ModifyBucket(id uint64, name, remark string, currentUserID uint64) (*model.Bucket, error) {
	bucket, err := getBucketByID(s.db, id)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{
		"remark":     remark,
		"updator_id": currentUserID,
	}
	if name != "" {
		updates["name"] = name
	}
	if err := s.db.Model(bucket).Updates(updates).Error; err != nil {
		return nil, repo.ClassifyError(err)
	}
	return getBucketByID(s.db, id)
}

// DeleteBucket deletes an empty bucket. Remaining references make the foreign
// key fail the delete.
func (s *Svc) DeleteBucket(id, currentUserID uint64) (*model.Bucket, error) {
	bucket, err := getBucketByID(s.db, id)
	if err != nil {
		return nil, err
	}
	log.Printf("user <%d> deleting bucket %d (%s)", currentUserID, bucket.ID, bucket.Name)
	if err := s.db.Delete(&model.Bucket{}, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return bucket, nil
}

// DeleteBucketCascade removes a bucket together with all its references, then
// sweeps any objects those references left orphaned. Objects still referenced
// from other buckets survive.
func (s *Svc) DeleteBucketCascade(id, currentUserID uint64) (*model.Bucket, error) {
	bucket, err := getBucketByID(s.db, id)
	if err != nil {
		return nil, err
	}
	if err := s.DeleteObjRefsByBucket(id, currentUserID); err != nil {
		return nil, err
	}
	if _, err := s.DeleteOrphanObjs(currentUserID); err != nil {
		return nil, err
	}
	log.Printf("user <%d> deleting bucket %d (%s) after cascade", currentUserID, bucket.ID, bucket.Name)
	if err := s.db.Delete(&model.Bucket{}, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return bucket, nil
}
