package service

import (
	"GoOss/internal/repo"
	"GoOss/model"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"
)

// createObjRef inserts a named binding of a bucket onto an object. Display
// names are intentionally not unique; independent references may share one.
func (s *Svc) createObjRef(tx *gorm.DB, bucketID, objID uint64, name, ext string, currentUserID uint64) (*model.ObjRef, error) {
	ref := model.ObjRef{
		ID:        s.nextID(),
		ObjID:     objID,
		BucketID:  bucketID,
		Name:      name,
		Ext:       ext,
		CreatorID: currentUserID,
	}
	if err := tx.Create(&ref).Error; err != nil {
		return nil, repo.ClassifyError(err)
	}
	return &ref, nil
}

// GetObjRefView loads a reference together with its bucket and object in one
// composite read. Any missing leg is NotFound.
func (s *Svc) GetObjRefView(id uint64) (*model.ObjRef, error) {
	return getObjRefView(s.db, id)
}

func getObjRefView(db *gorm.DB, id uint64) (*model.ObjRef, error) {
	var ref model.ObjRef
	err := db.Preload("Bucket").Preload("Obj").First(&ref, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("obj ref <%d>: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if ref.Bucket.ID == 0 || ref.Obj.ID == 0 {
		return nil, fmt.Errorf("obj ref <%d>: %w", id, ErrNotFound)
	}
	return &ref, nil
}

// DeleteObjRef deletes a reference. When it was the last reference to its
// object, the object row and file go with it in the same transaction.
func (s *Svc) DeleteObjRef(id, currentUserID uint64) (*model.ObjRef, error) {
	var view *model.ObjRef
	err := s.db.Transaction(func(tx *gorm.DB) error {
		ref, err := getObjRefView(tx, id)
		if err != nil {
			return err
		}
		log.Printf("user <%d> deleting obj ref %d (%s) on obj %d", currentUserID, ref.ID, ref.Name, ref.ObjID)
		if err := tx.Delete(&model.ObjRef{}, "id = ?", id).Error; err != nil {
			return err
		}

		var remaining int64
		if err := tx.Model(&model.ObjRef{}).Where("obj_id = ?", ref.ObjID).Count(&remaining).Error; err != nil {
			return err
		}
		if remaining == 0 {
			if err := deleteObjWithFile(tx, ref.ObjID, currentUserID); err != nil {
				return err
			}
		}
		view = ref
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// DeleteObjRefsByBucket bulk-deletes every reference in a bucket. An object
// can be shared across buckets, so callers must follow up with an orphan
// sweep; only then is a now-unreferenced object actually reclaimed.
func (s *Svc) DeleteObjRefsByBucket(bucketID, currentUserID uint64) error {
	log.Printf("user <%d> deleting all obj refs in bucket %d", currentUserID, bucketID)
	return s.db.Where("bucket_id = ?", bucketID).Delete(&model.ObjRef{}).Error
}
