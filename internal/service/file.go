package service

import (
	"GoOss/model"
	"GoOss/utils"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// UploadInput carries one staged upload into the pipeline. TempPath must be a
// fully materialized file; the pipeline either moves it into storage or
// discards it.
type UploadInput struct {
	BucketName    string
	FileName      string
	DeclaredHash  string
	TempPath      string
	CurrentUserID uint64
}

// DownloadResult is one (possibly partial) read of a referenced object.
type DownloadResult struct {
	Name     string
	FileSize int64
	Length   int64
	Content  []byte
	Start    *int64
	End      *int64
}

// FileExt returns the extension of a file name without the leading dot.
func FileExt(name string) string {
	return strings.TrimPrefix(filepath.Ext(name), ".")
}

// HashFile stream-hashes a file with SHA-256 using a fixed-size buffer and
// returns the hex digest plus the byte count actually read.
func (s *Svc) HashFile(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, s.cfg.HashBufferSize)
	n, err := io.CopyBuffer(h, f, buf)
	if err != nil {
		return "", 0, err
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}

// Upload runs the whole pipeline: hash, validate, resolve bucket, then inside
// one transaction resolve-or-create the object and bind a new reference to it.
// The physical file move happens before the commit; a crash in between leaves
// an orphan file that the sweep reclaims, which is preferred over a committed
// row without a file.
func (s *Svc) Upload(in UploadInput) (*model.ObjRef, error) {
	hash, size, err := s.HashFile(in.TempPath)
	if err != nil {
		return nil, err
	}
	if in.DeclaredHash != "" && in.DeclaredHash != hash {
		return nil, newValidationError("file hash mismatch: declared %s, computed %s", in.DeclaredHash, hash)
	}

	bucket, err := getBucketByName(s.db, in.BucketName)
	if err != nil {
		return nil, err
	}

	ext := FileExt(in.FileName)
	var view *model.ObjRef
	var createdObj *model.Obj
	err = s.db.Transaction(func(tx *gorm.DB) error {
		obj, created, err := s.resolveOrCreateObj(tx, bucket.Name, ext, hash, size, in.TempPath, in.CurrentUserID)
		if err != nil {
			return err
		}
		if created {
			createdObj = obj
		}
		ref, err := s.createObjRef(tx, bucket.ID, obj.ID, in.FileName, ext, in.CurrentUserID)
		if err != nil {
			return err
		}
		if !created {
			// Content already stored; the staged copy is redundant.
			if err := os.Remove(in.TempPath); err != nil && !os.IsNotExist(err) {
				return err
			}
		}
		ref.Bucket = *bucket
		ref.Obj = *obj
		view = ref
		return nil
	})
	if err != nil {
		return nil, err
	}
	if createdObj != nil {
		// Cached only now that the row is committed.
		_ = utils.SetObjToCache(context.Background(), createdObj, objCacheTTL)
	}
	return view, nil
}

// Download reads a referenced object, optionally a byte sub-range of it. A
// requested range longer than the configured chunk size is clamped and the
// clamped end is reported back, so clients continue with further range
// requests. An extension mismatch is NotFound: it must not reveal that the
// content exists under another extension.
func (s *Svc) Download(refID uint64, ext string, start, end *int64) (*DownloadResult, error) {
	view, err := getObjRefView(s.db, refID)
	if err != nil {
		return nil, err
	}
	if view.Ext != ext {
		return nil, fmt.Errorf("obj ref <%d>: %w", refID, ErrNotFound)
	}

	f, err := os.Open(view.Obj.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	fileSize := info.Size()

	if start != nil && end == nil {
		e := fileSize - 1
		end = &e
	}

	result := &DownloadResult{
		Name:     view.Name,
		FileSize: fileSize,
		Start:    start,
		End:      end,
	}

	if start != nil && end != nil {
		if *start < 0 || *end < *start || *start >= fileSize {
			return nil, newValidationError("invalid range %d-%d", *start, *end)
		}
		if *end > fileSize-1 {
			*end = fileSize - 1
		}
		length := *end - *start + 1
		if chunk := s.cfg.DownloadChunkSize; length > chunk {
			length = chunk
			e := *start + length - 1
			*end = e
		}
		if _, err := f.Seek(*start, io.SeekStart); err != nil {
			return nil, err
		}
		content := make([]byte, length)
		if _, err := io.ReadFull(f, content); err != nil {
			return nil, err
		}
		result.Length = length
		result.Content = content
		return result, nil
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	result.Length = fileSize
	result.Content = content
	return result, nil
}

var objRefIDPattern = regexp.MustCompile(`^(\d+)\.?([a-zA-Z0-9]*)$`)

// ParseObjRefID splits a path segment like "123456.jpg" into the reference id
// and its extension. A bare "123" parses with an empty extension; anything
// else is rejected.
func ParseObjRefID(raw string) (uint64, string, error) {
	m := objRefIDPattern.FindStringSubmatch(raw)
	if m == nil {
		return 0, "", newValidationError("malformed object reference id: %s", raw)
	}
	id, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return 0, "", newValidationError("object reference id out of range: %s", raw)
	}
	return id, m[2], nil
}
