package service

import (
	"GoOss/config"
	"GoOss/internal/repo"
	"GoOss/model"
	"GoOss/utils"
	"os"
	"path/filepath"
	"testing"
)

var testDBReady bool

// ensureConfig loads config without clobbering values a test already tuned.
func ensureConfig() {
	if config.AppConfig.HashBufferSize == 0 {
		config.InitConfig()
	}
}

// setupTestEnv connects to the test database, skipping the test when MySQL is
// unreachable, and returns a service bundle with a private storage root.
func setupTestEnv(t *testing.T) *Svc {
	t.Helper()
	ensureConfig()
	if !testDBReady {
		if err := repo.InitMysqlTest(); err != nil {
			t.Skipf("mysql unavailable, skipping: %v", err)
		}
		testDBReady = true
	}
	config.AppConfig.StorageRoot = t.TempDir()
	cleanTables(t)
	return New(repo.Db, utils.NextID, &config.AppConfig)
}

func cleanTables(t *testing.T) {
	t.Helper()
	repo.Db.Exec("SET FOREIGN_KEY_CHECKS = 0")
	for _, table := range []string{"oss_obj_ref", "oss_obj", "oss_bucket"} {
		if err := repo.Db.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("clean %s failed: %v", table, err)
		}
	}
	repo.Db.Exec("SET FOREIGN_KEY_CHECKS = 1")
}

func writeTempUpload(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "staged-upload")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func mustCreateBucket(t *testing.T, svc *Svc, name string) *model.Bucket {
	t.Helper()
	bucket, err := svc.CreateBucket(name, "", 1)
	if err != nil {
		t.Fatalf("create bucket %s failed: %v", name, err)
	}
	return bucket
}

func mustUpload(t *testing.T, svc *Svc, bucketName, fileName string, content []byte) *model.ObjRef {
	t.Helper()
	view, err := svc.Upload(UploadInput{
		BucketName:    bucketName,
		FileName:      fileName,
		TempPath:      writeTempUpload(t, content),
		CurrentUserID: 1,
	})
	if err != nil {
		t.Fatalf("upload %s to %s failed: %v", fileName, bucketName, err)
	}
	return view
}

func countObjs(t *testing.T) int64 {
	t.Helper()
	var n int64
	if err := repo.Db.Model(&model.Obj{}).Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	return n
}

func countObjRefs(t *testing.T) int64 {
	t.Helper()
	var n int64
	if err := repo.Db.Model(&model.ObjRef{}).Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	return n
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
