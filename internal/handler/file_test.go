package handler_test

import (
	"GoOss/config"
	"GoOss/internal/dto"
	"GoOss/internal/handler"
	"GoOss/internal/repo"
	"GoOss/internal/service"
	"GoOss/router"
	"GoOss/utils"
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

var (
	testEngine  *gin.Engine
	testDBReady bool
)

func setupServer(t *testing.T) *gin.Engine {
	t.Helper()
	if config.AppConfig.HashBufferSize == 0 {
		config.InitConfig()
	}
	if !testDBReady {
		if err := repo.InitMysqlTest(); err != nil {
			t.Skipf("mysql unavailable, skipping: %v", err)
		}
		testDBReady = true
	}
	config.AppConfig.StorageRoot = t.TempDir()

	repo.Db.Exec("SET FOREIGN_KEY_CHECKS = 0")
	for _, table := range []string{"oss_obj_ref", "oss_obj", "oss_bucket"} {
		if err := repo.Db.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("clean %s failed: %v", table, err)
		}
	}
	repo.Db.Exec("SET FOREIGN_KEY_CHECKS = 1")

	if testEngine == nil {
		gin.SetMode(gin.TestMode)
		svc := service.New(repo.Db, utils.NextID, &config.AppConfig)
		testEngine = router.InitRouter(handler.New(svc, &config.AppConfig))
	}
	return testEngine
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, dto.Ro) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var ro dto.Ro
	if err := json.Unmarshal(w.Body.Bytes(), &ro); err != nil {
		t.Fatalf("response is not an envelope: %v\n%s", err, w.Body.String())
	}
	return w, ro
}

// uploadFile drives the multipart endpoint and returns the "<id>.<ext>" path
// segment of the new reference.
func uploadFile(t *testing.T, r *gin.Engine, bucket, fileName string, content []byte) string {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/oss/file/upload/"+bucket, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-User-Id", "1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("upload status %d: %s", w.Code, w.Body.String())
	}
	var ro struct {
		Result dto.RoResult `json:"result"`
		Msg    string       `json:"msg"`
		Extra  struct {
			ID        string `json:"id"`
			Name      string `json:"name"`
			Ext       string `json:"ext"`
			CreatorID string `json:"creator_id"`
		} `json:"extra"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &ro); err != nil {
		t.Fatalf("bad upload response: %v\n%s", err, w.Body.String())
	}
	if ro.Result != dto.RoSuccess {
		t.Fatalf("upload result %d: %s", ro.Result, ro.Msg)
	}
	if ro.Extra.ID == "" || ro.Extra.Ext == "" {
		t.Fatalf("upload response missing reference id/ext: %s", w.Body.String())
	}
	if ro.Extra.CreatorID != "1" {
		t.Fatalf("creator_id = %q, expect the X-User-Id header value 1", ro.Extra.CreatorID)
	}
	return ro.Extra.ID + "." + ro.Extra.Ext
}

func TestUploadAndDownloadRoundTrip(t *testing.T) {
	r := setupServer(t)
	if _, ro := doJSON(t, r, http.MethodPost, "/oss/bucket", gin.H{"name": "docs"}); ro.Result != dto.RoSuccess {
		t.Fatalf("create bucket failed: %+v", ro)
	}

	content := []byte("hello object storage")
	name := uploadFile(t, r, "docs", "note.txt", content)

	req := httptest.NewRequest(http.MethodGet, "/oss/file/download/"+name, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("download status %d: %s", w.Code, w.Body.String())
	}
	if !bytes.Equal(w.Body.Bytes(), content) {
		t.Fatalf("download body mismatch: %q", w.Body.Bytes())
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "attachment") {
		t.Fatalf("download must be an attachment, got %q", cd)
	}
}

func TestPreviewRangeChunkCap(t *testing.T) {
	r := setupServer(t)
	config.AppConfig.DownloadChunkSize = 10
	defer config.InitConfig()

	if _, ro := doJSON(t, r, http.MethodPost, "/oss/bucket", gin.H{"name": "docs"}); ro.Result != dto.RoSuccess {
		t.Fatalf("create bucket failed: %+v", ro)
	}
	content := bytes.Repeat([]byte("x"), 100)
	name := uploadFile(t, r, "docs", "big.txt", content)

	req := httptest.NewRequest(http.MethodGet, "/oss/file/preview/"+name, nil)
	req.Header.Set("Range", "bytes=0-99")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusPartialContent {
		t.Fatalf("ranged preview status %d, expect 206", w.Code)
	}
	if got := w.Header().Get("Content-Range"); got != "bytes 0-9/100" {
		t.Fatalf("Content-Range = %q, expect clamped bytes 0-9/100", got)
	}
	if got := w.Header().Get("Accept-Ranges"); got != "bytes" {
		t.Fatalf("Accept-Ranges = %q", got)
	}
	if w.Body.Len() != 10 {
		t.Fatalf("body length %d, expect 10", w.Body.Len())
	}

	// No Range header means the whole file, inline.
	req = httptest.NewRequest(http.MethodGet, "/oss/file/preview/"+name, nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.Len() != 100 {
		t.Fatalf("full preview: status %d, length %d", w.Code, w.Body.Len())
	}
	if cd := w.Header().Get("Content-Disposition"); cd != "inline" {
		t.Fatalf("preview disposition = %q", cd)
	}
}

func TestUploadSizeLimit(t *testing.T) {
	r := setupServer(t)
	oldLimit := config.AppConfig.UploadLimitSize
	config.AppConfig.UploadLimitSize = 16
	defer func() { config.AppConfig.UploadLimitSize = oldLimit }()

	if _, ro := doJSON(t, r, http.MethodPost, "/oss/bucket", gin.H{"name": "docs"}); ro.Result != dto.RoSuccess {
		t.Fatalf("create bucket failed: %+v", ro)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "huge.txt")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(bytes.Repeat([]byte("x"), 64)); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/oss/file/upload/docs", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("oversized upload status %d, expect 400", w.Code)
	}
	var ro dto.Ro
	if err := json.Unmarshal(w.Body.Bytes(), &ro); err != nil {
		t.Fatalf("bad response: %v\n%s", err, w.Body.String())
	}
	if ro.Result != dto.RoIllegalArgument {
		t.Fatalf("result %d, expect illegal argument", ro.Result)
	}

	// Within the limit the same bucket still accepts uploads.
	config.AppConfig.UploadLimitSize = 1024
	uploadFile(t, r, "docs", "small.txt", []byte("fits"))
}

func TestPreviewBadID(t *testing.T) {
	r := setupServer(t)

	w, ro := doJSON(t, r, http.MethodGet, "/oss/file/preview/abc.jpg", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, expect 400", w.Code)
	}
	if ro.Result != dto.RoIllegalArgument {
		t.Fatalf("result %d, expect illegal argument", ro.Result)
	}
}

func TestPreviewMissingReference(t *testing.T) {
	r := setupServer(t)

	w, ro := doJSON(t, r, http.MethodGet, "/oss/file/preview/987654321.txt", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, warn responses stay 200", w.Code)
	}
	if ro.Result != dto.RoWarn {
		t.Fatalf("result %d, expect warn", ro.Result)
	}
}

func TestDeleteObjRefEndpoint(t *testing.T) {
	r := setupServer(t)
	if _, ro := doJSON(t, r, http.MethodPost, "/oss/bucket", gin.H{"name": "docs"}); ro.Result != dto.RoSuccess {
		t.Fatalf("create bucket failed: %+v", ro)
	}
	name := uploadFile(t, r, "docs", "note.txt", []byte("bye"))
	id := strings.SplitN(name, ".", 2)[0]

	if _, ro := doJSON(t, r, http.MethodDelete, "/oss/obj/ref/"+id, nil); ro.Result != dto.RoSuccess {
		t.Fatalf("delete ref failed: %+v", ro)
	}

	// The sole reference is gone, so the object went with it.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/oss/file/download/"+name, nil))
	var ro dto.Ro
	if err := json.Unmarshal(w.Body.Bytes(), &ro); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if ro.Result != dto.RoWarn {
		t.Fatalf("downloading a deleted reference should warn, got %+v", ro)
	}
}

func TestBucketEndpoints(t *testing.T) {
	r := setupServer(t)

	_, ro := doJSON(t, r, http.MethodPost, "/oss/bucket", gin.H{"name": "docs", "remark": "misc"})
	if ro.Result != dto.RoSuccess {
		t.Fatalf("create failed: %+v", ro)
	}

	// Duplicate name is a warn outcome, not a server fault.
	w, ro := doJSON(t, r, http.MethodPost, "/oss/bucket", gin.H{"name": "docs"})
	if w.Code != http.StatusOK || ro.Result != dto.RoWarn {
		t.Fatalf("duplicate create: status %d result %d", w.Code, ro.Result)
	}

	_, ro = doJSON(t, r, http.MethodGet, "/oss/bucket", nil)
	if ro.Result != dto.RoSuccess {
		t.Fatalf("list failed: %+v", ro)
	}

	w, ro = doJSON(t, r, http.MethodPost, "/oss/bucket", gin.H{"remark": "nameless"})
	if w.Code != http.StatusBadRequest || ro.Result != dto.RoIllegalArgument {
		t.Fatalf("missing name: status %d result %d", w.Code, ro.Result)
	}
}

func TestCascadeDeleteEndpoint(t *testing.T) {
	r := setupServer(t)
	if _, ro := doJSON(t, r, http.MethodPost, "/oss/bucket", gin.H{"name": "docs"}); ro.Result != dto.RoSuccess {
		t.Fatalf("create bucket failed: %+v", ro)
	}
	name := uploadFile(t, r, "docs", "note.txt", []byte("cascade me"))

	var listRo struct {
		Extra []struct {
			ID string `json:"id"`
		} `json:"extra"`
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/oss/bucket", nil))
	if err := json.Unmarshal(w.Body.Bytes(), &listRo); err != nil || len(listRo.Extra) != 1 {
		t.Fatalf("bucket list: %v\n%s", err, w.Body.String())
	}
	bucketID := listRo.Extra[0].ID

	if _, ro := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/oss/bucket/%s/cascade", bucketID), nil); ro.Result != dto.RoSuccess {
		t.Fatalf("cascade delete failed: %+v", ro)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/oss/file/download/"+name, nil))
	var ro dto.Ro
	if err := json.Unmarshal(w.Body.Bytes(), &ro); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if ro.Result != dto.RoWarn {
		t.Fatalf("reference should be gone after cascade, got %+v", ro)
	}
}
