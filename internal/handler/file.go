package handler

import (
	"GoOss/internal/dto"
	"GoOss/internal/service"
	"GoOss/utils"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Extension allowlist for inline rendering. Anything unmapped is always
// forced to an attachment download.
var contentTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
	"svg":  "image/svg+xml",
	"pdf":  "application/pdf",
	"txt":  "text/plain",
	"md":   "text/plain",
	"mp3":  "audio/mpeg",
	"wav":  "audio/mpeg",
	"ogg":  "audio/mpeg",
	"aac":  "audio/mpeg",
	"flac": "audio/mpeg",
	"mp4":  "video/mp4",
}

// UploadFile stores a multipart upload into the named bucket.
func (h *Handler) UploadFile(c *gin.Context) {
	bucket := strings.TrimSpace(c.Param("bucket"))
	if bucket == "" {
		writeRo(c, dto.IllegalArgumentRo("bucket required"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		writeRo(c, dto.IllegalArgumentRo("multipart field <file> required: "+err.Error()))
		return
	}
	if fileHeader.Size > h.cfg.UploadLimitSize {
		writeRo(c, dto.IllegalArgumentRo(fmt.Sprintf(
			"file too large: %d bytes, limit %d", fileHeader.Size, h.cfg.UploadLimitSize)))
		return
	}

	tempPath := filepath.Join(os.TempDir(), "oss-upload-"+uuid.NewString())
	if err := c.SaveUploadedFile(fileHeader, tempPath); err != nil {
		writeError(c, err)
		return
	}
	// Gone already when the pipeline moved or discarded it.
	defer os.Remove(tempPath)

	view, err := h.svc.Upload(service.UploadInput{
		BucketName:    bucket,
		FileName:      fileHeader.Filename,
		DeclaredHash:  c.PostForm("hash"),
		TempPath:      tempPath,
		CurrentUserID: currentUserID(c),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	writeRo(c, dto.SuccessRo("upload success", view))
}

// DownloadFile serves a referenced object as a forced attachment.
func (h *Handler) DownloadFile(c *gin.Context) {
	refID, ext, err := service.ParseObjRefID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	result, err := h.svc.Download(refID, ext, nil, nil)
	if err != nil {
		writeError(c, err)
		return
	}
	writeAttachment(c, result.Name, result.Content)
}

// PreviewFile serves a referenced object inline where the extension allows,
// honoring Range requests with a server-side chunk-size cap.
func (h *Handler) PreviewFile(c *gin.Context) {
	refID, ext, err := service.ParseObjRefID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	start, end, err := parseRangeHeader(c.GetHeader("Range"))
	if err != nil {
		writeError(c, err)
		return
	}

	result, err := h.svc.Download(refID, ext, start, end)
	if err != nil {
		writeError(c, err)
		return
	}

	contentType, ok := contentTypes[ext]
	if !ok {
		writeAttachment(c, result.Name, result.Content)
		return
	}

	c.Header("Content-Disposition", "inline")
	if result.Start != nil && result.End != nil {
		c.Header("Accept-Ranges", "bytes")
		c.Header("Content-Range", fmt.Sprintf("bytes %d-%d/%d", *result.Start, *result.End, result.FileSize))
		c.Data(http.StatusPartialContent, contentType, result.Content)
		return
	}
	c.Data(http.StatusOK, contentType, result.Content)
}

func writeAttachment(c *gin.Context, name string, content []byte) {
	c.Header("Content-Disposition", utils.AttachmentDisposition(name))
	c.Data(http.StatusOK, "application/octet-stream", content)
}

// parseRangeHeader extracts the first byte range of a Range header. A missing
// header or a suffix range without a start position reads the whole file.
func parseRangeHeader(header string) (*int64, *int64, error) {
	if header == "" {
		return nil, nil, nil
	}
	spec, ok := strings.CutPrefix(header, "bytes=")
	if !ok {
		return nil, nil, &service.ValidationError{Msg: "malformed Range header: " + header}
	}
	parts := strings.SplitN(spec, "-", 2)
	if parts[0] == "" {
		return nil, nil, nil
	}
	startVal, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return nil, nil, &service.ValidationError{Msg: "malformed Range header: " + header}
	}
	start := &startVal
	var end *int64
	if len(parts) == 2 && parts[1] != "" {
		endVal, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return nil, nil, &service.ValidationError{Msg: "malformed Range header: " + header}
		}
		end = &endVal
	}
	return start, end, nil
}
