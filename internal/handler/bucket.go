package handler

import (
	"GoOss/internal/dto"
	"strconv"

	"github.com/gin-gonic/gin"
)

func parseIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		writeRo(c, dto.IllegalArgumentRo("invalid id: "+c.Param("id")))
		return 0, false
	}
	return id, true
}

// CreateBucket creates a named bucket.
func (h *Handler) CreateBucket(c *gin.Context) {
	var req dto.BucketAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeRo(c, dto.IllegalArgumentRo("invalid request: "+err.Error()))
		return
	}
	bucket, err := h.svc.CreateBucket(req.Name, req.Remark, currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	writeRo(c, dto.SuccessRo("bucket created", bucket))
}

// ListBuckets returns all buckets.
func (h *Handler) ListBuckets(c *gin.Context) {
	buckets, err := h.svc.ListBuckets()
	if err != nil {
		writeError(c, err)
		return
	}
	writeRo(c, dto.SuccessRo("query success", buckets))
}

// GetBucket returns one bucket by id.
func (h *Handler) GetBucket(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	bucket, err := h.svc.GetBucketByID(id)
	if err != nil {
		writeError(c, err)
		return
	}
	writeRo(c, dto.SuccessRo("query success", bucket))
}

// ModifyBucket updates a bucket's name and remark.
func (h *Handler) ModifyBucket(c *gin.Context) {
	var req dto.BucketModifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeRo(c, dto.IllegalArgumentRo("invalid request: "+err.Error()))
		return
	}
	bucket, err := h.svc.ModifyBucket(req.ID, req.Name, req.Remark, currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	writeRo(c, dto.SuccessRo("bucket updated", bucket))
}

// DeleteBucket deletes an empty bucket.
func (h *Handler) DeleteBucket(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	bucket, err := h.svc.DeleteBucket(id, currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	writeRo(c, dto.SuccessRo("bucket deleted", bucket))
}

// DeleteBucketCascade deletes a bucket with all its references, reclaiming
// any objects left orphaned.
func (h *Handler) DeleteBucketCascade(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	bucket, err := h.svc.DeleteBucketCascade(id, currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	writeRo(c, dto.SuccessRo("bucket deleted", bucket))
}
