package handler

import (
	"GoOss/internal/dto"
	"fmt"

	"github.com/gin-gonic/gin"
)

// GetObj returns one object row by id.
func (h *Handler) GetObj(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	obj, err := h.svc.GetObjByID(id)
	if err != nil {
		writeError(c, err)
		return
	}
	writeRo(c, dto.SuccessRo("query success", obj))
}

// GetObjRef returns the joined (ref, bucket, obj) view for one reference.
func (h *Handler) GetObjRef(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	view, err := h.svc.GetObjRefView(id)
	if err != nil {
		writeError(c, err)
		return
	}
	writeRo(c, dto.SuccessRo("query success", view))
}

// DeleteObjRef deletes one reference; the last reference takes its object and
// file with it.
func (h *Handler) DeleteObjRef(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	view, err := h.svc.DeleteObjRef(id, currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	writeRo(c, dto.SuccessRo("obj ref deleted", view))
}

// SweepOrphanObjs removes every object no reference points at anymore.
func (h *Handler) SweepOrphanObjs(c *gin.Context) {
	removed, err := h.svc.DeleteOrphanObjs(currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	writeRo(c, dto.SuccessRo(fmt.Sprintf("removed %d orphaned objs", removed), nil))
}
