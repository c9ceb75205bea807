package router

import (
	"GoOss/internal/handler"
	"GoOss/utils"

	"github.com/gin-gonic/gin"
)

// InitRouter builds API routes around one handler set.
func InitRouter(h *handler.Handler) *gin.Engine {
	r := gin.Default()
	r.Use(utils.CORSMiddleware())

	oss := r.Group("/oss")
	{
		bucket := oss.Group("/bucket")
		{
			bucket.POST("", h.CreateBucket)
			bucket.GET("", h.ListBuckets)
			bucket.GET("/:id", h.GetBucket)
			bucket.PUT("", h.ModifyBucket)
			bucket.DELETE("/:id", h.DeleteBucket)
			bucket.DELETE("/:id/cascade", h.DeleteBucketCascade)
		}

		file := oss.Group("/file")
		{
			file.POST("/upload/:bucket", h.UploadFile)
			file.GET("/download/:id", h.DownloadFile)
			file.GET("/preview/:id", h.PreviewFile)
		}

		obj := oss.Group("/obj")
		{
			obj.GET("/info/:id", h.GetObj)
			obj.GET("/ref/:id", h.GetObjRef)
			obj.DELETE("/ref/:id", h.DeleteObjRef)
			obj.DELETE("/orphan", h.SweepOrphanObjs)
		}
	}
	return r
}
