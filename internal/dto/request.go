package dto

// BucketAddRequest creates a bucket.
type BucketAddRequest struct {
	Name   string `json:"name" binding:"required"`
	Remark string `json:"remark"`
}

// BucketModifyRequest updates a bucket's mutable fields.
type BucketModifyRequest struct {
	ID     uint64 `json:"id,string" binding:"required"`
	Name   string `json:"name"`
	Remark string `json:"remark"`
}
