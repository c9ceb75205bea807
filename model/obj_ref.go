package model

// ObjRef is a named, bucket-scoped handle onto an Obj. Several refs may point
// at the same Obj; display names are not unique.
type ObjRef struct {
	ID uint64 `gorm:"primaryKey;autoIncrement:false" json:"id,string"`

	ObjID uint64 `gorm:"column:obj_id;index;not null" json:"obj_id,string"`
	Obj   Obj    `gorm:"foreignKey:ObjID;references:ID;constraint:OnDelete:RESTRICT" json:"obj"`

	BucketID uint64 `gorm:"column:bucket_id;index;not null" json:"bucket_id,string"`
	Bucket   Bucket `gorm:"foreignKey:BucketID;references:ID;constraint:OnDelete:RESTRICT" json:"bucket"`

	Name string `gorm:"column:name;size:255;not null" json:"name"`
	Ext  string `gorm:"column:ext;size:32" json:"ext"`

	CreatorID uint64 `gorm:"column:creator_id;not null" json:"creator_id,string"`

	CreateTimestamp int64 `gorm:"column:create_timestamp;autoCreateTime:milli" json:"create_timestamp"`
	UpdateTimestamp int64 `gorm:"column:update_timestamp;autoUpdateTime:milli" json:"update_timestamp"`
}

// TableName returns the database table name.
func (ObjRef) TableName() string {
	return "oss_obj_ref"
}
