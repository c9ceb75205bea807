package model

type Bucket struct {
	ID uint64 `gorm:"primaryKey;autoIncrement:false" json:"id,string"`

	Name   string `gorm:"column:name;size:64;uniqueIndex:uk_bucket_name;not null" json:"name"`
	Remark string `gorm:"column:remark;size:255" json:"remark,omitempty"`

	CreatorID uint64 `gorm:"column:creator_id;not null" json:"creator_id,string"`
	UpdatorID uint64 `gorm:"column:updator_id;not null" json:"updator_id,string"`

	CreateTimestamp int64 `gorm:"column:create_timestamp;autoCreateTime:milli" json:"create_timestamp"`
	UpdateTimestamp int64 `gorm:"column:update_timestamp;autoUpdateTime:milli" json:"update_timestamp"`
}

// TableName returns the database table name.
func (Bucket) TableName() string {
	return "oss_bucket"
}
