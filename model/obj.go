package model

// Obj is a physical content record. The (hash, size) pair is the content
// address: at most one row may exist per distinct pair, and the file at Path
// exists exactly as long as the row does.
type Obj struct {
	ID uint64 `gorm:"primaryKey;autoIncrement:false" json:"id,string"`

	Path string `gorm:"column:path;size:512;uniqueIndex:uk_obj_path;not null" json:"path"`
	Hash string `gorm:"column:hash;size:64;uniqueIndex:uk_obj_hash_size;not null" json:"hash"`
	Size int64  `gorm:"column:size;uniqueIndex:uk_obj_hash_size;not null" json:"size"`
	URL  string `gorm:"column:url;size:512" json:"url"`

	IsCompleted bool `gorm:"column:is_completed;not null;default:true" json:"is_completed"`

	CreatorID uint64 `gorm:"column:creator_id;not null" json:"creator_id,string"`

	CreateTimestamp int64 `gorm:"column:create_timestamp;autoCreateTime:milli" json:"create_timestamp"`
	UpdateTimestamp int64 `gorm:"column:update_timestamp;autoUpdateTime:milli" json:"update_timestamp"`
}

// TableName returns the database table name.
func (Obj) TableName() string {
	return "oss_obj"
}
