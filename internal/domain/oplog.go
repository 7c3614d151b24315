package domain

import "time"

// SysOpLog records a successful mutation for auditing. Rows are written by
// the oplog subscriber listening on the application event bus.
type SysOpLog struct {
	ID        int64     `gorm:"primaryKey" json:"id,string"`
	Entity    string    `gorm:"size:32;index" json:"entity"`
	EntityID  int64     `gorm:"index" json:"entity_id,string"`
	Action    string    `gorm:"size:32" json:"action"`
	Detail    string    `gorm:"size:1024" json:"detail"`
	OptTime   time.Time `json:"opt_time"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName Specify table name
func (SysOpLog) TableName() string {
	return "sys_op_log"
}
