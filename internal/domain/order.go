package domain

import "time"

// Order groups a set of line items created as one atomic unit. Items are
// owned exclusively by their order and are replaced wholesale on update.
type Order struct {
	ID        int64       `gorm:"primaryKey" json:"id,string" form:"id"`
	Note      string      `gorm:"size:1024" json:"note" form:"note"`
	Items     []OrderItem `gorm:"-" json:"items"`
	CreatedAt time.Time   `json:"created_at"`
}

// TableName Specify table name
func (Order) TableName() string {
	return "inv_order"
}

// OrderItem is a single order line. ProductID references an existing
// product; Seq preserves the submission order of the item set.
type OrderItem struct {
	ID        int64 `gorm:"primaryKey" json:"id,string"`
	OrderID   int64 `gorm:"index" json:"order_id,string"`
	ProductID int64 `gorm:"index" json:"product_id,string"`
	Quantity  int   `json:"quantity"`
	Seq       int   `json:"seq"`
}

// TableName Specify table name
func (OrderItem) TableName() string {
	return "inv_order_item"
}
