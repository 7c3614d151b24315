package domain

import "time"

// Product status values.
const (
	ProductStatusActive       = "ACTIVE"
	ProductStatusOutOfStock   = "OUT_OF_STOCK"
	ProductStatusDiscontinued = "DISCONTINUED"
)

// ProductStatuses lists the valid status values in declaration order.
var ProductStatuses = []string{
	ProductStatusActive,
	ProductStatusOutOfStock,
	ProductStatusDiscontinued,
}

// ValidProductStatus reports whether s is a member of ProductStatuses.
func ValidProductStatus(s string) bool {
	for _, v := range ProductStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Product represents a stocked item. The barcode is globally unique and
// re-validated on every change; IsOrdered flips to true the first time an
// order references the product.
type Product struct {
	ID        int64      `gorm:"primaryKey" json:"id,string" form:"id"`
	Name      string     `gorm:"index" json:"name" form:"name"`
	Barcode   string     `gorm:"size:64;uniqueIndex" json:"barcode" form:"barcode"`
	CostPrice float64    `json:"cost_price" form:"cost_price"`
	SellPrice float64    `json:"sell_price" form:"sell_price"`
	Status    string     `gorm:"size:32;index;default:ACTIVE" json:"status" form:"status"`
	IsOrdered bool       `gorm:"index" json:"is_ordered" form:"is_ordered"`
	Tags      StringList `gorm:"type:text" json:"tags"`
	Vendors   Int64List  `gorm:"type:text" json:"vendors"`
	Note      string     `gorm:"size:1024" json:"note" form:"note"`
	ImagePath string     `gorm:"size:1024" json:"image_path" form:"image_path"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "inv_product"
}
