package models

// Product represents an inventory record.
//
// ID is assigned by the store when the record is created and never changes.
// Quantity is a pointer so the schema can tell a missing quantity from zero.
type Product struct {
	ID       string `json:"_id" gorm:"primaryKey;type:varchar(36)"`
	Name     string `json:"name" gorm:"type:varchar(255);not null" validate:"required"`
	Quantity *int   `json:"quantity" gorm:"not null" validate:"required,gte=0"`
	Supplier string `json:"supplier,omitempty" gorm:"type:varchar(255)"`
}

// TableName returns the table name for Product model.
func (Product) TableName() string {
	return "products"
}

// QuantityValue returns the quantity, or 0 when it is unset.
func (p Product) QuantityValue() int {
	if p.Quantity == nil {
		return 0
	}
	return *p.Quantity
}
