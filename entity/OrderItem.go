package entity

type OrderItem struct {
	ID       uint   `gorm:"primaryKey" json:"-"`
	GuestID  string `gorm:"size:36;index;not null" json:"-"`
	Name     string `gorm:"not null" json:"name"`
	Price    int64  `gorm:"not null" json:"price"` // snapshot at add time
	Quantity int    `gorm:"not null" json:"quantity"`
	Position int    `json:"-"`
}
