package models

import "time"

type Client struct {
	ID           string    `gorm:"primaryKey;size:64"                    json:"id"`
	Name         string    `gorm:"size:100;not null"                     json:"name"`
	Email        string    `gorm:"size:254;uniqueIndex;not null"         json:"email"`
	Phone        *string   `gorm:"size:15"                               json:"phone,omitempty"`
	Address      *string   `gorm:"size:255"                              json:"address,omitempty"`
	City         *string   `gorm:"size:100"                              json:"city,omitempty"`
	State        *string   `gorm:"size:2"                                json:"state,omitempty"`
	Country      *string   `gorm:"size:50"                               json:"country,omitempty"`
	ZipCode      *string   `gorm:"size:10"                               json:"zip_code,omitempty"`
	RegisteredAt time.Time `gorm:"autoCreateTime;<-:create;not null"     json:"registered_at"`
	Active       bool      `gorm:"default:true;not null"                 json:"active"`
	Products     []Product `gorm:"foreignKey:ClientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (Client) TableName() string {
	return "clients"
}

type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"          json:"id"`
	Description string    `gorm:"size:255;not null"                 json:"description"`
	Price       *float64  `gorm:"type:numeric(10,2)"                json:"price,omitempty"`
	PurchasedAt time.Time `gorm:"autoCreateTime;<-:create;not null" json:"purchased_at"`
	ClientID    *string   `gorm:"size:64;index"                     json:"client_id"`
}

func (Product) TableName() string {
	return "products"
}

// All lists the models in migration order.
func All() []any {
	return []any{&Client{}, &Product{}}
}
