package model

import "time"

// User mirrors the external identity provider. Rows are upserted from
// identity events; the ID is the provider's stable subject, never generated
// locally.
type User struct {
	ID        string    `gorm:"primarykey" json:"id"`
	Name      string    `json:"name" gorm:"not null"`
	Email     string    `json:"email" gorm:"not null;uniqueIndex"`
	ImageURL  *string   `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
