package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Category groups products for storefront navigation.
type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(128);not null" json:"name"`
	Slug      string    `gorm:"type:varchar(128);uniqueIndex;not null" json:"slug"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Product is a catalog item stored in Postgres. Price is in major currency
// units (euros), persisted as numeric.
type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(256);not null" json:"name"`
	Slug        string          `gorm:"type:varchar(256);uniqueIndex;not null" json:"slug"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	ImageURL    string          `gorm:"type:varchar(1024)" json:"image_url"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
	Featured    bool            `gorm:"not null;default:false" json:"featured"`
	Active      bool            `gorm:"not null;default:true" json:"active"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid;index" json:"category_id,omitempty"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

// CreateProductRequest is the admin payload for adding a catalog item.
type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required,min=2,max=256"`
	Slug        string          `json:"slug" binding:"required,min=2,max=256"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	ImageURL    string          `json:"image_url"`
	Stock       int             `json:"stock" binding:"gte=0"`
	Featured    bool            `json:"featured"`
	CategoryID  *uuid.UUID      `json:"category_id"`
}

// UpdateProductRequest is the admin payload for editing a catalog item.
// Pointer fields distinguish "not sent" from zero values.
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Slug        *string          `json:"slug"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	ImageURL    *string          `json:"image_url"`
	Stock       *int             `json:"stock"`
	Featured    *bool            `json:"featured"`
	Active      *bool            `json:"active"`
	CategoryID  *uuid.UUID       `json:"category_id"`
}

// CreateCategoryRequest is the admin payload for adding a category.
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,min=2,max=128"`
	Slug string `json:"slug" binding:"required,min=2,max=128"`
}
