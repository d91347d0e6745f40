package commerce

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Category struct {
	ID   uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name string    `gorm:"not null;column:name" json:"name"`
	Slug string    `gorm:"uniqueIndex;not null;column:slug" json:"slug"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Category) TableName() string { return "category" }

type Product struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name          string         `gorm:"not null;column:name" json:"name"`
	Slug          string         `gorm:"uniqueIndex;not null;column:slug" json:"slug"`
	Description   *string        `gorm:"column:description" json:"description"`
	Price         float64        `gorm:"not null;column:price" json:"price"`
	StockQuantity int            `gorm:"not null;default:0;column:stock_quantity" json:"stock_quantity"`
	IsFeatured    bool           `gorm:"not null;default:false;column:is_featured" json:"is_featured"`
	CategoryID    *uuid.UUID     `gorm:"type:uuid;index;column:category_id" json:"category_id"`
	Category      *Category      `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Images        datatypes.JSON `gorm:"column:images" json:"images"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Product) TableName() string { return "product" }
