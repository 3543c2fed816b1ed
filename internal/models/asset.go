package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Category string

const (
	CategoryPhoto  Category = "photo"
	CategoryVideo  Category = "video"
	CategoryAudio  Category = "audio"
	CategoryDesign Category = "design"
	CategoryIcon   Category = "icon"
)

var Categories = []Category{CategoryPhoto, CategoryVideo, CategoryAudio, CategoryDesign, CategoryIcon}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type Asset struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	OwnerID     uuid.UUID      `json:"ownerId" gorm:"type:uuid;index;not null"` // not a foreign key
	Name        string         `json:"name" gorm:"not null"`
	Description string         `json:"description"`
	Image       string         `json:"image"` // preview image URL
	URL         string         `json:"url" gorm:"not null"`
	Category    Category       `json:"category" gorm:"index"`
	Format      string         `json:"format"`
	Size        *int64         `json:"size"` // bytes
	Tags        pq.StringArray `json:"tags" gorm:"type:text[]"`
	CreatedAt   time.Time      `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (a *Asset) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
