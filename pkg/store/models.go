package store

import (
	"time"

	"gorm.io/datatypes"
)

// GORM models used for persistence. Reference lists are embedded in the
// owning row as JSON arrays.
type UserModel struct {
	ID             string `gorm:"primaryKey;size:24"`
	Username       string `gorm:"index"`
	Name           string
	Email          string `gorm:"index"`
	Role           string `gorm:"not null;index"`
	Expertise      string
	Cart           datatypes.JSONSlice[string] `gorm:"not null"`
	Wishlist       datatypes.JSONSlice[string] `gorm:"not null"`
	CreatedCourses datatypes.JSONSlice[string] `gorm:"not null"`
	Version        int64                       `gorm:"not null;default:0"`
	CreatedAt      time.Time                   `gorm:"not null"`
	UpdatedAt      time.Time
}

func (UserModel) TableName() string { return "users" }

type CourseModel struct {
	ID            string `gorm:"primaryKey;size:24"`
	Title         string `gorm:"uniqueIndex;not null"`
	Description   string `gorm:"type:text"`
	Category      string `gorm:"index"`
	Price         float64
	Duration      int
	Rating        float64
	TotalStudents int
	Thumbnail     string
	Videos        datatypes.JSONSlice[string] `gorm:"not null"`
	CreatedBy     string                      `gorm:"not null;index;size:24"`
	IsPublished   bool                        `gorm:"not null;default:false;index"`
	PublishedAt   *time.Time
	Version       int64     `gorm:"not null;default:0"`
	CreatedAt     time.Time `gorm:"not null;index"`
	UpdatedAt     time.Time
}

func (CourseModel) TableName() string { return "courses" }

type LectureModel struct {
	ID        string `gorm:"primaryKey;size:24"`
	CourseID  string `gorm:"not null;index;size:24"`
	Title     string `gorm:"not null"`
	MediaURL  string `gorm:"not null"`
	MediaKey  string
	Duration  float64   `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (LectureModel) TableName() string { return "videos" }

type CategoryModel struct {
	ID        string                      `gorm:"primaryKey;size:24"`
	Name      string                      `gorm:"uniqueIndex;not null"`
	Courses   datatypes.JSONSlice[string] `gorm:"not null"`
	Version   int64                       `gorm:"not null;default:0"`
	CreatedAt time.Time                   `gorm:"not null"`
}

func (CategoryModel) TableName() string { return "categories" }
