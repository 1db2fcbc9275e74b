package domain

import "time"

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
)

// CourseList names one of the course reference lists kept on a user.
type CourseList string

const (
	ListCart          CourseList = "cart"
	ListWishlist      CourseList = "wishlist"
	ListCreatedCourse CourseList = "createdCourse"
)

type User struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Role          UserRole  `json:"role"`
	Expertise     string    `json:"expertise,omitempty"`
	Cart          []string  `json:"cart"`
	Wishlist      []string  `json:"wishlist"`
	CreatedCourse []string  `json:"createdCourse"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Courses returns the reference list selected by list.
func (u User) Courses(list CourseList) []string {
	switch list {
	case ListCart:
		return u.Cart
	case ListWishlist:
		return u.Wishlist
	case ListCreatedCourse:
		return u.CreatedCourse
	default:
		return nil
	}
}

type Course struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Category      string     `json:"category"`
	Price         float64    `json:"price"`
	Duration      int        `json:"duration"`
	Rating        float64    `json:"rating"`
	TotalStudents int        `json:"totalStudents"`
	Thumbnail     string     `json:"thumbnail"`
	Videos        []string   `json:"videos"`
	CreatedBy     string     `json:"createdBy"`
	IsPublished   bool       `json:"isPublished"`
	PublishedAt   *time.Time `json:"publishedAt,omitempty"`
	Version       int64      `json:"-"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Lecture is a single video owned by exactly one course.
type Lecture struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"courseId"`
	Title     string    `json:"title"`
	MediaURL  string    `json:"mediaUrl"`
	MediaKey  string    `json:"-"`
	Duration  float64   `json:"duration"`
	CreatedAt time.Time `json:"createdAt"`
}

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Courses   []string  `json:"courses"`
	CreatedAt time.Time `json:"createdAt"`
}

// LectureRef is the projection of a lecture embedded in course listings.
type LectureRef struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	MediaURL string `json:"mediaUrl"`
}

// CreatorRef is the projection of a course creator embedded in course listings.
type CreatorRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// CourseSummary is a course with its lectures and creator expanded.
type CourseSummary struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Category      string       `json:"category"`
	Price         float64      `json:"price"`
	Duration      int          `json:"duration"`
	Rating        float64      `json:"rating"`
	TotalStudents int          `json:"totalStudents"`
	Thumbnail     string       `json:"thumbnail"`
	IsPublished   bool         `json:"isPublished"`
	Videos        []LectureRef `json:"videos"`
	CreatedBy     *CreatorRef  `json:"createdBy"`
	CreatedAt     time.Time    `json:"createdAt"`
}

// Contains reports whether id is present in ids.
func Contains(ids []string, id string) bool {
	return IndexOf(ids, id) >= 0
}

// IndexOf returns the position of id in ids or -1.
func IndexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
