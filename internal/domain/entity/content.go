package entity

import "time"

// NewsPost is a news article shown in the app feed.
type NewsPost struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Title     string    `bson:"title" json:"title"`
	Content   string    `bson:"content" json:"content"`
	Date      time.Time `bson:"date" json:"date"`
	ImageURL  string    `bson:"image_url,omitempty" json:"image_url,omitempty"`
	ImageKey  string    `bson:"image_key,omitempty" json:"-"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// GalleryImage is a single uploaded gallery picture.
type GalleryImage struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	ImageURL  string    `bson:"image_url" json:"image_url"`
	ImageKey  string    `bson:"image_key" json:"-"`
	Caption   string    `bson:"caption" json:"caption"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Subscription marks a user as subscribed to updates. One per user.
type Subscription struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// ContentStats backs the admin dashboard counters.
type ContentStats struct {
	TotalNews          int64 `json:"totalNews"`
	TotalImages        int64 `json:"totalImages"`
	RecentUploadsCount int64 `json:"recentUploadsCount"`
}

// StoredObject is the result of an object storage upload.
type StoredObject struct {
	URL string
	Key string
}

// Upload is an in-memory file received from a multipart form.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}
