package models

import "time"

// Post is a forum thread. TotalLike and TotalDislike are denormalized vote
// counters that only ever move through atomic increments.
type Post struct {
	ID           string    `bson:"_id" json:"id"`
	Title        string    `bson:"title" json:"title"`
	Description  string    `bson:"description" json:"description"`
	Categories   []string  `bson:"categories" json:"categories"`
	TotalLike    int64     `bson:"totalLike" json:"totalLike"`
	TotalDislike int64     `bson:"totalDislike" json:"totalDislike"`
	CreatedBy    string    `bson:"created_by" json:"createdBy"`
	Username     string    `bson:"-" json:"username,omitempty"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt,omitzero"`
}

// Summary returns the listing view of the post.
func (p Post) Summary() Post {
	p.UpdatedAt = time.Time{}
	return p
}

// PostUpdate carries the optional fields of a post edit.
type PostUpdate struct {
	Title       *string
	Description *string
	Categories  []string
}

// Empty reports whether the update changes nothing.
func (u PostUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Categories == nil
}
