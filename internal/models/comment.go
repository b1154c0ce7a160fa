package models

import "time"

// Comment is a reply on a post and, like a post, a vote target.
type Comment struct {
	ID           string    `bson:"_id" json:"id"`
	Content      string    `bson:"content" json:"content"`
	PostID       string    `bson:"post_id" json:"postId"`
	TotalLike    int64     `bson:"totalLike" json:"totalLike"`
	TotalDislike int64     `bson:"totalDislike" json:"totalDislike"`
	CreatedBy    string    `bson:"created_by" json:"createdBy"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt"`
}
