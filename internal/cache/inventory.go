package cache

import "fmt"

const (
	UsersKey               = "users"
	PostsKey               = "posts"
	PostKeyPrefix          = "post:%s"
	UserPostsKeyPrefix     = "posts:user:%s"
	CategoryPostsKeyPrefix = "posts:category:%s"
	CommentsKeyPrefix      = "comments:%s"
	CommentKeyPrefix       = "comment:%s"
)

func PostKey(postID string) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func UserPostsKey(userID string) string {
	return fmt.Sprintf(UserPostsKeyPrefix, userID)
}

func CategoryPostsKey(category string) string {
	return fmt.Sprintf(CategoryPostsKeyPrefix, category)
}

// CommentsKey scopes a post's comment listing to that post.
func CommentsKey(postID string) string {
	return fmt.Sprintf(CommentsKeyPrefix, postID)
}

func CommentKey(commentID string) string {
	return fmt.Sprintf(CommentKeyPrefix, commentID)
}

// PostKeys lists every key whose contents depend on the given post.
func PostKeys(postID, authorID string, categories []string) []string {
	keys := []string{PostsKey, PostKey(postID), UserPostsKey(authorID)}
	for _, category := range categories {
		keys = append(keys, CategoryPostsKey(category))
	}
	return keys
}

// CommentKeys lists every key whose contents depend on the given comment.
func CommentKeys(commentID, postID string) []string {
	return []string{CommentKey(commentID), CommentsKey(postID)}
}
