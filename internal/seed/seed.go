// Package seed fills a development database with demo users, posts, comments
// and votes. It goes through the service layer, so every record passes the
// same validation and counter bookkeeping as API traffic.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hamidadj13/syncvote-api/internal/models"
	"github.com/hamidadj13/syncvote-api/internal/service"

	"github.com/brianvoe/gofakeit/v6"
)

// DefaultPassword is the password of every seeded account.
const DefaultPassword = "syncvote-demo"

type UserCreator interface {
	CreateUser(ctx context.Context, in service.CreateUserInput) (*models.User, error)
}

type PostCreator interface {
	CreatePost(ctx context.Context, in service.CreatePostInput) (*models.Post, error)
}

type CommentCreator interface {
	CreateComment(ctx context.Context, in service.CreateCommentInput) (*models.Comment, error)
}

type Voter interface {
	AddVote(ctx context.Context, in service.AddVoteInput) (*models.Vote, error)
}

var demoDomains = []string{"example.com", "example.org", "example.net"}

// Options controls how much data a run creates.
type Options struct {
	Users           int
	PostsPerUser    int
	CommentsPerPost int
	// VoteChance is the probability that a given user votes on a given post
	// or comment.
	VoteChance float64
	Password   string
	// Seed makes a run reproducible. Zero picks a random seed.
	Seed int64
}

// DefaultOptions returns a small demo data set.
func DefaultOptions() Options {
	return Options{
		Users:           10,
		PostsPerUser:    3,
		CommentsPerPost: 2,
		VoteChance:      0.4,
		Password:        DefaultPassword,
	}
}

// Summary counts the records a run created.
type Summary struct {
	Users    int
	Posts    int
	Comments int
	Votes    int
}

// Seeder creates demo data through the services.
type Seeder struct {
	Users      UserCreator
	Posts      PostCreator
	Comments   CommentCreator
	Votes      Voter
	Categories []string
	Logger     *slog.Logger
}

// Run creates the data described by opts.
func (s *Seeder) Run(ctx context.Context, opts Options) (Summary, error) {
	var sum Summary
	if len(s.Categories) == 0 {
		return sum, fmt.Errorf("seed: no categories available")
	}
	if opts.Password == "" {
		opts.Password = DefaultPassword
	}
	f := gofakeit.New(opts.Seed)

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		name := username(f, i)
		user, err := s.Users.CreateUser(ctx, service.CreateUserInput{
			Username: name,
			Email:    name + "@" + f.RandomString(demoDomains),
			Password: opts.Password,
		})
		if err != nil {
			return sum, fmt.Errorf("seed user %d: %w", i, err)
		}
		users = append(users, user)
		sum.Users++
	}

	var posts []*models.Post
	for _, author := range users {
		for i := 0; i < opts.PostsPerUser; i++ {
			post, err := s.Posts.CreatePost(ctx, service.CreatePostInput{
				UserID:      author.ID,
				Title:       strings.TrimSuffix(f.Sentence(5), "."),
				Description: f.Paragraph(1, 3, 12, "\n"),
				Categories:  pickCategories(f, s.Categories),
			})
			if err != nil {
				return sum, fmt.Errorf("seed post: %w", err)
			}
			posts = append(posts, post)
			sum.Posts++
		}
	}

	var comments []*models.Comment
	for _, post := range posts {
		for i := 0; i < opts.CommentsPerPost && len(users) > 0; i++ {
			author := users[f.Number(0, len(users)-1)]
			comment, err := s.Comments.CreateComment(ctx, service.CreateCommentInput{
				UserID:  author.ID,
				PostID:  post.ID,
				Content: f.Sentence(f.Number(4, 16)),
			})
			if err != nil {
				return sum, fmt.Errorf("seed comment: %w", err)
			}
			comments = append(comments, comment)
			sum.Comments++
		}
	}

	for _, voter := range users {
		for _, post := range posts {
			n, err := s.maybeVote(ctx, f, opts.VoteChance, voter.ID, models.TargetPost, post.ID)
			if err != nil {
				return sum, err
			}
			sum.Votes += n
		}
		for _, comment := range comments {
			n, err := s.maybeVote(ctx, f, opts.VoteChance, voter.ID, models.TargetComment, comment.ID)
			if err != nil {
				return sum, err
			}
			sum.Votes += n
		}
	}

	if s.Logger != nil {
		s.Logger.InfoContext(ctx, "seed complete",
			"users", sum.Users, "posts", sum.Posts, "comments", sum.Comments, "votes", sum.Votes)
	}
	return sum, nil
}

func (s *Seeder) maybeVote(ctx context.Context, f *gofakeit.Faker, chance float64, userID string, targetType models.TargetType, targetID string) (int, error) {
	if f.Float64() >= chance {
		return 0, nil
	}
	voteType := models.VoteLike
	if f.Number(0, 3) == 0 {
		voteType = models.VoteDislike
	}
	_, err := s.Votes.AddVote(ctx, service.AddVoteInput{
		TargetID:   targetID,
		TargetType: targetType,
		UserID:     userID,
		VoteType:   voteType,
	})
	switch {
	case err == nil:
		return 1, nil
	case models.IsCode(err, models.CodeConflict):
		// Re-running the seed against the same data hits existing votes.
		return 0, nil
	default:
		return 0, fmt.Errorf("seed vote: %w", err)
	}
}

// username returns a handle that satisfies the username rules.
func username(f *gofakeit.Faker, i int) string {
	var b strings.Builder
	for _, r := range strings.ToLower(f.Username()) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
		if b.Len() == 20 {
			break
		}
	}
	if b.Len() == 0 {
		b.WriteString("user")
	}
	return fmt.Sprintf("%s_%d", b.String(), i)
}

func pickCategories(f *gofakeit.Faker, catalog []string) []string {
	n := f.Number(1, min(3, len(catalog)))
	picked := make([]string, 0, n)
	seen := make(map[string]bool, n)
	for len(picked) < n {
		c := f.RandomString(catalog)
		if seen[c] {
			continue
		}
		seen[c] = true
		picked = append(picked, c)
	}
	return picked
}
