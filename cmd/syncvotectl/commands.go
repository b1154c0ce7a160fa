package main

import (
	"fmt"

	"github.com/hamidadj13/syncvote-api/internal/config"
	"github.com/hamidadj13/syncvote-api/internal/database"
	"github.com/hamidadj13/syncvote-api/internal/jobs"
	"github.com/hamidadj13/syncvote-api/internal/middleware"
	"github.com/hamidadj13/syncvote-api/internal/seed"

	"github.com/spf13/cobra"
)

var indexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "Create the collection indexes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		db, err := database.Connect(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close(cmd.Context()) }()

		if err := database.EnsureIndexes(cmd.Context(), db); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d indexes ensured\n", len(database.Indexes()))
		return nil
	},
}

var seedOpts = seed.DefaultOptions()

var seedCmd = &cobra.Command{
	Use:                "seed",
	Short:              "Fill the database with demo data",
	PersistentPreRunE:  initServer,
	PersistentPostRunE: closeServer,
	RunE: func(cmd *cobra.Command, _ []string) error {
		srv := serverFrom(cmd)
		var slugs []string
		for _, c := range srv.PostService().ListCategories() {
			slugs = append(slugs, c.Slug)
		}

		s := &seed.Seeder{
			Users:      srv.UserService(),
			Posts:      srv.PostService(),
			Comments:   srv.CommentService(),
			Votes:      srv.VoteService(),
			Categories: slugs,
			Logger:     middleware.Logger,
		}
		sum, err := s.Run(cmd.Context(), seedOpts)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %d users, %d posts, %d comments, %d votes (password %q)\n",
			sum.Users, sum.Posts, sum.Comments, sum.Votes, seedOpts.Password)
		return nil
	},
}

var promoteCmd = &cobra.Command{
	Use:                "promote EMAIL",
	Short:              "Grant the admin role to a user",
	Args:               cobra.ExactArgs(1),
	PersistentPreRunE:  initServer,
	PersistentPostRunE: closeServer,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := serverFrom(cmd).UserService().Promote(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now an admin\n", args[0])
		return nil
	},
}

var reconcileCmd = &cobra.Command{
	Use:                "reconcile",
	Short:              "Recompute like and dislike counters from the stored votes",
	PersistentPreRunE:  initServer,
	PersistentPostRunE: closeServer,
	RunE: func(cmd *cobra.Command, _ []string) error {
		result, err := jobs.Reconcile(cmd.Context(), middleware.Logger, serverFrom(cmd).VoteService())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "checked %d targets, repaired %d, skipped %d\n",
			result.Checked, result.Repaired, result.Skipped)
		return nil
	},
}

func init() {
	f := seedCmd.Flags()
	f.IntVar(&seedOpts.Users, "users", seedOpts.Users, "number of users")
	f.IntVar(&seedOpts.PostsPerUser, "posts", seedOpts.PostsPerUser, "posts per user")
	f.IntVar(&seedOpts.CommentsPerPost, "comments", seedOpts.CommentsPerPost, "comments per post")
	f.Float64Var(&seedOpts.VoteChance, "vote-chance", seedOpts.VoteChance, "probability that a user votes on an item")
	f.StringVar(&seedOpts.Password, "password", seedOpts.Password, "password of every seeded account")
	f.Int64Var(&seedOpts.Seed, "seed", 0, "random seed, 0 for a random run")
}
