package main

import (
	"context"
	"fmt"
	"time"

	"github.com/samlatif/network/internal/db"
	"github.com/samlatif/network/internal/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var seedDataFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Reset the database to the demo network",
	Long: `Deletes every user, post, connection and conversation, then inserts the demo
network and stores the shared CV dataset as the featured user's CV rows.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedDataFile, "data", "", "Path to CV dataset (.json, .yaml); defaults to CV_DATA_FILE or the embedded dataset")
	rootCmd.AddCommand(seedCmd)
}

var seedUsers = []db.UserCreateInput{
	{
		Username: "samlatif",
		Name:     "Sam Latif",
		Email:    "hello@samlatif.uk",
		Headline: "Senior Fullstack Consultant",
		Location: "West London, UK",
		Bio:      "15+ years building high-performance products in fintech and enterprise.",
	},
	{
		Username: "emmachen",
		Name:     "Emma Chen",
		Email:    "emma.chen@example.com",
		Headline: "Product Lead, B2B SaaS",
		Location: "London, UK",
		Bio:      "Product operator focused on growth and retention loops.",
	},
	{
		Username: "danielokafor",
		Name:     "Daniel Okafor",
		Email:    "daniel.okafor@example.com",
		Headline: "Frontend Engineer",
		Location: "Manchester, UK",
		Bio:      "React and design-systems engineer who loves shipping polished UX.",
	},
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadRuntime()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	path := cfg.CVDataFile
	if seedDataFile != "" {
		path = seedDataFile
	}
	shared, err := loadDataset(path)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := seedNetwork(ctx, database, shared, cfg.FeaturedUser, log); err != nil {
		return err
	}
	log.Info("seed complete", zap.Int("users", len(seedUsers)))
	return nil
}

func seedNetwork(ctx context.Context, database *db.DB, shared *types.CVData, featured string, log *zap.Logger) error {
	if err := database.ResetNetwork(ctx); err != nil {
		return err
	}

	users := make(map[string]*db.User, len(seedUsers))
	for i := range seedUsers {
		user, err := database.CreateUser(ctx, &seedUsers[i])
		if err != nil {
			return err
		}
		users[user.Username] = user
	}
	sam, emma, daniel := users["samlatif"], users["emmachen"], users["danielokafor"]

	posts := []struct {
		author  *db.User
		content string
	}{
		{sam, "Shipping the v1 of a professional network MVP this week. Looking for early adopters and feedback."},
		{emma, "Hiring: senior frontend contractors with fintech experience. Remote-first, UK timezone."},
		{daniel, "Open-sourcing our accessibility checklist for enterprise dashboards."},
	}
	for _, p := range posts {
		if _, err := database.CreatePost(ctx, p.author.ID, p.content); err != nil {
			return err
		}
	}

	if err := database.CreateConnectionWithStatus(ctx, sam.ID, emma.ID, db.ConnectionAccepted); err != nil {
		return err
	}
	if err := database.CreateConnectionWithStatus(ctx, daniel.ID, sam.ID, db.ConnectionPending); err != nil {
		return err
	}

	conversationID, err := database.CreateConversation(ctx, sam.ID, emma.ID)
	if err != nil {
		return err
	}
	messages := []struct {
		sender  *db.User
		content string
	}{
		{emma, "Hey Sam, interested in a short discovery call next week?"},
		{sam, "Absolutely. Send over a couple of time slots and I'll confirm."},
	}
	for _, m := range messages {
		if _, err := database.CreateMessage(ctx, conversationID, m.sender.ID, m.content); err != nil {
			return err
		}
	}

	if err := database.CreateRecommendation(ctx, &db.Recommendation{
		RecipientID:       daniel.ID,
		RecommenderName:   sam.Name,
		RecommenderRole:   sam.Headline,
		RelationshipLabel: "Worked with Daniel on the same team",
		Content:           "Daniel pairs a sharp eye for UX with solid React fundamentals.",
		RecommendationAt:  time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		IsPublic:          true,
	}); err != nil {
		return err
	}

	owner, ok := users[featured]
	if !ok {
		log.Warn("featured user is not part of the demo network, skipping CV rows", zap.String("username", featured))
		return nil
	}
	if err := database.ReplaceCV(ctx, owner.ID, shared); err != nil {
		return fmt.Errorf("failed to store CV rows for %s: %w", featured, err)
	}
	log.Info("stored CV rows", zap.String("username", featured), zap.Int("jobs", len(shared.Jobs)))
	return nil
}
