package cvdata

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/samlatif/network/internal/db"
	"github.com/samlatif/network/internal/logger"
	"github.com/samlatif/network/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Store is the persistence the assembler reads from.
type Store interface {
	GetUserByUsername(ctx context.Context, username string) (*db.User, error)
	ListRecommendationsByUsername(ctx context.Context, username string) ([]db.Recommendation, error)
	GetCVRows(ctx context.Context, userID uuid.UUID) (*db.CVRows, error)
}

// Profile is the identity block of a CV payload.
type Profile struct {
	Username  string   `json:"username"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Headline  string   `json:"headline"`
	Location  string   `json:"location"`
	Bio       string   `json:"bio"`
	Summary   []string `json:"summary"`
	AvatarURL *string  `json:"avatarUrl"`
}

// Payload is a user's complete CV: identity plus a dataset whose rule tables
// always come from the shared dataset.
type Payload struct {
	Profile Profile `json:"profile"`
	types.CVData
}

// Assembler builds CV payloads from stored rows, falling back to a shared
// dataset section by section.
type Assembler struct {
	Store  Store
	Shared *types.CVData
	// FeaturedUsername owns the shared dataset: it gets the shared testimonials,
	// overview stats and summary instead of inferred ones.
	FeaturedUsername string
	Logger           *zap.Logger
}

// Build assembles the payload for username. It returns nil, nil when the user
// does not exist. A failure reading CV rows degrades to the shared dataset.
func (a *Assembler) Build(ctx context.Context, username string) (*Payload, error) {
	log := logger.OrNop(a.Logger)
	shared := a.Shared
	if shared == nil {
		shared = &types.CVData{}
	}

	var (
		user *db.User
		recs []db.Recommendation
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = a.Store.GetUserByUsername(gctx, username)
		return err
	})
	g.Go(func() error {
		var err error
		recs, err = a.Store.ListRecommendationsByUsername(gctx, username)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load profile %s: %w", username, err)
	}
	if user == nil {
		return nil, nil
	}

	rows, err := a.Store.GetCVRows(ctx, user.ID)
	if err != nil {
		log.Warn("cv rows unavailable, using shared dataset",
			zap.String("username", username), zap.Error(err))
		rows = &db.CVRows{}
	}
	if rows == nil {
		rows = &db.CVRows{}
	}

	featured := user.Username == a.FeaturedUsername

	data := types.CVData{
		TechRows:               orShared(rows.TechRows, shared.TechRows),
		Skills:                 orShared(rows.Skills, shared.Skills),
		Jobs:                   orShared(rows.Jobs, shared.Jobs),
		Education:              orShared(rows.Education, shared.Education),
		DateBasedStackDefaults: shared.DateBasedStackDefaults,
		GlobalStackDefaults:    shared.GlobalStackDefaults,
	}

	if featured {
		data.Testimonials = shared.Testimonials
	} else {
		known := KnownCompanies(data.Jobs)
		data.Testimonials = make([]types.Testimonial, 0, len(recs))
		for _, r := range recs {
			data.Testimonials = append(data.Testimonials, TestimonialFromRecommendation(r, known))
		}
	}

	switch {
	case len(rows.OverviewStats) > 0:
		data.OverviewStats = rows.OverviewStats
	case featured:
		data.OverviewStats = orShared(shared.OverviewStats, DefaultOverviewStats)
	default:
		data.OverviewStats = InferOverviewStats(data.TechRows, data.Jobs, data.Skills, data.Testimonials)
	}

	summary := []string{user.Bio}
	if featured && len(shared.Summary) > 0 {
		summary = shared.Summary
	}

	return &Payload{
		Profile: Profile{
			Username:  user.Username,
			Name:      user.Name,
			Email:     user.Email,
			Headline:  user.Headline,
			Location:  user.Location,
			Bio:       user.Bio,
			Summary:   summary,
			AvatarURL: user.AvatarURL,
		},
		CVData: data,
	}, nil
}

func orShared[T any](own, shared []T) []T {
	if len(own) > 0 {
		return own
	}
	return shared
}
