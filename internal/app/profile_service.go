package app

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jsamuelsen/fuelquote/internal/domain"
	"github.com/jsamuelsen/fuelquote/internal/ports"
)

// profileRules carries the constraints of a delivery profile.
type profileRules struct {
	FullName string `json:"fullName" validate:"max=50"`
	Address1 string `json:"address1" validate:"required,max=100"`
	Address2 string `json:"address2" validate:"max=100"`
	City     string `json:"city"     validate:"required,max=100"`
	State    string `json:"state"    validate:"required,len=2,alpha"`
	Zipcode  string `json:"zipcode"  validate:"required,min=5,max=9"`
}

// ProfileService reads and saves delivery profiles.
type ProfileService struct {
	profiles ports.ProfileRepository
	validate *validator.Validate
	now      func() time.Time
	logger   *slog.Logger
}

// NewProfileService creates a profile service.
func NewProfileService(profiles ports.ProfileRepository, logger *slog.Logger) *ProfileService {
	if logger == nil {
		logger = slog.Default()
	}

	return &ProfileService{
		profiles: profiles,
		validate: newStructValidator(),
		now:      time.Now,
		logger:   logger,
	}
}

// Get returns the user's delivery profile or domain.ErrNotFound.
func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.DeliveryProfile, error) {
	return s.profiles.GetByUserID(ctx, userID)
}

// Save validates and stores the profile for userID, replacing any previous one.
func (s *ProfileService) Save(ctx context.Context, userID string, profile domain.DeliveryProfile) (*domain.DeliveryProfile, error) {
	profile.UserID = userID
	profile.FullName = strings.TrimSpace(profile.FullName)
	profile.Address1 = strings.TrimSpace(profile.Address1)
	profile.Address2 = strings.TrimSpace(profile.Address2)
	profile.City = strings.TrimSpace(profile.City)
	profile.State = profile.NormalizedState()
	profile.Zipcode = strings.TrimSpace(profile.Zipcode)
	profile.UpdatedAt = s.now().UTC()

	if userID == "" {
		return nil, domain.NewValidationError("userId", "is required")
	}

	errs := fieldErrors(s.validate.Struct(profileRules{
		FullName: profile.FullName,
		Address1: profile.Address1,
		Address2: profile.Address2,
		City:     profile.City,
		State:    profile.State,
		Zipcode:  profile.Zipcode,
	}))
	if err := errs.ErrOrNil(); err != nil {
		return nil, err
	}

	saved, err := s.profiles.Save(ctx, &profile)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to save delivery profile", slog.Any("error", err))

		return nil, err
	}

	s.logger.InfoContext(ctx, "delivery profile saved", slog.String("state", saved.State))

	return saved, nil
}
