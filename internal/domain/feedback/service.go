package feedback

import (
	"context"
	"fmt"
	"strings"

	"hrapp/internal/domain/access"
)

// ProfileOwner resolves the user a profile belongs to.
type ProfileOwner interface {
	OwnerUserID(ctx context.Context, profileID string) (string, error)
}

type Service struct {
	Store    StoreAPI
	Profiles ProfileOwner
}

func NewService(store StoreAPI, profiles ProfileOwner) *Service {
	return &Service{Store: store, Profiles: profiles}
}

// Leave appends feedback about someone else's profile.
func (s *Service) Leave(ctx context.Context, actor access.Principal, profileID, text string) (Feedback, error) {
	owner, err := s.Profiles.OwnerUserID(ctx, profileID)
	if err != nil {
		return Feedback{}, err
	}
	if err := actor.Require(access.ActionLeaveFeedback, owner); err != nil {
		return Feedback{}, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Feedback{}, ErrEmptyFeedback
	}
	created, err := s.Store.Create(ctx, Feedback{
		ProfileID:        profileID,
		FeedbackBy:       actor.UserID,
		FeedbackText:     text,
		PolishedFeedback: Polish(text),
	})
	if err != nil {
		return Feedback{}, fmt.Errorf("create feedback: %w", err)
	}
	return created, nil
}

func (s *Service) List(ctx context.Context, actor access.Principal, profileID string) ([]Feedback, error) {
	owner, err := s.Profiles.OwnerUserID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if err := actor.Require(access.ActionViewFeedback, owner); err != nil {
		return nil, err
	}
	return s.Store.ListByProfile(ctx, profileID)
}
