package profile

import (
	"context"
	"fmt"

	"hrapp/internal/domain/access"
)

type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

// ListBasic returns every profile with the detailed fields removed.
func (s *Service) ListBasic(ctx context.Context, actor access.Principal, limit, offset int) ([]Profile, error) {
	if err := access.Require(actor.Role, access.ActionViewProfileBasic, access.Other); err != nil {
		return nil, err
	}
	profiles, err := s.Store.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return BasicOnly(profiles), nil
}

func (s *Service) ListDetailed(ctx context.Context, actor access.Principal, limit, offset int) ([]Profile, error) {
	if err := access.Require(actor.Role, access.ActionViewAllProfilesDetailed, access.Other); err != nil {
		return nil, err
	}
	profiles, err := s.Store.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return profiles, nil
}

func (s *Service) GetBasic(ctx context.Context, actor access.Principal, id string) (Profile, error) {
	p, err := s.Store.Get(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	if err := actor.Require(access.ActionViewProfileBasic, p.UserID); err != nil {
		return Profile{}, err
	}
	return Profile{Basic: p.Basic}, nil
}

func (s *Service) GetDetailed(ctx context.Context, actor access.Principal, id string) (Profile, error) {
	p, err := s.Store.Get(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	if err := actor.Require(access.ActionViewProfileDetailed, p.UserID); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func (s *Service) Mine(ctx context.Context, actor access.Principal) (Profile, error) {
	if err := access.Require(actor.Role, access.ActionViewOwnProfile, access.Self); err != nil {
		return Profile{}, err
	}
	p, err := s.Store.GetByUserID(ctx, actor.UserID)
	if err != nil {
		return Profile{}, err
	}
	return Project(actor, p), nil
}

// Update applies in to the profile. Changing the manager assignment needs the
// reassign permission on top of edit.
func (s *Service) Update(ctx context.Context, actor access.Principal, id string, in Update) (Profile, error) {
	current, err := s.Store.Get(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	if err := actor.Require(access.ActionEditProfile, current.UserID); err != nil {
		return Profile{}, err
	}
	if in.ManagerID != nil && *in.ManagerID != current.ManagerID {
		if err := actor.Require(access.ActionReassignManager, current.UserID); err != nil {
			return Profile{}, err
		}
		if *in.ManagerID != "" {
			if *in.ManagerID == current.UserID {
				return Profile{}, fmt.Errorf("%w: a profile cannot report to itself", ErrManagerNotFound)
			}
			exists, err := s.Store.UserExists(ctx, *in.ManagerID)
			if err != nil {
				return Profile{}, fmt.Errorf("check manager: %w", err)
			}
			if !exists {
				return Profile{}, ErrManagerNotFound
			}
		}
	}
	if err := s.Store.Update(ctx, id, in); err != nil {
		return Profile{}, err
	}
	return s.Store.Get(ctx, id)
}

// OwnerUserID reports which user a profile belongs to.
func (s *Service) OwnerUserID(ctx context.Context, profileID string) (string, error) {
	p, err := s.Store.Get(ctx, profileID)
	if err != nil {
		return "", err
	}
	return p.UserID, nil
}
