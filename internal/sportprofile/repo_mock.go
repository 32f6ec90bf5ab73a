package sportprofile

import (
	"context"
	"time"
)

type repoMock struct {
	profiles map[string]*SportProfile
}

func NewMockProfileRepo() *repoMock {
	return &repoMock{
		profiles: make(map[string]*SportProfile),
	}
}

func (r *repoMock) Get(_ context.Context, userID string) (*SportProfile, error) {
	profile, ok := r.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

func (r *repoMock) Upsert(_ context.Context, profile SportProfile) (*SportProfile, error) {
	profile.UpdatedAt = time.Now()
	r.profiles[profile.UserID] = &profile
	return &profile, nil
}
