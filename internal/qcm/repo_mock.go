package qcm

import (
	"context"
	"fmt"
	"sort"
	"time"
)

type repoMock struct {
	sessions map[string]*Session
	nextID   int
}

func NewMockQCMRepo() *repoMock {
	return &repoMock{
		sessions: make(map[string]*Session),
	}
}

func (r *repoMock) Add(_ context.Context, session Session) (*Session, error) {
	r.nextID++
	session.ID = fmt.Sprintf("qcm-%d", r.nextID)
	session.CompletedAt = time.Now()
	r.sessions[session.ID] = &session
	return &session, nil
}

func (r *repoMock) List(_ context.Context, userID string, limit int) ([]Session, error) {
	var sessions []Session
	for _, s := range r.sessions {
		if s.UserID == userID {
			sessions = append(sessions, *s)
		}
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CompletedAt.After(sessions[j].CompletedAt)
	})
	if len(sessions) > limit {
		sessions = sessions[:limit]
	}
	if sessions == nil {
		sessions = make([]Session, 0)
	}
	return sessions, nil
}
