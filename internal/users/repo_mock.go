package users

import (
	"context"
	"sort"
	"strings"
)

type repoMock struct {
	users map[string]*User
}

func NewMockUsersRepo() *repoMock {
	return &repoMock{
		users: make(map[string]*User),
	}
}

func (r *repoMock) Add(_ context.Context, user User) (*User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, ErrEmailTaken
		}
	}
	if user.ID == "" {
		user.ID = "user-" + user.Email
	}
	r.users[user.ID] = &user
	return &user, nil
}

func (r *repoMock) Get(_ context.Context, id string) (*User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (r *repoMock) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *repoMock) List(_ context.Context, params ListParams) ([]User, int, error) {
	var all []User
	for _, u := range r.users {
		if params.Search != "" &&
			!strings.Contains(u.Name, params.Search) &&
			!strings.Contains(u.Email, params.Search) {
			continue
		}
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].ID < all[j].ID
	})

	total := len(all)
	from := (params.Page - 1) * params.Size
	if from > total {
		from = total
	}
	to := from + params.Size
	if to > total {
		to = total
	}
	return all[from:to], total, nil
}
