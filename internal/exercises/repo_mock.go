package exercises

import (
	"context"
	"sort"
	"strings"
)

type repoMock struct {
	catalog map[string]*Exercise
}

func NewMockExercisesRepo() *repoMock {
	return &repoMock{
		catalog: make(map[string]*Exercise),
	}
}

func (r *repoMock) Add(exercise Exercise) {
	r.catalog[exercise.ID] = &exercise
}

func (r *repoMock) Get(_ context.Context, id string) (*Exercise, error) {
	e, ok := r.catalog[id]
	if !ok {
		return nil, ErrExerciseNotFound
	}
	return e, nil
}

func (r *repoMock) List(_ context.Context, params ListParams) ([]Exercise, int, error) {
	var all []Exercise
	for _, e := range r.catalog {
		if params.Search != "" && !strings.Contains(strings.ToLower(e.Name), strings.ToLower(params.Search)) {
			continue
		}
		if params.Category != "" && e.Category != params.Category {
			continue
		}
		if params.Difficulty != "" && e.Difficulty != params.Difficulty {
			continue
		}
		all = append(all, *e)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Name < all[j].Name
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
