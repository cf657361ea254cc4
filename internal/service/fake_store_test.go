package service

import (
	"codementor_backend/internal/model"
	"codementor_backend/internal/repository"
	"context"
	"sync"
	"time"
)

// fakeStore 内存版 Gateway，Atomic 失败时恢复快照；guidanceErrs 按调用顺序注入 UpsertGuidance 的错误
type fakeStore struct {
	mu          sync.Mutex
	nextID      uint
	assessments map[uint]model.Assessment
	guidance    map[uint]model.Guidance
	resources   []model.Resource
	progress    []model.ProgressItem

	guidanceErrs   []error
	getGuidanceErr error
	assessmentErr  error
	upsertCalls    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		assessments: make(map[uint]model.Assessment),
		guidance:    make(map[uint]model.Guidance),
	}
}

var _ repository.Gateway = (*fakeStore)(nil)

func (f *fakeStore) id() uint {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) GetAssessment(_ context.Context, userID uint) (*model.Assessment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.assessmentErr != nil {
		return nil, f.assessmentErr
	}
	a, ok := f.assessments[userID]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (f *fakeStore) UpsertAssessment(_ context.Context, a *model.Assessment) (*model.Assessment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.assessmentErr != nil {
		return nil, f.assessmentErr
	}
	if existing, ok := f.assessments[a.UserID]; ok {
		a.ID = existing.ID
		a.CreatedAt = existing.CreatedAt
	} else {
		a.ID = f.id()
		a.CreatedAt = time.Now()
	}
	a.UpdatedAt = time.Now()
	f.assessments[a.UserID] = *a
	return a, nil
}

func (f *fakeStore) GetGuidance(_ context.Context, userID uint) (*model.Guidance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getGuidanceErr != nil {
		return nil, f.getGuidanceErr
	}
	g, ok := f.guidance[userID]
	if !ok {
		return nil, nil
	}
	return &g, nil
}

func (f *fakeStore) UpsertGuidance(_ context.Context, g *model.Guidance) (*model.Guidance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upsertCalls++
	if len(f.guidanceErrs) > 0 {
		err := f.guidanceErrs[0]
		f.guidanceErrs = f.guidanceErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	if existing, ok := f.guidance[g.UserID]; ok {
		g.ID = existing.ID
	} else {
		g.ID = f.id()
	}
	f.guidance[g.UserID] = *g
	return g, nil
}

func (f *fakeStore) ListResources(_ context.Context, userID uint) ([]model.Resource, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Resource
	for _, r := range f.resources {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) AppendResource(_ context.Context, r *model.Resource) (*model.Resource, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r.ID = f.id()
	f.resources = append(f.resources, *r)
	return r, nil
}

func (f *fakeStore) ClearResources(_ context.Context, userID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.resources[:0:0]
	for _, r := range f.resources {
		if r.UserID != userID {
			kept = append(kept, r)
		}
	}
	f.resources = kept
	return nil
}

func (f *fakeStore) ListProgress(_ context.Context, userID uint) ([]model.ProgressItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.ProgressItem
	for _, p := range f.progress {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) UpsertProgress(_ context.Context, p *model.ProgressItem) (*model.ProgressItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.progress {
		if f.progress[i].UserID == p.UserID && f.progress[i].Name == p.Name {
			f.progress[i].Percentage = p.Percentage
			return &f.progress[i], nil
		}
	}
	p.ID = f.id()
	f.progress = append(f.progress, *p)
	return p, nil
}

func (f *fakeStore) Atomic(ctx context.Context, fn func(tx repository.Gateway) error) error {
	f.mu.Lock()
	guidance := make(map[uint]model.Guidance, len(f.guidance))
	for k, v := range f.guidance {
		guidance[k] = v
	}
	resources := append([]model.Resource(nil), f.resources...)
	progress := append([]model.ProgressItem(nil), f.progress...)
	f.mu.Unlock()

	if err := fn(f); err != nil {
		f.mu.Lock()
		f.guidance = guidance
		f.resources = resources
		f.progress = progress
		f.mu.Unlock()
		return err
	}
	return nil
}
