package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"skill-bridge/internal/domain"
	"skill-bridge/internal/domain/evidence"
	"skill-bridge/internal/domain/job"
	"skill-bridge/internal/domain/role"
	"skill-bridge/internal/domain/skill"

	"github.com/stretchr/testify/require"
)

var errStorage = errors.New("storage down")

func newTestRegistry(t *testing.T) *skill.Registry {
	t.Helper()
	reg, err := skill.NewRegistry([]skill.Skill{
		{ID: "s1", CanonicalName: "Python", Category: skill.CategoryProgrammingLanguages, Aliases: []string{"py"}},
		{ID: "s2", CanonicalName: "SQL", Category: skill.CategoryDataScience},
		{ID: "s3", CanonicalName: "TensorFlow", Category: skill.CategoryDataScience, Aliases: []string{"tf"}},
		{ID: "s4", CanonicalName: "Docker", Category: skill.CategoryCloudDevOps},
	})
	require.NoError(t, err)
	return reg
}

type fakeEvidenceRepo struct {
	mu      sync.Mutex
	saved   map[string]evidence.Item
	deleted []string
	err     error

	// When set, UpdateEvidenceSkills signals updating and then blocks on
	// release before touching saved.
	updating chan struct{}
	release  chan struct{}
}

func newFakeEvidenceRepo() *fakeEvidenceRepo {
	return &fakeEvidenceRepo{saved: map[string]evidence.Item{}}
}

func (r *fakeEvidenceRepo) ListEvidence(context.Context) ([]evidence.Item, error) {
	return nil, r.err
}

func (r *fakeEvidenceRepo) CreateEvidence(_ context.Context, it evidence.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if _, ok := r.saved[it.ID]; ok {
		return fmt.Errorf("%w: evidence %s", domain.ErrDuplicateID, it.ID)
	}
	r.saved[it.ID] = it
	return nil
}

func (r *fakeEvidenceRepo) UpdateEvidenceSkills(_ context.Context, id string, skillIDs []string) error {
	if r.updating != nil {
		r.updating <- struct{}{}
		<-r.release
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	it, ok := r.saved[id]
	if !ok {
		return fmt.Errorf("%w: evidence %s", domain.ErrNotFound, id)
	}
	it.SkillIDs = skillIDs
	r.saved[id] = it
	return nil
}

func (r *fakeEvidenceRepo) DeleteEvidence(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if _, ok := r.saved[id]; !ok {
		return fmt.Errorf("%w: evidence %s", domain.ErrNotFound, id)
	}
	delete(r.saved, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeEvidenceRepo) has(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.saved[id]
	return ok
}

type fakeJobRepo struct {
	created   []job.Posting
	moderated map[string]job.ModerationStatus
	roles     map[string][]string
	err       error

	// When set, UpdateModeration signals moderating and then blocks on
	// release before recording.
	moderating chan struct{}
	release    chan struct{}
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{moderated: map[string]job.ModerationStatus{}, roles: map[string][]string{}}
}

func (r *fakeJobRepo) ListJobs(context.Context) ([]job.Posting, error) {
	return r.created, r.err
}

func (r *fakeJobRepo) CreateJob(_ context.Context, p job.Posting) error {
	if r.err != nil {
		return r.err
	}
	r.created = append(r.created, p)
	return nil
}

func (r *fakeJobRepo) UpdateModeration(_ context.Context, id string, st job.ModerationStatus, _ string) error {
	if r.moderating != nil {
		r.moderating <- struct{}{}
		<-r.release
	}
	if r.err != nil {
		return r.err
	}
	r.moderated[id] = st
	return nil
}

func (r *fakeJobRepo) AddJobRole(_ context.Context, jobID, roleID string) error {
	if r.err != nil {
		return r.err
	}
	r.roles[jobID] = append(r.roles[jobID], roleID)
	return nil
}

type fakeRoleRepo struct {
	created []role.Role
	err     error
}

func (r *fakeRoleRepo) ListRoles(context.Context) ([]role.Role, error) {
	return r.created, r.err
}

func (r *fakeRoleRepo) CreateRole(_ context.Context, ro role.Role) error {
	if r.err != nil {
		return r.err
	}
	r.created = append(r.created, ro)
	return nil
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	gets int
	hits int
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (c *memCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(b, out)
}

func (c *memCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = b
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) DeleteByPattern(_ context.Context, pattern string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	n := 0
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
			n++
		}
	}
	return n, nil
}

type publishedEvent struct {
	Type    string
	Payload any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(eventType string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Type: eventType, Payload: payload})
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error { return p.err }
