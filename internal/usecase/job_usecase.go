package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"skill-bridge/internal/domain"
	"skill-bridge/internal/domain/job"
	"skill-bridge/internal/domain/role"
	"skill-bridge/internal/domain/skill"
	"skill-bridge/internal/repository"

	"github.com/google/uuid"
)

type CreateJobInput struct {
	ID                 string
	Title              string
	Company            string
	Location           string
	PostedAt           time.Time
	SkillTokens        []string
	DescriptionExcerpt string
	SourceURL          string
}

type CreatedJob struct {
	Posting    job.Posting
	Unresolved []skill.UnresolvedToken
}

type JobUsecase interface {
	ListJobs(ctx context.Context, status string) ([]job.Posting, error)
	GetJob(ctx context.Context, id string) (job.Posting, error)
	// CreateJob adds a posting that is immediately visible to matching.
	CreateJob(ctx context.Context, in CreateJobInput) (CreatedJob, error)
	// SubmitJob adds a community posting that waits for moderation.
	SubmitJob(ctx context.Context, in CreateJobInput) (CreatedJob, error)
	ModerateJob(ctx context.Context, id, status, reason string) (job.Posting, error)
	// TagJobRole files a posting under a role for role skill weights.
	TagJobRole(ctx context.Context, jobID, roleID string) (job.Posting, error)
}

// Job writes hold writeMu from the existence check until the store is
// updated, so storage and the store see mutations in the same order.
type Job struct {
	extractor *job.Extractor
	store     *job.Store
	roles     *role.Store
	repo      repository.JobRepository
	events    EventPublisher
	logger    *log.Logger
	now       func() time.Time

	writeMu sync.Mutex
}

func NewJobUsecase(extractor *job.Extractor, store *job.Store, roles *role.Store, repo repository.JobRepository, events EventPublisher, logger *log.Logger) *Job {
	if roles == nil {
		roles = role.NewStore()
	}
	return &Job{
		extractor: extractor,
		store:     store,
		roles:     roles,
		repo:      repo,
		events:    publisherOrNoop(events),
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (u *Job) ListJobs(_ context.Context, status string) ([]job.Posting, error) {
	if strings.TrimSpace(status) == "" {
		return u.store.List(""), nil
	}
	st, err := job.ParseStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return u.store.List(st), nil
}

func (u *Job) GetJob(_ context.Context, id string) (job.Posting, error) {
	p, ok := u.store.Get(strings.TrimSpace(id))
	if !ok {
		return job.Posting{}, fmt.Errorf("%w: job %s", domain.ErrNotFound, id)
	}
	return p, nil
}

func (u *Job) CreateJob(ctx context.Context, in CreateJobInput) (CreatedJob, error) {
	return u.add(ctx, in, job.StatusApproved)
}

func (u *Job) SubmitJob(ctx context.Context, in CreateJobInput) (CreatedJob, error) {
	return u.add(ctx, in, job.StatusPending)
}

// add never fails because of unresolved skill tokens; they are reported back
// alongside the stored posting.
func (u *Job) add(ctx context.Context, in CreateJobInput, status job.ModerationStatus) (CreatedJob, error) {
	if strings.TrimSpace(in.Title) == "" {
		return CreatedJob{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	raw := job.RawPosting{
		ID:                 strings.TrimSpace(in.ID),
		Title:              in.Title,
		Company:            in.Company,
		Location:           in.Location,
		PostedAt:           in.PostedAt,
		SkillTokens:        in.SkillTokens,
		DescriptionExcerpt: in.DescriptionExcerpt,
		SourceURL:          in.SourceURL,
	}
	if raw.ID == "" {
		raw.ID = uuid.NewString()
	}
	if raw.PostedAt.IsZero() {
		raw.PostedAt = u.now()
	}

	p, unresolved := u.extractor.ExtractRequirements(raw)
	p.Status = status

	u.writeMu.Lock()
	defer u.writeMu.Unlock()

	if _, exists := u.store.Get(p.ID); exists {
		return CreatedJob{}, fmt.Errorf("%w: job %s", domain.ErrDuplicateID, p.ID)
	}

	if u.repo != nil {
		if err := u.repo.CreateJob(ctx, p); err != nil {
			if errors.Is(err, domain.ErrDuplicateID) {
				return CreatedJob{}, err
			}
			if u.logger != nil {
				u.logger.Printf("[Jobs] create failed id=%s err=%v", p.ID, err)
			}
			return CreatedJob{}, ErrInternal
		}
	}

	if err := u.store.Add(p); err != nil {
		return CreatedJob{}, err
	}

	if len(unresolved) > 0 && u.logger != nil {
		u.logger.Printf("[Jobs] unresolved skill tokens id=%s count=%d", p.ID, len(unresolved))
	}
	u.events.Publish(EventJobsUpdated, map[string]any{"job_id": p.ID, "status": string(p.Status), "action": "created"})
	return CreatedJob{Posting: p, Unresolved: unresolved}, nil
}

func (u *Job) ModerateJob(ctx context.Context, id, status, reason string) (job.Posting, error) {
	id = strings.TrimSpace(id)
	st, err := job.ParseStatus(status)
	if err != nil {
		return job.Posting{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	u.writeMu.Lock()
	defer u.writeMu.Unlock()

	if _, ok := u.store.Get(id); !ok {
		return job.Posting{}, fmt.Errorf("%w: job %s", domain.ErrNotFound, id)
	}

	reason = strings.TrimSpace(reason)
	if u.repo != nil {
		if err := u.repo.UpdateModeration(ctx, id, st, reason); err != nil {
			if u.logger != nil {
				u.logger.Printf("[Jobs] moderation update failed id=%s err=%v", id, err)
			}
			return job.Posting{}, ErrInternal
		}
	}

	p, err := u.store.Moderate(id, st, reason)
	if err != nil {
		return job.Posting{}, err
	}
	u.events.Publish(EventJobsUpdated, map[string]any{"job_id": p.ID, "status": string(p.Status), "action": "moderated"})
	return p, nil
}

func (u *Job) TagJobRole(ctx context.Context, jobID, roleID string) (job.Posting, error) {
	jobID, roleID = strings.TrimSpace(jobID), strings.TrimSpace(roleID)
	if roleID == "" {
		return job.Posting{}, fmt.Errorf("%w: role_id is required", ErrInvalidInput)
	}
	if _, ok := u.roles.Get(roleID); !ok {
		return job.Posting{}, fmt.Errorf("%w: role %s", domain.ErrNotFound, roleID)
	}

	u.writeMu.Lock()
	defer u.writeMu.Unlock()

	current, ok := u.store.Get(jobID)
	if !ok {
		return job.Posting{}, fmt.Errorf("%w: job %s", domain.ErrNotFound, jobID)
	}
	if current.HasRole(roleID) {
		return current, nil
	}

	if u.repo != nil {
		if err := u.repo.AddJobRole(ctx, jobID, roleID); err != nil {
			if u.logger != nil {
				u.logger.Printf("[Jobs] role tag failed id=%s role=%s err=%v", jobID, roleID, err)
			}
			if errors.Is(err, domain.ErrNotFound) {
				return job.Posting{}, err
			}
			return job.Posting{}, ErrInternal
		}
	}

	p, _, err := u.store.TagRole(jobID, roleID)
	if err != nil {
		return job.Posting{}, err
	}
	u.events.Publish(EventJobsUpdated, map[string]any{"job_id": p.ID, "role_id": roleID, "action": "role_tagged"})
	return p, nil
}
