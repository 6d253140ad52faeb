package repository

import (
	"context"
	"fmt"
	"time"

	"skill-bridge/internal/database"
	"skill-bridge/internal/domain"
	"skill-bridge/internal/domain/job"
)

type JobRepository interface {
	ListJobs(ctx context.Context) ([]job.Posting, error)
	CreateJob(ctx context.Context, p job.Posting) error
	UpdateModeration(ctx context.Context, id string, status job.ModerationStatus, reason string) error
	// AddJobRole tags a posting with a role. Tagging twice is a no-op; a
	// missing posting or role fails with domain.ErrNotFound.
	AddJobRole(ctx context.Context, jobID, roleID string) error
}

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

// ListJobs returns every posting in creation order.
func (r *PostgresJobRepository) ListJobs(ctx context.Context) ([]job.Posting, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, title, company, location, posted_at, description_excerpt, source_url,
		        moderation_status, moderation_reason
		 FROM job_postings
		 ORDER BY seq ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	out := make([]job.Posting, 0)
	pos := make(map[string]int)
	for rows.Next() {
		var p job.Posting
		var postedAt time.Time
		var status string
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Company, &p.Location, &postedAt, &p.DescriptionExcerpt, &p.SourceURL,
			&status, &p.ModerationReason,
		); err != nil {
			return nil, err
		}
		p.PostedAt = postedAt.UTC()
		p.Status = job.ModerationStatus(status)
		p.RequiredSkillIDs = []string{}
		pos[p.ID] = len(out)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	reqRows, err := r.db.Query(ctx,
		`SELECT job_id, skill_id FROM job_required_skills ORDER BY job_id ASC, position ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query job required skills: %w", err)
	}
	defer reqRows.Close()

	for reqRows.Next() {
		var jobID, skillID string
		if err := reqRows.Scan(&jobID, &skillID); err != nil {
			return nil, err
		}
		if i, ok := pos[jobID]; ok {
			out[i].RequiredSkillIDs = append(out[i].RequiredSkillIDs, skillID)
		}
	}
	if err := reqRows.Err(); err != nil {
		return nil, err
	}

	roleRows, err := r.db.Query(ctx, `SELECT job_id, role_id FROM job_roles ORDER BY job_id ASC, seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("query job roles: %w", err)
	}
	defer roleRows.Close()

	for roleRows.Next() {
		var jobID, roleID string
		if err := roleRows.Scan(&jobID, &roleID); err != nil {
			return nil, err
		}
		if i, ok := pos[jobID]; ok {
			out[i].RoleIDs = append(out[i].RoleIDs, roleID)
		}
	}
	if err := roleRows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresJobRepository) CreateJob(ctx context.Context, p job.Posting) error {
	return database.WithTx(ctx, r.db, func(tx database.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO job_postings (id, title, company, location, posted_at, description_excerpt, source_url,
			                           moderation_status, moderation_reason)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			p.ID, p.Title, p.Company, p.Location, p.PostedAt, p.DescriptionExcerpt, p.SourceURL,
			string(p.Status), p.ModerationReason,
		); err != nil {
			return wrapWriteError(err, "job", p.ID)
		}
		for i, sid := range p.RequiredSkillIDs {
			if _, err := tx.Exec(ctx,
				`INSERT INTO job_required_skills (job_id, skill_id, position) VALUES ($1, $2, $3)`,
				p.ID, sid, i,
			); err != nil {
				return wrapWriteError(err, "job required skill", sid)
			}
		}
		return nil
	})
}

func (r *PostgresJobRepository) UpdateModeration(ctx context.Context, id string, status job.ModerationStatus, reason string) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE job_postings SET moderation_status = $2, moderation_reason = $3 WHERE id = $1`,
		id, string(status), reason,
	)
	if err != nil {
		return fmt.Errorf("update job moderation %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: job %s", domain.ErrNotFound, id)
	}
	return nil
}

func (r *PostgresJobRepository) AddJobRole(ctx context.Context, jobID, roleID string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO job_roles (job_id, role_id) VALUES ($1, $2) ON CONFLICT (job_id, role_id) DO NOTHING`,
		jobID, roleID,
	)
	if err == nil {
		return nil
	}
	if database.IsForeignKeyViolation(err) {
		return fmt.Errorf("%w: job %s or role %s", domain.ErrNotFound, jobID, roleID)
	}
	return fmt.Errorf("tag job %s with role %s: %w", jobID, roleID, err)
}
