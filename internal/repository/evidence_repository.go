package repository

import (
	"context"
	"fmt"
	"time"

	"skill-bridge/internal/database"
	"skill-bridge/internal/domain"
	"skill-bridge/internal/domain/evidence"
)

type EvidenceRepository interface {
	ListEvidence(ctx context.Context) ([]evidence.Item, error)
	// CreateEvidence inserts a new item with its skill tags. An id already
	// stored fails with domain.ErrDuplicateID.
	CreateEvidence(ctx context.Context, item evidence.Item) error
	// UpdateEvidenceSkills replaces the skill tags of a stored item. A missing
	// item fails with domain.ErrNotFound and nothing is written.
	UpdateEvidenceSkills(ctx context.Context, id string, skillIDs []string) error
	DeleteEvidence(ctx context.Context, id string) error
}

type PostgresEvidenceRepository struct {
	db database.DB
}

func NewPostgresEvidenceRepository(db database.DB) *PostgresEvidenceRepository {
	return &PostgresEvidenceRepository{db: db}
}

func (r *PostgresEvidenceRepository) ListEvidence(ctx context.Context) ([]evidence.Item, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, title, kind, text_excerpt, source_url, uploaded_at
		 FROM evidence_items
		 ORDER BY seq ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query evidence: %w", err)
	}
	defer rows.Close()

	out := make([]evidence.Item, 0)
	pos := make(map[string]int)
	for rows.Next() {
		var it evidence.Item
		var kind string
		var uploadedAt time.Time
		if err := rows.Scan(&it.ID, &it.Title, &kind, &it.TextExcerpt, &it.SourceURL, &uploadedAt); err != nil {
			return nil, err
		}
		it.Kind = evidence.Kind(kind)
		it.UploadedAt = uploadedAt.UTC()
		it.SkillIDs = []string{}
		pos[it.ID] = len(out)
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tagRows, err := r.db.Query(ctx,
		`SELECT evidence_id, skill_id FROM evidence_skills ORDER BY evidence_id ASC, position ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query evidence skills: %w", err)
	}
	defer tagRows.Close()

	for tagRows.Next() {
		var evidenceID, skillID string
		if err := tagRows.Scan(&evidenceID, &skillID); err != nil {
			return nil, err
		}
		if i, ok := pos[evidenceID]; ok {
			out[i].SkillIDs = append(out[i].SkillIDs, skillID)
		}
	}
	if err := tagRows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresEvidenceRepository) CreateEvidence(ctx context.Context, it evidence.Item) error {
	return database.WithTx(ctx, r.db, func(tx database.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO evidence_items (id, title, kind, text_excerpt, source_url, uploaded_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			it.ID, it.Title, string(it.Kind), it.TextExcerpt, it.SourceURL, it.UploadedAt,
		); err != nil {
			return wrapWriteError(err, "evidence", it.ID)
		}
		return writeEvidenceSkills(ctx, tx, it.ID, it.SkillIDs)
	})
}

// SaveEvidence inserts or fully replaces an item and its skill tags. Seeders
// use it so they can be re-run.
func (r *PostgresEvidenceRepository) SaveEvidence(ctx context.Context, it evidence.Item) error {
	return database.WithTx(ctx, r.db, func(tx database.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO evidence_items (id, title, kind, text_excerpt, source_url, uploaded_at)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (id) DO UPDATE
			 SET title = EXCLUDED.title,
			     kind = EXCLUDED.kind,
			     text_excerpt = EXCLUDED.text_excerpt,
			     source_url = EXCLUDED.source_url,
			     uploaded_at = EXCLUDED.uploaded_at`,
			it.ID, it.Title, string(it.Kind), it.TextExcerpt, it.SourceURL, it.UploadedAt,
		); err != nil {
			return wrapWriteError(err, "evidence", it.ID)
		}
		return writeEvidenceSkills(ctx, tx, it.ID, it.SkillIDs)
	})
}

// UpdateEvidenceSkills locks the item row before touching its tags, so a
// concurrent delete either wins outright or waits for the update.
func (r *PostgresEvidenceRepository) UpdateEvidenceSkills(ctx context.Context, id string, skillIDs []string) error {
	return database.WithTx(ctx, r.db, func(tx database.Tx) error {
		affected, err := tx.Exec(ctx, `UPDATE evidence_items SET tags_updated_at = now() WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("update evidence %s: %w", id, err)
		}
		if affected == 0 {
			return fmt.Errorf("%w: evidence %s", domain.ErrNotFound, id)
		}
		return writeEvidenceSkills(ctx, tx, id, skillIDs)
	})
}

func writeEvidenceSkills(ctx context.Context, tx database.Tx, id string, skillIDs []string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM evidence_skills WHERE evidence_id = $1`, id); err != nil {
		return err
	}
	for i, sid := range skillIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO evidence_skills (evidence_id, skill_id, position) VALUES ($1, $2, $3)`,
			id, sid, i,
		); err != nil {
			return wrapWriteError(err, "evidence skill", sid)
		}
	}
	return nil
}

func (r *PostgresEvidenceRepository) DeleteEvidence(ctx context.Context, id string) error {
	affected, err := r.db.Exec(ctx, `DELETE FROM evidence_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete evidence %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: evidence %s", domain.ErrNotFound, id)
	}
	return nil
}
