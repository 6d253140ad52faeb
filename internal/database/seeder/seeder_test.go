package seeder

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"skill-bridge/internal/database"
	"skill-bridge/internal/domain"
	"skill-bridge/internal/domain/skill"
	"skill-bridge/internal/taxonomy"
)

type recordingDB struct {
	execs []string
	args  [][]any
}

func (db *recordingDB) Ping(context.Context) error { return nil }
func (db *recordingDB) Close() error               { return nil }
func (db *recordingDB) SQLDB() *sql.DB             { return nil }

func (db *recordingDB) Exec(_ context.Context, query string, args ...any) (int64, error) {
	db.execs = append(db.execs, query)
	db.args = append(db.args, args)
	return 1, nil
}

func (db *recordingDB) Query(context.Context, string, ...any) (database.Rows, error) {
	return nil, errors.New("not supported")
}

func (db *recordingDB) QueryRow(context.Context, string, ...any) database.Row {
	return nil
}

func (db *recordingDB) Begin(context.Context) (database.Tx, error) {
	return recordingTx{db}, nil
}

type recordingTx struct {
	db *recordingDB
}

func (t recordingTx) Exec(ctx context.Context, q string, args ...any) (int64, error) {
	return t.db.Exec(ctx, q, args...)
}

func (t recordingTx) Query(ctx context.Context, q string, args ...any) (database.Rows, error) {
	return t.db.Query(ctx, q, args...)
}

func (t recordingTx) QueryRow(ctx context.Context, q string, args ...any) database.Row {
	return t.db.QueryRow(ctx, q, args...)
}

func (recordingTx) Commit(context.Context) error   { return nil }
func (recordingTx) Rollback(context.Context) error { return nil }

func (db *recordingDB) count(frag string) int {
	n := 0
	for _, q := range db.execs {
		if strings.Contains(q, frag) {
			n++
		}
	}
	return n
}

func TestTaxonomySeeder_RejectsInvalidTaxonomyBeforeWriting(t *testing.T) {
	db := &recordingDB{}
	s := TaxonomySeeder{Skills: []skill.Skill{
		{ID: "a", CanonicalName: "Go", Category: skill.CategoryProgrammingLanguages},
		{ID: "b", CanonicalName: "Golang", Category: skill.CategoryProgrammingLanguages, Aliases: []string{"go"}},
	}}

	err := Runner{Seeders: []Seeder{s}}.Run(context.Background(), db)
	if !errors.Is(err, domain.ErrDuplicateAlias) {
		t.Fatalf("expected ErrDuplicateAlias, got %v", err)
	}
	if len(db.execs) != 0 {
		t.Fatalf("expected no writes, got %d", len(db.execs))
	}
}

func TestRunner_TaxonomyAndDemo(t *testing.T) {
	skills, err := taxonomy.Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	reg, err := skill.NewRegistry(skills)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	db := &recordingDB{}
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	r := Runner{Seeders: []Seeder{
		TaxonomySeeder{Skills: skills},
		DemoSeeder{Registry: reg, Now: func() time.Time { return fixed }},
	}}
	if err := r.Run(context.Background(), db); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := db.count("INSERT INTO skills"); got != reg.Len() {
		t.Fatalf("expected %d skill upserts, got %d", reg.Len(), got)
	}
	if got := db.count("INSERT INTO evidence_items"); got != len(demoEvidenceItems) {
		t.Fatalf("expected %d evidence writes, got %d", len(demoEvidenceItems), got)
	}
	if got := db.count("INSERT INTO job_postings"); got != len(demoJobs) {
		t.Fatalf("expected %d job writes, got %d", len(demoJobs), got)
	}
	if got := db.count("INSERT INTO roles"); got != len(demoRoles) {
		t.Fatalf("expected %d role writes, got %d", len(demoRoles), got)
	}
	if got := db.count("INSERT INTO job_roles"); got != 2 {
		t.Fatalf("expected 2 job role tags, got %d", got)
	}
	// MLflow is not in the default taxonomy, so demo-ml carries three requirements.
	reqs := 0
	for i, q := range db.execs {
		if strings.Contains(q, "INSERT INTO job_required_skills") && db.args[i][0] == "demo-ml" {
			reqs++
		}
	}
	if reqs != 3 {
		t.Fatalf("expected 3 resolved requirements for demo-ml, got %d", reqs)
	}
}

func TestRunner_NilDB(t *testing.T) {
	if err := (Runner{}).Run(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil db")
	}
}
