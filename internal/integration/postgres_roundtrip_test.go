package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"skill-bridge/internal/app"
	"skill-bridge/internal/config"
	"skill-bridge/internal/database"
	"skill-bridge/internal/database/migration"
	dbpostgres "skill-bridge/internal/database/postgres"
	"skill-bridge/internal/database/seeder"
	"skill-bridge/internal/taxonomy"
	"skill-bridge/migrations"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type semanticResponse struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type matchData struct {
	JobID         string `json:"jobId"`
	MatchScore    int    `json:"matchScore"`
	MatchedSkills []struct {
		SkillID      string   `json:"skillId"`
		EvidenceRefs []string `json:"evidenceRefs"`
	} `json:"matchedSkills"`
}

// Evidence, postings and role tags written through the API must survive a restart:
// a second container restores them from PostgreSQL and scores identically.
func TestIntegration_EvidenceAndJobsSurviveRestart(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	cfg := testConfig(t)
	logger := log.New(io.Discard, "", 0)

	db, err := dbpostgres.Connect(ctx, cfg.Database, logger)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := (migration.Runner{FS: migrations.FS, Logger: logger}).Run(ctx, db.SQLDB()); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	skills, err := taxonomy.Default()
	if err != nil {
		t.Fatalf("default taxonomy: %v", err)
	}
	if err := (seeder.Runner{Seeders: []seeder.Seeder{seeder.TaxonomySeeder{Skills: skills}}}).Run(ctx, db); err != nil {
		t.Fatalf("seed taxonomy: %v", err)
	}

	suffix := uuid.NewString()
	evidenceID := "it-evidence-" + suffix
	jobID := "it-job-" + suffix
	roleID := "it-role-" + suffix
	defer cleanup(t, db, evidenceID, jobID, roleID)

	first := newApp(t, ctx, cfg, logger)
	call(t, first, http.MethodPost, "/api/v1/evidence", map[string]any{
		"id": evidenceID, "title": "Integration resume", "kind": "resume", "skills": []string{"Python", "SQL"},
	}, http.StatusCreated)
	call(t, first, http.MethodPost, "/api/v1/jobs", map[string]any{
		"id": jobID, "title": "Integration role", "skills": []string{"python", "sql", "docker"},
	}, http.StatusCreated)
	call(t, first, http.MethodPost, "/api/v1/roles", map[string]any{
		"id": roleID, "name": "Integration role " + suffix,
	}, http.StatusCreated)
	call(t, first, http.MethodPost, "/api/v1/jobs/"+jobID+"/roles", map[string]any{"role_id": roleID}, http.StatusOK)

	before := getMatch(t, first, jobID)
	if before.MatchScore < 67 {
		t.Fatalf("match before restart: expected at least 67, got %d", before.MatchScore)
	}
	if !citesEvidence(before, "python", evidenceID) || !citesEvidence(before, "sql", evidenceID) {
		t.Fatalf("match before restart: expected %s cited for python and sql, got %+v", evidenceID, before.MatchedSkills)
	}
	_ = first.Container.Close()

	second := newApp(t, ctx, cfg, logger)
	defer func() { _ = second.Container.Close() }()

	after := getMatch(t, second, jobID)
	if after.MatchScore != before.MatchScore {
		t.Fatalf("match after restart: expected %d, got %d", before.MatchScore, after.MatchScore)
	}
	if !citesEvidence(after, "python", evidenceID) {
		t.Fatalf("match after restart: expected %s cited for python, got %+v", evidenceID, after.MatchedSkills)
	}

	res := call(t, second, http.MethodGet, "/api/v1/roles/"+roleID+"/weights", nil, http.StatusOK)
	var weights struct {
		ApprovedPostings int `json:"approved_postings"`
		Weights          []struct {
			SkillID string `json:"skill_id"`
		} `json:"weights"`
	}
	if err := json.Unmarshal(res.Data, &weights); err != nil {
		t.Fatalf("decode weights: %v", err)
	}
	if weights.ApprovedPostings != 1 || len(weights.Weights) != 3 {
		t.Fatalf("role weights after restart: expected 1 posting and 3 skills, got %+v", weights)
	}

	call(t, second, http.MethodDelete, "/api/v1/evidence/"+evidenceID, nil, http.StatusOK)
	if got := getMatch(t, second, jobID); citesEvidence(got, "python", evidenceID) {
		t.Fatalf("match after delete: %s still cited", evidenceID)
	}
}

func citesEvidence(m matchData, skillID, evidenceID string) bool {
	for _, ms := range m.MatchedSkills {
		if ms.SkillID != skillID {
			continue
		}
		for _, ref := range ms.EvidenceRefs {
			if ref == evidenceID {
				return true
			}
		}
	}
	return false
}

func testConfig(t *testing.T) config.Config {
	t.Helper()

	host := stringsOrDefault(os.Getenv("SKILLBRIDGE_TEST_DB_HOST"), os.Getenv("DB_HOST"))
	port := stringsOrDefault(os.Getenv("SKILLBRIDGE_TEST_DB_PORT"), os.Getenv("DB_PORT"))
	name := stringsOrDefault(os.Getenv("SKILLBRIDGE_TEST_DB_NAME"), os.Getenv("DB_NAME"))
	user := stringsOrDefault(os.Getenv("SKILLBRIDGE_TEST_DB_USER"), os.Getenv("DB_USER"))
	pass := stringsOrDefault(os.Getenv("SKILLBRIDGE_TEST_DB_PASSWORD"), os.Getenv("DB_PASSWORD"))
	ssl := stringsOrDefault(os.Getenv("SKILLBRIDGE_TEST_DB_SSL_MODE"), os.Getenv("DB_SSL_MODE"))

	if host == "" || name == "" || user == "" {
		t.Skip("missing test DB env vars: set SKILLBRIDGE_TEST_DB_HOST/PORT/NAME/USER/PASSWORD (or DB_HOST/DB_PORT/DB_NAME/DB_USER/DB_PASSWORD)")
	}

	return config.Config{
		App: config.AppConfig{AppName: "skill-bridge-it", Environment: "test", HTTPPort: "0"},
		Database: config.DatabaseConfig{
			DBHost:     host,
			DBPort:     stringsOrDefault(port, "5432"),
			DBName:     name,
			DBUser:     user,
			DBPassword: pass,
			DBSSLMode:  stringsOrDefault(ssl, "disable"),
		},
		Matching: config.MatchingConfig{Workers: 2},
	}
}

func newApp(t *testing.T, ctx context.Context, cfg config.Config, logger *log.Logger) *app.App {
	t.Helper()
	c, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	return app.New(cfg, c)
}

func call(t *testing.T, a *app.App, method, path string, body any, want int) semanticResponse {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	resp, err := a.Fiber.Test(req, fiber.TestConfig{Timeout: 10 * time.Second})
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var out semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("%s %s: decode: %v", method, path, err)
	}
	if resp.StatusCode != want {
		t.Fatalf("%s %s: expected %d, got %d (%s)", method, path, want, resp.StatusCode, out.Message)
	}
	return out
}

func getMatch(t *testing.T, a *app.App, jobID string) matchData {
	t.Helper()
	res := call(t, a, http.MethodGet, "/api/v1/jobs/"+jobID+"/match", nil, http.StatusOK)
	var m matchData
	if err := json.Unmarshal(res.Data, &m); err != nil {
		t.Fatalf("decode match: %v", err)
	}
	return m
}

func cleanup(t *testing.T, db database.DB, evidenceID, jobID, roleID string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := db.Exec(ctx, `DELETE FROM evidence_items WHERE id = $1`, evidenceID); err != nil {
		t.Logf("cleanup evidence: %v", err)
	}
	if _, err := db.Exec(ctx, `DELETE FROM job_postings WHERE id = $1`, jobID); err != nil {
		t.Logf("cleanup job: %v", err)
	}
	if _, err := db.Exec(ctx, `DELETE FROM roles WHERE id = $1`, roleID); err != nil {
		t.Logf("cleanup role: %v", err)
	}
}

func stringsOrDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
