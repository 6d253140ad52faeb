package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"skill-bridge/internal/delivery/http/handler"
	"skill-bridge/internal/delivery/http/middleware"
	"skill-bridge/internal/delivery/http/routes"
	"skill-bridge/internal/domain/evidence"
	"skill-bridge/internal/domain/job"
	"skill-bridge/internal/domain/role"
	"skill-bridge/internal/domain/skill"
	"skill-bridge/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	registry, err := skill.NewRegistry([]skill.Skill{
		{ID: "s1", CanonicalName: "Python", Category: skill.CategoryProgrammingLanguages, Aliases: []string{"py"}},
		{ID: "s2", CanonicalName: "SQL", Category: skill.CategoryDataScience},
		{ID: "s3", CanonicalName: "TensorFlow", Category: skill.CategoryDataScience, Aliases: []string{"tf"}},
		{ID: "s4", CanonicalName: "Docker", Category: skill.CategoryCloudDevOps},
	})
	require.NoError(t, err)

	relations, err := skill.NewRelations(registry, []skill.Relation{
		{FromSkillID: "s3", ToSkillID: "s1", Type: skill.RelationChildOf},
		{FromSkillID: "s2", ToSkillID: "s1"},
	})
	require.NoError(t, err)

	logger := log.New(io.Discard, "", 0)
	index := evidence.NewIndex(registry)
	store := job.NewStore()
	roles := role.NewStore()

	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware(logger).Middleware())

	reg := &routes.Registry{
		Health:    handler.NewHealthHandler(usecase.NewStatusUsecase(registry, index, store, nil, nil)),
		Skills:    handler.NewSkillHandler(usecase.NewSkillUsecase(registry, index, relations)),
		Evidence:  handler.NewEvidenceHandler(usecase.NewEvidenceUsecase(registry, index, nil, nil, logger)),
		Jobs:      handler.NewJobHandler(usecase.NewJobUsecase(job.NewExtractor(registry), store, roles, nil, nil, logger)),
		Roles:     handler.NewRoleHandler(usecase.NewRoleUsecase(registry, roles, store, nil, logger)),
		Match:     handler.NewMatchHandler(usecase.NewMatchingUsecase(registry, index, store, nil, 2, 0, logger)),
		Dashboard: handler.NewDashboardHandler(usecase.NewDashboardUsecase(registry, index, store)),
	}
	reg.Register(app)
	return app
}

func do(t *testing.T, app *fiber.App, method, path string, body any) (int, envelope) {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.Equal(t, resp.StatusCode, env.Status)
	return resp.StatusCode, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func seed(t *testing.T, app *fiber.App) {
	t.Helper()
	for _, ev := range []map[string]any{
		{"id": "e1", "title": "Resume", "kind": "resume", "skills": []string{"Python", "sql"}},
		{"id": "e2", "title": "Side project", "kind": "project", "skills": []string{"py", "docker"}},
	} {
		status, _ := do(t, app, http.MethodPost, "/api/v1/evidence", ev)
		require.Equal(t, http.StatusCreated, status)
	}
	for _, j := range []map[string]any{
		{"id": "j1", "title": "Data Engineer", "skills": []string{"python", "SQL"}},
		{"id": "j2", "title": "ML Engineer", "skills": []string{"python", "tensorflow"}},
		{"id": "j3", "title": "Mystery", "skills": []string{"cobol"}},
	} {
		status, _ := do(t, app, http.MethodPost, "/api/v1/jobs", j)
		require.Equal(t, http.StatusCreated, status)
	}
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	status, env := do(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, status)

	body := decode[map[string]any](t, env.Data)
	assert.Equal(t, float64(4), body["total_skills"])
	assert.Equal(t, false, body["database_healthy"])
}

func TestEvidence_UploadReportsUnresolvedAndRejectsDuplicates(t *testing.T) {
	app := newTestApp(t)

	status, env := do(t, app, http.MethodPost, "/api/v1/evidence", map[string]any{
		"id": "e1", "title": "Resume", "kind": "Resume", "skills": []string{"Python", "cobol", "py"},
	})
	require.Equal(t, http.StatusCreated, status)

	var created struct {
		Evidence struct {
			SkillIDs []string `json:"skill_ids"`
		} `json:"evidence"`
		Unresolved []struct {
			Token    string `json:"token"`
			Position int    `json:"position"`
		} `json:"unresolvedTokens"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, []string{"s1"}, created.Evidence.SkillIDs)
	require.Len(t, created.Unresolved, 1)
	assert.Equal(t, "cobol", created.Unresolved[0].Token)
	assert.Equal(t, 1, created.Unresolved[0].Position)

	status, _ = do(t, app, http.MethodPost, "/api/v1/evidence", map[string]any{
		"id": "e1", "title": "Again", "kind": "paper",
	})
	assert.Equal(t, http.StatusConflict, status)
}

func TestEvidence_ValidationAndNotFound(t *testing.T) {
	app := newTestApp(t)

	status, env := do(t, app, http.MethodPost, "/api/v1/evidence", map[string]any{"kind": "paper"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Validation failed", env.Message)

	status, _ = do(t, app, http.MethodPost, "/api/v1/evidence", map[string]any{"title": "x", "kind": "poster"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, app, http.MethodPut, "/api/v1/evidence/missing/skills", map[string]any{"skills": []string{"sql"}})
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, app, http.MethodDelete, "/api/v1/evidence/missing", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, app, http.MethodGet, "/api/v1/evidence?kind=poster", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestEvidence_RetagReplacesSkills(t *testing.T) {
	app := newTestApp(t)
	seed(t, app)

	status, env := do(t, app, http.MethodPut, "/api/v1/evidence/e1/skills", map[string]any{"skills": []string{"tf"}})
	require.Equal(t, http.StatusOK, status)

	var res struct {
		Evidence struct {
			SkillIDs []string `json:"skill_ids"`
		} `json:"evidence"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, []string{"s3"}, res.Evidence.SkillIDs)
}

func TestMatch_ScoresAndInvalidJob(t *testing.T) {
	app := newTestApp(t)
	seed(t, app)

	status, env := do(t, app, http.MethodGet, "/api/v1/jobs/j1/match", nil)
	require.Equal(t, http.StatusOK, status)
	j1 := decode[map[string]any](t, env.Data)
	assert.Equal(t, float64(100), j1["matchScore"])
	assert.Empty(t, j1["missingSkillIds"])

	status, env = do(t, app, http.MethodGet, "/api/v1/jobs/j2/match", nil)
	require.Equal(t, http.StatusOK, status)
	var j2 struct {
		MatchScore    int `json:"matchScore"`
		MatchedSkills []struct {
			SkillID       string   `json:"skillId"`
			SkillName     string   `json:"skillName"`
			EvidenceRefs  []string `json:"evidenceRefs"`
			EvidenceItems []struct {
				ID string `json:"id"`
			} `json:"evidenceItems"`
		} `json:"matchedSkills"`
		MissingSkills []struct {
			SkillID   string `json:"skillId"`
			SkillName string `json:"skillName"`
		} `json:"missingSkills"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &j2))
	assert.Equal(t, 50, j2.MatchScore)
	require.Len(t, j2.MatchedSkills, 1)
	assert.Equal(t, "Python", j2.MatchedSkills[0].SkillName)
	assert.Equal(t, []string{"e1", "e2"}, j2.MatchedSkills[0].EvidenceRefs)
	assert.Len(t, j2.MatchedSkills[0].EvidenceItems, 2)
	require.Len(t, j2.MissingSkills, 1)
	assert.Equal(t, "TensorFlow", j2.MissingSkills[0].SkillName)

	status, _ = do(t, app, http.MethodGet, "/api/v1/jobs/j3/match", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, _ = do(t, app, http.MethodGet, "/api/v1/jobs/nope/match", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestMatch_Recommendations(t *testing.T) {
	app := newTestApp(t)
	seed(t, app)

	status, env := do(t, app, http.MethodGet, "/api/v1/jobs/recommendations?min_score=60", nil)
	require.Equal(t, http.StatusOK, status)

	var page struct {
		Items []struct {
			JobID      string `json:"jobId"`
			MatchScore int    `json:"matchScore"`
		} `json:"items"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "j1", page.Items[0].JobID)

	status, _ = do(t, app, http.MethodGet, "/api/v1/jobs/recommendations?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, app, http.MethodGet, "/api/v1/jobs/recommendations?min_score=101", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestJobs_SubmitAndModerate(t *testing.T) {
	app := newTestApp(t)

	status, env := do(t, app, http.MethodPost, "/api/v1/jobs/submit", map[string]any{
		"id": "p1", "title": "Pending role", "skills": []string{"docker"},
	})
	require.Equal(t, http.StatusCreated, status)
	var created struct {
		Job struct {
			ModerationStatus string `json:"moderation_status"`
		} `json:"job"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "pending", created.Job.ModerationStatus)

	status, env = do(t, app, http.MethodGet, "/api/v1/jobs?status=pending", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]map[string]any](t, env.Data), 1)

	status, _ = do(t, app, http.MethodPatch, "/api/v1/jobs/p1/moderate", map[string]any{"status": "approved", "reason": " ok "})
	require.Equal(t, http.StatusOK, status)

	status, env = do(t, app, http.MethodGet, "/api/v1/jobs/p1", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "approved", decode[map[string]any](t, env.Data)["moderation_status"])

	status, _ = do(t, app, http.MethodPatch, "/api/v1/jobs/p1/moderate", map[string]any{"status": "archived"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, app, http.MethodPost, "/api/v1/jobs", map[string]any{"id": "p1", "title": "Dup"})
	assert.Equal(t, http.StatusConflict, status)
}

func TestSkills_ListResolveMentionsAndDetail(t *testing.T) {
	app := newTestApp(t)
	seed(t, app)

	status, env := do(t, app, http.MethodGet, "/api/v1/skills?category=Data%20Science", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]map[string]any](t, env.Data), 2)

	status, env = do(t, app, http.MethodGet, "/api/v1/skills/resolve?token=PY", nil)
	require.Equal(t, http.StatusOK, status)
	res := decode[map[string]any](t, env.Data)
	assert.Equal(t, true, res["found"])
	assert.Equal(t, "s1", res["skill_id"])

	status, env = do(t, app, http.MethodPost, "/api/v1/skills/mentions", map[string]any{"text": "Built pipelines in Python and Docker."})
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]map[string]any](t, env.Data), 2)

	status, env = do(t, app, http.MethodGet, "/api/v1/skills/s1", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2), decode[map[string]any](t, env.Data)["evidence_count"])

	status, _ = do(t, app, http.MethodGet, "/api/v1/skills/s99", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, env = do(t, app, http.MethodGet, "/api/v1/skills/gaps?threshold=0", nil)
	require.Equal(t, http.StatusOK, status)
	gaps := decode[map[string]any](t, env.Data)
	assert.Len(t, gaps["results"], 1)
}

func TestDashboard_Summary(t *testing.T) {
	app := newTestApp(t)
	seed(t, app)

	status, env := do(t, app, http.MethodGet, "/api/v1/dashboard/summary?top_n=2", nil)
	require.Equal(t, http.StatusOK, status)

	var sum struct {
		Totals struct {
			Evidence     int `json:"evidence"`
			ApprovedJobs int `json:"approved_jobs"`
		} `json:"totals"`
		Top []struct {
			SkillID string `json:"skill_id"`
		} `json:"top_skills_by_evidence"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &sum))
	assert.Equal(t, 2, sum.Totals.Evidence)
	assert.Equal(t, 3, sum.Totals.ApprovedJobs)
	require.Len(t, sum.Top, 2)
	assert.Equal(t, "s1", sum.Top[0].SkillID)

	status, _ = do(t, app, http.MethodGet, "/api/v1/dashboard/summary?top_n=x", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestRoles_CreateTagAndWeights(t *testing.T) {
	app := newTestApp(t)
	seed(t, app)

	status, env := do(t, app, http.MethodPost, "/api/v1/roles", map[string]any{"id": "r1", "name": "Data Engineer"})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Data Engineer", decode[map[string]any](t, env.Data)["name"])

	status, _ = do(t, app, http.MethodPost, "/api/v1/roles", map[string]any{"name": "data engineer"})
	assert.Equal(t, http.StatusConflict, status)
	status, _ = do(t, app, http.MethodPost, "/api/v1/roles", map[string]any{"description": "no name"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = do(t, app, http.MethodGet, "/api/v1/roles", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]map[string]any](t, env.Data), 1)

	for _, id := range []string{"j1", "j2"} {
		status, env = do(t, app, http.MethodPost, "/api/v1/jobs/"+id+"/roles", map[string]any{"role_id": "r1"})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, []any{"r1"}, decode[map[string]any](t, env.Data)["role_ids"])
	}
	status, _ = do(t, app, http.MethodPost, "/api/v1/jobs/j1/roles", map[string]any{"role_id": "ghost"})
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = do(t, app, http.MethodPost, "/api/v1/jobs/nope/roles", map[string]any{"role_id": "r1"})
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = do(t, app, http.MethodPost, "/api/v1/jobs/j1/roles", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = do(t, app, http.MethodGet, "/api/v1/roles/r1/weights", nil)
	require.Equal(t, http.StatusOK, status)
	var weights struct {
		ApprovedPostings int `json:"approved_postings"`
		Weights          []struct {
			SkillID string  `json:"skill_id"`
			Weight  float64 `json:"weight"`
		} `json:"weights"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &weights))
	assert.Equal(t, 2, weights.ApprovedPostings)
	require.Len(t, weights.Weights, 3)
	assert.Equal(t, "s1", weights.Weights[0].SkillID)
	assert.InDelta(t, 1.0, weights.Weights[0].Weight, 1e-9)
	assert.InDelta(t, 0.5, weights.Weights[1].Weight, 1e-9)

	status, _ = do(t, app, http.MethodGet, "/api/v1/roles/ghost/weights", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSkills_Relations(t *testing.T) {
	app := newTestApp(t)

	status, env := do(t, app, http.MethodGet, "/api/v1/skills/relations", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]map[string]any](t, env.Data), 2)

	status, env = do(t, app, http.MethodGet, "/api/v1/skills/relations?skill_id=s3", nil)
	require.Equal(t, http.StatusOK, status)
	rels := decode[[]map[string]any](t, env.Data)
	require.Len(t, rels, 1)
	assert.Equal(t, "child_of", rels[0]["relation_type"])

	status, _ = do(t, app, http.MethodGet, "/api/v1/skills/relations?skill_id=s99", nil)
	assert.Equal(t, http.StatusNotFound, status)
}
