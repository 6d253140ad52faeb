package portfolio

import (
	"testing"
	"time"

	"skill-bridge/internal/domain"
	"skill-bridge/internal/domain/skill"
	"skill-bridge/internal/taxonomy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
evidence:
  - id: e1
    title: Resume 2024
    kind: resume
    skills: [Python, pandas, cobol]
  - id: e2
    title: Deploy bot
    kind: Project
    skills: [docker, py]
jobs:
  - id: j1
    title: Backend Engineer
    skills: [python, Docker]
  - id: j2
    title: Platform Engineer
    skills: [python, kubernetes]
  - id: j3
    title: Legacy Engineer
    skills: [fortran]
`

func newRegistry(t *testing.T) *skill.Registry {
	t.Helper()
	skills, err := taxonomy.Default()
	require.NoError(t, err)
	r, err := skill.NewRegistry(skills)
	require.NoError(t, err)
	return r
}

func TestRun_ScoresJobsInFileOrder(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)

	rep, err := Run(newRegistry(t), f, time.Unix(0, 0))
	require.NoError(t, err)
	require.Len(t, rep.Jobs, 3)

	j1 := rep.Jobs[0]
	require.NotNil(t, j1.Result)
	assert.Equal(t, 100, j1.Result.MatchScore)
	require.Len(t, j1.Result.MatchedSkills, 2)
	assert.Equal(t, "python", j1.Result.MatchedSkills[0].SkillID)
	assert.Equal(t, []string{"e1", "e2"}, j1.Result.MatchedSkills[0].EvidenceRefs)

	j2 := rep.Jobs[1]
	require.NotNil(t, j2.Result)
	assert.Equal(t, 50, j2.Result.MatchScore)
	assert.Equal(t, []string{"kubernetes"}, j2.Result.MissingSkillIDs)

	j3 := rep.Jobs[2]
	assert.Nil(t, j3.Result)
	assert.NotEmpty(t, j3.Error)

	require.Len(t, rep.Unresolved, 2)
	assert.Equal(t, "evidence:e1", rep.Unresolved[0].Source)
	assert.Equal(t, "cobol", rep.Unresolved[0].Tokens[0].Token)
	assert.Equal(t, 2, rep.Unresolved[0].Tokens[0].Position)
	assert.Equal(t, "job:j3", rep.Unresolved[1].Source)
}

func TestRun_RejectsDuplicates(t *testing.T) {
	reg := newRegistry(t)

	_, err := Run(reg, File{Evidence: []EvidenceEntry{
		{ID: "e1", Kind: "paper"},
		{ID: "e1", Kind: "paper"},
	}}, time.Now())
	assert.ErrorIs(t, err, domain.ErrDuplicateID)

	_, err = Run(reg, File{Jobs: []JobEntry{
		{ID: "j1", Skills: []string{"go"}},
		{ID: "j1", Skills: []string{"go"}},
	}}, time.Now())
	assert.ErrorIs(t, err, domain.ErrDuplicateID)
}

func TestRun_UnknownKind(t *testing.T) {
	_, err := Run(newRegistry(t), File{Evidence: []EvidenceEntry{{ID: "e1", Kind: "poster"}}}, time.Now())
	assert.Error(t, err)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("evidence: [\n"))
	assert.Error(t, err)
}
