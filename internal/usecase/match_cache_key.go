package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

type matchCacheKeyInput struct {
	JobID        string   `json:"job_id"`
	Requirements []string `json:"requirements"`
	IndexVersion uint64   `json:"index_version"`
}

// MatchCacheKey identifies one match computation. The epoch separates
// processes whose index versions restarted from zero.
func MatchCacheKey(epoch, jobID string, requirements []string, indexVersion uint64) string {
	b, _ := json.Marshal(matchCacheKeyInput{
		JobID:        jobID,
		Requirements: requirements,
		IndexVersion: indexVersion,
	})
	sum := sha256.Sum256(b)
	return matchCachePrefix + epoch + ":" + hex.EncodeToString(sum[:])
}

const matchCachePrefix = "match:"

func MatchCachePattern() string {
	return matchCachePrefix + "*"
}
