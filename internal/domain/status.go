package domain

import "time"

type KindStat struct {
	Kind  string `json:"kind"`
	Total int    `json:"total"`
}

type ServiceStatus struct {
	TotalSkills     int        `json:"total_skills"`
	TotalEvidence   int        `json:"total_evidence"`
	TotalJobs       int        `json:"total_jobs"`
	EvidenceByKind  []KindStat `json:"evidence_by_kind"`
	IndexVersion    uint64     `json:"index_version"`
	DatabaseHealthy bool       `json:"database_healthy"`
	RedisHealthy    bool       `json:"redis_healthy"`
	ServerTime      time.Time  `json:"server_time"`
}
