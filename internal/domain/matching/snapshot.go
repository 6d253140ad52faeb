package matching

import "skill-bridge/internal/domain/evidence"

// Snapshot is a frozen EvidenceSource. It lets many Compute calls share one
// consistent view of the evidence without holding the index lock.
type Snapshot struct {
	bySkill map[string][]evidence.Item
	version uint64
}

func NewSnapshot(items []evidence.Item, version uint64) *Snapshot {
	s := &Snapshot{bySkill: make(map[string][]evidence.Item), version: version}
	for _, it := range items {
		for _, sid := range it.SkillIDs {
			s.bySkill[sid] = append(s.bySkill[sid], it)
		}
	}
	return s
}

func (s *Snapshot) EvidenceFor(skillID string) []evidence.Item {
	items := s.bySkill[skillID]
	out := make([]evidence.Item, len(items))
	copy(out, items)
	return out
}

func (s *Snapshot) Version() uint64 {
	return s.version
}
