package dupes

import "github.com/solosoyfranco/LibrAIry/internal/scope"

// SelectKeeper picks the one member of a group that survives untouched.
// Policy, first match wins: a member under a library root, then a member the
// hashing tool flagged as original, then the first member in report order.
// Deterministic and side-effect free; the zero FileRecord is returned only
// for an empty group.
func SelectKeeper(group DuplicateGroup, libraryRoots []string) FileRecord {
	if len(group.Members) == 0 {
		return FileRecord{}
	}
	for _, member := range group.Members {
		if scope.WithinAny(member.Path, libraryRoots) {
			return member
		}
	}
	for _, member := range group.Members {
		if member.IsOriginal {
			return member
		}
	}
	return group.Members[0]
}

// RemovalCandidates returns the group members that are not the keeper, in
// report order.
func RemovalCandidates(group DuplicateGroup, keeper FileRecord) []FileRecord {
	candidates := make([]FileRecord, 0, len(group.Members)-1)
	for _, member := range group.Members {
		if member.Path == keeper.Path {
			continue
		}
		candidates = append(candidates, member)
	}
	return candidates
}
