package dupes

// GroupRecords groups records by checksum, preserving first-seen checksum
// order for deterministic logging. Records without a checksum and checksums
// appearing only once are dropped. Empty input yields an empty result, not
// an error.
func GroupRecords(records []FileRecord) []DuplicateGroup {
	byChecksum := make(map[string][]FileRecord)
	order := make([]string, 0, len(records))

	for _, record := range records {
		if record.Checksum == "" {
			continue
		}
		if _, seen := byChecksum[record.Checksum]; !seen {
			order = append(order, record.Checksum)
		}
		byChecksum[record.Checksum] = append(byChecksum[record.Checksum], record)
	}

	groups := make([]DuplicateGroup, 0, len(order))
	for _, checksum := range order {
		members := byChecksum[checksum]
		if len(members) < 2 {
			continue
		}
		groups = append(groups, DuplicateGroup{Checksum: checksum, Members: members})
	}
	return groups
}
