package dupes

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/solosoyfranco/LibrAIry/internal/services"
)

// LoadReport reads a duplicate report file. Two layouts are accepted: the
// canonical flat array of file records, and the grouped object layout that
// hashing tools such as czkawka emit (checksum or size keys mapping to entry
// groups). A missing, empty, or unparseable report is the one fatal input
// condition of a run.
func LoadReport(path string) ([]FileRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrInputMissing, "dedupe", "load report", path, err)
	}

	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, services.Wrap(services.ErrInputMissing, "dedupe", "load report", fmt.Sprintf("report %s is empty", path), nil)
	}

	switch trimmed[0] {
	case '[':
		return parseFlatReport([]byte(trimmed), path)
	case '{':
		return parseGroupedReport(trimmed, path)
	default:
		return nil, services.Wrap(services.ErrInputMissing, "dedupe", "load report", fmt.Sprintf("report %s is not JSON", path), nil)
	}
}

func parseFlatReport(data []byte, path string) ([]FileRecord, error) {
	var records []FileRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, services.Wrap(services.ErrInputMissing, "dedupe", "parse report", path, err)
	}
	kept := records[:0]
	for _, record := range records {
		if strings.TrimSpace(record.Path) == "" {
			continue
		}
		kept = append(kept, record)
	}
	return kept, nil
}

// parseGroupedReport tolerates the field-name drift between hashing tool
// versions: path/file_path, size/size_bytes, modified/modified_date, and
// hash/checksum all occur in the wild. Entries without their own hash
// inherit a checksum synthesized from the group key.
func parseGroupedReport(data, path string) ([]FileRecord, error) {
	if !gjson.Valid(data) {
		return nil, services.Wrap(services.ErrInputMissing, "dedupe", "parse report", fmt.Sprintf("report %s is not valid JSON", path), nil)
	}

	var records []FileRecord
	gjson.Parse(data).ForEach(func(key, value gjson.Result) bool {
		if !value.IsArray() {
			return true
		}
		groups := value.Array()
		if len(groups) == 0 {
			return true
		}
		if groups[0].IsArray() {
			for i, group := range groups {
				checksum := fmt.Sprintf("%s#%d", key.String(), i)
				records = append(records, parseEntryGroup(group.Array(), checksum)...)
			}
			return true
		}
		records = append(records, parseEntryGroup(groups, key.String())...)
		return true
	})
	return records, nil
}

func parseEntryGroup(entries []gjson.Result, fallbackChecksum string) []FileRecord {
	records := make([]FileRecord, 0, len(entries))
	for _, entry := range entries {
		entryPath := firstString(entry, "path", "file_path")
		if entryPath == "" {
			continue
		}
		checksum := firstString(entry, "hash", "checksum")
		if checksum == "" {
			checksum = fallbackChecksum
		}
		records = append(records, FileRecord{
			Path:       entryPath,
			Checksum:   checksum,
			IsOriginal: entry.Get("is_original").Bool() || entry.Get("original").Bool(),
			SizeBytes:  firstInt(entry, "size_bytes", "size"),
			ModifiedAt: parseModified(entry),
		})
	}
	return records
}

func firstString(entry gjson.Result, keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(entry.Get(key).String()); value != "" {
			return value
		}
	}
	return ""
}

func firstInt(entry gjson.Result, keys ...string) int64 {
	for _, key := range keys {
		if result := entry.Get(key); result.Exists() {
			return result.Int()
		}
	}
	return 0
}

func parseModified(entry gjson.Result) time.Time {
	for _, key := range []string{"modified_at", "modified_date", "modified"} {
		result := entry.Get(key)
		if !result.Exists() {
			continue
		}
		if result.Type == gjson.Number {
			return time.Unix(result.Int(), 0).UTC()
		}
		if parsed, err := time.Parse(time.RFC3339, result.String()); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
