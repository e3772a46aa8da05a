package classify

import (
	"errors"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/solosoyfranco/LibrAIry/internal/services"
	"github.com/solosoyfranco/LibrAIry/internal/services/llm"
)

// Upstream classifiers have shipped several spellings of the same payload.
// Each alias list is ordered by how current the spelling is; the first
// present field wins.
var (
	bundleAliases     = []string{"bundle_type", "bundleType", "type", "kind"}
	nameAliases       = []string{"suggested_name", "suggestedName", "name", "title"}
	pathAliases       = []string{"recommended_path", "recommendedPath", "destination", "target_path", "category_path", "folder"}
	confidenceAliases = []string{"confidence", "score", "certainty"}
	filesAliases      = []string{"files", "items", "entries", "contents"}
	planAliases       = []string{"subfolder_plan", "subfolderPlan", "subfolders", "use_subfolders"}
	mappingAliases    = []string{"mapping", "map", "assignments", "categories"}

	entryNameAliases   = []string{"original_name", "originalName", "name", "file", "filename"}
	entryCatAliases    = []string{"category", "type", "bucket"}
	entryRenameAliases = []string{"rename_to", "renameTo", "new_name", "newName", "rename"}
)

// ParseRecord adapts an upstream classification payload into a normalized
// Record for the given source. The payload may be fenced, wrapped in chatter,
// or use any of the historical field spellings.
func ParseRecord(payload string, src Source) (Record, error) {
	raw := llm.ExtractJSON(payload)
	if raw == "" {
		return Record{}, services.Wrap(services.ErrValidation, "organize", "parse classification", "empty classification payload", nil)
	}
	parsed := gjson.Parse(raw)
	if parsed.IsArray() {
		elems := parsed.Array()
		if len(elems) == 0 {
			return Record{}, services.Wrap(services.ErrValidation, "organize", "parse classification", "empty classification array", nil)
		}
		parsed = elems[0]
	}
	if !parsed.IsObject() {
		return Record{}, services.Wrap(services.ErrValidation, "organize", "parse classification", "classification payload is not an object", errors.New(summarize(raw)))
	}

	rec := Record{
		BundleType:      BundleType(firstString(parsed, bundleAliases)),
		SuggestedName:   firstString(parsed, nameAliases),
		RecommendedPath: firstString(parsed, pathAliases),
		Confidence:      firstFloat(parsed, confidenceAliases),
		Subfolder:       parsePlan(parsed),
		Files:           parseFiles(parsed),
	}
	rec.Normalize(src)
	return rec, nil
}

func parsePlan(parsed gjson.Result) SubfolderPlan {
	for _, key := range planAliases {
		value := parsed.Get(key)
		if !value.Exists() {
			continue
		}
		switch {
		case value.IsObject():
			plan := SubfolderPlan{Enabled: boolish(value.Get("enabled"), true)}
			for _, mapKey := range mappingAliases {
				mapping := value.Get(mapKey)
				if !mapping.IsObject() {
					continue
				}
				plan.Mapping = map[string]string{}
				mapping.ForEach(func(k, v gjson.Result) bool {
					plan.Mapping[k.String()] = v.String()
					return true
				})
				break
			}
			return plan
		case value.Type == gjson.True || value.Type == gjson.False:
			return SubfolderPlan{Enabled: value.Bool()}
		}
	}
	return SubfolderPlan{}
}

func parseFiles(parsed gjson.Result) []FileEntry {
	for _, key := range filesAliases {
		list := parsed.Get(key)
		if !list.IsArray() {
			continue
		}
		var entries []FileEntry
		list.ForEach(func(_, item gjson.Result) bool {
			if item.Type == gjson.String {
				entries = append(entries, FileEntry{OriginalName: item.String()})
				return true
			}
			if !item.IsObject() {
				return true
			}
			entries = append(entries, FileEntry{
				OriginalName: firstString(item, entryNameAliases),
				Category:     firstString(item, entryCatAliases),
				RenameTo:     firstString(item, entryRenameAliases),
			})
			return true
		})
		return entries
	}
	return nil
}

func firstString(parsed gjson.Result, keys []string) string {
	for _, key := range keys {
		if value := parsed.Get(key); value.Exists() {
			if s := strings.TrimSpace(value.String()); s != "" {
				return s
			}
		}
	}
	return ""
}

func firstFloat(parsed gjson.Result, keys []string) float64 {
	for _, key := range keys {
		if value := parsed.Get(key); value.Exists() {
			return value.Float()
		}
	}
	return 0
}

func boolish(value gjson.Result, fallback bool) bool {
	if !value.Exists() {
		return fallback
	}
	return value.Bool()
}

func summarize(raw string) string {
	const limit = 120
	runes := []rune(strings.Join(strings.Fields(raw), " "))
	if len(runes) > limit {
		return string(runes[:limit]) + "..."
	}
	return string(runes)
}
