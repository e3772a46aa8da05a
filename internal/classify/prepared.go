package classify

import (
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/solosoyfranco/LibrAIry/internal/services"
)

var sourceAliases = []string{"source_path", "sourcePath", "path", "source", "item"}

// LoadPrepared reads a pre-produced classification records file: a JSON
// array of record payloads, each naming its source item. Payloads keep any
// of the historical field spellings; they are stored raw here and adapted
// by ParseRecord once the source has been scanned. Entries without a source
// path are dropped. Like the duplicate report, a missing or unparseable
// records file is fatal to the run that asked for it.
func LoadPrepared(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrInputMissing, "organize", "load records", path, err)
	}

	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, services.Wrap(services.ErrInputMissing, "organize", "load records", fmt.Sprintf("records file %s is empty", path), nil)
	}
	if !gjson.Valid(trimmed) {
		return nil, services.Wrap(services.ErrInputMissing, "organize", "load records", fmt.Sprintf("records file %s is not valid JSON", path), nil)
	}

	parsed := gjson.Parse(trimmed)
	if !parsed.IsArray() {
		// A single record object is accepted as a one-element file.
		if parsed.IsObject() {
			if source := firstString(parsed, sourceAliases); source != "" {
				return map[string]string{source: parsed.Raw}, nil
			}
		}
		return nil, services.Wrap(services.ErrInputMissing, "organize", "load records", fmt.Sprintf("records file %s is not a JSON array", path), nil)
	}

	prepared := make(map[string]string)
	parsed.ForEach(func(_, record gjson.Result) bool {
		if !record.IsObject() {
			return true
		}
		source := firstString(record, sourceAliases)
		if source == "" {
			return true
		}
		prepared[source] = record.Raw
		return true
	})
	return prepared, nil
}
