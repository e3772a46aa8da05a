package classify

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
)

// ClassificationPrompt captures the instructions sent to the configured LLM
// when classifying an inbox item. Update this text centrally so every call
// stays in sync with the adapter's expectations.
const ClassificationPrompt = `You are an assistant that files documents and folders into a personal library.

You receive one item: either a single file or a folder ("bundle") with its contents listed. You also receive the names of the folders that already exist in the library.

Respond ONLY with a JSON object of this exact shape:

{
  "bundle_type": "single" or "bundle",
  "suggested_name": "clean human-readable name for the item",
  "recommended_path": "relative/library/path",
  "confidence": 0.0 to 1.0,
  "subfolder_plan": {"enabled": false, "mapping": {}},
  "files": [{"original_name": "as listed", "category": "short category", "rename_to": "optional new file name"}]
}

Rules:

- Prefer an existing library folder in "recommended_path" when one clearly fits; invent a new path only when nothing fits.
- "recommended_path" is always relative. Never use "..", a leading "/", or a file name as the path.
- For bundles, list every file under "files". Enable "subfolder_plan" only when the bundle mixes clearly different categories.
- "confidence" reflects how sure you are of the whole record. Use values below 0.5 when the item is ambiguous.
- Keep names free of characters that are unsafe in file names.

Now classify this item:`

type promptItem struct {
	Path           string   `json:"path"`
	Kind           string   `json:"kind"`
	Files          []string `json:"files,omitempty"`
	LibraryFolders []string `json:"library_folders,omitempty"`
}

// UserPrompt renders the per-item half of the classification request.
func UserPrompt(src Source, libraryFolders []string) string {
	item := promptItem{
		Path:           src.Path,
		Kind:           "file",
		Files:          src.Files,
		LibraryFolders: libraryFolders,
	}
	if src.IsDir {
		item.Kind = "folder"
	}
	encoded, err := json.MarshalIndent(item, "", "  ")
	if err != nil {
		// Marshalling a struct of strings cannot fail; keep a readable fallback anyway.
		return fmt.Sprintf("path: %s\nfiles: %s", src.Path, strings.Join(src.Files, ", "))
	}
	return string(encoded)
}

// itemDisplayName is the name shown in logs for a source.
func itemDisplayName(src Source) string {
	return filepath.Base(src.Path)
}
