package project

// OriginalLabel is appended to the display name of files that only exist in
// the project's original folder.
const OriginalLabel = " (LLM original)"

// File is one CSV entry in a project listing
type File struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	IsOriginal  bool   `json:"is_original"`
}
