package schemas

// FileType distinguishes regular files from directories inside a
// RepositoryContext. Directories carry no content but keep the tree shape.
type FileType string

const (
	FileTypeFile      FileType = "file"
	FileTypeDirectory FileType = "directory"
)

// RepositoryFile is a single entry of an ingested repository snapshot.
type RepositoryFile struct {
	Path    string   `json:"path"`    // Repo-relative path, forward slashes.
	Content string   `json:"content"` // Empty for directories and binary files.
	Type    FileType `json:"type"`
}

// RepositoryContext is an immutable snapshot of an ingested repository. It is
// produced once by the ingestion layer and only ever read afterwards; no core
// component may mutate it.
type RepositoryContext struct {
	Files      []RepositoryFile `json:"files"`
	Structure  string           `json:"structure"` // Precomputed indented tree, two spaces per level.
	TotalFiles int              `json:"total_files"`
	TotalSize  int64            `json:"total_size"`
}
