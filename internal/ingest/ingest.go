// File: internal/ingest/ingest.go
// Description: Builds the immutable repository snapshot the reasoning and
// generation layers consume. The snapshot is a plain value; nothing
// downstream mutates it.

package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/repomind-cli/api/schemas"
	"github.com/xkilldash9x/repomind-cli/internal/config"
)

// binarySniffLen bounds how much of a file is inspected for binary content.
const binarySniffLen = 8000

// Builder turns a source tree into a RepositoryContext snapshot.
type Builder struct {
	logger *zap.Logger
	cfg    config.IngestConfig
}

// NewBuilder creates a snapshot builder with the given ingest rules.
func NewBuilder(cfg config.IngestConfig, logger *zap.Logger) *Builder {
	return &Builder{
		logger: logger.Named("ingest"),
		cfg:    cfg,
	}
}

// Build resolves a source reference into a snapshot. Remote git URLs are
// cloned to a temporary directory first; anything else is treated as a local
// path.
func (b *Builder) Build(ctx context.Context, source string) (*schemas.RepositoryContext, error) {
	if isRemoteSource(source) {
		dir, cleanup, err := b.cloneRemote(ctx, source)
		if err != nil {
			return nil, err
		}
		defer cleanup()
		return b.BuildFromDirectory(ctx, dir)
	}
	return b.BuildFromDirectory(ctx, source)
}

// BuildFromDirectory walks a local tree and captures every readable text file
// within the size bound. Skipped directories keep no trace in the snapshot;
// oversized and binary files keep their tree entry but carry no content.
func (b *Builder) BuildFromDirectory(ctx context.Context, root string) (*schemas.RepositoryContext, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("cannot ingest %q: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("cannot ingest %q: not a directory", root)
	}

	repoCtx := &schemas.RepositoryContext{}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if b.shouldSkipDir(d.Name()) {
				return filepath.SkipDir
			}
			repoCtx.Files = append(repoCtx.Files, schemas.RepositoryFile{
				Path: rel,
				Type: schemas.FileTypeDirectory,
			})
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return err
		}

		file := schemas.RepositoryFile{Path: rel, Type: schemas.FileTypeFile}
		if fi.Size() <= b.cfg.MaxFileSize {
			content, err := os.ReadFile(path)
			if err != nil {
				b.logger.Warn("Skipping unreadable file", zap.String("path", rel), zap.Error(err))
			} else if !isBinary(content) {
				file.Content = string(content)
			}
		} else {
			b.logger.Debug("File exceeds size bound; keeping entry without content",
				zap.String("path", rel), zap.Int64("size", fi.Size()))
		}

		repoCtx.Files = append(repoCtx.Files, file)
		repoCtx.TotalFiles++
		repoCtx.TotalSize += fi.Size()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %q: %w", root, err)
	}

	// WalkDir yields lexical order per directory, but the flattened list must
	// be stable regardless of traversal details.
	sort.Slice(repoCtx.Files, func(i, j int) bool {
		return repoCtx.Files[i].Path < repoCtx.Files[j].Path
	})
	repoCtx.Structure = renderStructure(repoCtx.Files)

	b.logger.Info("Repository snapshot built",
		zap.String("root", root),
		zap.Int("files", repoCtx.TotalFiles),
		zap.Int64("total_size", repoCtx.TotalSize))
	return repoCtx, nil
}

func (b *Builder) shouldSkipDir(name string) bool {
	for _, skip := range b.cfg.SkipDirs {
		if name == skip {
			return true
		}
	}
	return false
}

// isBinary reports whether content looks like binary data. A null byte in the
// sniff window is treated as decisive.
func isBinary(content []byte) bool {
	window := content
	if len(window) > binarySniffLen {
		window = window[:binarySniffLen]
	}
	return bytes.IndexByte(window, 0) >= 0
}

// isRemoteSource reports whether the reference names a remote git repository
// rather than a local path.
func isRemoteSource(source string) bool {
	return strings.HasPrefix(source, "http://") ||
		strings.HasPrefix(source, "https://") ||
		strings.HasPrefix(source, "git@") ||
		strings.HasPrefix(source, "ssh://")
}

// renderStructure produces the indented tree listing. Each nesting level
// indents by two spaces; directories carry a trailing slash.
func renderStructure(files []schemas.RepositoryFile) string {
	var sb strings.Builder
	for _, f := range files {
		depth := strings.Count(f.Path, "/")
		sb.WriteString(strings.Repeat("  ", depth))
		name := f.Path
		if idx := strings.LastIndex(f.Path, "/"); idx >= 0 {
			name = f.Path[idx+1:]
		}
		sb.WriteString(name)
		if f.Type == schemas.FileTypeDirectory {
			sb.WriteString("/")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
