// File: internal/ingest/clone.go
package ingest

import (
	"context"
	"fmt"
	"os"

	git "github.com/go-git/go-git/v5"
	"go.uber.org/zap"
)

// cloneRemote performs a shallow clone into a temporary directory and returns
// the directory together with its cleanup function. The clone is read-only
// scratch space; callers must invoke cleanup once the snapshot is built.
func (b *Builder) cloneRemote(ctx context.Context, url string) (string, func(), error) {
	dir, err := os.MkdirTemp("", "repomind-clone-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create clone directory: %w", err)
	}
	cleanup := func() {
		if err := os.RemoveAll(dir); err != nil {
			b.logger.Warn("Failed to remove clone directory", zap.String("dir", dir), zap.Error(err))
		}
	}

	depth := b.cfg.CloneDepth
	if depth < 0 {
		depth = 0
	}

	b.logger.Info("Cloning remote repository", zap.String("url", url), zap.Int("depth", depth))
	_, err = git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:          url,
		Depth:        depth,
		SingleBranch: true,
		Tags:         git.NoTags,
	})
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to clone %q: %w", url, err)
	}
	return dir, cleanup, nil
}
