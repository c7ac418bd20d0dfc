package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/arthur-debert/shade/pkg/errors"
	"github.com/arthur-debert/synthfs/pkg/synthfs"
	"github.com/arthur-debert/synthfs/pkg/synthfs/core"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
	"github.com/arthur-debert/synthfs/pkg/synthfs/operations"
	"github.com/rs/zerolog"
)

// stage publishes or discards the temporary file behind a file-backed
// Writer. Operations run through a synthfs pipeline rooted at the output
// directory, so paths handed to synthfs are base names.
type stage struct {
	root   string
	fs     synthfs.FileSystem
	logger zerolog.Logger
}

func newStage(dir string, logger zerolog.Logger) (*stage, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrArchiveWrite, "cannot resolve %s", dir)
	}
	return &stage{
		root:   root,
		fs:     filesystem.NewOSFileSystem(root),
		logger: logger,
	}, nil
}

// publish copies tmp over dest and removes tmp.
func (s *stage) publish(ctx context.Context, tmp, dest string) error {
	src, dst := filepath.Base(tmp), filepath.Base(dest)

	if info, err := os.Lstat(dest); err == nil {
		if info.IsDir() {
			return errors.Newf(errors.ErrArchiveWrite, "output %s is a directory", dest).
				WithDetail("path", dest)
		}
		s.logger.Debug().Str("path", dest).Msg("Removing existing archive to allow overwrite")
		if err := os.Remove(dest); err != nil {
			return errors.Wrapf(err, errors.ErrArchiveWrite, "cannot replace %s", dest).
				WithDetail("path", dest)
		}
	}

	copyOp := operations.NewCopyOperation(core.OperationID(fmt.Sprintf("publish-%s", dst)), dst)
	copyOp.SetPaths(src, dst)
	deleteOp := operations.NewDeleteOperation(core.OperationID(fmt.Sprintf("cleanup-%s", src)), src)

	return s.run(ctx, dest,
		synthfs.NewOperationsPackageAdapter(copyOp),
		synthfs.NewOperationsPackageAdapter(deleteOp),
	)
}

// discard removes tmp if it still exists.
func (s *stage) discard(ctx context.Context, tmp string) error {
	if _, err := os.Lstat(tmp); err != nil {
		return nil
	}
	name := filepath.Base(tmp)
	deleteOp := operations.NewDeleteOperation(core.OperationID(fmt.Sprintf("discard-%s", name)), name)
	return s.run(ctx, tmp, synthfs.NewOperationsPackageAdapter(deleteOp))
}

func (s *stage) run(ctx context.Context, path string, ops ...synthfs.Operation) error {
	pipeline := synthfs.NewMemPipeline()
	for _, op := range ops {
		if err := pipeline.Add(op); err != nil {
			return errors.Wrap(err, errors.ErrArchiveWrite, "failed to add operation to pipeline").
				WithDetail("path", path)
		}
	}

	s.logger.Debug().Str("root", s.root).Int("operations", len(ops)).Msg("Executing output operations")
	result := synthfs.NewExecutor().Run(ctx, pipeline, s.fs)
	if err := result.GetError(); err != nil {
		s.logger.Error().Err(err).Str("path", path).Msg("Output operations failed")
		return errors.Wrapf(err, errors.ErrArchiveWrite, "cannot move output to %s", path).
			WithDetail("path", path)
	}
	return nil
}
