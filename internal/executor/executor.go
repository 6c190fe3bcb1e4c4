package executor

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"time"

	"github.com/wb-go/wbf/retry"

	"github.com/aliskhannn/batch-image-processor/internal/codec"
	"github.com/aliskhannn/batch-image-processor/internal/format"
	"github.com/aliskhannn/batch-image-processor/internal/model"
	"github.com/aliskhannn/batch-image-processor/internal/pipeline"
)

// fileStorage defines the interface for loading inputs and saving
// outputs (e.g., local FS or MinIO).
type fileStorage interface {
	Save(ctx context.Context, path string, src io.Reader) (string, error)
	Load(ctx context.Context, path string) (io.ReadCloser, error)
}

// Executor runs single jobs: decode, transform, encode, save. It is
// the single-image entry point; callers needing batches go through the
// batch coordinator, which fans Execute out across a pool.
type Executor struct {
	fileStorage fileStorage
	formats     *format.Cache
	strategy    retry.Strategy
}

// New creates an Executor using the given storage backend, format
// cache and retry strategy for saves.
func New(fs fileStorage, formats *format.Cache, strategy retry.Strategy) *Executor {
	return &Executor{
		fileStorage: fs,
		formats:     formats,
		strategy:    strategy,
	}
}

// Execute processes one job and returns its outcome. Every failure is
// captured and converted into a Failed outcome so that one bad image
// cannot abort a batch; nothing propagates past this boundary. On
// success exactly one output file is written; on failure none is (the
// image is encoded into memory before the save starts).
func (e *Executor) Execute(ctx context.Context, job model.Job) model.Outcome {
	start := time.Now()

	src, err := e.fileStorage.Load(ctx, job.InputPath)
	if err != nil {
		return fail(job, start, model.IOError, job.InputPath, err)
	}
	defer src.Close()

	img, err := codec.Decode(src)
	if err != nil {
		return fail(job, start, model.DecodeError, job.InputPath, err)
	}

	out, err := pipeline.Apply(img, job.Params)
	if err != nil {
		return fail(job, start, model.TransformError, job.InputPath, err)
	}

	// Encode into a buffer first so a failed encode writes nothing.
	f := e.formats.Resolve(filepath.Base(job.InputPath), job.Format)
	buf := bytes.NewBuffer(nil)
	if err := codec.Encode(buf, out, f); err != nil {
		return fail(job, start, model.EncodeError, job.OutputPath, err)
	}

	var dst string
	err = retry.Do(func() error {
		var saveErr error
		dst, saveErr = e.fileStorage.Save(ctx, job.OutputPath, bytes.NewReader(buf.Bytes()))
		return saveErr
	}, e.strategy)
	if err != nil {
		return fail(job, start, model.IOError, job.OutputPath, err)
	}

	return model.Outcome{
		InputPath:  job.InputPath,
		OutputPath: dst,
		Elapsed:    time.Since(start),
	}
}

func fail(job model.Job, start time.Time, kind model.ErrorKind, path string, err error) model.Outcome {
	return model.Outcome{
		InputPath: job.InputPath,
		Elapsed:   time.Since(start),
		Failure: &model.Failure{
			Kind:    kind,
			Path:    path,
			Message: err.Error(),
		},
	}
}
