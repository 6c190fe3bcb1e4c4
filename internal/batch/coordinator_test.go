package batch

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	executorpkg "github.com/aliskhannn/batch-image-processor/internal/executor"
	"github.com/aliskhannn/batch-image-processor/internal/format"
	"github.com/aliskhannn/batch-image-processor/internal/model"
	filestorage "github.com/aliskhannn/batch-image-processor/internal/storage/file"
	"github.com/aliskhannn/batch-image-processor/internal/testimg"
)

func TestMain(m *testing.M) {
	zlog.Init()
	os.Exit(m.Run())
}

// stubExecutor fails every job whose input path contains "bad".
type stubExecutor struct{}

func (stubExecutor) Execute(_ context.Context, job model.Job) model.Outcome {
	if strings.Contains(job.InputPath, "bad") {
		return model.Outcome{
			InputPath: job.InputPath,
			Failure:   &model.Failure{Kind: model.DecodeError, Path: job.InputPath, Message: "stub"},
		}
	}
	return model.Outcome{InputPath: job.InputPath, OutputPath: job.OutputPath, Elapsed: time.Millisecond}
}

func validParams() model.Params {
	return model.Params{Sharpen: 1, Contrast: 1, Brightness: 1}
}

func newExecutor() *executorpkg.Executor {
	strategy := retry.Strategy{Attempts: 1, Delay: time.Millisecond, Backoff: 1}
	return executorpkg.New(filestorage.NewStorage(), format.NewCache(), strategy)
}

func TestRun_EveryJobYieldsOneOutcome(t *testing.T) {
	jobs := make([]model.Job, 0, 7)
	for _, name := range []string{"a.jpg", "bad1.jpg", "b.png", "bad2.png", "c.bmp", "bad3.bmp", "d.tiff"} {
		jobs = append(jobs, model.Job{InputPath: name, OutputPath: "out/" + name, Params: validParams()})
	}

	for _, workers := range []int{1, 2, 8} {
		coordinator := NewCoordinator(stubExecutor{}, workers)
		rep, err := coordinator.Run(context.Background(), jobs)
		require.NoError(t, err)

		assert.Equal(t, len(jobs), rep.Processed+rep.Errors, "workers=%d", workers)
		assert.Equal(t, 4, rep.Processed, "workers=%d", workers)
		assert.Equal(t, 3, rep.Errors, "workers=%d", workers)
		assert.Len(t, rep.Failures, 3, "workers=%d", workers)
	}
}

func TestRun_EmptyJobList(t *testing.T) {
	coordinator := NewCoordinator(stubExecutor{}, 4)
	rep, err := coordinator.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Zero(t, rep.Processed)
	assert.Zero(t, rep.Errors)
	assert.Zero(t, rep.AveragePerImage)
}

func TestRun_InvalidParamsAbortBatch(t *testing.T) {
	jobs := []model.Job{{InputPath: "a.jpg", OutputPath: "out/a.jpg", Params: model.Params{Sharpen: -1, Contrast: 1, Brightness: 1}}}

	coordinator := NewCoordinator(stubExecutor{}, 1)
	_, err := coordinator.Run(context.Background(), jobs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid transform parameters")
}

// makeJobs generates input images and builds one job per image
// targeting outputDir.
func makeJobs(t *testing.T, inputDir, outputDir string, params model.Params) []model.Job {
	t.Helper()

	paths, err := testimg.Generate(inputDir, 5, 160, 120)
	require.NoError(t, err)

	jobs := make([]model.Job, 0, len(paths))
	for _, p := range paths {
		jobs = append(jobs, model.Job{
			InputPath:  p,
			OutputPath: filepath.Join(outputDir, "processed_"+filepath.Base(p)),
			Params:     params,
		})
	}
	return jobs
}

func TestRun_SequentialAndParallelProduceSameOutput(t *testing.T) {
	inputDir := t.TempDir()
	params := model.Params{Width: 64, Height: 48, Blur: 0.8, Sharpen: 1.3, Contrast: 1.2, Brightness: 1.1}

	seqDir := t.TempDir()
	parDir := t.TempDir()

	seqJobs := makeJobsFrom(t, inputDir, seqDir, params, true)
	parJobs := makeJobsFrom(t, inputDir, parDir, params, false)

	seqRep, err := NewCoordinator(newExecutor(), 1).Run(context.Background(), seqJobs)
	require.NoError(t, err)
	parRep, err := NewCoordinator(newExecutor(), 4).Run(context.Background(), parJobs)
	require.NoError(t, err)

	assert.Equal(t, len(seqJobs), seqRep.Processed)
	assert.Equal(t, len(parJobs), parRep.Processed)

	for i := range seqJobs {
		want, err := os.ReadFile(seqJobs[i].OutputPath)
		require.NoError(t, err)
		got, err := os.ReadFile(parJobs[i].OutputPath)
		require.NoError(t, err)
		assert.Equal(t, want, got, "output content must not depend on the worker count")
	}
}

// makeJobsFrom reuses the images already present in inputDir when
// generate is false.
func makeJobsFrom(t *testing.T, inputDir, outputDir string, params model.Params, generate bool) []model.Job {
	t.Helper()

	if generate {
		return makeJobs(t, inputDir, outputDir, params)
	}

	entries, err := os.ReadDir(inputDir)
	require.NoError(t, err)

	jobs := make([]model.Job, 0, len(entries))
	for _, e := range entries {
		jobs = append(jobs, model.Job{
			InputPath:  filepath.Join(inputDir, e.Name()),
			OutputPath: filepath.Join(outputDir, "processed_"+e.Name()),
			Params:     params,
		})
	}
	return jobs
}

func TestRun_CorruptFileDoesNotAbortBatch(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()

	params := model.Params{Width: 80, Height: 60, Sharpen: 1, Contrast: 1, Brightness: 1}
	jobs := makeJobs(t, inputDir, outputDir, params)

	// Truncate one input after generation.
	require.NoError(t, os.WriteFile(jobs[2].InputPath, []byte("truncated"), 0o644))

	rep, err := NewCoordinator(newExecutor(), 2).Run(context.Background(), jobs)
	require.NoError(t, err)

	assert.Equal(t, len(jobs)-1, rep.Processed)
	assert.Equal(t, 1, rep.Errors)
	require.Len(t, rep.Failures, 1)
	assert.Equal(t, model.DecodeError, rep.Failures[0].Kind)
	assert.Equal(t, jobs[2].InputPath, rep.Failures[0].Path)

	for i, job := range jobs {
		if i == 2 {
			assert.NoFileExists(t, job.OutputPath)
			continue
		}
		assert.FileExists(t, job.OutputPath)
	}
}

func TestRun_MixedFormatsKeepTheirCodec(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()

	src := testimg.New(testimg.Circles, 320, 240)
	params := model.Params{Width: 800, Height: 600, Blur: 0, Sharpen: 1, Contrast: 1, Brightness: 1}

	var jobs []model.Job
	cache := format.NewCache()
	for _, name := range []string{"a.jpg", "b.png", "c.bmp"} {
		in := filepath.Join(inputDir, name)
		require.NoError(t, imaging.Save(src, in))
		jobs = append(jobs, model.Job{
			InputPath:  in,
			OutputPath: filepath.Join(outputDir, "processed_"+name),
			Params:     params,
		})
	}

	rep, err := NewCoordinator(newExecutor(), 2).Run(context.Background(), jobs)
	require.NoError(t, err)
	require.Equal(t, 3, rep.Processed)
	require.Zero(t, rep.Errors)

	for _, job := range jobs {
		img, err := imaging.Open(job.OutputPath)
		require.NoError(t, err)
		assert.Equal(t, 800, img.Bounds().Dx(), job.OutputPath)
		assert.Equal(t, 600, img.Bounds().Dy(), job.OutputPath)

		want := cache.Resolve(filepath.Base(job.InputPath), "")
		f, err := os.Open(job.OutputPath)
		require.NoError(t, err)
		_, name, err := image.DecodeConfig(f)
		f.Close()
		require.NoError(t, err)
		assert.Equal(t, strings.ToLower(string(want)), name, job.OutputPath)
	}
}
