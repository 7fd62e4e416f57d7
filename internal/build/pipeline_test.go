package build_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/arsenez2006/depend/internal/build"
	"github.com/arsenez2006/depend/internal/build/mocks"
)

func fourSteps(dir string) []build.Step {
	return []build.Step{
		{Program: "sh", Args: []string{"autogen.sh"}, Dir: dir},
		{Program: "sh", Args: []string{"configure", "--prefix=/opt"}, Dir: dir},
		{Program: "make", Args: []string{"-j4"}, Dir: dir},
		{Program: "make", Args: []string{"install"}, Dir: dir},
	}
}

func TestPipelineRunsStepsInOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockExecutor(ctrl)
	steps := fourSteps("/src")

	calls := make([]any, 0, len(steps))
	for _, s := range steps {
		calls = append(calls, exec.EXPECT().Run(gomock.Any(), s).Return(nil))
	}
	gomock.InOrder(calls...)

	err := build.NewPipeline(exec, nil).Execute(context.Background(), build.Plan{
		SourceDir: "/src",
		BinDir:    t.TempDir(),
		Steps:     steps,
	})
	require.NoError(t, err)
}

func TestPipelineStopsAtFirstFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockExecutor(ctrl)
	steps := fourSteps("/src")
	status := build.ExitStatus{Code: 2}

	gomock.InOrder(
		exec.EXPECT().Run(gomock.Any(), steps[0]).Return(nil),
		exec.EXPECT().Run(gomock.Any(), steps[1]).Return(&build.ExitError{Status: status}),
	)
	// Steps 3 and 4 have no expectations; a call would fail the test.

	binDir := filepath.Join(t.TempDir(), "bin")
	err := build.NewPipeline(exec, nil).Execute(context.Background(), build.Plan{
		SourceDir: "/src",
		BinDir:    binDir,
		Steps:     steps,
		Artifacts: []build.Artifact{{Src: "nasm"}},
	})

	var failed *build.StepFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, 2, failed.Index)
	assert.Equal(t, status, failed.Status)
	assert.Equal(t, steps[1], failed.Step)

	_, statErr := os.Stat(binDir)
	assert.True(t, os.IsNotExist(statErr), "artifacts must not be placed after a failed step")
}

func TestPipelineSpawnFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockExecutor(ctrl)
	notFound := errors.New("executable file not found")
	step := build.Step{Program: "cmake", Dir: "/src"}

	exec.EXPECT().Run(gomock.Any(), step).Return(notFound)

	err := build.NewPipeline(exec, nil).Execute(context.Background(), build.Plan{
		SourceDir: "/src",
		Steps:     []build.Step{step},
	})

	var spawn *build.SpawnError
	require.ErrorAs(t, err, &spawn)
	assert.Equal(t, 1, spawn.Index)
	assert.ErrorIs(t, err, notFound)

	var failed *build.StepFailedError
	assert.False(t, errors.As(err, &failed))
}

func TestPipelineDefaultsStepDir(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockExecutor(ctrl)

	exec.EXPECT().Run(gomock.Any(), build.Step{Program: "make", Dir: "/src"}).Return(nil)

	err := build.NewPipeline(exec, nil).Execute(context.Background(), build.Plan{
		SourceDir: "/src",
		Steps:     []build.Step{{Program: "make"}},
	})
	require.NoError(t, err)
}

func TestPipelinePlacesArtifacts(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockExecutor(ctrl)
	exec.EXPECT().Run(gomock.Any(), gomock.Any()).Return(nil)

	src := t.TempDir()
	bin := filepath.Join(t.TempDir(), "bin")
	require.NoError(t, os.WriteFile(filepath.Join(src, "nasm"), []byte("nasm-binary"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(src, "out"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "out", "ndisasm"), []byte("ndisasm-binary"), 0o750))

	err := build.NewPipeline(exec, nil).Execute(context.Background(), build.Plan{
		SourceDir: src,
		BinDir:    bin,
		Steps:     []build.Step{{Program: "make"}},
		Artifacts: []build.Artifact{
			{Src: "nasm"},
			{Src: "out/ndisasm", Dst: "ndisasm"},
		},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(bin, "nasm"))
	require.NoError(t, err)
	assert.Equal(t, "nasm-binary", string(data))

	info, err := os.Stat(filepath.Join(bin, "ndisasm"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o750), info.Mode().Perm())
}

func TestPipelineMissingArtifact(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockExecutor(ctrl)

	src := t.TempDir()
	bin := filepath.Join(t.TempDir(), "bin")
	err := build.NewPipeline(exec, nil).Execute(context.Background(), build.Plan{
		SourceDir: src,
		BinDir:    bin,
		Artifacts: []build.Artifact{{Src: "nasm"}},
	})

	var cerr *build.CopyError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, filepath.Join(src, "nasm"), cerr.Src)
	assert.Equal(t, filepath.Join(bin, "nasm"), cerr.Dst)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
