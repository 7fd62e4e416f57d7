package install

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/arsenez2006/depend/internal/build"
	"github.com/arsenez2006/depend/internal/build/mocks"
	"github.com/arsenez2006/depend/internal/pkgspec"
	"github.com/arsenez2006/depend/internal/resolve"
	"github.com/arsenez2006/depend/internal/vcs"
	"github.com/arsenez2006/depend/internal/worktree"
)

type fakeLister struct {
	refs  []vcs.Ref
	calls int
}

func (f *fakeLister) ListRefs(ctx context.Context, remote string) ([]vcs.Ref, error) {
	f.calls++
	return f.refs, nil
}

// fakeWorkspace "checks out" a fixed file set.
type fakeWorkspace struct {
	files map[string]string
	calls int
}

func (f *fakeWorkspace) Init(ctx context.Context, dir, remote string) error {
	f.calls++
	return nil
}

func (f *fakeWorkspace) Fetch(ctx context.Context, dir string, ref vcs.Ref) error {
	f.calls++
	return nil
}

func (f *fakeWorkspace) Checkout(ctx context.Context, dir string, hash vcs.Hash) (vcs.Hash, error) {
	f.calls++
	for name, content := range f.files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o755); err != nil {
			return vcs.Hash{}, err
		}
	}
	return hash, nil
}

var nasmRefs = []vcs.Ref{
	{Name: "refs/heads/master", Hash: vcs.Hash{9}},
	{Name: "refs/tags/nasm-2.16", Hash: vcs.Hash{0x13}},
	{Name: "refs/tags/nasm-2.16^{}", Hash: vcs.Hash{3}},
	{Name: "refs/tags/nasm-2.16rc1^{}", Hash: vcs.Hash{1}},
	{Name: "refs/tags/nasm-2.16rc2^{}", Hash: vcs.Hash{2}},
}

type fixture struct {
	lister *fakeLister
	ws     *fakeWorkspace
	exec   *mocks.MockExecutor
	out    *bytes.Buffer
	inst   *Installer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	registry, err := pkgspec.NewRegistry()
	require.NoError(t, err)

	f := &fixture{
		lister: &fakeLister{refs: nasmRefs},
		ws:     &fakeWorkspace{files: map[string]string{"nasm": "nasm", "ndisasm": "ndisasm"}},
		exec:   mocks.NewMockExecutor(gomock.NewController(t)),
		out:    &bytes.Buffer{},
	}
	f.inst = New(registry,
		resolve.New(f.lister, nil),
		worktree.New(f.ws, nil),
		build.NewPipeline(f.exec, nil),
		WithJobs(4),
		WithOutput(f.out),
	)
	f.inst.now = func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }
	return f
}

func TestInstallDryRun(t *testing.T) {
	f := newFixture(t)
	prefix := filepath.Join(t.TempDir(), "deps")

	res, err := f.inst.Install(context.Background(), Request{Package: "nasm", Prefix: prefix, DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, "2.16\n", f.out.String())
	assert.Equal(t, "2.16", res.Version.Name)
	assert.Nil(t, res.Tree)
	assert.Zero(t, f.ws.calls)

	_, err = os.Stat(prefix)
	assert.True(t, os.IsNotExist(err), "dry run must not touch the prefix")
}

func TestInstallNasm(t *testing.T) {
	f := newFixture(t)
	prefix := t.TempDir()
	src := filepath.Join(prefix, "src")

	gomock.InOrder(
		f.exec.EXPECT().Run(gomock.Any(), build.Step{Program: "sh", Args: []string{"autogen.sh"}, Dir: src}).Return(nil),
		f.exec.EXPECT().Run(gomock.Any(), build.Step{Program: "sh", Args: []string{"configure", "--prefix=" + prefix}, Dir: src}).Return(nil),
		f.exec.EXPECT().Run(gomock.Any(), build.Step{Program: "make", Args: []string{"-j4"}, Dir: src}).Return(nil),
	)

	res, err := f.inst.Install(context.Background(), Request{Package: "nasm", Prefix: prefix})
	require.NoError(t, err)
	assert.Equal(t, "2.16\n", f.out.String())
	require.NotNil(t, res.Tree)
	assert.Equal(t, src, res.Tree.Dir)
	assert.Equal(t, vcs.Hash{3}, res.Tree.Hash)

	for _, name := range []string{"nasm", "ndisasm"} {
		data, err := os.ReadFile(filepath.Join(prefix, "bin", name))
		require.NoError(t, err)
		assert.Equal(t, name, string(data))
	}

	installed, err := Installed(prefix)
	require.NoError(t, err)
	require.Contains(t, installed, "nasm")
	assert.Equal(t, "2.16", installed["nasm"].Version)
	assert.Equal(t, "refs/tags/nasm-2.16^{}", installed["nasm"].Ref)
	assert.Equal(t, vcs.Hash{3}.String(), installed["nasm"].Hash)
}

func TestInstallDryRunMatchesFullRun(t *testing.T) {
	f := newFixture(t)
	prefix := t.TempDir()
	f.exec.EXPECT().Run(gomock.Any(), gomock.Any()).Return(nil).Times(3)

	dry, err := f.inst.Install(context.Background(), Request{Package: "nasm", Prefix: prefix, DryRun: true})
	require.NoError(t, err)
	full, err := f.inst.Install(context.Background(), Request{Package: "nasm", Prefix: prefix})
	require.NoError(t, err)

	assert.Equal(t, dry.Version, full.Version)
	assert.Equal(t, "2.16\n2.16\n", f.out.String())
	assert.Equal(t, 2, f.lister.calls)
}

func TestInstallStepFailure(t *testing.T) {
	f := newFixture(t)
	prefix := t.TempDir()

	gomock.InOrder(
		f.exec.EXPECT().Run(gomock.Any(), gomock.Any()).Return(nil),
		f.exec.EXPECT().Run(gomock.Any(), gomock.Any()).Return(&build.ExitError{Status: build.ExitStatus{Code: 77}}),
	)

	_, err := f.inst.Install(context.Background(), Request{Package: "nasm", Prefix: prefix})
	var failed *build.StepFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, 2, failed.Index)
	assert.Equal(t, 77, failed.Status.Code)

	installed, err := Installed(prefix)
	require.NoError(t, err)
	assert.Empty(t, installed)
	_, err = os.Stat(filepath.Join(prefix, "bin", "nasm"))
	assert.True(t, os.IsNotExist(err))
}

func TestInstallUnknownPackage(t *testing.T) {
	f := newFixture(t)
	_, err := f.inst.Install(context.Background(), Request{Package: "llvm", Prefix: t.TempDir()})
	assert.ErrorIs(t, err, pkgspec.ErrUnknownPackage)
	assert.Zero(t, f.lister.calls)
}

func TestInstallNoMatchingTags(t *testing.T) {
	f := newFixture(t)
	f.lister.refs = []vcs.Ref{{Name: "refs/heads/master", Hash: vcs.Hash{1}}}

	_, err := f.inst.Install(context.Background(), Request{Package: "nasm", Prefix: t.TempDir()})
	assert.ErrorIs(t, err, resolve.ErrNoMatchingTags)
	assert.Empty(t, f.out.String())
}

func TestInstallRelativePrefix(t *testing.T) {
	f := newFixture(t)
	_, err := f.inst.Install(context.Background(), Request{Package: "nasm", Prefix: "deps"})
	assert.Error(t, err)
	assert.Zero(t, f.lister.calls)
}
