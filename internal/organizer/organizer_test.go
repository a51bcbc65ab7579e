package organizer

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nomadcxx/fixnums/internal/config"
	"github.com/Nomadcxx/fixnums/internal/naming"
	"github.com/Nomadcxx/fixnums/internal/transfer"
)

const (
	srcEpisode = "/in/Show.Name.S01E02.Great.Episode.HDTV.x264-LOL.mkv"
	dstEpisode = "/lib/Show.Name/01/Show.Name.S01E02.Great.Episode.mkv"
)

// failingTransferer fails every transfer whose source is listed in fail.
type failingTransferer struct {
	transfer.Transferer
	fail map[string]bool
}

func (f *failingTransferer) Move(src, dst string, opts transfer.TransferOptions) (*transfer.TransferResult, error) {
	if f.fail[src] {
		return &transfer.TransferResult{}, transfer.ErrTransferFailed
	}
	return f.Transferer.Move(src, dst, opts)
}

// setupTestEnv returns an in-memory filesystem holding the given files.
func setupTestEnv(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0644))
	}
	return fs
}

func infer(t *testing.T, cfg config.Config, paths ...string) []*naming.Result {
	t.Helper()
	inf, err := naming.NewInferencer(cfg)
	require.NoError(t, err)

	results := make([]*naming.Result, 0, len(paths))
	for _, p := range paths {
		results = append(results, inf.Infer(p))
	}
	return results
}

func testConfig() config.Config {
	cfg := *config.DefaultConfig()
	cfg.OutputDir = "/lib"
	return cfg
}

func TestProcess_Move(t *testing.T) {
	fs := setupTestEnv(t, map[string]string{srcEpisode: "video"})
	var sink bytes.Buffer

	org := NewOrganizer(WithFs(fs), WithSink(&sink), WithOutputDir("/lib"))
	outcomes := org.Process(infer(t, testConfig(), srcEpisode))

	require.Len(t, outcomes, 1)
	out := outcomes[0]
	assert.Equal(t, KindDone, out.Kind)
	assert.Equal(t, dstEpisode, out.Target)
	assert.Equal(t, int64(5), out.Bytes)

	want := []string{
		"Created Directory Structure - /lib/Show.Name/01",
		"Attempting to Move " + srcEpisode + " => " + dstEpisode,
		"Move " + srcEpisode + " => " + dstEpisode + " | Success",
	}
	assert.Equal(t, want, out.Lines)
	assert.Equal(t, strings.Join(want, "\n")+"\n\n", sink.String())

	exists, _ := afero.Exists(fs, srcEpisode)
	assert.False(t, exists)
	got, err := afero.ReadFile(fs, dstEpisode)
	require.NoError(t, err)
	assert.Equal(t, "video", string(got))
}

func TestProcess_ExistingDirectoryNotAnnounced(t *testing.T) {
	fs := setupTestEnv(t, map[string]string{srcEpisode: "video"})
	require.NoError(t, fs.MkdirAll("/lib/Show.Name/01", 0755))

	org := NewOrganizer(WithFs(fs), WithSink(&bytes.Buffer{}), WithOutputDir("/lib"))
	out := org.Process(infer(t, testConfig(), srcEpisode))[0]

	assert.Equal(t, KindDone, out.Kind)
	assert.NotContains(t, strings.Join(out.Lines, "\n"), "Created Directory Structure")
}

func TestProcess_CollisionLeavesFilesAlone(t *testing.T) {
	fs := setupTestEnv(t, map[string]string{
		srcEpisode: "new",
		dstEpisode: "old",
	})
	var sink bytes.Buffer

	org := NewOrganizer(WithFs(fs), WithSink(&sink), WithOutputDir("/lib"))
	out := org.Process(infer(t, testConfig(), srcEpisode))[0]

	assert.Equal(t, KindExists, out.Kind)
	assert.Equal(t, []string{
		"Cannot Move - " + srcEpisode + " ==> " + dstEpisode,
		"A file already exists at this path. Add -D to force an overwrite",
	}, out.Lines)
	assert.Contains(t, sink.String(), "A file already exists at this path")

	got, _ := afero.ReadFile(fs, dstEpisode)
	assert.Equal(t, "old", string(got))
	exists, _ := afero.Exists(fs, srcEpisode)
	assert.True(t, exists)
}

func TestProcess_Overwrite(t *testing.T) {
	fs := setupTestEnv(t, map[string]string{
		srcEpisode: "new",
		dstEpisode: "old",
	})

	org := NewOrganizer(WithFs(fs), WithSink(&bytes.Buffer{}), WithOutputDir("/lib"), WithOverwrite(true))
	out := org.Process(infer(t, testConfig(), srcEpisode))[0]

	assert.Equal(t, KindDone, out.Kind)
	got, _ := afero.ReadFile(fs, dstEpisode)
	assert.Equal(t, "new", string(got))
}

func TestProcess_Copy(t *testing.T) {
	fs := setupTestEnv(t, map[string]string{srcEpisode: "video"})

	org := NewOrganizer(WithFs(fs), WithSink(&bytes.Buffer{}), WithOutputDir("/lib"), WithCopy(true))
	out := org.Process(infer(t, testConfig(), srcEpisode))[0]

	assert.Equal(t, KindDone, out.Kind)
	assert.Equal(t, "Attempting to Copy "+srcEpisode+" => "+dstEpisode, out.Lines[1])
	assert.Equal(t, "Copy "+srcEpisode+" => "+dstEpisode+" | Success", out.Lines[2])

	exists, _ := afero.Exists(fs, srcEpisode)
	assert.True(t, exists, "copy must keep the source")
	exists, _ = afero.Exists(fs, dstEpisode)
	assert.True(t, exists)
}

func TestProcess_DryRun(t *testing.T) {
	fs := setupTestEnv(t, map[string]string{srcEpisode: "video"})

	org := NewOrganizer(WithFs(fs), WithSink(&bytes.Buffer{}), WithOutputDir("/lib"), WithDryRun(true))
	out := org.Process(infer(t, testConfig(), srcEpisode))[0]

	assert.Equal(t, KindDone, out.Kind)
	assert.Equal(t, []string{
		"Attempting to Move " + srcEpisode + " => " + dstEpisode,
		"Move " + srcEpisode + " => " + dstEpisode + " | Success",
	}, out.Lines)

	exists, _ := afero.Exists(fs, srcEpisode)
	assert.True(t, exists)
	exists, _ = afero.DirExists(fs, "/lib/Show.Name")
	assert.False(t, exists, "dry run must not create directories")
}

func TestProcess_IdenticalNames(t *testing.T) {
	const path = "/lib/Show.S01E02.mkv"
	fs := setupTestEnv(t, map[string]string{path: "video"})

	cfg := testConfig()
	cfg.Template = "{show_name} S{season}E{episode}"

	org := NewOrganizer(WithFs(fs), WithSink(&bytes.Buffer{}), WithOutputDir("/lib"))
	out := org.Process(infer(t, cfg, path))[0]

	assert.Equal(t, KindIdentical, out.Kind)
	assert.Equal(t, []string{path + " not changed - Identical Names"}, out.Lines)
}

func TestProcess_CannotRename(t *testing.T) {
	fs := setupTestEnv(t, map[string]string{"/in/randomfile.mkv": "x"})
	var sink bytes.Buffer

	cfg := testConfig()
	cfg.Strict = true

	org := NewOrganizer(WithFs(fs), WithSink(&sink), WithOutputDir("/lib"))
	out := org.Process(infer(t, cfg, "/in/randomfile.mkv"))[0]

	assert.Equal(t, KindCannotRename, out.Kind)
	assert.ErrorIs(t, out.Err, naming.ErrMissingField)
	assert.Equal(t, "/in/randomfile.mkv - Cannot Be renamed\n\n", sink.String())
}

func TestProcess_FailureDoesNotStopBatch(t *testing.T) {
	const (
		first  = "/in/show.s01e01.mkv"
		second = "/in/show.s01e02.mkv"
	)
	fs := setupTestEnv(t, map[string]string{first: "1", second: "2"})

	tr := &failingTransferer{
		Transferer: transfer.NewNativeTransferer(fs, 0),
		fail:       map[string]bool{first: true},
	}

	cfg := testConfig()
	cfg.Template = "{show_name} S{season}E{episode}"

	org := NewOrganizer(WithFs(fs), WithSink(&bytes.Buffer{}), WithOutputDir("/lib"), WithTransferer(tr))
	outcomes := org.Process(infer(t, cfg, first, second))

	require.Len(t, outcomes, 2)
	assert.Equal(t, first, outcomes[0].Source)
	assert.Equal(t, KindFailed, outcomes[0].Kind)
	assert.True(t, errors.Is(outcomes[0].Err, transfer.ErrTransferFailed))
	assert.Equal(t, "Move "+first+" => /lib/Show.S01E01.mkv | Failed", outcomes[0].Lines[2])

	assert.Equal(t, second, outcomes[1].Source)
	assert.Equal(t, KindDone, outcomes[1].Kind)
	exists, _ := afero.Exists(fs, "/lib/Show.S01E02.mkv")
	assert.True(t, exists)
}

func TestProcess_MkdirFailure(t *testing.T) {
	base := setupTestEnv(t, map[string]string{srcEpisode: "video"})
	fs := afero.NewReadOnlyFs(base)

	org := NewOrganizer(WithFs(fs), WithSink(&bytes.Buffer{}), WithOutputDir("/lib"))
	out := org.Process(infer(t, testConfig(), srcEpisode))[0]

	assert.Equal(t, KindFailed, out.Kind)
	assert.Equal(t, []string{"Cannot create directory /lib/Show.Name/01 | Failed"}, out.Lines)
}

func TestProcess_KeepsInputOrder(t *testing.T) {
	paths := []string{"/in/b.s01e02.mkv", "/in/a.s01e01.mkv", "/in/c.s01e03.mkv"}
	files := map[string]string{}
	for _, p := range paths {
		files[p] = p
	}
	fs := setupTestEnv(t, files)

	cfg := testConfig()
	cfg.Template = "{show_name} {episode}"

	org := NewOrganizer(WithFs(fs), WithSink(&bytes.Buffer{}), WithOutputDir("/lib"))
	outcomes := org.Process(infer(t, cfg, paths...))

	require.Len(t, outcomes, len(paths))
	for i, p := range paths {
		assert.Equal(t, p, outcomes[i].Source)
	}
}

func TestSummarize(t *testing.T) {
	outcomes := []Outcome{
		{Kind: KindDone, Bytes: 1500},
		{Kind: KindDone, Bytes: 500},
		{Kind: KindExists},
		{Kind: KindIdentical},
		{Kind: KindCannotRename},
		{Kind: KindFailed},
	}

	s := Summarize(outcomes)
	assert.Equal(t, 2, s.Done)
	assert.Equal(t, 1, s.Exists)
	assert.Equal(t, 1, s.Identical)
	assert.Equal(t, 1, s.CannotRename)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, int64(2000), s.Bytes)
	assert.Equal(t, 6, s.Total())
	assert.False(t, s.OK())
	assert.Equal(t, "2 processed, 1 unchanged, 1 already exist, 1 not renamable, 1 failed (2.0 kB)", s.String())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "done", KindDone.String())
	assert.Equal(t, "exists", KindExists.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
