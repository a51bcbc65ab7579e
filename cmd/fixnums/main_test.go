package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nomadcxx/fixnums/internal/config"
	"github.com/Nomadcxx/fixnums/internal/logging"
	"github.com/Nomadcxx/fixnums/internal/naming"
)

const (
	srcEpisode = "/in/Show.Name.S01E02.Great.Episode.HDTV.x264-LOL.mkv"
	dstEpisode = "/lib/Show.Name/01/Show.Name.S01E02.Great.Episode.mkv"
)

// testApp returns an app on an in-memory filesystem with a config path that
// does not exist, so the user's own config never leaks into a test.
func testApp(t *testing.T, files ...string) (*app, *bytes.Buffer, *bytes.Buffer, afero.Fs) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	a := newApp(&stdout, &stderr)

	fs := afero.NewMemMapFs()
	for _, f := range files {
		require.NoError(t, afero.WriteFile(fs, f, []byte("video"), 0644))
	}
	a.fs = fs

	t.Setenv("FIXNUMS_CONFIG", filepath.Join(t.TempDir(), "config.toml"))
	return a, &stdout, &stderr, fs
}

func TestRun_HelpExitsOne(t *testing.T) {
	for _, args := range [][]string{{"-h"}, {"--help"}, {"inspect", "--help"}} {
		a, stdout, _, _ := testApp(t)
		code := a.execute(args)
		assert.Equal(t, exitFailure, code, "args %v", args)
		assert.Contains(t, stdout.String(), "Usage:")
	}
}

func TestRun_BadFlagExitsTwo(t *testing.T) {
	a, _, stderr, _ := testApp(t)
	code := a.execute([]string{"--bogus"})
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr.String(), "unknown flag: --bogus")
	assert.Contains(t, stderr.String(), "Usage:")
}

func TestRun_BadFlagValueExitsTwo(t *testing.T) {
	a, _, _, _ := testApp(t)
	assert.Equal(t, exitUsage, a.execute([]string{"--epad", "two"}))
}

func TestRun_WatchNeedsDirectory(t *testing.T) {
	a, _, stderr, _ := testApp(t)
	assert.Equal(t, exitUsage, a.execute([]string{"watch"}))
	assert.Contains(t, stderr.String(), "at least one directory")
}

func TestRun_ConfigErrorsAreFatal(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad season", []string{"--season", "x", srcEpisode}, "season override"},
		{"bad template", []string{"-w", "{nope}", srcEpisode}, "invalid template"},
		{"bad delimiter", []string{"-d", "/", srcEpisode}, "delimiter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, stdout, stderr, fs := testApp(t, srcEpisode)
			code := a.execute(append([]string{"-o", "/lib"}, tt.args...))
			assert.Equal(t, exitFailure, code)
			assert.Contains(t, stderr.String(), tt.want)
			assert.Empty(t, stdout.String(), "no file may be processed")

			exists, _ := afero.Exists(fs, srcEpisode)
			assert.True(t, exists)
		})
	}
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	a, _, _, _ := testApp(t)

	cfgPath := filepath.Join(t.TempDir(), "fixnums.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
delimiter = "_"
season_pad = 2
strip_tokens = ["hdtv"]
copy = true
`), 0644))
	a.cfgFile = cfgPath

	root := a.rootCmd()
	require.NoError(t, root.ParseFlags([]string{
		"--spad", "9",
		"-p", "EXTRA",
		"-p", "more",
		"-v",
		"-o", "/lib",
		"-c=false",
		"-x",
	}))

	cfg, err := a.loadConfig(root)
	require.NoError(t, err)

	assert.Equal(t, "_", cfg.Delimiter, "unset flag keeps the file value")
	assert.Equal(t, 5, cfg.SeasonPad, "pads are clamped")
	assert.Equal(t, 2, cfg.EpisodePad)
	assert.Equal(t, []string{"hdtv", "extra", "more"}, cfg.StripTokens)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/lib", cfg.OutputDir)
	assert.False(t, cfg.CamelCase)
	assert.True(t, cfg.DryRun)
	assert.True(t, cfg.Copy)
}

func TestRun_RenamesFile(t *testing.T) {
	a, stdout, _, fs := testApp(t, srcEpisode)

	code := a.execute([]string{"-o", "/lib", srcEpisode})
	require.Equal(t, exitOK, code)

	out := stdout.String()
	assert.Contains(t, out, "Created Directory Structure - /lib/Show.Name/01\n")
	assert.Contains(t, out, "Attempting to Move "+srcEpisode+" => "+dstEpisode+"\n")
	assert.Contains(t, out, "Move "+srcEpisode+" => "+dstEpisode+" | Success\n\n")

	exists, _ := afero.Exists(fs, srcEpisode)
	assert.False(t, exists)
	exists, _ = afero.Exists(fs, dstEpisode)
	assert.True(t, exists)
}

func TestRun_DryRunAndCopy(t *testing.T) {
	a, stdout, _, fs := testApp(t, srcEpisode)

	code := a.execute([]string{"-x", "-r", "-o", "/lib", srcEpisode})
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout.String(), "Copy "+srcEpisode+" => "+dstEpisode+" | Success")

	exists, _ := afero.Exists(fs, srcEpisode)
	assert.True(t, exists)
	exists, _ = afero.Exists(fs, dstEpisode)
	assert.False(t, exists)
}

func TestRun_Collision(t *testing.T) {
	a, stdout, _, fs := testApp(t, srcEpisode, dstEpisode)
	require.NoError(t, afero.WriteFile(fs, dstEpisode, []byte("keep"), 0644))

	code := a.execute([]string{"-o", "/lib", srcEpisode})
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout.String(), "A file already exists at this path. Add -D to force an overwrite")

	got, _ := afero.ReadFile(fs, dstEpisode)
	assert.Equal(t, "keep", string(got))
}

func TestRun_SkipsNonPlayableArgs(t *testing.T) {
	a, stdout, _, fs := testApp(t, "/in/notes.txt")

	code := a.execute([]string{"-o", "/lib", "/in/notes.txt"})
	require.Equal(t, exitOK, code)
	assert.Empty(t, stdout.String())

	exists, _ := afero.Exists(fs, "/in/notes.txt")
	assert.True(t, exists)
}

func TestRun_LogFileNone(t *testing.T) {
	a, stdout, _, fs := testApp(t, srcEpisode)

	code := a.execute([]string{"-l", "NONE", "-o", "/lib", srcEpisode})
	require.Equal(t, exitOK, code)
	assert.Empty(t, stdout.String())

	exists, _ := afero.Exists(fs, dstEpisode)
	assert.True(t, exists)
}

func TestRun_StrictCannotRename(t *testing.T) {
	a, stdout, _, _ := testApp(t, "/in/randomfile.mkv")

	code := a.execute([]string{"-s", "-o", "/lib", "/in/randomfile.mkv"})
	require.Equal(t, exitOK, code)
	assert.Equal(t, "/in/randomfile.mkv - Cannot Be renamed\n\n", stdout.String())
}

func TestInspect(t *testing.T) {
	a, stdout, _, fs := testApp(t, srcEpisode)

	code := a.execute([]string{"inspect", srcEpisode, "/in/show.s01e01.s01e02.mkv"})
	require.Equal(t, exitOK, code)

	out := stdout.String()
	assert.Contains(t, out, "sxxexx")
	assert.Contains(t, out, "Show.Name")
	assert.Contains(t, out, "Great.Episode")
	assert.Contains(t, out, "cannot rename")
	assert.Contains(t, out, "1 of 2 files cannot be renamed")

	exists, _ := afero.Exists(fs, srcEpisode)
	assert.True(t, exists, "inspect must not move files")
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	a, stdout, _, _ := testApp(t)
	require.Equal(t, exitOK, a.execute([]string{"--config", path, "config", "path"}))
	assert.Equal(t, path+"\n", stdout.String())

	a, stdout, _, _ = testApp(t)
	require.Equal(t, exitOK, a.execute([]string{"--config", path, "config", "init"}))
	assert.Contains(t, stdout.String(), "Created config file: "+path)
	_, err := os.Stat(path)
	require.NoError(t, err)

	a, _, stderr, _ := testApp(t)
	assert.Equal(t, exitFailure, a.execute([]string{"--config", path, "config", "init"}))
	assert.Contains(t, stderr.String(), "already exists")

	a, stdout, _, _ = testApp(t)
	require.Equal(t, exitOK, a.execute([]string{"--config", path, "-d", "_", "config", "show"}))
	assert.Contains(t, stdout.String(), `delimiter = "_"`)
	assert.True(t, strings.HasPrefix(stdout.String(), "# Config file: "+path+"\n"))
}

func TestVersion(t *testing.T) {
	a, stdout, _, _ := testApp(t)
	require.Equal(t, exitOK, a.execute([]string{"version"}))
	assert.Equal(t, "fixnums dev\n", stdout.String())
}

func TestRenameExisting(t *testing.T) {
	a, stdout, _, fs := testApp(t, "/in/show.s01e01.mkv", "/in/sub/show.s01e02.mkv", "/in/notes.txt")

	cfg := testConfigFor(t, "/lib")
	inf, err := naming.NewInferencer(cfg)
	require.NoError(t, err)

	sink := a.openSink(cfg)
	h := &renameHandler{
		inf:      inf,
		org:      a.newOrganizer(cfg, sink, logging.Nop()),
		logger:   logging.Nop(),
		produced: make(map[string]bool),
	}

	require.NoError(t, a.renameExisting(h, []string{"/in"}, cfg.Extensions, false, logging.Nop()))
	exists, _ := afero.Exists(fs, "/lib/Show/01/Show.S01E01.mkv")
	assert.True(t, exists)
	exists, _ = afero.Exists(fs, "/in/sub/show.s01e02.mkv")
	assert.True(t, exists, "subdirectories need recursive")

	require.NoError(t, a.renameExisting(h, []string{"/in"}, cfg.Extensions, true, logging.Nop()))
	exists, _ = afero.Exists(fs, "/lib/Show/01/Show.S01E02.mkv")
	assert.True(t, exists)
	assert.True(t, h.produced["/lib/Show/01/Show.S01E02.mkv"])
	assert.Contains(t, stdout.String(), "| Success")

	exists, _ = afero.Exists(fs, "/in/notes.txt")
	assert.True(t, exists)
}

func testConfigFor(t *testing.T, outputDir string) config.Config {
	t.Helper()
	cfg := *config.DefaultConfig()
	cfg.OutputDir = outputDir
	cfg, err := cfg.Finalize()
	require.NoError(t, err)
	return cfg
}
