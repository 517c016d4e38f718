package fuzzypatch_test

import (
	"context"
	"embed"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/afs"
	_ "github.com/viant/afs/embed"
	"github.com/viant/fuzzypatch"
	"github.com/viant/fuzzypatch/service/action/system/patch"
	"github.com/viant/fuzzypatch/service/executor"
)

//go:embed testdata/*
var embedFS embed.FS

func TestLoadConfig(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()

	config, err := fuzzypatch.LoadConfig(ctx, fs, "embed:///testdata/config.yaml", &embedFS)
	if !assert.NoError(t, err) {
		return
	}
	expected := fuzzypatch.DefaultConfig()
	expected.Corrector.FuzzyThreshold = 0.85
	expected.Corrector.SearchFactor = 3
	expected.Parser.NormalizeIndent = true
	expected.Apply.ContextLines = 2
	expected.Apply.BackupURL = "mem://localhost/fuzzypatch/test/backup"
	assert.Equal(t, expected, config)

	invalidURL := "mem://localhost/fuzzypatch/test/invalid.yaml"
	assert.NoError(t, fs.Upload(ctx, invalidURL, 0644, strings.NewReader("corrector:\n  fuzzyThreshold: 2\n")))
	defer func() { _ = fs.Delete(ctx, invalidURL) }()
	_, err = fuzzypatch.LoadConfig(ctx, fs, invalidURL)
	assert.Error(t, err)

	_, err = fuzzypatch.LoadConfig(ctx, fs, "mem://localhost/fuzzypatch/test/missing.yaml")
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		modify    func(c *fuzzypatch.Config)
		expectErr bool
	}{
		{name: "default", modify: func(c *fuzzypatch.Config) {}},
		{name: "zero threshold", modify: func(c *fuzzypatch.Config) { c.Corrector.FuzzyThreshold = 0 }, expectErr: true},
		{name: "threshold above one", modify: func(c *fuzzypatch.Config) { c.Corrector.FuzzyThreshold = 1.5 }, expectErr: true},
		{name: "zero search factor", modify: func(c *fuzzypatch.Config) { c.Corrector.SearchFactor = 0 }, expectErr: true},
		{name: "negative context", modify: func(c *fuzzypatch.Config) { c.Apply.ContextLines = -1 }, expectErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			config := fuzzypatch.DefaultConfig()
			tc.modify(config)
			err := config.Validate()
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNew_ConfigDefaults(t *testing.T) {
	target := "alpha\nbeta\ngamma\ndelta\nepsilon\n"
	stale := "--- a/f\n+++ b/f\n@@ -4,1 +4,1 @@\n-betz\n+bets\n"
	invalid := fuzzypatch.DefaultConfig()
	invalid.Corrector.FuzzyThreshold = 2
	testCases := []struct {
		name   string
		config *fuzzypatch.Config
	}{
		{name: "default config", config: fuzzypatch.DefaultConfig()},
		{name: "zero config", config: &fuzzypatch.Config{}},
		{name: "invalid config", config: invalid},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := fuzzypatch.New(fuzzypatch.WithConfig(tc.config))
			assert.Equal(t, fuzzypatch.DefaultConfig(), srv.Config())
			actual, ok := srv.Correct(context.Background(), stale, target)
			assert.True(t, ok)
			assert.Equal(t, stale, actual)
		})
	}
}

func TestService_CorrectURL(t *testing.T) {
	ctx := context.Background()
	config, err := fuzzypatch.LoadConfig(ctx, afs.New(), "embed:///testdata/config.yaml", &embedFS)
	if !assert.NoError(t, err) {
		return
	}
	srv := fuzzypatch.New(fuzzypatch.WithConfig(config), fuzzypatch.WithFsOptions(&embedFS))

	stale := "--- a/main.go\n+++ b/main.go\n@@ -4,3 +4,3 @@\n func main() {\n-    fmt.Println(greeting)\n+    fmt.Println(greeting, \"!\")\n }\n"
	expected := "--- a/main.go\n+++ b/main.go\n@@ -8,3 +8,3 @@\n func main() {\n-\tfmt.Println(greeting)\n+\tfmt.Println(greeting, \"!\")\n }\n"
	actual, ok, err := srv.CorrectURL(ctx, stale, "embed:///testdata/target.go.txt")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, expected, actual)

	_, _, err = srv.CorrectURL(ctx, stale, "embed:///testdata/missing.txt")
	assert.Error(t, err)
}

func TestService_ApplyRejectsRetry(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	URL := "mem://localhost/fuzzypatch/e2e/app.txt"
	assert.NoError(t, fs.Upload(ctx, URL, 0644, strings.NewReader("alpha\nbeta\ngamma\ndelta\n")))
	defer func() { _ = fs.Delete(ctx, URL) }()

	srv := fuzzypatch.New(fuzzypatch.WithFileService(fs))
	header := "--- a/" + URL + "\n+++ b/" + URL + "\n"
	full := header +
		"@@ -1,2 +1,2 @@\n alpha\n-beta\n+BETA\n" +
		"@@ -6,2 +6,2 @@\n gamma\n-delta\n+DELTA\n"

	result, err := srv.Apply(ctx, full)
	if !assert.NoError(t, err) || !assert.Len(t, result.Rejects, 1) {
		return
	}
	retry := srv.Intersect(ctx, full, result.Rejects[0].Patch)
	assert.Equal(t, header+"@@ -6,2 +6,2 @@\n gamma\n-delta\n+DELTA\n", retry)

	current, err := fs.DownloadWithURL(ctx, URL)
	assert.NoError(t, err)
	corrected, ok := srv.Correct(ctx, retry, string(current))
	assert.True(t, ok)
	assert.Equal(t, header+"@@ -3,2 +3,2 @@\n gamma\n-delta\n+DELTA\n", corrected)

	result, err = srv.Apply(ctx, corrected)
	assert.NoError(t, err)
	assert.Empty(t, result.Rejects)
	data, err := fs.DownloadWithURL(ctx, URL)
	assert.NoError(t, err)
	assert.Equal(t, "alpha\nBETA\ngamma\nDELTA\n", string(data))

	changes, err := srv.Session().Snapshot(ctx)
	assert.NoError(t, err)
	assert.Len(t, changes, 1)
	assert.NoError(t, srv.Session().Rollback(ctx))
	data, err = fs.DownloadWithURL(ctx, URL)
	assert.NoError(t, err)
	assert.Equal(t, "alpha\nbeta\ngamma\ndelta\n", string(data))
}

func TestService_Executor(t *testing.T) {
	srv := fuzzypatch.New(fuzzypatch.WithExecutorOptions(executor.WithListener(nil)))
	assert.NotNil(t, srv.Actions().Lookup(patch.Name))

	output, err := srv.Executor().Execute(context.Background(), &executor.Action{
		Service: patch.Name,
		Method:  "minify",
		Input:   &patch.MinifyInput{Patch: "--- a/f\n+++ b/f\n@@ -1,3 +1,3 @@\n a\n-b\n+c\n d\n"},
	})
	assert.NoError(t, err)
	assert.Equal(t, &patch.MinifyOutput{Patch: "--- a/f\n+++ b/f\n@@ -2,1 +2,0 @@\n-b\n@@ -3,1 +3,2 @@\n+c\n d\n"}, output)

	minified := srv.Minify(context.Background(), "--- a/f\n+++ b/f\n@@ -1,3 +1,3 @@\n a\n-b\n+c\n d\n")
	assert.Equal(t, output.(*patch.MinifyOutput).Patch, minified)

	result, err := srv.Diff(context.Background(), "a\n", "b\n", "f")
	assert.NoError(t, err)
	assert.Equal(t, 1, result.Stats.Deletions)
}
