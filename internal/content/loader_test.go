package content

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmdtrainer/cmdtrainer/internal/docschema"
	"github.com/cmdtrainer/cmdtrainer/internal/matcher"
)

func TestBundledContentIsValid(t *testing.T) {
	cat, err := LoadCatalog(Bundled())
	require.NoError(t, err)

	var ids []string
	for _, m := range cat.Modules() {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"base-linux", "file-tools", "ssh", "git", "docker", "docker-network"}, ids)

	for cmd, want := range map[string]string{
		"cat":            "base-linux",
		"grep":           "base-linux",
		"docker network": "docker",
		"docker run":     "docker",
		"git commit":     "git",
	} {
		home, ok := cat.Home(cmd)
		require.True(t, ok, cmd)
		assert.Equal(t, want, home, cmd)
	}

	m, ok := cat.Module("docker")
	require.True(t, ok)
	assert.Equal(t, 2, m.ContentVersion)
}

func TestBundledAnswersMatchThemselves(t *testing.T) {
	cat, err := LoadCatalog(Bundled())
	require.NoError(t, err)

	for _, m := range cat.Modules() {
		for _, c := range m.Cards() {
			for _, answer := range c.Answers {
				assert.True(t, matcher.Matches(answer, c), "card %s answer %q", c.ID, answer)
			}
		}
	}
}

func TestLoad_MixedFormats(t *testing.T) {
	fsys := fstest.MapFS{
		"base.json": {Data: []byte("\xef\xbb\xbf" + `{
			"id": "base", "title": "Base", "order": 1,
			"lessons": [{"id": "l1", "title": "L1", "cards": [
				{"id": "b1", "prompt": "list", "answers": ["ls -la"]}
			]}]
		}`)},
		"nested/files.yml": {Data: []byte(`
id: files
title: Files
order: 2
prerequisites: [base]
lessons:
  - id: l2
    title: L2
    cards:
      - id: f1
        prompt: list recursively
        answers: ["ls -R"]
`)},
		"README.md":   {Data: []byte("# not content")},
		"overlap.yaml": {Data: []byte("homes:\n  ls: base\ncontextual:\n  ls: [files]\n")},
	}

	src, err := Load(fsys)
	require.NoError(t, err)
	require.Len(t, src.Modules, 2)
	assert.Equal(t, "base", src.Modules[0].ID)
	assert.Equal(t, "files", src.Modules[1].ID)
	assert.Equal(t, "nested/files.yml", src.Files["files"])
	assert.Equal(t, map[string]string{"ls": "base"}, src.Policy.Homes)
	assert.Equal(t, []string{"files"}, src.Policy.Contextual["ls"])

	cat, err := LoadCatalog(fsys)
	require.NoError(t, err)
	c, ok := cat.Card("f1")
	require.True(t, ok)
	assert.Equal(t, "ls", c.Command)
	assert.Equal(t, []string{"-R"}, c.TestedFlags)
}

func TestLoad_SchemaViolationsAreReported(t *testing.T) {
	fsys := fstest.MapFS{
		"a.json": {Data: []byte(`{"id": "a", "lessons": [{"id": "l", "cards": [{"id": "c", "prompt": "p", "answers": "ls"}]}]}`)},
		"b.yaml": {Data: []byte("title: no id\nlessons: []\n")},
		"c.json": {Data: []byte(`{not json`)},
	}

	_, err := Load(fsys)
	require.Error(t, err)

	var invalid *docschema.ErrInvalidDocument
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "module", invalid.Schema)
	assert.Contains(t, err.Error(), "a.json")
	assert.Contains(t, err.Error(), "b.yaml")
	assert.Contains(t, err.Error(), "c.json")
}

func TestLoad_BadPolicy(t *testing.T) {
	fsys := fstest.MapFS{
		"overlap.yaml": {Data: []byte("owners:\n  ls: base\n")},
	}
	_, err := Load(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), PolicyFile)
}

func TestLoadCatalog_ValidationFailure(t *testing.T) {
	fsys := fstest.MapFS{
		"a.yaml": {Data: []byte("id: a\nprerequisites: [b]\nlessons: []\n")},
		"b.yaml": {Data: []byte("id: b\nprerequisites: [a]\nlessons: []\n")},
	}
	_, err := LoadCatalog(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a -> b -> a")
}

func TestOpen(t *testing.T) {
	fsys, err := Open("")
	require.NoError(t, err)
	_, err = LoadCatalog(fsys)
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "m.yaml"), []byte(`
id: m
lessons:
  - id: l
    cards:
      - id: c
        prompt: print working directory
        answers: [pwd]
`), 0o644))
	fsys, err = Open(dir)
	require.NoError(t, err)
	cat, err := LoadCatalog(fsys)
	require.NoError(t, err)
	m, ok := cat.Module("m")
	require.True(t, ok)
	assert.Equal(t, "m", m.Title)

	_, err = Open(filepath.Join(dir, "m.yaml"))
	assert.Error(t, err)
	_, err = Open(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
