// Test Type: Integration Test
// Description: Tests for the core package - whole runs over real archives on disk

package core_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/shade/pkg/archive"
	"github.com/arthur-debert/shade/pkg/classfile"
	"github.com/arthur-debert/shade/pkg/config"
	"github.com/arthur-debert/shade/pkg/core"
	"github.com/arthur-debert/shade/pkg/errors"
	"github.com/arthur-debert/shade/pkg/keep"
	"github.com/arthur-debert/shade/pkg/misplaced"
	"github.com/arthur-debert/shade/pkg/pipeline"
	"github.com/arthur-debert/shade/pkg/rules"
	"github.com/arthur-debert/shade/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	dir    string
	input  string
	output string
	rules  string
}

func newFixture(t *testing.T, ruleSource string, entries ...*archive.Entry) *fixture {
	t.Helper()
	dir := t.TempDir()
	f := &fixture{
		dir:    dir,
		input:  filepath.Join(dir, "in.jar"),
		output: filepath.Join(dir, "out.jar"),
		rules:  filepath.Join(dir, "jarjar.rules"),
	}
	testutil.CreateArchive(t, dir, "in.jar", entries...)
	testutil.CreateFile(t, dir, "jarjar.rules", ruleSource)
	return f
}

func (f *fixture) run(cfg *config.Config) (*core.Result, error) {
	return core.Process(context.Background(), core.ProcessOptions{
		Input:     f.input,
		Output:    f.output,
		RulesFile: f.rules,
		Config:    cfg,
	})
}

func (f *fixture) outputNames(t *testing.T) []string {
	t.Helper()
	return testutil.EntryNames(t, f.output)
}

func (f *fixture) assertNoOutput(t *testing.T) {
	t.Helper()
	testutil.AssertNoFile(t, f.output)
	files, err := os.ReadDir(f.dir)
	require.NoError(t, err)
	assert.Len(t, files, 2, "only the input and the rules file remain")
}

func TestProcess_Shades(t *testing.T) {
	f := newFixture(t, "rule org.example.** shaded.@1\nzap org.example.internal.**\n",
		&archive.Entry{Name: "META-INF/MANIFEST.MF", Data: []byte("Manifest-Version: 1.0\n")},
		&archive.Entry{Name: "org/example/"},
		testutil.ClassEntry("org/example/Foo", func(b *testutil.ClassBuilder) {
			b.Super("org/example/Base").Field("dep", "Lcom/other/Dep;")
		}),
		testutil.ClassEntry("org/example/Base", nil),
		testutil.ClassEntry("org/example/internal/Secret", nil),
		testutil.ClassEntry("com/other/Dep", nil),
		&archive.Entry{Name: "org/example/messages.properties", Data: []byte("hello=world\n")},
	)

	res, err := f.run(nil)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"META-INF/MANIFEST.MF",
		"shaded/",
		"shaded/Foo.class",
		"shaded/Base.class",
		"com/other/Dep.class",
		"shaded/messages.properties",
	}, f.outputNames(t))

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 7, res.Read)
	assert.Equal(t, 6, res.Written)
	assert.Equal(t, []string{"org/example/internal/Secret.class"}, res.Removed)
	assert.Contains(t, res.Renamed, core.Rename{From: "org/example/Foo.class", To: "shaded/Foo.class"})
	assert.Len(t, res.Renamed, 4)

	entries, err := archive.Read(f.output)
	require.NoError(t, err)
	data := entries[2].Data
	name, err := classfile.ClassName(data)
	require.NoError(t, err)
	assert.Equal(t, "shaded/Foo", name)
}

func TestProcess_SkipManifestFromConfig(t *testing.T) {
	f := newFixture(t, "rule org.example.** shaded.@1\n",
		&archive.Entry{Name: "META-INF/MANIFEST.MF", Data: []byte("Manifest-Version: 1.0\n")},
		testutil.ClassEntry("org/example/Foo", nil),
	)
	cfg := config.Default()
	cfg.SkipManifest = true

	_, err := f.run(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"shaded/Foo.class"}, f.outputNames(t))
}

func TestProcess_DuplicateIsFatal(t *testing.T) {
	f := newFixture(t, "rule org.a.** x.@1\nrule org.b.** x.@1\n",
		testutil.ClassEntry("org/a/Foo", nil),
		testutil.ClassEntry("org/b/Foo", nil),
	)

	_, err := f.run(nil)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrDuplicateEntry))
	assert.Contains(t, err.Error(), "x/Foo.class")
	f.assertNoOutput(t)
}

func TestProcess_ParallelRoots(t *testing.T) {
	ruleSource := "rule META-INF.versions.*.org.a.** org.a.@2\n"
	entries := func() []*archive.Entry {
		return []*archive.Entry{
			{Name: "META-INF/versions/9/org/a/res.txt", Data: []byte("nine")},
			{Name: "META-INF/versions/11/org/a/res.txt", Data: []byte("eleven")},
		}
	}

	t.Run("exempt", func(t *testing.T) {
		f := newFixture(t, ruleSource, entries()...)
		cfg := config.Default()
		cfg.ParallelRoots = []string{"META-INF/versions/9", "META-INF/versions/11"}
		_, err := f.run(cfg)
		require.NoError(t, err)
		assert.Equal(t, []string{"org/a/res.txt", "org/a/res.txt"}, f.outputNames(t))
	})

	t.Run("not configured", func(t *testing.T) {
		f := newFixture(t, ruleSource, entries()...)
		_, err := f.run(nil)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrDuplicateEntry))
		f.assertNoOutput(t)
	})
}

func TestProcess_MisplacedFailAborts(t *testing.T) {
	misplacedClass := testutil.NewClass("org/example/Foo").Build()
	f := newFixture(t, "rule org.example.** shaded.@1\n",
		testutil.ClassEntry("org/example/Bar", nil),
		&archive.Entry{Name: "wrong/Foo.class", Data: misplacedClass},
	)
	cfg := config.Default()
	cfg.Misplaced = misplaced.Fail

	_, err := f.run(cfg)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrMisplacedEntry))
	f.assertNoOutput(t)
}

func keepFixture(t *testing.T) *fixture {
	return newFixture(t, "rule org.example.** shaded.@1\nkeep org.example.Main\n",
		testutil.ClassEntry("org/example/Main", func(b *testutil.ClassBuilder) {
			b.Field("h", "Lorg/example/Helper;")
		}),
		testutil.ClassEntry("org/example/Helper", nil),
		testutil.ClassEntry("org/example/Unused", nil),
	)
}

func TestProcess_KeepInline(t *testing.T) {
	f := keepFixture(t)
	res, err := f.run(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"shaded/Main.class", "shaded/Helper.class"}, f.outputNames(t))
	assert.Equal(t, []string{"org/example/Unused.class"}, res.Removed)
	assert.Empty(t, res.Stripped)
}

func TestProcess_KeepStrip(t *testing.T) {
	f := keepFixture(t)
	cfg := config.Default()
	cfg.Keep.Mode = pipeline.KeepStrip

	res, err := f.run(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"shaded/Main.class", "shaded/Helper.class"}, f.outputNames(t))
	assert.Equal(t, []string{"shaded/Unused.class"}, res.Stripped)
	assert.Empty(t, res.Removed)
	assert.Equal(t, 2, res.Written)
}

func TestProcess_RulesFromConfig(t *testing.T) {
	f := newFixture(t, "", testutil.ClassEntry("org/example/Foo", nil))
	cfg := config.Default()
	cfg.Rules = []rules.Rule{{Kind: rules.KindRule, Pattern: "org.example.**", Result: "cfg.@1"}}

	_, err := core.Process(context.Background(), core.ProcessOptions{
		Input: f.input, Output: f.output, Config: cfg,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"cfg/Foo.class"}, f.outputNames(t))
}

func TestProcess_Cancelled(t *testing.T) {
	f := newFixture(t, "rule org.example.** shaded.@1\n", testutil.ClassEntry("org/example/Foo", nil))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := core.Process(ctx, core.ProcessOptions{Input: f.input, Output: f.output, RulesFile: f.rules})
	assert.ErrorIs(t, err, context.Canceled)
	f.assertNoOutput(t)
}

func TestLoadRules_Errors(t *testing.T) {
	_, err := core.LoadRules("", nil)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	_, err = core.LoadRules(filepath.Join(t.TempDir(), "missing.rules"), nil)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))

	path := filepath.Join(t.TempDir(), "bad.rules")
	require.NoError(t, os.WriteFile(path, []byte("rule org.** foo.@2\n"), 0644))
	_, err = core.LoadRules(path, nil)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPatternInvalid))
}

func TestFind(t *testing.T) {
	f := keepFixture(t)
	deps, err := core.Find(context.Background(), f.input, keep.DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, []core.Dependency{{From: "org/example/Main", To: "org/example/Helper"}}, deps)
}

func TestStrings(t *testing.T) {
	f := newFixture(t, "",
		testutil.ClassEntry("org/example/Foo", func(b *testutil.ClassBuilder) {
			b.Method("m", "()V", testutil.NewCode().Ldc("hello").Pop().Ldc("org.example.Bar").Pop().Return().Attr())
		}),
		testutil.ClassEntry("org/example/Empty", nil),
		&archive.Entry{Name: "broken.class", Data: []byte("nope")},
	)
	got, err := core.Strings(f.input)
	require.NoError(t, err)
	assert.Equal(t, []core.ClassStrings{
		{Entry: "org/example/Foo.class", Strings: []string{"hello", "org.example.Bar"}},
	}, got)
}

func TestCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jarjar.rules")
	require.NoError(t, os.WriteFile(path, []byte("rule org.** foo.@1\nzap org.x.**\nkeep org.Main\n"), 0644))

	res, err := core.Check(path, []rules.Rule{{Kind: rules.KindZap, Pattern: "org.y.**"}})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"rule": 1, "zap": 2, "keep": 1}, res.Counts)
	require.Len(t, res.Rules, 4)
	assert.Equal(t, 1, res.Rules[0].Line)
	assert.Equal(t, 0, res.Rules[3].Line)
}
