// Test Type: Unit Test
// Description: Tests for the remap package - mapping values, paths and descriptors through rules

package remap_test

import (
	"sync"
	"testing"

	"github.com/arthur-debert/shade/pkg/remap"
	"github.com/arthur-debert/shade/pkg/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRemapper(t *testing.T, pairs ...string) *remap.Remapper {
	t.Helper()
	var rs []rules.Rule
	for i := 0; i+1 < len(pairs); i += 2 {
		rs = append(rs, rules.Rule{Kind: rules.KindRule, Pattern: pairs[i], Result: pairs[i+1]})
	}
	resolver, err := rules.NewResolver(rs)
	require.NoError(t, err)
	return remap.New(resolver)
}

func TestMapValue_Unchanged(t *testing.T) {
	m := newRemapper(t, "org.**", "foo.@1")

	for _, value := range []string{
		`[^\s;/@&=,.?:+$]`,
		"[Ljava/lang/Object;",
		"[Lorg/example/Object;",
		"[Ljava.lang.Object;",
		"[Lorg.example/Object;",
		"[L;",
		"[Lorg.example.Object;;",
		"[Lorg.example.Obj ct;",
		"org.example/Object",
		"",
		"hello world",
	} {
		t.Run(value, func(t *testing.T) {
			assert.Equal(t, value, m.MapValue(value))
		})
	}
}

func TestMapValue_Unchanged_NoRules(t *testing.T) {
	m := newRemapper(t)
	for _, value := range []string{
		`[^\s;/@&=,.?:+$]`,
		"[Ljava/lang/Object;",
		"[Lorg/example/Object;",
		"[Ljava.lang.Object;",
		"[Lorg.example/Object;",
		"[L;",
		"[Lorg.example.Object;;",
		"[Lorg.example.Obj ct;",
		"org.example/Object",
		"org.example.Object",
	} {
		assert.Equal(t, value, m.MapValue(value), value)
	}
}

func TestMapValue_Changed(t *testing.T) {
	m := newRemapper(t, "org.**", "foo.@1")

	tests := []struct {
		in   string
		want string
	}{
		{"[Lorg.example.Object;", "[Lfoo.example.Object;"},
		{"org.example.Object", "foo.example.Object"},
		{"org.example-withdash.Object", "foo.example-withdash.Object"},
		{"org/example/Object", "foo/example/Object"},
		{"org/example.Object", "foo/example.Object"},
		{"org.example.package-info", "foo.example.package-info"},
		{"org/example/package-info", "foo/example/package-info"},
		{"org/example.package-info", "foo/example.package-info"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, m.MapValue(tt.in))
		})
	}
}

func TestMapPath(t *testing.T) {
	m := newRemapper(t, "org.example.**", "shaded.example.@1")

	tests := []struct {
		in   string
		want string
	}{
		{"org/example/config.properties", "shaded/example/config.properties"},
		{"org/example/sub/messages_en.properties", "shaded/example/sub/messages_en.properties"},
		{"/org/example/logo.png", "/shaded/example/logo.png"},
		{"org/other/config.properties", "org/other/config.properties"},
		{"config.properties", "config.properties"},
		{"META-INF/MANIFEST.MF", "META-INF/MANIFEST.MF"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, m.MapPath(tt.in))
			// memoised result is stable
			assert.Equal(t, tt.want, m.MapPath(tt.in))
		})
	}
}

func TestMap(t *testing.T) {
	m := newRemapper(t, "org.example.**", "shaded.@1")

	got, changed := m.Map("org/example/Foo")
	assert.True(t, changed)
	assert.Equal(t, "shaded/Foo", got)

	got, changed = m.Map("java/lang/String")
	assert.False(t, changed)
	assert.Equal(t, "java/lang/String", got)

	assert.Equal(t, "shaded/Foo$Bar", m.MapType("org/example/Foo$Bar"))
}

func TestMapDescriptor(t *testing.T) {
	m := newRemapper(t, "org.example.**", "shaded.@1")

	tests := []struct {
		in   string
		want string
	}{
		{"Lorg/example/Foo;", "Lshaded/Foo;"},
		{"[[Lorg/example/Foo;", "[[Lshaded/Foo;"},
		{"I", "I"},
		{"(Lorg/example/Foo;I[J)Lorg/example/Bar;", "(Lshaded/Foo;I[J)Lshaded/Bar;"},
		{"()V", "()V"},
		{"(Lorg/example/Foo", "(Lorg/example/Foo"},
		{"Q", "Q"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, m.MapDescriptor(tt.in))
		})
	}
}

func TestMapSignature(t *testing.T) {
	m := newRemapper(t, "org.example.**", "shaded.@1")

	assert.Equal(t,
		"Ljava/util/List<Lshaded/Foo;>;",
		m.MapSignature("Ljava/util/List<Lorg/example/Foo;>;", true))
	assert.Equal(t,
		"<T:Lshaded/Foo;>(TT;)Lshaded/Bar;",
		m.MapSignature("<T:Lorg/example/Foo;>(TT;)Lorg/example/Bar;", false))
	// malformed input passes through
	assert.Equal(t, "Ljava/util/List<", m.MapSignature("Ljava/util/List<", true))
}

func TestRemapper_Concurrent(t *testing.T) {
	m := newRemapper(t, "org.**", "foo.@1")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.Equal(t, "foo/example/Object", m.MapType("org/example/Object"))
				assert.Equal(t, "foo/x.txt", m.MapPath("org/x.txt"))
			}
		}()
	}
	wg.Wait()
}

func TestIsArrayForName(t *testing.T) {
	assert.True(t, remap.IsArrayForName("[Lorg.example.Object;"))
	assert.True(t, remap.IsArrayForName("[LObject;"))
	assert.False(t, remap.IsArrayForName("[L;"))
	assert.False(t, remap.IsArrayForName("[Lorg/example/Object;"))
	assert.False(t, remap.IsArrayForName("[[Lorg.example.Object;"))
	assert.False(t, remap.IsArrayForName("Lorg.example.Object;"))
}
