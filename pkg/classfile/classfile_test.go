// Test Type: Unit Test
// Description: Tests for the classfile package - parsing and reference rewriting

package classfile

import (
	"strings"
	"testing"

	"github.com/arthur-debert/shade/pkg/errors"
	"github.com/arthur-debert/shade/pkg/remap"
	"github.com/arthur-debert/shade/pkg/rules"
	"github.com/arthur-debert/shade/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is an identity Remapper that remembers what it was asked.
type recorder struct {
	types, descs, sigs, values []string
}

func (r *recorder) MapType(s string) string {
	r.types = append(r.types, s)
	return s
}

func (r *recorder) MapDescriptor(s string) string {
	r.descs = append(r.descs, s)
	return s
}

func (r *recorder) MapSignature(s string, _ bool) string {
	r.sigs = append(r.sigs, s)
	return s
}

func (r *recorder) MapValue(s string) string {
	r.values = append(r.values, s)
	return s
}

func (r *recorder) all() []string {
	var out []string
	for _, l := range [][]string{r.types, r.descs, r.sigs, r.values} {
		out = append(out, l...)
	}
	return out
}

func newRemapper(t *testing.T, pattern, result string) *remap.Remapper {
	t.Helper()
	resolver, err := rules.NewResolver([]rules.Rule{{Kind: rules.KindRule, Pattern: pattern, Result: result}})
	require.NoError(t, err)
	return remap.New(resolver)
}

func sampleClass() []byte {
	marker := testutil.Annotation{Desc: "Lorg/example/Marker;"}.
		With("type", testutil.ClassValue("Lorg/example/Target;")).
		With("name", testutil.StringValue("org.example.Named")).
		With("kind", testutil.EnumValue("Lorg/example/Kind;", "A")).
		With("list", testutil.ArrayValue(testutil.StringValue("org/example/res.txt"), testutil.IntValue(3))).
		With("nested", testutil.NestedValue(testutil.Annotation{Desc: "Lorg/example/Inner;"}))

	code := testutil.NewCode().
		New("org/example/Thing").
		Pop().
		LdcW("org.example.Loaded").
		Pop().
		LdcClass("[Lorg/example/Thing;").
		Pop().
		GetStatic("org/example/Util", "INSTANCE", "Lorg/example/Util;").
		Pop().
		InvokeStatic("org/example/Util", "go", "(Lorg/example/Arg;)V").
		Return().
		Local(testutil.LocalVariable{Name: "arg", Desc: "Lorg/example/Arg;", Slot: 1}).
		LocalSignature(testutil.LocalVariable{Name: "list", Desc: "Ljava/util/List<Lorg/example/Arg;>;", Slot: 2})

	return testutil.NewClass("org/example/Foo").
		Super("org/example/Base").
		Implements("org/example/Iface", "java/io/Serializable").
		Field("helper", "Lorg/example/Helper;",
			testutil.SignatureAttr("Ljava/util/List<Lorg/example/Helper;>;"),
			testutil.FieldTypeAnnotationAttr(testutil.Annotation{Desc: "Lorg/example/NonNull;"})).
		Method("run", "(Lorg/example/Arg;)Lorg/example/Result;",
			code.Attr(),
			testutil.SignatureAttr("<T:Lorg/example/Base;>(TT;)Lorg/example/Result;"),
			testutil.ParameterAnnotationsAttr([]testutil.Annotation{{Desc: "Lorg/example/Param;"}})).
		Method("value", "()Lorg/example/Kind;",
			testutil.AnnotationDefaultAttr(testutil.EnumValue("Lorg/example/Kind;", "B"))).
		Attr(
			testutil.AnnotationsAttr(marker),
			testutil.SignatureAttr("Lorg/example/Base<Ljava/lang/String;>;Lorg/example/Iface;"),
			testutil.RecordAttr(testutil.RecordComponent{
				Name: "x", Desc: "Lorg/example/X;", Signature: "Ljava/util/List<Lorg/example/X;>;",
			}),
			testutil.RawAttr("SourceFile", []byte{0, 1}),
		).
		Build()
}

func TestVisit_FindsEveryReference(t *testing.T) {
	rec := &recorder{}
	name, err := Visit(sampleClass(), rec)
	require.NoError(t, err)
	assert.Equal(t, "org/example/Foo", name)

	assert.Subset(t, rec.types, []string{
		"org/example/Foo", "org/example/Base", "org/example/Iface", "java/io/Serializable",
		"org/example/Thing", "org/example/Util",
	})
	assert.Subset(t, rec.descs, []string{
		"[Lorg/example/Thing;",
		"Lorg/example/Helper;",
		"(Lorg/example/Arg;)Lorg/example/Result;",
		"()Lorg/example/Kind;",
		"(Lorg/example/Arg;)V",
		"Lorg/example/Util;",
		"Lorg/example/Arg;",
		"Lorg/example/Marker;",
		"Lorg/example/Target;",
		"Lorg/example/Kind;",
		"Lorg/example/Inner;",
		"Lorg/example/NonNull;",
		"Lorg/example/Param;",
		"Lorg/example/X;",
	})
	assert.ElementsMatch(t, []string{
		"Ljava/util/List<Lorg/example/Helper;>;",
		"<T:Lorg/example/Base;>(TT;)Lorg/example/Result;",
		"Lorg/example/Base<Ljava/lang/String;>;Lorg/example/Iface;",
		"Ljava/util/List<Lorg/example/X;>;",
		"Ljava/util/List<Lorg/example/Arg;>;",
	}, rec.sigs)
	assert.ElementsMatch(t, []string{
		"org.example.Loaded", "org.example.Named", "org/example/res.txt",
	}, rec.values)
}

func TestTransform(t *testing.T) {
	in := sampleClass()
	out, name, err := Transform(in, newRemapper(t, "org.example.**", "shaded.@1"))
	require.NoError(t, err)
	assert.Equal(t, "shaded/Foo", name)

	rec := &recorder{}
	name, err = Visit(out, rec)
	require.NoError(t, err)
	assert.Equal(t, "shaded/Foo", name)

	for _, s := range rec.all() {
		assert.NotContains(t, s, "org/example", "stale reference %q", s)
		assert.NotContains(t, s, "org.example", "stale reference %q", s)
	}
	assert.Contains(t, rec.types, "shaded/Base")
	assert.Contains(t, rec.types, "java/io/Serializable")
	assert.Contains(t, rec.descs, "[Lshaded/Thing;")
	assert.Contains(t, rec.descs, "(Lshaded/Arg;)Lshaded/Result;")
	assert.Contains(t, rec.sigs, "<T:Lshaded/Base;>(TT;)Lshaded/Result;")
	assert.ElementsMatch(t, []string{"shaded.Loaded", "shaded.Named", "shaded/res.txt"}, rec.values)

	before, err := Parse(in)
	require.NoError(t, err)
	after, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, len(before.tail), len(after.tail), "rewriting must not move bytes after the pool")
	assert.Greater(t, len(after.pool), len(before.pool))
}

func TestTransform_Unchanged(t *testing.T) {
	in := sampleClass()
	out, name, err := Transform(in, newRemapper(t, "com.other.**", "x.@1"))
	require.NoError(t, err)
	assert.Equal(t, "org/example/Foo", name)
	assert.Equal(t, in, out)
}

func TestTransform_Idempotent(t *testing.T) {
	r := newRemapper(t, "org.example.**", "shaded.@1")
	once, _, err := Transform(sampleClass(), r)
	require.NoError(t, err)
	twice, _, err := Transform(once, r)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func packageNames(t *testing.T, cls *Class) []string {
	t.Helper()
	var out []string
	for i := range cls.pool {
		if cls.pool[i].tag != tagPackage {
			continue
		}
		name, err := cls.utf8(cls.pool[i].ref(0))
		require.NoError(t, err)
		out = append(out, name)
	}
	return out
}

func innerNames(t *testing.T, cls *Class) []string {
	t.Helper()
	var out []string
	w := &walker{cls: cls, onInnerName: func(off, _ int) error {
		name, err := cls.utf8(cls.u2At(off))
		out = append(out, name)
		return err
	}}
	require.NoError(t, w.walk())
	return out
}

func TestTransform_PackageConstants(t *testing.T) {
	in := testutil.NewClass("module-info").
		Constants(func(p *testutil.Pool) {
			p.Package("org/example")
			p.Package("org/example/impl")
			p.Package("com/other")
		}).
		Build()

	out, _, err := Transform(in, newRemapper(t, "org.example.**", "shaded.@1"))
	require.NoError(t, err)

	cls, err := Parse(out)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"shaded", "shaded/impl", "com/other"}, packageNames(t, cls))
}

func TestMapPackage(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		result  string
		pkg     string
		want    string
	}{
		{"renamed", "org.example.**", "shaded.@1", "org/example/impl", "shaded/impl"},
		{"no rule", "com.other.**", "x.@1", "org/example", "org/example"},
		{"lands in unnamed package", "org.example.*", "@1", "org/example", "org/example"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mapPackage(newRemapper(t, tt.pattern, tt.result), tt.pkg))
		})
	}
}

func TestTransform_InnerClassNames(t *testing.T) {
	in := testutil.NewClass("org/example/Outer").
		Attr(testutil.InnerClassesAttr(
			testutil.InnerClass{Inner: "org/example/Outer$Inner", Outer: "org/example/Outer", Name: "Inner", Access: 0x0009},
			testutil.InnerClass{Inner: "org/example/Outer$1", Access: 0x0008},
			testutil.InnerClass{Inner: "org/example/Outer$Odd", Outer: "org/example/Outer", Name: "Custom"},
			testutil.InnerClass{Inner: "java/util/Map$Entry", Outer: "java/util/Map", Name: "Entry"},
		)).
		Build()

	out, name, err := Transform(in, newRemapper(t, "org.example.Outer$*", "org.example.Outer$X@1"))
	require.NoError(t, err)
	assert.Equal(t, "org/example/Outer", name)

	cls, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"XInner", "Custom", "Entry"}, innerNames(t, cls))

	same, _, err := Transform(in, newRemapper(t, "com.other.**", "x.@1"))
	require.NoError(t, err)
	assert.Equal(t, in, same)
}

func TestSimpleName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"org/example/Outer$Inner", "Inner"},
		{"org/example/Outer$1Local", "Local"},
		{"org/example/Outer$1", ""},
		{"org/example/Outer", ""},
		{"org/example/A$B$C", "C"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, simpleName(tt.in))
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	valid := sampleClass()
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"bad magic", []byte{0xCA, 0xFE, 0xBA, 0xBF, 0, 0, 0, 52}},
		{"truncated pool", valid[:20]},
		{"truncated tail", valid[:len(valid)-3]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Transform(tt.data, &recorder{})
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrClassFormat), "got %v", err)
		})
	}
}

func TestParse_UnknownConstantTag(t *testing.T) {
	data := []byte{0xCA, 0xFE, 0xBA, 0xBE, 0, 0, 0, 52, 0, 2, 99, 0, 0}
	_, err := Parse(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown constant tag")
}

func TestClassName(t *testing.T) {
	name, err := ClassName(testutil.NewClass("org/example/fake/Foobar").Build())
	require.NoError(t, err)
	assert.Equal(t, "org/example/fake/Foobar", name)

	_, err = ClassName([]byte("not a class"))
	assert.Error(t, err)
}

func TestSuperName(t *testing.T) {
	cls, err := Parse(testutil.NewClass("a/B").Super("a/C").Build())
	require.NoError(t, err)
	super, err := cls.SuperName()
	require.NoError(t, err)
	assert.Equal(t, "a/C", super)

	cls, err = Parse(testutil.NewClass("java/lang/Object").Super("").Build())
	require.NoError(t, err)
	super, err = cls.SuperName()
	require.NoError(t, err)
	assert.Empty(t, super)
}

func TestStrings(t *testing.T) {
	data := testutil.NewClass("a/B").
		Method("m", "()V", testutil.NewCode().Ldc("hello").Pop().LdcW("org.example.Thing").Pop().Return().Attr()).
		Build()
	got, err := Strings(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"hello", "org.example.Thing"}, got)
}

func TestBytes_RoundTrip(t *testing.T) {
	in := sampleClass()
	cls, err := Parse(in)
	require.NoError(t, err)
	assert.False(t, cls.Modified())
	assert.Equal(t, in, cls.Bytes())
}

func TestAddUTF8_PoolFull(t *testing.T) {
	data := testutil.NewClass("a/B").Constants(func(p *testutil.Pool) { p.Padding(maxPoolSize - 5) }).Build()
	cls, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, maxPoolSize, len(cls.pool))

	_, err = cls.addUTF8("brand new")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrClassTooLarge))

	idx, err := cls.addUTF8("a/B")
	require.NoError(t, err)
	assert.Greater(t, idx, 0)
}

func TestMUTF8(t *testing.T) {
	for _, s := range []string{"", "plain", "nul\x00byte", "café", "中文", "emoji 😀 done"} {
		t.Run(s, func(t *testing.T) {
			enc := encodeMUTF8(s)
			for _, b := range enc {
				assert.NotZero(t, b)
			}
			dec, err := decodeMUTF8(enc)
			require.NoError(t, err)
			assert.Equal(t, s, dec)
		})
	}

	assert.Equal(t, []byte{0xC0, 0x80}, encodeMUTF8("\x00"))
	assert.Len(t, encodeMUTF8("😀"), 6)

	for _, bad := range [][]byte{
		{0xED, 0xA0, 0x80},       // lone high surrogate
		{0xED, 0xB0, 0x80},       // lone low surrogate
		{0xC3},                   // truncated
		{0xF0, 0x9F, 0x98, 0x80}, // four byte form is not modified UTF-8
	} {
		_, err := decodeMUTF8(bad)
		assert.Error(t, err, "%x", bad)
	}
}

func TestInsnLength(t *testing.T) {
	// tableswitch at pc 1: pad 2, default/low/high, two targets
	table := []byte{0x00, opTableswitch, 0, 0,
		0, 0, 0, 0, // default
		0, 0, 0, 1, // low
		0, 0, 0, 2, // high
		0, 0, 0, 0, 0, 0, 0, 0}
	n, err := insnLength(table, 1)
	require.NoError(t, err)
	assert.Equal(t, 1+2+12+8, n)

	// lookupswitch at pc 0: pad 3, default, npairs=1, one pair
	lookup := []byte{opLookupswitch, 0, 0, 0,
		0, 0, 0, 0,
		0, 0, 0, 1,
		0, 0, 0, 5, 0, 0, 0, 9}
	n, err = insnLength(lookup, 0)
	require.NoError(t, err)
	assert.Equal(t, len(lookup), n)

	n, err = insnLength([]byte{opWide, opIinc, 0, 1, 0, 1}, 0)
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	n, err = insnLength([]byte{opWide, 0x15, 0, 1}, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	_, err = insnLength([]byte{0xd0}, 0)
	assert.Error(t, err)

	_, err = insnLength([]byte{opTableswitch, 0, 0}, 0)
	assert.Error(t, err)
}

func TestRewriteSignatureLiterals(t *testing.T) {
	methods := map[string]bool{"getImplMethodSignature": true}
	r := newRemapper(t, "com.google.**", "com.googleshaded.@1")
	mapSig := func(s string) string { return r.MapSignature(s, false) }

	code := testutil.NewCode().
		Ldc("(Lcom/google/Untouched;)V").Pop().
		InvokeVirtual("java/lang/invoke/SerializedLambda", "getImplMethodSignature", "()Ljava/lang/String;").
		Pop().
		Ldc("(Lcom/google/Foo;)Lcom/google/Bar;").
		InvokeVirtual("java/lang/Object", "equals", "(Ljava/lang/Object;)Z").
		Pop().
		InvokeVirtual("java/lang/invoke/SerializedLambda", "getImplMethodSignature", "()Ljava/lang/String;").
		Pop().
		LdcW("(Lcom/google/Baz;)V").
		Pop().
		Return()
	in := testutil.NewClass("a/Lambdas").Method("m", "()V", code.Attr()).Build()

	out, count, err := RewriteSignatureLiterals(in, methods, mapSig)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// the loaded literals, in order, after rewriting
	var loaded []string
	cls, err := Parse(out)
	require.NoError(t, err)
	w := &walker{cls: cls, onCode: func(start, length int) error {
		code := cls.tail[start : start+length]
		for pc := 0; pc < len(code); {
			n, err := insnLength(code, pc)
			require.NoError(t, err)
			switch code[pc] {
			case opLdc:
				s, err := cls.stringAt(int(code[pc+1]))
				require.NoError(t, err)
				loaded = append(loaded, s)
			case opLdcW:
				s, err := cls.stringAt(cls.u2At(start + pc + 1))
				require.NoError(t, err)
				loaded = append(loaded, s)
			}
			pc += n
		}
		return nil
	}}
	require.NoError(t, w.walk())
	assert.Equal(t, []string{
		"(Lcom/google/Untouched;)V",
		"(Lcom/googleshaded/Foo;)Lcom/googleshaded/Bar;",
		"(Lcom/googleshaded/Baz;)V",
	}, loaded)
}

func TestRewriteSignatureLiterals_NoMatch(t *testing.T) {
	in := testutil.NewClass("a/B").
		Method("m", "()V", testutil.NewCode().Ldc("(Lcom/google/Foo;)V").Pop().Return().Attr()).
		Build()
	out, count, err := RewriteSignatureLiterals(in, map[string]bool{"getImplMethodSignature": true},
		func(s string) string { return strings.ToUpper(s) })
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Equal(t, in, out)
}

func TestRewriteSignatureLiterals_FarPoolRepointsConstant(t *testing.T) {
	const sig = "(Lcom/google/Foo;)V"
	in := testutil.NewClass("a/B").
		Constants(func(p *testutil.Pool) {
			p.String(sig)
			p.Padding(300)
		}).
		Method("m", "()V", testutil.NewCode().
			InvokeVirtual("java/lang/invoke/SerializedLambda", "getImplMethodSignature", "()Ljava/lang/String;").
			Pop().
			Ldc(sig).
			Pop().
			Return().
			Attr()).
		Build()

	out, count, err := RewriteSignatureLiterals(in, map[string]bool{"getImplMethodSignature": true},
		func(s string) string { return strings.ReplaceAll(s, "com/google/", "shaded/") })
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := Strings(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"(Lshaded/Foo;)V"}, got)
}
