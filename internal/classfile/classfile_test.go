package classfile

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/classgraph/internal/cgerrors"
	"github.com/standardbeagle/classgraph/internal/testutil"
)

// S1: a simple public final POJO implementing java.io.Serializable.
func TestDecode_SimplePOJO(t *testing.T) {
	b := testutil.NewClassBuilder("SimplePOJO", "java/lang/Object").
		Public().Final().
		AddInterface("java/io/Serializable").
		AddField("id", "I").
		AddField("name", "Ljava/lang/String;").
		AddField("age", "I").
		AddField("cash", "Ljava/math/BigDecimal;").
		AddField("matrix", "[[D").
		AddField("times", "[Ljava/util/Date;").
		AddMethod("doStuff", "()V").
		AddMethod("toString", "()Ljava/lang/String;")

	// Boxed/collaborator types referenced from bytecode the builder does
	// not model directly; added as Class constant pool entries the way
	// javac's checkcast/invokevirtual instructions would.
	b.CP().Class("java/lang/Double")
	b.CP().Class("java/lang/Integer")
	b.CP().Class("java/lang/Long")
	b.CP().Class("java/math/BigDecimal")
	b.CP().Class("java/util/Date")

	data := b.Bytes()
	dc, err := Decode(bytes.NewReader(data), int64(len(data)), "SimplePOJO.class")
	require.NoError(t, err)

	assert.Equal(t, "SimplePOJO", dc.Name)
	assert.Equal(t, "", dc.Package)
	assert.Equal(t, "java.lang.Object", dc.SuperName)
	assert.Equal(t, []string{"java.io.Serializable"}, dc.Interfaces)
	assert.True(t, dc.Public)
	assert.True(t, dc.Final)
	assert.False(t, dc.Abstract)
	assert.False(t, dc.Enum)

	assert.Equal(t,
		[]string{
			"SimplePOJO",
			"java.io.Serializable",
			"java.lang.Double",
			"java.lang.Integer",
			"java.lang.Long",
			"java.lang.Object",
			"java.math.BigDecimal",
			"java.util.Date",
		},
		dc.SortedClassDependencies())

	assert.Equal(t,
		[]string{"", "java.io", "java.lang", "java.math", "java.util"},
		dc.SortedPackageDependencies())

	assert.Equal(t, int64(len(data)), dc.TotalSize)
}

// S2: a class exposing invokedynamic-related collaborators.
func TestDecode_LambdaBearingClass(t *testing.T) {
	b := testutil.NewClassBuilder("com/example/LambdaUser", "java/lang/Object").
		Public().
		AddMethod("run", "()V", testutil.CodeAttr(42))

	ref := b.CP().MethodRef("java/lang/invoke/LambdaMetafactory", "metafactory",
		"(Ljava/lang/invoke/MethodHandles$Lookup;Ljava/lang/String;Ljava/lang/invoke/MethodType;)Ljava/lang/invoke/CallSite;")
	b.CP().MethodHandle(6, ref)
	b.CP().Class("java/lang/invoke/MethodHandles")
	b.CP().Class("java/lang/invoke/MethodHandles$Lookup")
	b.CP().InvokeDynamic(0, "run", "()Ljava/lang/Runnable;")

	data := b.Bytes()
	dc, err := Decode(bytes.NewReader(data), int64(len(data)), "LambdaUser.class")
	require.NoError(t, err)

	deps := dc.ClassDependencies()
	assert.Contains(t, deps, "java.lang.invoke.LambdaMetafactory")
	assert.Contains(t, deps, "java.lang.invoke.MethodHandles")
	assert.Contains(t, deps, "java.lang.invoke.MethodHandles$Lookup")

	assert.Equal(t, int64(len(data)), dc.TotalSize)
	assert.Equal(t, int64(42), dc.CodeSize)
}

// Law 1: decoder purity — byte-identical input produces an equal result.
func TestDecode_Purity(t *testing.T) {
	b := testutil.NewClassBuilder("a/b/C", "java/lang/Object").Public()
	data := b.Bytes()

	d1, err := Decode(bytes.NewReader(data), int64(len(data)), "C.class")
	require.NoError(t, err)
	d2, err := Decode(bytes.NewReader(data), int64(len(data)), "C.class")
	require.NoError(t, err)

	assert.True(t, reflect.DeepEqual(d1, d2))
}

func TestDecode_InvalidMagic(t *testing.T) {
	data := []byte{0x00, 0x00, 0x00, 0x00, 0, 0, 0, 0}
	_, err := Decode(bytes.NewReader(data), int64(len(data)), "bad.class")
	require.Error(t, err)
	assert.True(t, errors.Is(err, cgerrors.ErrInvalidMagic))
}

func TestDecode_UnknownConstantTag(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(u32Test(0xCAFEBABE))
	buf.Write(u16Test(0)) // minor
	buf.Write(u16Test(0)) // major
	buf.Write(u16Test(2)) // constant_pool_count = 2 (one entry at index 1)
	buf.WriteByte(99)     // unknown tag

	_, err := Decode(&buf, int64(buf.Len()), "weird.class")
	require.Error(t, err)
	assert.True(t, errors.Is(err, cgerrors.ErrUnknownConstantTag))
}

func TestDecode_IndexOutOfRange(t *testing.T) {
	b := testutil.NewClassBuilder("a/b/C", "")
	data := b.Bytes()
	// A class with no superclass (super_class index 0) still decodes: 0 is
	// read as an empty super name, not as an out-of-range index.
	dc, err := Decode(bytes.NewReader(data), int64(len(data)), "C.class")
	require.NoError(t, err)
	_ = dc

	// Directly exercise the lookup helpers, which is what Decode relies on.
	_, err = classNameAt(nil, 5, "C.class")
	require.Error(t, err)
	assert.True(t, errors.Is(err, cgerrors.ErrIndexOutOfRange))
}

func TestDecode_CorruptAttribute(t *testing.T) {
	b := testutil.NewClassBuilder("a/b/C", "java/lang/Object").
		AddClassAttr(testutil.UnknownAttr("SourceFile", []byte{0x01})) // wrong length: SourceFile wants 2 bytes

	data := b.Bytes()
	_, err := Decode(bytes.NewReader(data), int64(len(data)), "C.class")
	require.Error(t, err)
	assert.True(t, errors.Is(err, cgerrors.ErrCorruptAttribute))
}

func TestDecode_ArrayDescriptorNormalization(t *testing.T) {
	b := testutil.NewClassBuilder("a/b/C", "java/lang/Object")
	b.CP().Class("[[Ljava/lang/String;")
	b.CP().Class("[I")

	data := b.Bytes()
	dc, err := Decode(bytes.NewReader(data), int64(len(data)), "C.class")
	require.NoError(t, err)

	deps := dc.ClassDependencies()
	assert.Contains(t, deps, "java.lang.String")
	assert.NotContains(t, deps, "I")
	assert.NotContains(t, deps, "[I")
}

// Helpers duplicating the tiny binary encoders, kept local to this test to
// avoid exporting internals purely for test convenience.
func u16Test(v uint16) []byte { return []byte{byte(v >> 8), byte(v)} }
func u32Test(v uint32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}
