package schema

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sszkit/sszkit/internal/sedes"
)

func checkpointFields() []FieldDecl {
	return []FieldDecl{
		{Name: "epoch", Codec: sedes.MustUintN(64)},
		{Name: "root", Codec: sedes.MustByteVector(32)},
	}
}

func TestIsValidIdentifier(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"epoch", true},
		{"_slot", true},
		{"field2", true},
		{"f_2_x", true},
		{"époque", true},
		{"2fast", false},
		{"", false},
		{"with space", false},
		{"dash-ed", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidIdentifier(tt.name))
		})
	}
}

func TestValidateFieldDeclsAccepts(t *testing.T) {
	require.NoError(t, ValidateFieldDecls(checkpointFields()))
	require.NoError(t, ValidateFieldDecls(nil))
}

func TestValidateFieldDeclsDuplicates(t *testing.T) {
	err := ValidateFieldDecls([]FieldDecl{
		{Name: "b", Codec: sedes.MustUintN(8)},
		{Name: "a", Codec: sedes.MustUintN(8)},
		{Name: "b", Codec: sedes.MustUintN(8)},
		{Name: "a", Codec: sedes.MustUintN(8)},
	})
	require.True(t, IsCode(err, ErrDuplicateField))
	// Duplicates are listed sorted for stable messages.
	assert.Contains(t, err.Error(), "a, b")
}

func TestValidateFieldDeclsInvalidNames(t *testing.T) {
	err := ValidateFieldDecls([]FieldDecl{
		{Name: "ok", Codec: sedes.MustUintN(8)},
		{Name: "9bad", Codec: sedes.MustUintN(8)},
	})
	require.True(t, IsCode(err, ErrInvalidFieldName))
	assert.Contains(t, err.Error(), `"9bad"`)
}

func TestDuplicatesReportedBeforeInvalidNames(t *testing.T) {
	err := ValidateFieldDecls([]FieldDecl{
		{Name: "9bad", Codec: sedes.MustUintN(8)},
		{Name: "9bad", Codec: sedes.MustUintN(8)},
	})
	require.True(t, IsCode(err, ErrDuplicateField))
}

func TestAllocateSlotsSimple(t *testing.T) {
	slots := AllocateSlots([]string{"epoch", "root"}, nil)
	assert.Equal(t, []string{"_epoch", "_root"}, slots)
}

func TestAllocateSlotsSkipsCollisions(t *testing.T) {
	// A field literally named "_epoch" forces the slot for "epoch" to
	// double the prefix.
	slots := AllocateSlots([]string{"epoch", "_epoch"}, nil)
	assert.Equal(t, []string{"__epoch", "___epoch"}, slots)
}

func TestAllocateSlotsAvoidsReservedNames(t *testing.T) {
	reserved := map[string]bool{"_count": true}
	slots := AllocateSlots([]string{"count"}, reserved)
	assert.Equal(t, []string{"__count"}, slots)
}

func TestAllocateSlotsDeterministic(t *testing.T) {
	names := []string{"a", "_a", "__a"}
	first := AllocateSlots(names, nil)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, AllocateSlots(names, nil))
	}
}

func TestAllocateSlotsDisjoint(t *testing.T) {
	names := []string{"x", "_x", "y"}
	slots := AllocateSlots(names, map[string]bool{"_y": true})

	used := make(map[string]bool)
	for _, n := range names {
		used[n] = true
	}
	used["_y"] = true
	for _, s := range slots {
		assert.False(t, used[s], "slot %q collides", s)
		used[s] = true
	}
}

func TestNewDescriptor(t *testing.T) {
	fields := checkpointFields()
	container, err := sedes.NewContainer([]sedes.Field{
		{Name: "epoch", Codec: fields[0].Codec},
		{Name: "root", Codec: fields[1].Codec},
	})
	require.NoError(t, err)

	slots := AllocateSlots([]string{"epoch", "root"}, nil)
	d := NewDescriptor(fields, container, slots)

	assert.True(t, d.HasFields)
	assert.Equal(t, []string{"epoch", "root"}, d.FieldNames)
	assert.Equal(t, []string{"_epoch", "_root"}, d.StorageSlots)
	assert.Equal(t, 0, d.SlotIndex("epoch"))
	assert.Equal(t, 1, d.SlotIndex("root"))
	assert.Equal(t, -1, d.SlotIndex("missing"))
}

func TestEmptyDescriptor(t *testing.T) {
	d := EmptyDescriptor()
	assert.False(t, d.HasFields)
	assert.Empty(t, d.FieldNames)
	assert.Equal(t, -1, d.SlotIndex("anything"))
}

func buildDescriptor(t *testing.T, fields []FieldDecl) *Descriptor {
	t.Helper()
	cf := make([]sedes.Field, len(fields))
	for i, f := range fields {
		cf[i] = sedes.Field{Name: f.Name, Codec: f.Codec}
	}
	container, err := sedes.NewContainer(cf)
	require.NoError(t, err)
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return NewDescriptor(fields, container, AllocateSlots(names, nil))
}

func TestCanonicalGolden(t *testing.T) {
	d := buildDescriptor(t, checkpointFields())

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"))
	g.Assert(t, "checkpoint_canonical", []byte(d.Canonical("Checkpoint")))
}

func TestCanonicalNormalizesUnicode(t *testing.T) {
	// "é" precomposed vs combining accent render identically and must
	// hash identically.
	precomposed := buildDescriptor(t, []FieldDecl{{Name: "époque", Codec: sedes.MustUintN(8)}})
	combining := buildDescriptor(t, []FieldDecl{{Name: "époque", Codec: sedes.MustUintN(8)}})

	assert.Equal(t, precomposed.Canonical("T"), combining.Canonical("T"))
	assert.Equal(t, precomposed.Hash("T"), combining.Hash("T"))
}

func TestHashStable(t *testing.T) {
	d := buildDescriptor(t, checkpointFields())
	assert.Equal(t,
		"6e122b33b70c72697bde8f788bf34db62ed97e37e2e8ec658250d07b1ec5ea1a",
		d.Hash("Checkpoint"))
}

func TestHashDependsOnTypeName(t *testing.T) {
	d := buildDescriptor(t, checkpointFields())
	assert.NotEqual(t, d.Hash("Checkpoint"), d.Hash("Other"))
}

func TestSchemaErrorFormat(t *testing.T) {
	err := &SchemaError{Code: ErrDuplicateField, Message: "boom"}
	assert.Equal(t, "[S100] schema: boom", err.Error())
	assert.True(t, IsCode(err, ErrDuplicateField))
	assert.False(t, IsCode(err, ErrInvalidFieldName))
}
