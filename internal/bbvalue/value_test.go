package bbvalue

import (
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestConstructorsAndAccessors(t *testing.T) {
	if k := Null().Kind(); k != KindNull {
		t.Errorf("Null().Kind() = %s", k)
	}
	if !Null().IsNull() {
		t.Error("Null().IsNull() = false")
	}

	if b, ok := Bool(true).AsBool(); !ok || !b {
		t.Errorf("Bool(true).AsBool() = %v, %v", b, ok)
	}
	if i, ok := Int(42).AsInt(); !ok || i != 42 {
		t.Errorf("Int(42).AsInt() = %v, %v", i, ok)
	}
	if f, ok := Float(3.5).AsFloat(); !ok || f != 3.5 {
		t.Errorf("Float(3.5).AsFloat() = %v, %v", f, ok)
	}
	if s, ok := String("x").AsString(); !ok || s != "x" {
		t.Errorf("String(\"x\").AsString() = %v, %v", s, ok)
	}

	list := List([]Value{Int(1), Int(2)})
	got, ok := list.AsList()
	if !ok || len(got) != 2 {
		t.Errorf("List.AsList() = %v, %v", got, ok)
	}

	m := Map(map[string]Value{"k": String("v")})
	gotMap, ok := m.AsMap()
	if !ok || gotMap["k"].s != "v" {
		t.Errorf("Map.AsMap() = %v, %v", gotMap, ok)
	}
}

func TestAsFloatCoercesInt(t *testing.T) {
	f, ok := Int(7).AsFloat()
	if !ok || f != 7.0 {
		t.Errorf("Int(7).AsFloat() = %v, %v", f, ok)
	}
}

func TestAsAccessorsFailOnWrongKind(t *testing.T) {
	if _, ok := String("x").AsInt(); ok {
		t.Error("String.AsInt() reported ok")
	}
	if _, ok := Int(1).AsString(); ok {
		t.Error("Int.AsString() reported ok")
	}
	if _, ok := Bool(true).AsFloat(); ok {
		t.Error("Bool.AsFloat() reported ok")
	}
}

func TestEqual(t *testing.T) {
	cases := []struct {
		name string
		a, b Value
		want bool
	}{
		{"null==null", Null(), Null(), true},
		{"bool match", Bool(true), Bool(true), true},
		{"bool mismatch", Bool(true), Bool(false), false},
		{"int match", Int(5), Int(5), true},
		{"kind mismatch", Int(5), Float(5), false},
		{"string match", String("a"), String("a"), true},
		{"list match", List([]Value{Int(1), String("a")}), List([]Value{Int(1), String("a")}), true},
		{"list len mismatch", List([]Value{Int(1)}), List([]Value{Int(1), Int(2)}), false},
		{"list elem mismatch", List([]Value{Int(1)}), List([]Value{Int(2)}), false},
		{"map match", Map(map[string]Value{"a": Int(1)}), Map(map[string]Value{"a": Int(1)}), true},
		{"map missing key", Map(map[string]Value{"a": Int(1)}), Map(map[string]Value{"b": Int(1)}), false},
		{"map value mismatch", Map(map[string]Value{"a": Int(1)}), Map(map[string]Value{"a": Int(2)}), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Equal(tc.a, tc.b); got != tc.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestFromAny(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want Value
	}{
		{"nil", nil, Null()},
		{"bool", true, Bool(true)},
		{"int", int(3), Int(3)},
		{"int64", int64(3), Int(3)},
		{"uint64", uint64(3), Int(3)},
		{"float64", float64(1.5), Float(1.5)},
		{"float32", float32(1.5), Float(1.5)},
		{"string", "hi", String("hi")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FromAny(tc.in)
			if err != nil {
				t.Fatal(err)
			}
			if !Equal(got, tc.want) {
				t.Errorf("FromAny(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestFromAnySliceAndMaps(t *testing.T) {
	got, err := FromAny([]any{1, "a", true})
	if err != nil {
		t.Fatal(err)
	}
	list, ok := got.AsList()
	if !ok || len(list) != 3 {
		t.Fatalf("AsList() = %v, %v", list, ok)
	}

	got, err = FromAny(map[string]any{"k": 1})
	if err != nil {
		t.Fatal(err)
	}
	m, ok := got.AsMap()
	if !ok || m["k"].i != 1 {
		t.Fatalf("AsMap() = %v, %v", m, ok)
	}

	// yaml.v3 decodes untyped mappings with interface{} keys.
	got, err = FromAny(map[any]any{"k": "v"})
	if err != nil {
		t.Fatal(err)
	}
	m, ok = got.AsMap()
	if !ok || m["k"].s != "v" {
		t.Fatalf("AsMap() from map[any]any = %v, %v", m, ok)
	}
}

func TestFromAnyRejectsNonStringMapKey(t *testing.T) {
	_, err := FromAny(map[any]any{1: "v"})
	if err == nil {
		t.Error("expected error for non-string map key")
	}
}

func TestFromAnyRejectsUnsupportedType(t *testing.T) {
	_, err := FromAny(struct{}{})
	if err == nil {
		t.Error("expected error for unsupported type")
	}
}

func TestFromAnyPassesThroughExistingValue(t *testing.T) {
	v, err := FromAny(Int(9))
	if err != nil {
		t.Fatal(err)
	}
	if !Equal(v, Int(9)) {
		t.Errorf("FromAny(Value) = %v", v)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	orig := Map(map[string]Value{
		"name":  String("queen"),
		"ratio": Float(0.75),
		"count": Int(3),
		"alive": Bool(true),
		"tags":  List([]Value{String("a"), String("b")}),
	})

	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatal(err)
	}

	var got Value
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if !Equal(orig, got) {
		t.Errorf("round trip mismatch: got %+v, want %+v", got.ToAny(), orig.ToAny())
	}
}

// TestYAMLRoundTrip exercises Value's yaml.Marshaler/yaml.Unmarshaler across
// every Kind, through a struct field the way config.Load decodes step and
// trigger params, not yaml.Marshal(Value{}) directly.
func TestYAMLRoundTrip(t *testing.T) {
	type holder struct {
		V Value `yaml:"v"`
	}

	cases := []struct {
		name string
		v    Value
	}{
		{"null", Null()},
		{"bool", Bool(true)},
		{"int", Int(42)},
		{"float", Float(2.5)},
		{"string", String("expr")},
		{"list", List([]Value{Int(1), String("a"), Bool(false)})},
		{"map", Map(map[string]Value{"min_food": Int(5), "label": String("q")})},
		{"nested", Map(map[string]Value{"items": List([]Value{Int(1), Int(2)})})},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := yaml.Marshal(holder{V: tc.v})
			if err != nil {
				t.Fatal(err)
			}

			var got holder
			if err := yaml.Unmarshal(data, &got); err != nil {
				t.Fatal(err)
			}
			if !Equal(tc.v, got.V) {
				t.Errorf("round trip mismatch: got %+v, want %+v", got.V.ToAny(), tc.v.ToAny())
			}
		})
	}
}

// TestYAMLUnmarshalFromLiteral decodes param-shaped YAML the way a config
// file's step/trigger params block is written, confirming scalars,
// booleans, and mixed-type mappings all come through as the right Kind.
func TestYAMLUnmarshalFromLiteral(t *testing.T) {
	src := `
expr: "food.amount > 5"
min_food: 9
ratio: 0.5
urgent: true
`
	var m map[string]Value
	if err := yaml.Unmarshal([]byte(src), &m); err != nil {
		t.Fatal(err)
	}

	if s, ok := m["expr"].AsString(); !ok || s != "food.amount > 5" {
		t.Errorf("expr = %v, %v", s, ok)
	}
	if i, ok := m["min_food"].AsInt(); !ok || i != 9 {
		t.Errorf("min_food = %v, %v", i, ok)
	}
	if f, ok := m["ratio"].AsFloat(); !ok || f != 0.5 {
		t.Errorf("ratio = %v, %v", f, ok)
	}
	if b, ok := m["urgent"].AsBool(); !ok || !b {
		t.Errorf("urgent = %v, %v", b, ok)
	}
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		KindNull:   "null",
		KindBool:   "bool",
		KindInt:    "int",
		KindFloat:  "float",
		KindString: "string",
		KindList:   "list",
		KindMap:    "map",
		Kind(99):   "unknown",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
