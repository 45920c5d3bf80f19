package types

import (
	"encoding/json"
	"testing"
)

type payload struct {
	Name  Optional[string]        `json:"name"`
	Level Optional[AcademicLevel] `json:"level"`
}

func TestOptional_DistinguishesOmittedNullAndEmpty(t *testing.T) {
	tests := []struct {
		body      string
		wantSet   bool
		wantNull  bool
		wantValue string
	}{
		{`{}`, false, false, ""},
		{`{"name": null}`, true, true, ""},
		{`{"name": ""}`, true, false, ""},
		{`{"name": "Ada"}`, true, false, "Ada"},
	}

	for _, tt := range tests {
		var p payload
		if err := json.Unmarshal([]byte(tt.body), &p); err != nil {
			t.Fatalf("unmarshal %s: %v", tt.body, err)
		}
		if p.Name.Set != tt.wantSet || p.Name.Null != tt.wantNull || p.Name.Value != tt.wantValue {
			t.Errorf("%s: got %+v", tt.body, p.Name)
		}
		if p.Level.Set {
			t.Errorf("%s: level should be omitted, got %+v", tt.body, p.Level)
		}
	}
}

func TestOptional_RejectsWrongType(t *testing.T) {
	var p payload
	if err := json.Unmarshal([]byte(`{"name": 42}`), &p); err == nil {
		t.Fatal("expected error for number in string field")
	}
}

func TestOptional_Ptr(t *testing.T) {
	if Null[string]().Ptr() != nil {
		t.Error("null optional should yield nil pointer")
	}
	if got := Some("x").Ptr(); got == nil || *got != "x" {
		t.Errorf("Some(x).Ptr() = %v", got)
	}
}

func TestOptional_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(payload{Name: Some("Ada")})
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"name":"Ada","level":null}` {
		t.Errorf("got %s", out)
	}
}

func TestAcademicLevel_Valid(t *testing.T) {
	if !LevelGraduate.Valid() {
		t.Error("Graduate should be valid")
	}
	if AcademicLevel("PhD").Valid() {
		t.Error("PhD should be invalid")
	}
	if !CourseAdvanced.Valid() || CourseLevel("Expert").Valid() {
		t.Error("course level validation mismatch")
	}
}
