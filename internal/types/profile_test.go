package types

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"
)

func baseStudent() Student {
	created := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	level := LevelUniversity
	return Student{
		ID:             "user_123",
		FirstName:      "John",
		LastName:       "Doe",
		DisplayName:    "John Doe",
		AcademicLevel:  &level,
		ProfilePicture: Ptr("https://example.com/john.png"),
		CreatedAt:      created,
		UpdatedAt:      created,
	}
}

func applyJSON(t *testing.T, s Student, body string, now time.Time) (Student, error) {
	t.Helper()
	var u ProfileUpdate
	if err := json.Unmarshal([]byte(body), &u); err != nil {
		t.Fatalf("unmarshal %s: %v", body, err)
	}
	return u.Apply(s, now)
}

func TestApply_OnlyDisplayName(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	before := baseStudent()

	after, err := applyJSON(t, before, `{"display_name": "JD"}`, now)
	if err != nil {
		t.Fatal(err)
	}

	want := baseStudent()
	want.DisplayName = "JD"
	want.UpdatedAt = now
	if !reflect.DeepEqual(after, want) {
		t.Errorf("got %+v\nwant %+v", after, want)
	}
	if before.DisplayName != "John Doe" {
		t.Error("Apply mutated its input")
	}
}

func TestApply_ExplicitEmptyAndNull(t *testing.T) {
	now := time.Now()

	after, err := applyJSON(t, baseStudent(),
		`{"display_name": "", "academic_level": null, "profile_picture": null, "first_name": null}`, now)
	if err != nil {
		t.Fatal(err)
	}
	if after.DisplayName != "" {
		t.Errorf("display name should be cleared, got %q", after.DisplayName)
	}
	if after.AcademicLevel != nil || after.ProfilePicture != nil {
		t.Errorf("nullable fields should be cleared: %+v", after)
	}
	if after.FirstName != "John" {
		t.Errorf("null first_name must be ignored, got %q", after.FirstName)
	}
}

func TestApply_Rejects(t *testing.T) {
	for _, body := range []string{
		`{"academic_level": "PhD"}`,
		`{"first_name": "  "}`,
		`{"last_name": ""}`,
	} {
		if _, err := applyJSON(t, baseStudent(), body, time.Now()); !errors.Is(err, ErrInvalidUpdate) {
			t.Errorf("%s: expected ErrInvalidUpdate, got %v", body, err)
		}
	}
}

func TestProfileUpdate_Empty(t *testing.T) {
	var u ProfileUpdate
	if err := json.Unmarshal([]byte(`{"unknown": 1}`), &u); err != nil {
		t.Fatal(err)
	}
	if !u.Empty() {
		t.Error("no known fields were sent")
	}
}
