package domain

import (
	"encoding/json"
	"testing"
)

func TestParseAnnotationRef(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw      string
		wantOK   bool
		wantTemp bool
		wantID   int64
	}{
		{"temp_1699999", true, true, 0},
		{"42", true, false, 42},
		{" 7 ", true, false, 7},
		{"0", false, false, 0},
		{"-3", false, false, 0},
		{"abc", false, false, 0},
		{"", false, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			ref, ok := ParseAnnotationRef(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ref.IsTemporary() != tt.wantTemp {
				t.Errorf("IsTemporary = %v, want %v", ref.IsTemporary(), tt.wantTemp)
			}
			if ref.ID != tt.wantID {
				t.Errorf("ID = %d, want %d", ref.ID, tt.wantID)
			}
		})
	}
}

func TestEntityIDFor(t *testing.T) {
	t.Parallel()

	roomID := int64(7)
	loc := Annotation{Type: AnnotationTypeLocation, Entity: LocationRef(3), RoomID: &roomID}

	if got := loc.EntityIDFor(AnnotationTypeLocation); got == nil || *got != 3 {
		t.Errorf("location id = %v, want 3", got)
	}
	if got := loc.EntityIDFor(AnnotationTypeRoom); got == nil || *got != 7 {
		t.Errorf("room id = %v, want 7", got)
	}
	if got := loc.EntityIDFor(AnnotationTypeCabinetRun); got != nil {
		t.Errorf("run id = %v, want nil", *got)
	}

	room := Annotation{Type: AnnotationTypeRoom, Entity: RoomRef(9)}
	if got := room.EntityIDFor(AnnotationTypeRoom); got == nil || *got != 9 {
		t.Errorf("room entity id = %v, want 9", got)
	}
}

func TestAnnotationClone_IsDeep(t *testing.T) {
	t.Parallel()

	notes := "original"
	a := Annotation{ID: 1, Notes: &notes}
	c := a.Clone()
	*c.Notes = "changed"

	if *a.Notes != "original" {
		t.Errorf("clone shares notes pointer: %q", *a.Notes)
	}
}

func TestSnapshot(t *testing.T) {
	t.Parallel()

	raw, err := Snapshot(nil)
	if err != nil || raw != nil {
		t.Fatalf("nil snapshot = %s, %v", raw, err)
	}

	raw, err = Snapshot(&Annotation{ID: 5, Type: AnnotationTypeRoom, Label: "Kitchen", Entity: RoomRef(1)})
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["label"] != "Kitchen" || m["annotation_type"] != "room" {
		t.Errorf("unexpected snapshot: %s", raw)
	}
}
