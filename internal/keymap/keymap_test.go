package keymap

import (
	"slices"
	"testing"
)

func TestAll_EveryActionBound(t *testing.T) {
	for _, action := range Actions {
		found := false
		for _, b := range All {
			if b.Action == action && len(b.Keys) > 0 {
				found = true
			}
		}
		if !found {
			t.Errorf("action %q has no default binding", action)
		}
	}
}

func TestAll_NoDuplicateKeys(t *testing.T) {
	seen := make(map[string]Action)
	for _, b := range All {
		for _, key := range b.Keys {
			if prev, ok := seen[key]; ok {
				t.Errorf("key %q bound to both %q and %q", key, prev, b.Action)
			}
			seen[key] = b.Action
		}
	}
}

func TestByContext(t *testing.T) {
	canvas := ByContext("canvas")
	if len(canvas) == 0 {
		t.Fatal("no canvas bindings")
	}
	for _, b := range canvas {
		if b.Context != "canvas" {
			t.Errorf("binding %q has context %q", b.Action, b.Context)
		}
	}
	if got := ByContext("unknown"); len(got) != 0 {
		t.Errorf("ByContext(unknown) = %v, want empty", got)
	}
}

func TestWithOverrides(t *testing.T) {
	bindings, unknown := WithOverrides(All, map[string][]string{
		"zoom_in":  {"i"},
		"teleport": {"t"},
	})

	if !slices.Equal(unknown, []string{"teleport"}) {
		t.Errorf("unknown = %v, want [teleport]", unknown)
	}
	for _, b := range bindings {
		if b.Action == ActionZoomIn && !slices.Equal(b.Keys, []string{"i"}) {
			t.Errorf("zoom_in keys = %v, want [i]", b.Keys)
		}
	}
	for _, b := range All {
		if b.Action == ActionZoomIn && slices.Equal(b.Keys, []string{"i"}) {
			t.Error("defaults were modified")
		}
	}
}
