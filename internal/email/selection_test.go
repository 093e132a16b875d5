package email

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func ptr(id int64) *int64 { return &id }

func TestSelection(t *testing.T) {
	tests := []struct {
		name          string
		steps         func(s *Selection)
		wantMain      *int64
		wantSecondary []int64
	}{
		{
			name: "main removes from secondary",
			steps: func(s *Selection) {
				s.ToggleSecondary(1)
				s.ToggleSecondary(2)
				s.SetMain(1)
			},
			wantMain:      ptr(1),
			wantSecondary: []int64{2},
		},
		{
			name: "secondary clears matching main",
			steps: func(s *Selection) {
				s.SetMain(3)
				s.ToggleSecondary(3)
			},
			wantSecondary: []int64{3},
		},
		{
			name: "secondary keeps other main",
			steps: func(s *Selection) {
				s.SetMain(3)
				s.ToggleSecondary(4)
			},
			wantMain:      ptr(3),
			wantSecondary: []int64{4},
		},
		{
			name: "toggle twice removes",
			steps: func(s *Selection) {
				s.ToggleSecondary(5)
				s.ToggleSecondary(6)
				s.ToggleSecondary(5)
			},
			wantSecondary: []int64{6},
		},
		{
			name: "replace main",
			steps: func(s *Selection) {
				s.SetMain(1)
				s.SetMain(2)
			},
			wantMain: ptr(2),
		},
		{
			name: "clear main",
			steps: func(s *Selection) {
				s.SetMain(1)
				s.ClearMain()
			},
		},
		{
			name: "remove everywhere",
			steps: func(s *Selection) {
				s.SetMain(1)
				s.ToggleSecondary(2)
				s.Remove(1)
				s.Remove(2)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Selection
			tt.steps(&s)
			if diff := cmp.Diff(tt.wantMain, s.Main); diff != "" {
				t.Errorf("Main mismatch (-want +got):\n%s", diff)
			}
			if len(tt.wantSecondary) == 0 && len(s.Secondary) == 0 {
				return
			}
			if diff := cmp.Diff(tt.wantSecondary, s.Secondary); diff != "" {
				t.Errorf("Secondary mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSelection_Empty(t *testing.T) {
	var s Selection
	if !s.Empty() {
		t.Error("zero selection should be empty")
	}
	s.ToggleSecondary(1)
	if s.Empty() {
		t.Error("selection with a secondary deal should not be empty")
	}
	s.ToggleSecondary(1)
	s.SetMain(1)
	if s.Empty() {
		t.Error("selection with a main deal should not be empty")
	}
}

func TestSelection_CloneIsIndependent(t *testing.T) {
	s := Selection{Main: ptr(1), Secondary: []int64{2}}
	c := s.Clone()
	*c.Main = 9
	c.Secondary[0] = 9
	if *s.Main != 1 || s.Secondary[0] != 2 {
		t.Errorf("clone shares state with original: %+v", s)
	}
}
