package search

import (
	"reflect"
	"testing"
)

func TestCombinations(t *testing.T) {
	tests := []struct {
		name    string
		skills  []string
		min     int
		max     int
		want    [][]string
		wantNil bool
	}{
		{
			name:    "empty skills",
			skills:  nil,
			min:     2,
			max:     3,
			wantNil: true,
		},
		{
			name:    "invalid sizes",
			skills:  []string{"go"},
			min:     3,
			max:     2,
			wantNil: true,
		},
		{
			name:   "single skill below min size still yields the full set",
			skills: []string{"go"},
			min:    1,
			max:    3,
			want: [][]string{
				{"go"},
				{"go"},
				{"go"},
			},
		},
		{
			name:   "three skills sizes 2..3",
			skills: []string{"python", "docker", "ml"},
			min:    2,
			max:    3,
			want: [][]string{
				{"python", "docker", "ml"},
				{"python", "docker"},
				{"python", "ml"},
				{"docker", "ml"},
				{"python", "docker", "ml"},
			},
		},
		{
			name:   "four skills truncate head to max size",
			skills: []string{"a", "b", "c", "d"},
			min:    3,
			max:    3,
			want: [][]string{
				{"a", "b", "c"},
				{"a", "b", "c"},
				{"a", "b", "d"},
				{"a", "c", "d"},
				{"b", "c", "d"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Combinations(tt.skills, tt.min, tt.max)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("expected nil, got %v", got)
				}
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("combinations = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCombinationsDeterministic(t *testing.T) {
	skills := []string{"go", "kubernetes", "grpc", "postgres"}
	a := Combinations(skills, 2, 3)
	b := Combinations(skills, 2, 3)
	if !reflect.DeepEqual(a, b) {
		t.Error("identical input must produce identical combination order")
	}
}

func TestCombinationsPreserveRelativeOrder(t *testing.T) {
	skills := []string{"x", "y", "z"}
	pos := map[string]int{"x": 0, "y": 1, "z": 2}

	for _, combo := range Combinations(skills, 2, 3) {
		for i := 1; i < len(combo); i++ {
			if pos[combo[i-1]] >= pos[combo[i]] {
				t.Errorf("combination %v does not preserve input order", combo)
			}
		}
	}
}
