package models_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/persistorai/typegraph/internal/models"
)

func assertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func assertErrorContains(t *testing.T, err error, want string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected error containing %q, got nil", want)
	}

	if !strings.Contains(err.Error(), want) {
		t.Errorf("expected error containing %q, got %q", want, err.Error())
	}
}

func TestDiscoverRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     models.DiscoverRequest
		wantErr string
	}{
		{name: "valid", req: models.DiscoverRequest{Name: "mug"}},
		{name: "valid raw", req: models.DiscoverRequest{Name: "http://dbpedia.org/resource/Mug", Raw: true}},
		{name: "missing name", req: models.DiscoverRequest{}, wantErr: "name is required"},
		{name: "name too long", req: models.DiscoverRequest{Name: strings.Repeat("a", 513)}, wantErr: "name exceeds maximum length of 512"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				assertNoError(t, err)
				return
			}

			assertErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestErrFieldTooLong_IsSentinel(t *testing.T) {
	if err := models.ErrFieldTooLong("name", 10); !errors.Is(err, models.ErrTooLong) {
		t.Errorf("expected ErrTooLong, got %v", err)
	}
}

func TestParseRelation(t *testing.T) {
	for _, s := range []string{"type-of", "subclass-of", "hypernym-of", "disambiguated-by"} {
		r, err := models.ParseRelation(s)
		assertNoError(t, err)

		if string(r) != s || !r.Valid() {
			t.Errorf("ParseRelation(%q) = %q", s, r)
		}
	}

	_, err := models.ParseRelation("synonym-of")
	assertErrorContains(t, err, `unknown relation "synonym-of"`)
}

func TestNodeSet(t *testing.T) {
	s := models.NewNodeSet("b", "a")

	if !s.Add("c") {
		t.Error("Add of a new node should report true")
	}

	if s.Add("a") {
		t.Error("Add of an existing node should report false")
	}

	if !s.Has("b") || s.Has("z") {
		t.Error("Has returned the wrong membership")
	}

	if got := strings.Join(s.Sorted(), ","); got != "a,b,c" {
		t.Errorf("Sorted() = %s", got)
	}
}

func TestEdgeSet_SortedAndDeduplicated(t *testing.T) {
	s := models.EdgeSet{}
	e1 := models.Edge{Source: "b", Target: "x", Relation: models.RelationTypeOf}
	e2 := models.Edge{Source: "a", Target: "y", Relation: models.RelationSubclassOf}
	e3 := models.Edge{Source: "a", Target: "y", Relation: models.RelationHypernymOf}

	for _, e := range []models.Edge{e1, e2, e3} {
		s.Add(e)
	}

	if s.Add(e1) {
		t.Error("duplicate edge should not be added")
	}

	got := s.Sorted()
	want := []models.Edge{e3, e2, e1}

	if len(got) != len(want) {
		t.Fatalf("expected %d edges, got %d", len(want), len(got))
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("edge %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestResult(t *testing.T) {
	edges := models.EdgeSet{}
	edges.Add(models.Edge{Source: "Mug", Target: "Cup", Relation: models.RelationTypeOf})
	edges.Add(models.Edge{Source: "Cup", Target: "Thing", Relation: models.RelationSubclassOf})

	r := models.NewResult("Mug", models.NewNodeSet("Thing", "Cup"), edges)

	if got := strings.Join(r.Nodes, ","); got != "Cup,Thing" {
		t.Errorf("Nodes = %s", got)
	}

	targets := r.Targets()
	if len(targets) != 2 || !targets.Has("Cup") || targets.Has("Mug") {
		t.Errorf("Targets() = %v", targets.Sorted())
	}

	if r.Edges[0].Source != "Cup" {
		t.Errorf("edges not sorted: %v", r.Edges)
	}
}
