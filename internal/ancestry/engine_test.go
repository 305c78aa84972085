package ancestry

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/typegraph/internal/models"
)

const (
	onto = "ontology/"
	res  = "resource/"
)

// fakeGraph is an in-memory knowledge graph. Nodes containing "ontology/" are classes.
type fakeGraph struct {
	mu              sync.Mutex
	types           map[string][]string
	hypernyms       map[string][]string
	disambiguations map[string][]string
	fail            map[string]error
	calls           map[string]int
}

func newFakeGraph() *fakeGraph {
	return &fakeGraph{
		types:           map[string][]string{},
		hypernyms:       map[string][]string{},
		disambiguations: map[string][]string{},
		fail:            map[string]error{},
		calls:           map[string]int{},
	}
}

func (g *fakeGraph) lookup(kind string, table map[string][]string, node string) (models.NodeSet, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls[kind+":"+node]++
	if err, ok := g.fail[node]; ok {
		return nil, err
	}
	return models.NewNodeSet(table[node]...), nil
}

func (g *fakeGraph) IsClass(node models.Node) bool { return strings.Contains(node, onto) }

func (g *fakeGraph) LookupTypes(_ context.Context, node models.Node) (models.NodeSet, error) {
	return g.lookup("types", g.types, node)
}

func (g *fakeGraph) LookupHypernyms(_ context.Context, node models.Node) (models.NodeSet, error) {
	return g.lookup("hypernyms", g.hypernyms, node)
}

func (g *fakeGraph) LookupDisambiguations(_ context.Context, node models.Node) (models.NodeSet, error) {
	return g.lookup("disambiguations", g.disambiguations, node)
}

func (g *fakeGraph) callCount(kind, node string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[kind+":"+node]
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)
	return l
}

func edge(src, dst string, rel models.Relation) models.Edge {
	return models.Edge{Source: src, Target: dst, Relation: rel}
}

func TestDiscover_MugExample(t *testing.T) {
	g := newFakeGraph()
	g.types["Mug"] = []string{onto + "Artifact"}
	g.types[onto+"Artifact"] = []string{onto + "PhysicalEntity"}

	got, err := New(g, testLogger()).Discover(context.Background(), "Mug", false)
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}

	wantNodes := []string{onto + "Artifact", onto + "PhysicalEntity"}
	if !reflect.DeepEqual(got.Nodes, wantNodes) {
		t.Errorf("nodes = %v, want %v", got.Nodes, wantNodes)
	}

	wantEdges := []models.Edge{
		edge("Mug", onto+"Artifact", models.RelationTypeOf),
		edge(onto+"Artifact", onto+"PhysicalEntity", models.RelationSubclassOf),
	}
	models.SortEdges(wantEdges)
	if !reflect.DeepEqual(got.Edges, wantEdges) {
		t.Errorf("edges = %v, want %v", got.Edges, wantEdges)
	}
	if got.Seed != "Mug" {
		t.Errorf("seed = %q, want Mug", got.Seed)
	}
}

func TestDiscover_HypernymsAndTypes(t *testing.T) {
	g := newFakeGraph()
	g.types[res+"Coffee"] = []string{onto + "Food"}
	g.hypernyms[res+"Coffee"] = []string{res + "Beverage"}
	g.hypernyms[res+"Beverage"] = []string{res + "Liquid"}
	g.types[onto+"Food"] = []string{onto + "Thing"}

	got, err := New(g, testLogger()).Discover(context.Background(), res+"Coffee", false)
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}

	want := []string{onto + "Food", onto + "Thing", res + "Beverage", res + "Liquid"}
	if !reflect.DeepEqual(got.Nodes, want) {
		t.Errorf("nodes = %v, want %v", got.Nodes, want)
	}

	edges := models.EdgeSet{}
	for _, e := range got.Edges {
		edges.Add(e)
	}
	for _, e := range []models.Edge{
		edge(res+"Coffee", onto+"Food", models.RelationTypeOf),
		edge(res+"Coffee", res+"Beverage", models.RelationHypernymOf),
		edge(res+"Beverage", res+"Liquid", models.RelationHypernymOf),
		edge(onto+"Food", onto+"Thing", models.RelationSubclassOf),
	} {
		if !edges.Has(e) {
			t.Errorf("missing edge %v", e)
		}
	}
	if len(got.Edges) != 4 {
		t.Errorf("got %d edges, want 4", len(got.Edges))
	}
}

func TestDiscover_SeedWithoutResults(t *testing.T) {
	got, err := New(newFakeGraph(), testLogger()).Discover(context.Background(), "Nothing", true)
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if len(got.Nodes) != 0 || len(got.Edges) != 0 {
		t.Errorf("expected empty result, got %+v", got)
	}
}

func TestDiscover_Idempotent(t *testing.T) {
	g := newFakeGraph()
	g.types["A"] = []string{onto + "X", onto + "Y"}
	g.hypernyms["A"] = []string{res + "H"}
	g.types[onto+"X"] = []string{onto + "Z"}
	g.types[onto+"Y"] = []string{onto + "Z"}
	g.hypernyms[res+"H"] = []string{onto + "X"}

	e := New(g, testLogger())
	first, err := e.Discover(context.Background(), "A", false)
	if err != nil {
		t.Fatalf("first Discover() error: %v", err)
	}
	second, err := e.Discover(context.Background(), "A", false)
	if err != nil {
		t.Fatalf("second Discover() error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("results differ:\n%+v\n%+v", first, second)
	}
}

func TestDiscover_ClosureAndNoMissedExpansion(t *testing.T) {
	g := newFakeGraph()
	g.types["seed"] = []string{onto + "A", res + "B"}
	g.types[onto+"A"] = []string{onto + "C"}
	g.hypernyms[res+"B"] = []string{res + "D", onto + "A"}
	g.types[res+"D"] = []string{onto + "C", onto + "E"}
	g.hypernyms[onto+"E"] = []string{res + "F"}

	got, err := New(g, testLogger()).Discover(context.Background(), "seed", false)
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}

	targets := got.Targets()
	nodes := models.NewNodeSet(got.Nodes...)
	edges := models.EdgeSet{}
	for _, e := range got.Edges {
		edges.Add(e)
	}

	for _, n := range got.Nodes {
		if !targets.Has(n) {
			t.Errorf("node %s is not the target of any edge", n)
		}

		rel := models.RelationTypeOf
		if g.IsClass(n) {
			rel = models.RelationSubclassOf
		}
		for _, ty := range g.types[n] {
			if !nodes.Has(ty) {
				t.Errorf("type %s of %s missing from nodes", ty, n)
			}
			if !edges.Has(edge(n, ty, rel)) {
				t.Errorf("missing edge %s -%s-> %s", n, rel, ty)
			}
		}
		for _, h := range g.hypernyms[n] {
			if !nodes.Has(h) {
				t.Errorf("hypernym %s of %s missing from nodes", h, n)
			}
			if !edges.Has(edge(n, h, models.RelationHypernymOf)) {
				t.Errorf("missing hypernym edge %s -> %s", n, h)
			}
		}
	}

	if len(got.Nodes) != 6 {
		t.Errorf("got %d nodes, want 6: %v", len(got.Nodes), got.Nodes)
	}
}

func TestDiscover_EachNodeExpandedOnce(t *testing.T) {
	g := newFakeGraph()
	g.types["seed"] = []string{onto + "A", onto + "B"}
	g.types[onto+"A"] = []string{onto + "Top"}
	g.types[onto+"B"] = []string{onto + "Top"}

	if _, err := New(g, testLogger()).Discover(context.Background(), "seed", false); err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	for _, n := range []string{onto + "A", onto + "B", onto + "Top"} {
		if c := g.callCount("types", n); c != 1 {
			t.Errorf("types(%s) called %d times, want 1", n, c)
		}
		if c := g.callCount("hypernyms", n); c != 1 {
			t.Errorf("hypernyms(%s) called %d times, want 1", n, c)
		}
	}
}

func TestDiscover_DisambiguationFallback(t *testing.T) {
	g := newFakeGraph()
	g.disambiguations[res+"Java"] = []string{res + "Java_(island)", res + "Java_(language)"}
	g.types[res+"Java_(island)"] = []string{onto + "Island"}

	got, err := New(g, testLogger()).Discover(context.Background(), res+"Java", true)
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}

	want := []string{onto + "Island", res + "Java_(island)", res + "Java_(language)"}
	if !reflect.DeepEqual(got.Nodes, want) {
		t.Errorf("nodes = %v, want %v", got.Nodes, want)
	}

	edges := models.EdgeSet{}
	for _, e := range got.Edges {
		edges.Add(e)
	}
	if !edges.Has(edge(res+"Java", res+"Java_(island)", models.RelationDisambiguatedBy)) {
		t.Error("missing disambiguated-by edge")
	}
	// Java_(language) has no types or hypernyms, so its own disambiguation is consulted too.
	if c := g.callCount("disambiguations", res+"Java_(language)"); c != 1 {
		t.Errorf("disambiguations(Java_(language)) called %d times, want 1", c)
	}
	// Java_(island) has types, so disambiguation is not consulted.
	if c := g.callCount("disambiguations", res+"Java_(island)"); c != 0 {
		t.Errorf("disambiguations(Java_(island)) called %d times, want 0", c)
	}
}

func TestDiscover_DisambiguationGating(t *testing.T) {
	g := newFakeGraph()
	g.disambiguations[res+"Java"] = []string{res + "Java_(island)"}
	g.types["seed"] = []string{res + "Java"}

	got, err := New(g, testLogger()).Discover(context.Background(), "seed", false)
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	for _, e := range got.Edges {
		if e.Relation == models.RelationDisambiguatedBy {
			t.Errorf("unexpected disambiguation edge %v", e)
		}
	}
	if c := g.callCount("disambiguations", res+"Java"); c != 0 {
		t.Errorf("disambiguation lookup issued %d times with fallback disabled", c)
	}
}

func TestDiscover_CycleTerminates(t *testing.T) {
	g := newFakeGraph()
	g.hypernyms["A"] = []string{"B"}
	g.hypernyms["B"] = []string{"A"}

	got, err := New(g, testLogger()).Discover(context.Background(), "A", false)
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}

	if !reflect.DeepEqual(got.Nodes, []string{"A", "B"}) {
		t.Errorf("nodes = %v, want [A B]", got.Nodes)
	}
	if len(got.Edges) != 2 {
		t.Errorf("edges = %v, want A->B and B->A", got.Edges)
	}
}

func TestDiscover_SelfHypernym(t *testing.T) {
	g := newFakeGraph()
	g.hypernyms["A"] = []string{"A"}

	got, err := New(g, testLogger()).Discover(context.Background(), "A", false)
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if !reflect.DeepEqual(got.Nodes, []string{"A"}) {
		t.Errorf("nodes = %v, want [A]", got.Nodes)
	}
	if len(got.Edges) != 1 {
		t.Errorf("edges = %v, want one self edge", got.Edges)
	}
}

func TestDiscover_FailureReturnsNoResult(t *testing.T) {
	boom := errors.New("endpoint unreachable")

	for name, failing := range map[string]string{
		"seed":     "seed",
		"frontier": onto + "B",
	} {
		t.Run(name, func(t *testing.T) {
			g := newFakeGraph()
			g.types["seed"] = []string{onto + "A"}
			g.types[onto+"A"] = []string{onto + "B"}
			g.fail[failing] = boom

			got, err := New(g, testLogger()).Discover(context.Background(), "seed", true)
			if !errors.Is(err, boom) {
				t.Fatalf("error = %v, want %v", err, boom)
			}
			if got != nil {
				t.Errorf("expected no partial result, got %+v", got)
			}
		})
	}
}

func TestDiscover_CancelledContext(t *testing.T) {
	g := newFakeGraph()
	g.types["seed"] = []string{onto + "A"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New(g, testLogger()).Discover(ctx, "seed", false); !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func TestDiscover_ObserverSeesEveryEdgeOnce(t *testing.T) {
	g := newFakeGraph()
	g.types["seed"] = []string{onto + "A"}
	g.hypernyms["seed"] = []string{onto + "A"}
	g.types[onto+"A"] = []string{onto + "B"}

	var seen []models.Edge
	e := New(g, testLogger(), WithObserver(func(e models.Edge) { seen = append(seen, e) }))

	got, err := e.Discover(context.Background(), "seed", false)
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if len(seen) != len(got.Edges) {
		t.Errorf("observer saw %d edges, result has %d", len(seen), len(got.Edges))
	}
	if seen[0].Source != "seed" {
		t.Errorf("first observed edge should come from the seed, got %v", seen[0])
	}
}

func TestWith_DoesNotMutateOriginal(t *testing.T) {
	base := New(newFakeGraph(), testLogger())
	derived := base.With(WithObserver(func(models.Edge) {}))

	if base.observer != nil {
		t.Error("With should not change the original engine")
	}
	if derived.observer == nil {
		t.Error("derived engine should carry the observer")
	}
}
