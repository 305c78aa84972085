package client

import "time"

// Edge relation kinds.
const (
	RelationTypeOf          = "type-of"
	RelationSubclassOf      = "subclass-of"
	RelationHypernymOf      = "hypernym-of"
	RelationDisambiguatedBy = "disambiguated-by"
)

// Lookup kinds accepted by AncestryService.Lookup.
const (
	LookupTypes           = "types"
	LookupHypernyms       = "hypernyms"
	LookupDisambiguations = "disambiguations"
)

// Edge records how Target was reached from Source.
type Edge struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	Relation string `json:"relation"`
}

// Result is a discovered ancestry: every node reached from Seed and the edges that reached them.
type Result struct {
	Seed  string   `json:"seed"`
	Nodes []string `json:"nodes"`
	Edges []Edge   `json:"edges"`
}

// DiscoverOptions controls a discovery.
type DiscoverOptions struct {
	// Raw treats the name as an identifier and skips resolution.
	Raw bool
	// Disambiguate follows disambiguation links from dead-end nodes.
	Disambiguate bool
	// Save persists the run on the server.
	Save bool
}

// DiscoverResponse is the result of a single discovery.
type DiscoverResponse struct {
	Name   string  `json:"name"`
	RunID  *string `json:"run_id,omitempty"`
	Result *Result `json:"result"`
}

// ResolveResponse maps a surface name to its identifier.
type ResolveResponse struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// LookupResponse holds the direct neighbors of a node for one lookup kind.
type LookupResponse struct {
	Node    string   `json:"node"`
	Kind    string   `json:"kind"`
	Results []string `json:"results"`
}

// Run is a saved discovery. Result is only populated by RunService.Get.
type Run struct {
	ID                  string    `json:"id"`
	Seed                string    `json:"seed"`
	Resolved            string    `json:"resolved"`
	AllowDisambiguation bool      `json:"allow_disambiguation"`
	NodeCount           int       `json:"node_count"`
	EdgeCount           int       `json:"edge_count"`
	CreatedAt           time.Time `json:"created_at"`
	Result              *Result   `json:"result,omitempty"`
}

// ListOptions paginates list endpoints.
type ListOptions struct {
	Limit  int
	Offset int
}

// HealthResponse is the liveness check payload.
type HealthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Storage       string  `json:"storage"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// ReadyResponse is the readiness check payload.
type ReadyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
