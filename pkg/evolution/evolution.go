// Package evolution rebuilds evolution chains from pairwise edges and
// compares move sets between chain stages.
package evolution

// Edge is one (from, to) evolution step as scraped.
type Edge struct {
	ChainID    int     `json:"chainId"`
	StageIndex int     `json:"stageIndex"`
	FromID     *int    `json:"fromId"`
	FromName   *string `json:"fromName"`
	ToID       *int    `json:"toId"`
	ToName     *string `json:"toName"`
	Generation string  `json:"generation"`
	Trigger    *string `json:"trigger"`
	MinLevel   *int    `json:"minLevel"`
	Item       *string `json:"item"`
	Location   *string `json:"location"`
	Gender     *string `json:"gender"`
	TimeOfDay  *string `json:"timeOfDay"`
	DetailsRaw *string `json:"detailsRaw"`
	SourceURL  string  `json:"sourceUrl"`
}

// Node is a creature taking part in a chain.
type Node struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Chain is the set of creatures sharing a chain id, in order of first
// discovery. It is a diagnostic view, not a topological order.
type Chain struct {
	ID    int    `json:"id"`
	Nodes []Node `json:"nodes"`
}

// Chains groups edges by chain id. Chains appear in order of first edge;
// within a chain, each edge contributes its from node then its to node,
// skipping ids already seen and edge sides without an id.
func Chains(edges []Edge) []Chain {
	var chains []Chain
	index := make(map[int]int)
	seen := make(map[int]map[int]struct{})

	add := func(ci int, id *int, name *string) {
		if id == nil {
			return
		}
		chainID := chains[ci].ID
		if _, dup := seen[chainID][*id]; dup {
			return
		}
		seen[chainID][*id] = struct{}{}
		n := Node{ID: *id}
		if name != nil {
			n.Name = *name
		}
		chains[ci].Nodes = append(chains[ci].Nodes, n)
	}

	for _, e := range edges {
		ci, ok := index[e.ChainID]
		if !ok {
			ci = len(chains)
			index[e.ChainID] = ci
			chains = append(chains, Chain{ID: e.ChainID, Nodes: []Node{}})
			seen[e.ChainID] = make(map[int]struct{})
		}
		add(ci, e.FromID, e.FromName)
		add(ci, e.ToID, e.ToName)
	}
	return chains
}

// FindChain returns the first chain containing a node with the given name.
func FindChain(chains []Chain, name string) (Chain, bool) {
	for _, c := range chains {
		for _, n := range c.Nodes {
			if n.Name == name {
				return c, true
			}
		}
	}
	return Chain{}, false
}
