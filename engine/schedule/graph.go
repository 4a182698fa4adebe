package schedule

import (
	"fmt"

	"github.com/orbitalmfg/reflow/engine/core"
)

// node is a dependency-graph vertex. Parents/Children are dense-index-free
// adjacency lists keyed by work order id; duplicate parent ids are
// tolerated: each copy adds one to the in-degree and one child edge, so
// Toposort's counts still reach zero exactly once.
type node struct {
	id       string
	parents  []string
	children []string
}

// buildGraph produces an id -> node mapping and fails with a clear error
// naming the dangling dependency if any parent id is not present in the WO
// set.
func buildGraph(wos []WorkOrder) (map[string]*node, error) {
	nodes := make(map[string]*node, len(wos))
	for _, wo := range wos {
		nodes[wo.DocID] = &node{id: wo.DocID, parents: append([]string(nil), wo.Data.DependsOnWorkOrderIDs...)}
	}
	for _, wo := range wos {
		for _, parentID := range wo.Data.DependsOnWorkOrderIDs {
			parent, ok := nodes[parentID]
			if !ok {
				return nil, core.NewError(
					core.CodeDanglingDependency,
					fmt.Sprintf("work order %q depends on unknown work order %q", wo.DocID, parentID),
					[]string{wo.DocID, parentID},
				)
			}
			parent.children = append(parent.children, wo.DocID)
		}
	}
	return nodes, nil
}

// detectCycle walks the parents edges of every node with a three-color DFS
// (white/gray/black). It returns the first cycle found as a path of WO ids,
// examining disconnected components in input order for determinism.
func detectCycle(order []string, nodes map[string]*node) []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(nodes))
	var path []string

	var visit func(id string) []string
	visit = func(id string) []string {
		color[id] = gray
		path = append(path, id)
		for _, parentID := range nodes[id].parents {
			switch color[parentID] {
			case gray:
				// Closing edge: slice the path down to the repeated node.
				start := 0
				for i, p := range path {
					if p == parentID {
						start = i
						break
					}
				}
				cycle := append([]string(nil), path[start:]...)
				return append(cycle, parentID)
			case white:
				if cyc := visit(parentID); cyc != nil {
					return cyc
				}
			}
		}
		path = path[:len(path)-1]
		color[id] = black
		return nil
	}

	for _, id := range order {
		if color[id] == white {
			if cyc := visit(id); cyc != nil {
				return cyc
			}
		}
	}
	return nil
}

// Toposort runs Kahn's algorithm over the work order dependency DAG,
// returning ids in a linearization where every work order follows all its
// prerequisites. Zero-indegree nodes are enqueued in input order and ties
// are broken by input order throughout, so the result is deterministic.
func Toposort(wos []WorkOrder) ([]string, error) {
	nodes, err := buildGraph(wos)
	if err != nil {
		return nil, err
	}

	order := make([]string, 0, len(wos))
	for _, wo := range wos {
		order = append(order, wo.DocID)
	}

	indegree := make(map[string]int, len(nodes))
	for id, n := range nodes {
		indegree[id] = len(n.parents)
	}

	queue := make([]string, 0, len(order))
	for _, id := range order {
		if indegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	result := make([]string, 0, len(order))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		result = append(result, current)
		for _, childID := range nodes[current].children {
			indegree[childID]--
			if indegree[childID] == 0 {
				queue = append(queue, childID)
			}
		}
	}

	if len(result) != len(order) {
		cycle := detectCycle(order, nodes)
		return nil, core.NewError(
			core.CodeCircularDependency,
			fmt.Sprintf("circular dependency detected: %v", cycle),
			cycle,
		)
	}
	return result, nil
}
