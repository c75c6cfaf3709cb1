// Package graph provides the directed weighted graph consumed by the
// occugraph pipeline.
//
// # Overview
//
// A [Graph] holds nodes that carry a scalar weight (for example the number of
// speakers with a given occupation) and directed edges that carry a scalar
// weight (co-occurrence strength). Nodes and successor lists keep insertion
// order, so every pass over the graph is deterministic.
//
// # Building
//
//	g := graph.New()
//	_ = g.AddNode(graph.Node{ID: "doctor_female", Weight: 1200})
//	_ = g.AddNode(graph.Node{ID: "lawyer_male", Weight: 800})
//	_ = g.AddEdge(graph.Edge{From: "doctor_female", To: "lawyer_male", Weight: 40})
//
// [Graph.AddEdge] rejects edges whose endpoints are missing and parallel
// edges between the same ordered pair.
//
// # Mutation
//
// The only destructive operation used by the pipeline is [Graph.RemoveNode],
// which also drops every edge incident to the removed node.
//
// # Concurrency
//
// Graph is not safe for concurrent use without external synchronization.
package graph
