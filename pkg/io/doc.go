// Package io reads and writes weighted graphs in the adjacency JSON format
// produced by the upstream co-occurrence extraction.
//
// # JSON Format
//
// The format lists nodes and, at the same position, the outgoing edges of
// each node:
//
//	{
//	  "directed": true,
//	  "multigraph": false,
//	  "graph": {},
//	  "nodes": [
//	    {"id": "doctor_female", "weight": 1200},
//	    {"id": "lawyer_male", "weight": 800}
//	  ],
//	  "adjacency": [
//	    [{"id": "lawyer_male", "weight": 40}],
//	    []
//	  ]
//	}
//
// adjacency[i] holds the out-edges of nodes[i]. A missing "weight" on a
// node or edge defaults to 1. Multigraphs are rejected, and so are edges to
// nodes that are not listed.
//
// # Import
//
//	g, err := io.ImportAdjacency("data/graph_occupation.json")
//
// # Export
//
// [WriteAdjacency] and [ExportAdjacency] write a graph back in the same
// format, preserving node and successor order, so a filtered graph can be
// saved and reloaded identically.
package io
