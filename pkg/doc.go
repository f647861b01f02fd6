// Package pkg provides the core libraries for poolreview report generation.
//
// # Overview
//
// Poolreview turns a change set against a component pool into a markdown
// review report with rendered previews. The pkg directory is organized
// around the stages of that pipeline:
//
//  1. [pool] - Pool loading (records, path table, dependency edges)
//  2. [review] - Change resolution, closure traversal, derivation chains
//  3. [checks] - Record lint checks (package pads, datasheet domains)
//  4. [canvas] / [render] - Drawing primitives and PNG preview rendering
//  5. [report] - Markdown assembly and dependency diagrams
//  6. [pipeline] - Orchestration (load → review → report) used by the CLI
//
// # Architecture
//
// The typical data flow through poolreview:
//
//	Pool directory + change set (diff or name-status)
//	         ↓
//	    [pool] package (load records, build path table and edges)
//	         ↓
//	    [review] package (resolve items, compute closure and derived tree)
//	         ↓
//	    [report] package (assemble markdown, render previews via [render])
//	         ↓
//	    review.md + images/
//
// # Quick Start
//
// Generate a report for a change set:
//
//	import (
//	    "github.com/poolreview/poolreview/pkg/pool"
//	    "github.com/poolreview/poolreview/pkg/report"
//	    "github.com/poolreview/poolreview/pkg/review"
//	    "github.com/poolreview/poolreview/pkg/vcs"
//	)
//
//	// 1. Load the pool
//	p, _ := pool.Load("path/to/pool")
//
//	// 2. Resolve the change set
//	f, _ := os.Open("changes.txt")
//	entries, _ := vcs.ReadNameStatus(f)
//	rev := review.Run(p, entries)
//
//	// 3. Assemble the report
//	md, images, _ := report.New(p, rev, report.Options{}).Generate()
//
// # Main Packages
//
// [pool] - Record model and loader. Walks a pool directory, decodes the
// JSON records (parts, entities, units, symbols, packages, padstacks),
// indexes 3D model paths and builds the dependency edge list.
//
// [review] - The review engines: change resolution against the path
// table, forward closure traversal from the changed root parts, the
// base→derived display tree and inherited attribute resolution.
//
// [checks] - Lint checks applied while reporting: package pad checks,
// forbidden datasheet domains and whitespace detection.
//
// [canvas] - Resolution-independent drawing: placement transforms,
// recorded stroke/text primitives and ink extents.
//
// [render] - Rasterizes recorded drawings into the PNG previews embedded
// in the report (symbols in all orientations, package top views).
//
// [report] - Markdown assembly in pool-request review format, plus
// Graphviz dependency diagrams per closure root.
//
// [pipeline] - Complete review pipeline (load → review → report) used by
// the CLI. Ensures consistent behavior across entry points.
//
// [vcs] - Change set readers for unified diffs and git name-status
// listings.
//
// [natsort] - Natural ordering for record and pin names ("P2" before
// "P10").
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/review/...     # Specific package
//
// [pool]: https://pkg.go.dev/github.com/poolreview/poolreview/pkg/pool
// [review]: https://pkg.go.dev/github.com/poolreview/poolreview/pkg/review
// [checks]: https://pkg.go.dev/github.com/poolreview/poolreview/pkg/checks
// [canvas]: https://pkg.go.dev/github.com/poolreview/poolreview/pkg/canvas
// [render]: https://pkg.go.dev/github.com/poolreview/poolreview/pkg/render
// [report]: https://pkg.go.dev/github.com/poolreview/poolreview/pkg/report
// [pipeline]: https://pkg.go.dev/github.com/poolreview/poolreview/pkg/pipeline
// [vcs]: https://pkg.go.dev/github.com/poolreview/poolreview/pkg/vcs
// [natsort]: https://pkg.go.dev/github.com/poolreview/poolreview/pkg/natsort
package pkg
