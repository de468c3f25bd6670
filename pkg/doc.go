// Package pkg provides the core libraries for impose, a print imposition
// engine.
//
// # Overview
//
// Impose turns a configuration document (a schema plus raw user values) into
// margin rules, resolves them into a yield frame around the finished piece,
// and lays copies of that frame out on a press sheet with guides and trim
// marks. All geometry is in PostScript points unless a type says otherwise;
// margins and user-facing sizes stay in millimeters.
//
// # Architecture
//
// The typical data flow:
//
//	schema + raw values
//	         ↓
//	    [rules] (compile margin rules)
//	         ↓
//	    [margin] (resolve one value per edge)
//	         ↓
//	    [frame] (finish size + padding = yield frame)
//	         ↓
//	    [sheet] + [grid] (size the sheet, tile or anchor copies)
//	         ↓
//	    [guides] (yield guides, sheet guides, trim marks)
//
// [pipeline] runs these stages with caching and is shared by the CLI and the
// HTTP server.
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/impose/pkg/frame"
//	    "github.com/matzehuels/impose/pkg/geom"
//	    "github.com/matzehuels/impose/pkg/pipeline"
//	    "github.com/matzehuels/impose/pkg/values"
//	)
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	res, _ := runner.Execute(ctx, pipeline.Request{
//	    Payload: frame.Payload{
//	        Geometry:  frame.Geometry{Finish: geom.Size{W: 90, H: 54}},
//	        RawValues: values.Values{"safe_top": 3},
//	    },
//	})
//	fmt.Println(res.Stats.Copies) // 24 on the default 320x480mm sheet
//
// # Main Packages
//
// ## Configuration
//
// [schema] - Schema documents (JSON, YAML, TOML), builtin presets, semantic
// annotation, validation and editing.
//
// [values] - Raw user values with lenient number and checkbox parsing.
//
// ## Geometry
//
// [geom] - Rectangles, sizes and points in page units.
//
// [units] - Millimeter and point conversion.
//
// ## Imposition
//
// [rules] - Compiles a schema and raw values into margin rules.
//
// [margin] - Edges, classifications, rules and edge resolution.
//
// [frame] - The yield frame, content fitting and auto-sizing.
//
// [sheet] - Sheet sizing, gripper margins and single-copy anchoring.
//
// [grid] - N-Up grid capacity, centering, variants and head-to-head rotation.
//
// [guides] - Guide lines, borders and trim marks.
//
// ## Infrastructure
//
// [pipeline] - Request validation and the staged, cached imposition run.
//
// [cache] - Cache backends (file, memory, Redis, null) and key derivation.
//
// [errors] - Structured errors with codes, plus input validation helpers.
//
// [observability] - Hooks for metrics and tracing of pipeline, cache and
// server events.
//
// [buildinfo] - Build-time version information.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/grid/...     # Specific package
//
// [schema]: https://pkg.go.dev/github.com/matzehuels/impose/pkg/schema
// [values]: https://pkg.go.dev/github.com/matzehuels/impose/pkg/values
// [geom]: https://pkg.go.dev/github.com/matzehuels/impose/pkg/geom
// [units]: https://pkg.go.dev/github.com/matzehuels/impose/pkg/units
// [rules]: https://pkg.go.dev/github.com/matzehuels/impose/pkg/rules
// [margin]: https://pkg.go.dev/github.com/matzehuels/impose/pkg/margin
// [frame]: https://pkg.go.dev/github.com/matzehuels/impose/pkg/frame
// [sheet]: https://pkg.go.dev/github.com/matzehuels/impose/pkg/sheet
// [grid]: https://pkg.go.dev/github.com/matzehuels/impose/pkg/grid
// [guides]: https://pkg.go.dev/github.com/matzehuels/impose/pkg/guides
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/impose/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/impose/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/impose/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/impose/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/impose/pkg/buildinfo
package pkg
