// Package diag defines the error and diagnostic model shared by the lowering
// pipeline.
//
// # Purpose
//
//   - Provide deterministic, serialisable data structures that capture findings
//     produced while parsing C sources and lowering their CST into the AST.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//   - Model lowering failures as typed errors (CodeError, NotImplementedError,
//     InternalError) so callers can tell invalid input from roadmap gaps and
//     from engine defects.
//
// # Scope
//
// Package diag does not perform any formatting, IO, CLI integration, or
// interactive behaviour. Rendering responsibilities live in internal/diagfmt,
// whereas orchestration and application of fixes lives in internal/fix and the
// driver layer.
//
// # Error model
//
// The lowering engine never recovers locally: the first failure aborts the
// translation unit. Failures come in three families:
//
//   - CodeError – malformed or unsupported input, tied to a source.Range and
//     the CST node type that did not match.
//   - NotImplementedError – a production that is recognised but not lowered
//     yet (function definitions, the wider expression grammar, ...).
//   - UnreachableError – raised with panic(diag.Unreachable(...)) when the
//     engine's own case analysis falls through. The engine boundary recovers
//     it into InternalError; nothing converts it into a CodeError.
//
// Classify and FromError map those errors onto diagnostic codes.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary range – the source.Range pointing to the issue.
//   - Notes – optional secondary ranges/messages for additional context.
//   - Fixes – optional byte edits proposed by a fixer.
//
// # Emitting diagnostics
//
// Phases should use a diag.Reporter to decouple emission from storage. The
// driver, for example, constructs a ReportBuilder via NewReportBuilder (or the
// helper functions ReportError/ReportWarning/ReportInfo) and chains WithNote /
// WithFix before calling Emit.
//
// When no additional metadata is needed, phases may call Reporter.Report(...)
// directly. For convenience, diag.BagReporter aggregates diagnostics into a Bag,
// which supports sorting and deduplication.
//
// # Consumers
//
//   - internal/diagfmt: renders Diagnostics into pretty/json formats.
//   - internal/driver: turns lowering errors into diagnostics per file and
//     transports them to CLI commands.
//
// Keep the data model deterministic: any new fields should honour the package’s
// layering constraints and avoid side effects, so the CLI and future tooling can
// safely serialise diagnostics for caching and testing.
package diag
