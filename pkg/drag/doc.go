// Package drag implements the interactive drag session engine.
//
// # Overview
//
// An [Engine] owns the positions of every visible node. A gesture moves
// through two states, idle and dragging:
//
//   - [Engine.Drag] starts a session on the first move event for a node and
//     queues the cursor position. A move for a different node discards the
//     current session and starts a fresh one.
//   - [Engine.Tick] runs at most one frame of live constraint resolution
//     using only the latest queued cursor position.
//   - [Engine.Stop] flushes the queued frame, settles the gesture into a
//     grid-aligned, collision-free arrangement and returns a [Result] for the
//     caller to persist.
//
// # Families and Scopes
//
// The nodes that move together are the session's family. Dragging a service
// (depth 1) or the root moves everything sharing its top ancestor
// ([ScopeServiceFamily]); dragging a deeper node moves only its branch
// ([ScopeBranch]). The scope is resolved once when the session starts.
//
// # Mirroring
//
// When the dragged node crosses to the other side of its parent on an axis,
// family members are reflected about the dragged node on that axis instead
// of translated, so a subtree keeps its shape as it flips sides.
//
// # Failure Semantics
//
// The engine never returns errors. Lookups that miss (a node removed by a
// concurrent [Engine.Load], a stop without a start) skip the affected step;
// a stop without a matching session is settled from current positions.
//
// # Concurrency
//
// An Engine is single-threaded. Callers that drive it from several
// goroutines (an HTTP server, a frame ticker) must serialize access.
package drag
