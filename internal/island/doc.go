// Package island groups connected dynamic bodies into simulation islands and
// arbitrates their sleep and wake transitions.
//
//   - [Member]: contract any dynamic participant satisfies
//   - [Listener]: notifications a member delivers to its island
//   - [Island]: member set, activity flag, candidate counter
//   - [Manager]: pooled islands plus the per-step deactivation pass
//
// # Thread Safety
//
// Candidate notifications ([Island.BecameDeactivationCandidate] and
// [Island.BecameNonDeactivationCandidate]) may arrive from any goroutine.
// [Island.Activate] may run off the maintenance goroutine but never
// concurrently with Add, Remove or TryToDeactivate. Everything else belongs
// to the single sequential maintenance pass.
package island
