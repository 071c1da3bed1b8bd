// Package services implements the segmentation and reconciliation pipeline:
// character-precise overlapping splitting, chapter-aware section detection
// with an anti-explosion guard, concurrent per-unit topic extraction,
// merge/dedup of topic candidates into a bounded canonical topic list,
// passage relevance ranking, and assembly of the persisted learning plan.
//
// All chunking, merging, and keyword ranking is synchronous and CPU-bound;
// the only blocking operations are completion calls through the LLMService
// port. Final topic and passage order is derived from source offsets and
// first appearance, never from completion-call arrival order.
package services
