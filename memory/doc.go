// Package memory implements Eevee's long-term memory: durable records with
// embeddings, consolidation of interactions into those records, and
// relevance-ranked retrieval for the brain council.
//
// Architecture:
//   - Store: vector storage backend (chromem-go locally, pgvector-style in
//     production), one collection per memory type
//   - Embedder: text-to-vector conversion (mock for tests, OpenAI API for
//     real semantic search, optionally wrapped in a ristretto cache)
//   - Retriever: similarity search plus recency/strength/significance
//     re-ranking; feeds the Hippocampus region
//   - Consolidator: scores interaction significance and writes episodic,
//     semantic, emotional, and procedural records above the threshold
//   - Working: the short-lived fixed-size window of raw interactions,
//     independent of the long-term store
//
// Failure philosophy: the memory subsystem never aborts an interaction.
// Retrieval failures yield an empty list, consolidation failures a warning.
package memory
