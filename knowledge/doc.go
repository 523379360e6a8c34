// Package knowledge implements the knowledge base consulted by the
// search_knowledge tool and populated by ingest_document.
//
// Documents are full-text indexed with bleve; metadata fields (source,
// type, proficiency, session_id, topic) are indexed as exact-match
// keywords so searches can be narrowed to, say, a single session.
package knowledge
