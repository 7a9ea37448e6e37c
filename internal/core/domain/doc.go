// Package domain holds the types every layer of Argonaut shares: documents
// and their chunks, index handles and search hits, keyphrases and concept
// graphs, interaction records, LLM configuration and the error taxonomy.
//
// domain sits at the centre of the hexagon and imports nothing outside the
// standard library. Ports, services and adapters all depend on it.
package domain
