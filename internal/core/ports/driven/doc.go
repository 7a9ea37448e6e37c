// Package driven lists what the core needs from infrastructure. Services
// accept these interfaces and adapters under internal/adapters/driven
// implement them.
//
// Indexing and answering cannot start without an EmbeddingService, an
// IndexStore, a VectorIndexFactory and a ConfigStore. The rest are
// optional and the commands that need them fail with ErrConfiguration
// when they are missing:
//
//   - LLMFactory for answers, hypotheses and critiques
//   - KeyphraseExtractor and GraphRenderer for concept maps
//   - PaperSearcher for arXiv search
//   - InteractionLog for history
//   - NormaliserRegistry and PostProcessorPipeline for file ingestion
//
// This package may import domain and nothing else from internal/.
package driven
