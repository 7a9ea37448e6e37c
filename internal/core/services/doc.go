// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
//   - IndexService: per-source embedding indexes and similarity search
//   - AnswerService: retrieval-augmented question answering
//   - HypothesisService: research direction suggestions
//   - CritiqueService: persona critiques of paper excerpts
//   - ConceptService: keyphrases, concept graphs and their rendering
//   - InteractionService: the question/answer log
//   - LiteratureService: paper search and abstract indexing
//   - IngestService: file loading, chunking and indexing
//   - SettingsService: application settings
//
// Services are pure Go with no CGO or external dependencies.
package services
