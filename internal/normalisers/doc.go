// Package normalisers turns raw file bytes into document text.
//
// Each sub-package handles specific MIME types; the Registry dispatches a
// raw document to the highest-priority normaliser for its type. Register
// the built-in normalisers with RegisterDefaults at startup.
package normalisers
