// Package docbrowse is the core of a database-browsing workbench.
//
// It has two cooperating pieces. The Registry binds locally editable
// buffers to remote document-store entities and keeps them in sync:
// binding populates the buffer with the entity's data, saving the
// buffer uploads the parsed content and echoes back the canonical
// stored form. Bindings are persisted to a state store so they
// survive process restarts.
//
// The tree package streams collections into a tree UI through a pager
// whose batch size doubles after every fetch, and fronts the
// collection command language (findOne, insert, delete, count, drop,
// bulkWrite) through the command package.
//
// Concrete document stores live under store (MongoDB and an in-memory
// implementation); durable state stores live under state (SQLite,
// PostgreSQL, Consul and memory).
package docbrowse
