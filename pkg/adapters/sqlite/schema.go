package sqlite

// schemaVersion is stored in PRAGMA user_version.
const schemaVersion = 1

const createTablesSQL = `
CREATE TABLE IF NOT EXISTS documents (
    id TEXT PRIMARY KEY,
    collection TEXT NOT NULL,
    content TEXT NOT NULL DEFAULT '',
    metadata TEXT NOT NULL DEFAULT '{}',
    updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents(collection, id);
`
