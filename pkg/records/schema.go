package records

// Schema contains the SQL statements to create the record database schema.
const Schema = `
-- Sources table: one row per imported document, deduplicated by checksum
CREATE TABLE IF NOT EXISTS sources (
    id                 TEXT PRIMARY KEY,
    original_file_name TEXT NOT NULL,
    original_path      TEXT NOT NULL,
    internal_path      TEXT UNIQUE NOT NULL,
    page_count         INTEGER NOT NULL CHECK (page_count > 0),
    file_size          INTEGER NOT NULL,
    checksum           TEXT UNIQUE NOT NULL,
    imported_at        DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Projects table: the ordered page list is stored as a JSON array
CREATE TABLE IF NOT EXISTS projects (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    state      TEXT NOT NULL DEFAULT '[]',
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Outputs table: outputs outlive their project
CREATE TABLE IF NOT EXISTS outputs (
    id         TEXT PRIMARY KEY,
    project_id TEXT,
    file_name  TEXT NOT NULL,
    file_path  TEXT UNIQUE NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE SET NULL
);

-- Indexes for performance
CREATE INDEX IF NOT EXISTS idx_sources_imported ON sources(imported_at);
CREATE INDEX IF NOT EXISTS idx_projects_updated ON projects(updated_at);
CREATE INDEX IF NOT EXISTS idx_outputs_project ON outputs(project_id);
CREATE INDEX IF NOT EXISTS idx_outputs_created ON outputs(created_at);
`

// checksumLength is the expected length of a SHA256 hash in hexadecimal format.
const checksumLength = 64
