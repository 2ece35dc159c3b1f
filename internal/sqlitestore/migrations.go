package sqlitestore

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations mirrors migrations/*.up.sql for SQLite.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS recipients (
	id           TEXT PRIMARY KEY,
	service_id   TEXT NOT NULL UNIQUE,
	display_name TEXT NOT NULL DEFAULT '',
	is_self      INTEGER NOT NULL DEFAULT 0,
	created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS threads (
	id              TEXT PRIMARY KEY,
	recipient_id    TEXT NOT NULL UNIQUE REFERENCES recipients(id) ON DELETE CASCADE,
	snippet         TEXT NOT NULL DEFAULT '',
	last_message_at INTEGER NOT NULL DEFAULT 0,
	message_count   INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS messages (
	id              TEXT PRIMARY KEY,
	thread_id       TEXT NOT NULL REFERENCES threads(id) ON DELETE CASCADE,
	recipient_id    TEXT NOT NULL REFERENCES recipients(id) ON DELETE CASCADE,
	author_id       TEXT REFERENCES recipients(id) ON DELETE SET NULL,
	direction       TEXT NOT NULL CHECK (direction IN ('incoming', 'outgoing')),
	status          TEXT NOT NULL CHECK (status IN ('pending', 'sent', 'received')),
	body            TEXT,
	sent_at         INTEGER NOT NULL,
	received_at     INTEGER NOT NULL,
	server_at       INTEGER NOT NULL DEFAULT 0,
	is_secure       INTEGER NOT NULL DEFAULT 1,
	quote_id        INTEGER,
	quote_author_id TEXT,
	quote_body      TEXT,
	quote_missing   INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_messages_thread_received ON messages(thread_id, received_at);
CREATE INDEX IF NOT EXISTS idx_messages_sent_author ON messages(sent_at, author_id);

CREATE TABLE IF NOT EXISTS attachments (
	id               TEXT PRIMARY KEY,
	message_id       TEXT NOT NULL REFERENCES messages(id) ON DELETE CASCADE,
	content_type     TEXT NOT NULL,
	remote_id        TEXT NOT NULL DEFAULT '',
	cdn_number       INTEGER NOT NULL DEFAULT 0,
	width            INTEGER NOT NULL DEFAULT 0,
	height           INTEGER NOT NULL DEFAULT 0,
	size_bytes       INTEGER NOT NULL DEFAULT 0,
	file_name        TEXT NOT NULL DEFAULT '',
	voice_note       INTEGER NOT NULL DEFAULT 0,
	borderless       INTEGER NOT NULL DEFAULT 0,
	gif              INTEGER NOT NULL DEFAULT 0,
	upload_timestamp INTEGER NOT NULL DEFAULT 0,
	transfer_state   TEXT NOT NULL DEFAULT 'pending' CHECK (transfer_state IN ('pending', 'done', 'failed')),
	display_order    INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_attachments_message ON attachments(message_id, display_order);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
