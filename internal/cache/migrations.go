package cache

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS bookmarks (
	article_id    INTEGER PRIMARY KEY,
	board         TEXT NOT NULL,
	title         TEXT NOT NULL,
	body          TEXT NOT NULL DEFAULT '',
	author        TEXT NOT NULL DEFAULT '',
	likes         INTEGER NOT NULL DEFAULT 0,
	comment_count INTEGER NOT NULL DEFAULT 0,
	created_at    DATETIME NOT NULL,
	bookmarked_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS boards (
	slug          TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	description   TEXT NOT NULL DEFAULT '',
	followed      INTEGER NOT NULL DEFAULT 0,
	article_count INTEGER NOT NULL DEFAULT 0,
	updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS drafts (
	id          TEXT PRIMARY KEY,
	board       TEXT NOT NULL DEFAULT '',
	title       TEXT NOT NULL DEFAULT '',
	body        TEXT NOT NULL DEFAULT '',
	created_at  DATETIME NOT NULL,
	updated_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_bookmarks_board ON bookmarks(board);
CREATE INDEX IF NOT EXISTS idx_bookmarks_bookmarked ON bookmarks(bookmarked_at);
CREATE INDEX IF NOT EXISTS idx_boards_followed ON boards(followed);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
