package sqlite

// migrations are applied in slice order; each runs at most once,
// tracked by name in checkout_migrations.
var migrations = []struct {
	name string
	sql  string
}{
	{
		name: "001_create_progress",
		sql: `
			CREATE TABLE IF NOT EXISTS checkout_progress (
				session_key     TEXT PRIMARY KEY,
				state           TEXT NOT NULL,
				updated_at      TEXT NOT NULL
			)`,
	},
	{
		name: "002_create_carts",
		sql: `
			CREATE TABLE IF NOT EXISTS checkout_carts (
				session_key     TEXT PRIMARY KEY,
				id              TEXT NOT NULL,
				currency        TEXT NOT NULL DEFAULT 'INR',
				lines           TEXT NOT NULL DEFAULT '[]',
				created_at      TEXT NOT NULL,
				updated_at      TEXT NOT NULL
			)`,
	},
	{
		name: "003_create_announcements",
		sql: `
			CREATE TABLE IF NOT EXISTS checkout_announcements (
				id              TEXT PRIMARY KEY,
				message         TEXT NOT NULL,
				href            TEXT,
				variant         TEXT NOT NULL DEFAULT 'info',
				priority        INTEGER NOT NULL DEFAULT 0,
				starts_at       TEXT,
				ends_at         TEXT,
				created_at      TEXT NOT NULL,
				updated_at      TEXT NOT NULL
			)`,
	},
	{
		name: "004_create_announcements_index",
		sql: `
			CREATE INDEX IF NOT EXISTS idx_checkout_announcements_order
				ON checkout_announcements (priority DESC, created_at ASC)`,
	},
	{
		name: "005_create_campaigns",
		sql: `
			CREATE TABLE IF NOT EXISTS checkout_campaigns (
				id              TEXT PRIMARY KEY,
				name            TEXT NOT NULL,
				schedule        TEXT NOT NULL,
				announcements   TEXT NOT NULL DEFAULT '[]',
				next_index      INTEGER NOT NULL DEFAULT 0,
				created_at      TEXT NOT NULL,
				updated_at      TEXT NOT NULL
			)`,
	},
	{
		name: "006_create_dismissals",
		sql: `
			CREATE TABLE IF NOT EXISTS checkout_dismissals (
				session_key     TEXT NOT NULL,
				announcement_id TEXT NOT NULL,
				dismissed_at    TEXT NOT NULL,
				PRIMARY KEY (session_key, announcement_id)
			)`,
	},
}
