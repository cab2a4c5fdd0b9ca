// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Foreign keys carry the cascade graph; unique indexes guard every natural key.
package storage

// initSchema creates or updates the database schema.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS families (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT
	);

	CREATE TABLE IF NOT EXISTS students (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		family_id INTEGER NOT NULL REFERENCES families(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		date_of_birth TEXT,
		notes TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT
	);

	CREATE TABLE IF NOT EXISTS subjects (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		family_id INTEGER NOT NULL REFERENCES families(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		description TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT
	);

	CREATE TABLE IF NOT EXISTS metrics (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		description TEXT,
		kind TEXT NOT NULL CHECK (kind IN ('boolean', 'categorical', 'numeric')),
		category TEXT,
		family_id INTEGER REFERENCES families(id) ON DELETE CASCADE,
		is_template INTEGER NOT NULL DEFAULT 0,
		possible_values TEXT,
		numeric_config TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT,
		CHECK ((is_template = 1 AND family_id IS NULL) OR (is_template = 0 AND family_id IS NOT NULL))
	);

	CREATE TABLE IF NOT EXISTS student_subjects (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		student_id INTEGER NOT NULL REFERENCES students(id) ON DELETE CASCADE,
		subject_id INTEGER NOT NULL REFERENCES subjects(id) ON DELETE CASCADE,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS student_metrics (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		student_id INTEGER NOT NULL REFERENCES students(id) ON DELETE CASCADE,
		metric_id INTEGER NOT NULL REFERENCES metrics(id) ON DELETE CASCADE,
		is_enabled INTEGER NOT NULL DEFAULT 1,
		applies_to_all_subjects INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT
	);

	CREATE TABLE IF NOT EXISTS student_subject_metrics (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		student_id INTEGER NOT NULL REFERENCES students(id) ON DELETE CASCADE,
		subject_id INTEGER NOT NULL REFERENCES subjects(id) ON DELETE CASCADE,
		metric_id INTEGER NOT NULL REFERENCES metrics(id) ON DELETE CASCADE,
		is_enabled INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT
	);

	CREATE TABLE IF NOT EXISTS daily_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		student_id INTEGER NOT NULL REFERENCES students(id) ON DELETE CASCADE,
		subject_id INTEGER NOT NULL REFERENCES subjects(id) ON DELETE CASCADE,
		date TEXT NOT NULL,
		notes TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT
	);

	CREATE TABLE IF NOT EXISTS daily_log_values (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		daily_log_id INTEGER NOT NULL REFERENCES daily_logs(id) ON DELETE CASCADE,
		metric_id INTEGER NOT NULL REFERENCES metrics(id) ON DELETE CASCADE,
		boolean_value INTEGER,
		categorical_value TEXT,
		numeric_value REAL,
		CHECK ((boolean_value IS NOT NULL) + (categorical_value IS NOT NULL) + (numeric_value IS NOT NULL) = 1)
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_student_subjects_unique ON student_subjects(student_id, subject_id);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_student_metrics_unique ON student_metrics(student_id, metric_id);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_student_subject_metrics_unique ON student_subject_metrics(student_id, subject_id, metric_id);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_daily_logs_unique ON daily_logs(student_id, subject_id, date);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_daily_log_values_unique ON daily_log_values(daily_log_id, metric_id);

	CREATE INDEX IF NOT EXISTS idx_students_family ON students(family_id);
	CREATE INDEX IF NOT EXISTS idx_subjects_family ON subjects(family_id);
	CREATE INDEX IF NOT EXISTS idx_metrics_family ON metrics(family_id);
	CREATE INDEX IF NOT EXISTS idx_student_subjects_subject ON student_subjects(subject_id);
	CREATE INDEX IF NOT EXISTS idx_student_metrics_metric ON student_metrics(metric_id);
	CREATE INDEX IF NOT EXISTS idx_student_subject_metrics_subject ON student_subject_metrics(subject_id);
	CREATE INDEX IF NOT EXISTS idx_student_subject_metrics_metric ON student_subject_metrics(metric_id);
	CREATE INDEX IF NOT EXISTS idx_daily_logs_subject ON daily_logs(subject_id);
	CREATE INDEX IF NOT EXISTS idx_daily_logs_date ON daily_logs(date DESC);
	CREATE INDEX IF NOT EXISTS idx_daily_log_values_metric ON daily_log_values(metric_id);
	`

	_, err := d.db.Exec(schema)
	return err
}
