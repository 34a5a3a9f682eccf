package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			-- Create sessions table
			CREATE TABLE sessions (
				id VARCHAR(128) PRIMARY KEY,
				name VARCHAR(255) NOT NULL DEFAULT '',
				clients JSONB NOT NULL DEFAULT '[]',
				workers JSONB NOT NULL DEFAULT '[]',
				tasks JSONB NOT NULL DEFAULT '[]',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL,
				deleted_at TIMESTAMP WITH TIME ZONE
			);

			CREATE INDEX idx_sessions_created_at ON sessions(created_at);
			CREATE INDEX idx_sessions_deleted_at ON sessions(deleted_at);
		`,
		2: `
			-- Migration 2: rule configuration stored next to the datasets
			ALTER TABLE sessions
				ADD COLUMN rules JSONB NOT NULL DEFAULT '[]',
				ADD COLUMN prioritization_weights JSONB NOT NULL DEFAULT '{}';
		`,
	}
}
