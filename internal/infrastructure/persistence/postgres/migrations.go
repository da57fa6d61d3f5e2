// Package postgres implements the PostgreSQL persistence layer for the
// registration service.
package postgres

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_admins",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
		{
			Version: 2,
			Name:    "create_students",
			UpSQL:   migration002Up,
			DownSQL: migration002Down,
		},
		{
			Version: 3,
			Name:    "create_rules",
			UpSQL:   migration003Up,
			DownSQL: migration003Down,
		},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE ADMINS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create admins table
-- Version: 001

CREATE TABLE IF NOT EXISTS admins (
    id UUID PRIMARY KEY,
    username VARCHAR(80) NOT NULL UNIQUE,
    email VARCHAR(120) NOT NULL UNIQUE,
    password_hash VARCHAR(255) NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_admins_username ON admins(username);
`

const migration001Down = `
DROP TABLE IF EXISTS admins;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE STUDENTS
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create students table
-- Version: 002

CREATE TABLE IF NOT EXISTS students (
    id UUID PRIMARY KEY,
    surname VARCHAR(100) NOT NULL,
    given_name VARCHAR(100) NOT NULL,
    other_names VARCHAR(100) NOT NULL DEFAULT '',
    home_address TEXT NOT NULL DEFAULT '',
    phone_number VARCHAR(30) NOT NULL DEFAULT '',
    email VARCHAR(120) NOT NULL UNIQUE,
    date_of_birth DATE,
    gender VARCHAR(20) NOT NULL DEFAULT '',

    -- Denormalized agreement flag, written in the same transaction
    -- as the agreement row itself.
    terms_agreed BOOLEAN NOT NULL DEFAULT FALSE,
    terms_agreed_at TIMESTAMP WITH TIME ZONE,

    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_students_email ON students(email);
CREATE INDEX IF NOT EXISTS idx_students_terms_agreed ON students(terms_agreed);
`

const migration002Down = `
DROP TABLE IF EXISTS students;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: CREATE RULES DOCUMENTS AND AGREEMENTS
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
-- Migration: Create rules documents and agreements
-- Version: 003

CREATE TABLE IF NOT EXISTS rules_documents (
    id UUID PRIMARY KEY,
    content TEXT NOT NULL,
    version VARCHAR(20) NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT FALSE,
    created_by UUID REFERENCES admins(id),
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

-- At most one active document at any time.
CREATE UNIQUE INDEX IF NOT EXISTS idx_rules_documents_single_active
    ON rules_documents(is_active) WHERE is_active;

CREATE INDEX IF NOT EXISTS idx_rules_documents_created_at
    ON rules_documents(created_at DESC);

-- Monotonic counter backing auto-derived version labels ("v{N}.0").
CREATE SEQUENCE IF NOT EXISTS rules_version_seq START 1;

CREATE TABLE IF NOT EXISTS agreements (
    id UUID PRIMARY KEY,
    student_id UUID NOT NULL REFERENCES students(id),
    rules_id UUID NOT NULL REFERENCES rules_documents(id),
    agreed_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    ip_address VARCHAR(45) NOT NULL DEFAULT '',
    user_agent VARCHAR(500) NOT NULL DEFAULT '',

    -- One agreement per student per rules version.
    CONSTRAINT uq_agreements_student_rules UNIQUE (student_id, rules_id)
);

CREATE INDEX IF NOT EXISTS idx_agreements_student_id ON agreements(student_id);
CREATE INDEX IF NOT EXISTS idx_agreements_rules_id ON agreements(rules_id);
`

const migration003Down = `
DROP TABLE IF EXISTS agreements;
DROP SEQUENCE IF EXISTS rules_version_seq;
DROP TABLE IF EXISTS rules_documents;
`
