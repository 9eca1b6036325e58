package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// DBLogger writes audit events to a PostgreSQL table. The table is
// append-only compliance history; rows are never updated or deleted here.
type DBLogger struct {
	db *sql.DB
}

// NewDBLogger creates a database-backed audit logger
func NewDBLogger(db *sql.DB) (*DBLogger, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	logger := &DBLogger{db: db}

	if err := logger.ensureTable(); err != nil {
		return nil, fmt.Errorf("failed to ensure security_audit_logs table: %w", err)
	}

	return logger, nil
}

// ensureTable creates the security_audit_logs table if it doesn't exist
func (l *DBLogger) ensureTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS security_audit_logs (
		id UUID PRIMARY KEY,
		timestamp TIMESTAMP WITH TIME ZONE NOT NULL,
		request_id VARCHAR(100) NOT NULL,
		user_id VARCHAR(100) NOT NULL,
		organization_id VARCHAR(100) NOT NULL,
		user_email VARCHAR(255),
		action VARCHAR(50) NOT NULL,
		resource TEXT NOT NULL,
		method VARCHAR(10) NOT NULL,
		ip_address VARCHAR(45),
		user_agent TEXT,
		success BOOLEAN NOT NULL,
		error_message TEXT,
		metadata JSONB,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_security_audit_logs_timestamp ON security_audit_logs(timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_security_audit_logs_user_id ON security_audit_logs(user_id);
	CREATE INDEX IF NOT EXISTS idx_security_audit_logs_organization_id ON security_audit_logs(organization_id);
	CREATE INDEX IF NOT EXISTS idx_security_audit_logs_action ON security_audit_logs(action);
	CREATE INDEX IF NOT EXISTS idx_security_audit_logs_ip_address ON security_audit_logs(ip_address);
	`

	_, err := l.db.Exec(query)
	return err
}

// Log inserts one audit event
func (l *DBLogger) Log(ctx context.Context, event *Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	var metadataJSON []byte
	if event.Metadata != nil {
		var err error
		metadataJSON, err = json.Marshal(event.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
	}

	query := `
		INSERT INTO security_audit_logs (
			id, timestamp, request_id,
			user_id, organization_id, user_email,
			action, resource, method,
			ip_address, user_agent,
			success, error_message, metadata
		) VALUES (
			$1, $2, $3,
			$4, $5, $6,
			$7, $8, $9,
			$10, $11,
			$12, $13, $14
		)
	`

	_, err := l.db.ExecContext(ctx, query,
		event.ID, event.Timestamp, event.RequestID,
		event.UserID, event.OrganizationID, event.UserEmail,
		event.Action, event.Resource, event.Method,
		event.IPAddress, event.UserAgent,
		event.Success, event.ErrorMessage, metadataJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}

	return nil
}

// Close is a no-op; the caller owns the database connection
func (l *DBLogger) Close() error {
	return nil
}
