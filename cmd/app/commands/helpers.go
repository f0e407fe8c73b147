// Package commands contains CLI command implementations for the application.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/golang-migrate/migrate/v4"

	"github.com/suportify/helpdesk/internal/app"
	principalDomain "github.com/suportify/helpdesk/internal/principal/domain"
)

// IOTuple holds reader and writer for commands, allowing for testing.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// DefaultIO returns an IOTuple with os.Stdin and os.Stdout.
func DefaultIO() IOTuple {
	return IOTuple{
		Reader: os.Stdin,
		Writer: os.Stdout,
	}
}

// closeContainer closes all resources in the container and logs any errors.
func closeContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}

// closeMigrate closes the migration instance and logs any errors.
func closeMigrate(migrate *migrate.Migrate, logger *slog.Logger) {
	sourceError, databaseError := migrate.Close()
	if sourceError != nil || databaseError != nil {
		logger.Error(
			"failed to close the migrate",
			slog.Any("source_error", sourceError),
			slog.Any("database_error", databaseError),
		)
	}
}

// parseRole converts a role string to principalDomain.Role.
func parseRole(role string) (principalDomain.Role, error) {
	switch role {
	case "admin":
		return principalDomain.RoleAdmin, nil
	case "technician":
		return principalDomain.RoleTechnician, nil
	default:
		return "", fmt.Errorf("invalid role: %s (valid options: admin, technician)", role)
	}
}

// parsePermissions converts a comma-separated string into a permission slice.
// Empty input yields nil, which is valid for admins.
func parsePermissions(input string) []string {
	if input == "" {
		return nil
	}

	parts := strings.Split(input, ",")
	permissions := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			permissions = append(permissions, trimmed)
		}
	}

	if len(permissions) == 0 {
		return nil
	}
	return permissions
}
