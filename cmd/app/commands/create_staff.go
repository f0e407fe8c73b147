package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	principalDomain "github.com/suportify/helpdesk/internal/principal/domain"
	principalUseCase "github.com/suportify/helpdesk/internal/principal/usecase"
)

// RunCreateStaff creates a new staff-realm principal. Staff accounts are
// provisioned from the command line only; there is no self-registration
// endpoint for the staff realm. Outputs the new staff id in either text or
// JSON format.
//
// Requirements: Database must be migrated and accessible.
func RunCreateStaff(
	ctx context.Context,
	useCase principalUseCase.PrincipalUseCase,
	logger *slog.Logger,
	email string,
	password string,
	roleStr string,
	permissionsCSV string,
	active bool,
	format string,
	io IOTuple,
) error {
	logger.Info("creating new staff principal", slog.String("email", email))

	role, err := parseRole(roleStr)
	if err != nil {
		return err
	}

	permissions := parsePermissions(permissionsCSV)

	staff, err := useCase.CreateStaff(ctx, email, password, role, permissions, active)
	if err != nil {
		return fmt.Errorf("failed to create staff: %w", err)
	}

	if format == "json" {
		outputStaffJSON(staff, io.Writer)
	} else {
		outputStaffText(staff, io.Writer)
	}

	logger.Info("staff created successfully",
		slog.String("staff_id", staff.ID.String()),
		slog.String("role", string(staff.Role)),
		slog.Bool("active", staff.Active),
	)

	return nil
}

// outputStaffText outputs the result in human-readable text format.
func outputStaffText(staff *principalDomain.Staff, writer io.Writer) {
	_, _ = fmt.Fprintln(writer, "\nStaff created successfully!")
	_, _ = fmt.Fprintf(writer, "Staff ID: %s\n", staff.ID.String())
	_, _ = fmt.Fprintf(writer, "Email: %s\n", staff.Email)
	_, _ = fmt.Fprintf(writer, "Role: %s\n", staff.Role)
	_, _ = fmt.Fprintf(writer, "Active: %t\n", staff.Active)
}

// outputStaffJSON outputs the result in JSON format for machine consumption.
func outputStaffJSON(staff *principalDomain.Staff, writer io.Writer) {
	result := map[string]any{
		"staff_id": staff.ID.String(),
		"email":    staff.Email,
		"role":     string(staff.Role),
		"active":   staff.Active,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
