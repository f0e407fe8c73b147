package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"

	principalDomain "github.com/suportify/helpdesk/internal/principal/domain"
	principalUseCase "github.com/suportify/helpdesk/internal/principal/usecase"
)

// RunPromoteClient grants or revokes the organization-lead capability on a
// client principal. Leads may view other clients of the same organization,
// so the capability is assigned from the command line only, like staff
// accounts. Outputs the updated client in either text or JSON format.
//
// Requirements: Database must be migrated and accessible.
func RunPromoteClient(
	ctx context.Context,
	useCase principalUseCase.PrincipalUseCase,
	logger *slog.Logger,
	clientIDStr string,
	lead bool,
	format string,
	io IOTuple,
) error {
	clientID, err := uuid.Parse(clientIDStr)
	if err != nil {
		return fmt.Errorf("invalid client id: %w", err)
	}

	logger.Info("updating organization lead capability",
		slog.String("client_id", clientID.String()),
		slog.Bool("lead", lead),
	)

	client, err := useCase.SetOrganizationLead(ctx, clientID, lead)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}

	if format == "json" {
		outputClientJSON(client, io.Writer)
	} else {
		outputClientText(client, io.Writer)
	}

	logger.Info("client updated successfully",
		slog.String("client_id", client.ID.String()),
		slog.Bool("is_organization_lead", client.IsOrganizationLead),
	)

	return nil
}

// outputClientText outputs the result in human-readable text format.
func outputClientText(client *principalDomain.Client, writer io.Writer) {
	_, _ = fmt.Fprintln(writer, "\nClient updated successfully!")
	_, _ = fmt.Fprintf(writer, "Client ID: %s\n", client.ID.String())
	_, _ = fmt.Fprintf(writer, "Email: %s\n", client.Email)
	_, _ = fmt.Fprintf(writer, "Organization: %s\n", client.OrganizationName)
	_, _ = fmt.Fprintf(writer, "Organization lead: %t\n", client.IsOrganizationLead)
}

// outputClientJSON outputs the result in JSON format for machine consumption.
func outputClientJSON(client *principalDomain.Client, writer io.Writer) {
	result := map[string]any{
		"client_id":            client.ID.String(),
		"email":                client.Email,
		"organization_name":    client.OrganizationName,
		"is_organization_lead": client.IsOrganizationLead,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
