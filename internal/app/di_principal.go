package app

import (
	"fmt"

	principalHTTP "github.com/suportify/helpdesk/internal/principal/http"
	principalRepository "github.com/suportify/helpdesk/internal/principal/repository"
	principalService "github.com/suportify/helpdesk/internal/principal/service"
	principalUseCase "github.com/suportify/helpdesk/internal/principal/usecase"
)

// PasswordService returns the password hashing service.
func (c *Container) PasswordService() (principalService.PasswordService, error) {
	var err error
	c.passwordServiceInit.Do(func() {
		c.passwordService, err = principalService.NewPasswordService()
		if err != nil {
			c.initErrors["passwordService"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["passwordService"]; exists {
		return nil, storedErr
	}
	return c.passwordService, nil
}

// ClientRepository returns the client repository based on database driver.
func (c *Container) ClientRepository() (principalUseCase.ClientRepository, error) {
	var err error
	c.clientRepositoryInit.Do(func() {
		c.clientRepository, err = c.initClientRepository()
		if err != nil {
			c.initErrors["clientRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["clientRepository"]; exists {
		return nil, storedErr
	}
	return c.clientRepository, nil
}

// StaffRepository returns the staff repository based on database driver.
func (c *Container) StaffRepository() (principalUseCase.StaffRepository, error) {
	var err error
	c.staffRepositoryInit.Do(func() {
		c.staffRepository, err = c.initStaffRepository()
		if err != nil {
			c.initErrors["staffRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["staffRepository"]; exists {
		return nil, storedErr
	}
	return c.staffRepository, nil
}

// PrincipalStore returns the dual-realm principal store.
func (c *Container) PrincipalStore() (principalUseCase.Store, error) {
	var err error
	c.principalStoreInit.Do(func() {
		c.principalStore, err = c.initPrincipalStore()
		if err != nil {
			c.initErrors["principalStore"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["principalStore"]; exists {
		return nil, storedErr
	}
	return c.principalStore, nil
}

// PrincipalUseCase returns the principal use case.
func (c *Container) PrincipalUseCase() (principalUseCase.PrincipalUseCase, error) {
	var err error
	c.principalUCInit.Do(func() {
		c.principalUC, err = c.initPrincipalUseCase()
		if err != nil {
			c.initErrors["principalUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["principalUseCase"]; exists {
		return nil, storedErr
	}
	return c.principalUC, nil
}

// PrincipalHandler returns the HTTP handler for principal operations.
func (c *Container) PrincipalHandler() (*principalHTTP.PrincipalHandler, error) {
	var err error
	c.principalHandlerInit.Do(func() {
		c.principalHandler, err = c.initPrincipalHandler()
		if err != nil {
			c.initErrors["principalHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["principalHandler"]; exists {
		return nil, storedErr
	}
	return c.principalHandler, nil
}

// initClientRepository creates the client repository based on the database driver.
func (c *Container) initClientRepository() (principalUseCase.ClientRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for client repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return principalRepository.NewPostgreSQLClientRepository(db), nil
	case "mysql":
		return principalRepository.NewMySQLClientRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initStaffRepository creates the staff repository based on the database driver.
func (c *Container) initStaffRepository() (principalUseCase.StaffRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for staff repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return principalRepository.NewPostgreSQLStaffRepository(db), nil
	case "mysql":
		return principalRepository.NewMySQLStaffRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initPrincipalStore creates the dual-realm store over both repositories.
func (c *Container) initPrincipalStore() (principalUseCase.Store, error) {
	clientRepo, err := c.ClientRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get client repository for principal store: %w", err)
	}

	staffRepo, err := c.StaffRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get staff repository for principal store: %w", err)
	}

	return principalUseCase.NewStore(clientRepo, staffRepo), nil
}

// initPrincipalUseCase creates the principal use case with all its dependencies.
func (c *Container) initPrincipalUseCase() (principalUseCase.PrincipalUseCase, error) {
	clientRepo, err := c.ClientRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get client repository for principal use case: %w", err)
	}

	staffRepo, err := c.StaffRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get staff repository for principal use case: %w", err)
	}

	passwordService, err := c.PasswordService()
	if err != nil {
		return nil, fmt.Errorf("failed to get password service for principal use case: %w", err)
	}

	return principalUseCase.NewPrincipalUseCase(clientRepo, staffRepo, passwordService), nil
}

// initPrincipalHandler creates the principal HTTP handler.
func (c *Container) initPrincipalHandler() (*principalHTTP.PrincipalHandler, error) {
	useCase, err := c.PrincipalUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get principal use case for principal handler: %w", err)
	}

	return principalHTTP.NewPrincipalHandler(useCase, c.Logger()), nil
}
