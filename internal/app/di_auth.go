package app

import (
	"fmt"

	authHTTP "github.com/suportify/helpdesk/internal/auth/http"
	authService "github.com/suportify/helpdesk/internal/auth/service"
	authUseCase "github.com/suportify/helpdesk/internal/auth/usecase"
	"github.com/suportify/helpdesk/internal/netgate"
)

// TokenService returns the bearer token service.
func (c *Container) TokenService() (authService.TokenService, error) {
	var err error
	c.tokenServiceInit.Do(func() {
		c.tokenService, err = c.initTokenService()
		if err != nil {
			c.initErrors["tokenService"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenService"]; exists {
		return nil, storedErr
	}
	return c.tokenService, nil
}

// LoginUseCase returns the login use case.
func (c *Container) LoginUseCase() (authUseCase.LoginUseCase, error) {
	var err error
	c.loginUCInit.Do(func() {
		c.loginUC, err = c.initLoginUseCase()
		if err != nil {
			c.initErrors["loginUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["loginUseCase"]; exists {
		return nil, storedErr
	}
	return c.loginUC, nil
}

// IdentityResolver returns the bearer token identity resolver.
func (c *Container) IdentityResolver() (authUseCase.IdentityResolver, error) {
	var err error
	c.identityResolverInit.Do(func() {
		c.identityResolver, err = c.initIdentityResolver()
		if err != nil {
			c.initErrors["identityResolver"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["identityResolver"]; exists {
		return nil, storedErr
	}
	return c.identityResolver, nil
}

// StaffNetworkRanges returns the CIDR allow-list for staff-authenticated calls.
func (c *Container) StaffNetworkRanges() (*netgate.RangeSet, error) {
	var err error
	c.staffNetworkRangesInit.Do(func() {
		c.staffNetworkRanges, err = netgate.ParseRanges(c.config.StaffNetworkRanges)
		if err != nil {
			c.initErrors["staffNetworkRanges"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["staffNetworkRanges"]; exists {
		return nil, storedErr
	}
	return c.staffNetworkRanges, nil
}

// StaffLoginNetworkRanges returns the CIDR allow-list for the staff login endpoint.
func (c *Container) StaffLoginNetworkRanges() (*netgate.RangeSet, error) {
	var err error
	c.staffLoginNetworkRangesInit.Do(func() {
		c.staffLoginNetworkRanges, err = netgate.ParseRanges(c.config.StaffLoginNetworkRanges)
		if err != nil {
			c.initErrors["staffLoginNetworkRanges"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["staffLoginNetworkRanges"]; exists {
		return nil, storedErr
	}
	return c.staffLoginNetworkRanges, nil
}

// LoginHandler returns the HTTP handler for the login endpoints.
func (c *Container) LoginHandler() (*authHTTP.LoginHandler, error) {
	var err error
	c.loginHandlerInit.Do(func() {
		c.loginHandler, err = c.initLoginHandler()
		if err != nil {
			c.initErrors["loginHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["loginHandler"]; exists {
		return nil, storedErr
	}
	return c.loginHandler, nil
}

// initTokenService creates the token service from the configured secret.
func (c *Container) initTokenService() (authService.TokenService, error) {
	tokenService, err := authService.NewTokenService(
		c.config.AuthSecretKey,
		c.config.StaffTokenExpiration,
		c.config.ClientTokenExpiration,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}
	return tokenService, nil
}

// initLoginUseCase creates the login use case with all its dependencies.
func (c *Container) initLoginUseCase() (authUseCase.LoginUseCase, error) {
	store, err := c.PrincipalStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get principal store for login use case: %w", err)
	}

	tokenService, err := c.TokenService()
	if err != nil {
		return nil, fmt.Errorf("failed to get token service for login use case: %w", err)
	}

	passwordService, err := c.PasswordService()
	if err != nil {
		return nil, fmt.Errorf("failed to get password service for login use case: %w", err)
	}

	return authUseCase.NewLoginUseCase(store, tokenService, passwordService), nil
}

// initIdentityResolver creates the identity resolver with all its dependencies.
func (c *Container) initIdentityResolver() (authUseCase.IdentityResolver, error) {
	tokenService, err := c.TokenService()
	if err != nil {
		return nil, fmt.Errorf("failed to get token service for identity resolver: %w", err)
	}

	store, err := c.PrincipalStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get principal store for identity resolver: %w", err)
	}

	return authUseCase.NewIdentityResolver(tokenService, store, c.Logger()), nil
}

// initLoginHandler creates the login HTTP handler.
func (c *Container) initLoginHandler() (*authHTTP.LoginHandler, error) {
	loginUseCase, err := c.LoginUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get login use case for login handler: %w", err)
	}

	return authHTTP.NewLoginHandler(loginUseCase, c.Logger()), nil
}
