package app

import (
	"context"
	"fmt"

	"github.com/suportify/helpdesk/internal/crypto"
	vaultHTTP "github.com/suportify/helpdesk/internal/vault/http"
	vaultRepository "github.com/suportify/helpdesk/internal/vault/repository"
	vaultUseCase "github.com/suportify/helpdesk/internal/vault/usecase"
)

// FieldCipher returns the vault field cipher. The key is resolved through
// the configured KMS keeper when one is set, otherwise the plain hex key
// from the environment is used. A missing or malformed key produces a
// pass-through cipher rather than an error.
func (c *Container) FieldCipher() (*crypto.FieldCipher, error) {
	var err error
	c.fieldCipherInit.Do(func() {
		c.fieldCipher, err = c.initFieldCipher()
		if err != nil {
			c.initErrors["fieldCipher"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["fieldCipher"]; exists {
		return nil, storedErr
	}
	return c.fieldCipher, nil
}

// VaultRepository returns the vault repository based on database driver.
func (c *Container) VaultRepository() (vaultUseCase.VaultRepository, error) {
	var err error
	c.vaultRepositoryInit.Do(func() {
		c.vaultRepository, err = c.initVaultRepository()
		if err != nil {
			c.initErrors["vaultRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["vaultRepository"]; exists {
		return nil, storedErr
	}
	return c.vaultRepository, nil
}

// VaultUseCase returns the vault use case.
func (c *Container) VaultUseCase() (vaultUseCase.VaultUseCase, error) {
	var err error
	c.vaultUCInit.Do(func() {
		c.vaultUC, err = c.initVaultUseCase()
		if err != nil {
			c.initErrors["vaultUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["vaultUseCase"]; exists {
		return nil, storedErr
	}
	return c.vaultUC, nil
}

// VaultHandler returns the HTTP handler for vault operations.
func (c *Container) VaultHandler() (*vaultHTTP.VaultHandler, error) {
	var err error
	c.vaultHandlerInit.Do(func() {
		c.vaultHandler, err = c.initVaultHandler()
		if err != nil {
			c.initErrors["vaultHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["vaultHandler"]; exists {
		return nil, storedErr
	}
	return c.vaultHandler, nil
}

// initFieldCipher resolves the encryption key and creates the field cipher.
func (c *Container) initFieldCipher() (*crypto.FieldCipher, error) {
	hexKey, err := crypto.LoadKey(
		context.Background(),
		c.config.VaultKeyKMSURI,
		c.config.VaultEncryptionKeyCiphertext,
		c.config.VaultEncryptionKey,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load vault encryption key: %w", err)
	}

	return crypto.NewFieldCipher(hexKey, c.Logger()), nil
}

// initVaultRepository creates the vault repository based on the database driver.
func (c *Container) initVaultRepository() (vaultUseCase.VaultRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for vault repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return vaultRepository.NewPostgreSQLVaultRepository(db), nil
	case "mysql":
		return vaultRepository.NewMySQLVaultRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initVaultUseCase creates the vault use case with all its dependencies.
func (c *Container) initVaultUseCase() (vaultUseCase.VaultUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for vault use case: %w", err)
	}

	repo, err := c.VaultRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get vault repository for vault use case: %w", err)
	}

	cipher, err := c.FieldCipher()
	if err != nil {
		return nil, fmt.Errorf("failed to get field cipher for vault use case: %w", err)
	}

	baseUseCase := vaultUseCase.NewVaultUseCase(txManager, repo, cipher)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for vault use case: %w", err)
		}
		return vaultUseCase.NewVaultUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initVaultHandler creates the vault HTTP handler.
func (c *Container) initVaultHandler() (*vaultHTTP.VaultHandler, error) {
	useCase, err := c.VaultUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get vault use case for vault handler: %w", err)
	}

	return vaultHTTP.NewVaultHandler(useCase, c.Logger()), nil
}
