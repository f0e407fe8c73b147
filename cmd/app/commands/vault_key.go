package commands

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/suportify/helpdesk/internal/crypto"
)

// RunGenerateVaultKey generates a 256-bit vault field-encryption key and
// prints it as 64 hexadecimal characters.
//
// Without a KMS URI the plain hex key is printed for VAULT_ENCRYPTION_KEY.
// With a KMS URI the key is additionally wrapped through the keeper and the
// base64 ciphertext is printed for VAULT_ENCRYPTION_KEY_CIPHERTEXT, so the
// plaintext key never has to live in configuration.
func RunGenerateVaultKey(ctx context.Context, kmsURI string, writer io.Writer) error {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return fmt.Errorf("failed to generate vault key: %w", err)
	}
	hexKey := hex.EncodeToString(key)

	if kmsURI == "" {
		_, _ = fmt.Fprintf(writer, "VAULT_ENCRYPTION_KEY=%s\n", hexKey)
		_, _ = fmt.Fprintln(writer, "\nIMPORTANT: Store this key securely. Data encrypted with it")
		_, _ = fmt.Fprintln(writer, "cannot be recovered if the key is lost.")
		return nil
	}

	ciphertext, err := crypto.WrapKey(ctx, kmsURI, hexKey)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(writer, "VAULT_KEY_KMS_URI=%s\n", kmsURI)
	_, _ = fmt.Fprintf(writer, "VAULT_ENCRYPTION_KEY_CIPHERTEXT=%s\n", ciphertext)
	return nil
}
