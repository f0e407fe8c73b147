package crypto

import (
	"context"
	"encoding/base64"
	"fmt"

	"gocloud.dev/secrets"

	// Register KMS provider drivers.
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// LoadKey resolves the vault field-encryption key at startup.
//
// Without a KMS URI the plain hex key from configuration is returned as-is.
// With a KMS URI, the base64 ciphertext is unwrapped through the matching
// gocloud.dev/secrets keeper (gcpkms://, awskms://, azurekeyvault://,
// hashivault://, base64key://) and the result is used instead. Either way
// the key is read exactly once; the cipher never re-reads configuration.
func LoadKey(ctx context.Context, kmsURI, keyCiphertextB64, plainHexKey string) (string, error) {
	if kmsURI == "" {
		return plainHexKey, nil
	}

	keeper, err := secrets.OpenKeeper(ctx, kmsURI)
	if err != nil {
		return "", fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer keeper.Close()

	ciphertext, err := base64.StdEncoding.DecodeString(keyCiphertextB64)
	if err != nil {
		return "", fmt.Errorf("vault key ciphertext is not valid base64: %w", err)
	}

	hexKey, err := keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return "", fmt.Errorf("failed to unwrap vault key: %w", err)
	}

	return string(hexKey), nil
}

// WrapKey encrypts a hex key through the KMS keeper at the given URI and
// returns the base64 ciphertext suitable for configuration storage. It is
// the inverse of the KMS branch of LoadKey.
func WrapKey(ctx context.Context, kmsURI, hexKey string) (string, error) {
	keeper, err := secrets.OpenKeeper(ctx, kmsURI)
	if err != nil {
		return "", fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer keeper.Close()

	ciphertext, err := keeper.Encrypt(ctx, []byte(hexKey))
	if err != nil {
		return "", fmt.Errorf("failed to wrap vault key: %w", err)
	}

	return base64.StdEncoding.EncodeToString(ciphertext), nil
}
