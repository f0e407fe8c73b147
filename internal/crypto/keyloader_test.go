package crypto

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/secrets"
)

// base64key keeper backed by a fixed 32-byte test key.
const localKeeperURI = "base64key://smGbjm71Nxd1Ig5FS0wj9SlbzAIrnolCz9bQQ6uAhl4="

func TestLoadKey_WithoutKMS(t *testing.T) {
	got, err := LoadKey(context.Background(), "", "", testKey)

	require.NoError(t, err)
	assert.Equal(t, testKey, got)
}

func TestLoadKey_UnwrapsThroughKeeper(t *testing.T) {
	ctx := context.Background()

	keeper, err := secrets.OpenKeeper(ctx, localKeeperURI)
	require.NoError(t, err)
	defer keeper.Close()

	wrapped, err := keeper.Encrypt(ctx, []byte(testKey))
	require.NoError(t, err)

	got, err := LoadKey(ctx, localKeeperURI, base64.StdEncoding.EncodeToString(wrapped), "")
	require.NoError(t, err)
	assert.Equal(t, testKey, got)
}

func TestLoadKey_InvalidBase64Ciphertext(t *testing.T) {
	_, err := LoadKey(context.Background(), localKeeperURI, "%%%not-base64%%%", "")

	assert.Error(t, err)
}

func TestLoadKey_InvalidKeeperURI(t *testing.T) {
	_, err := LoadKey(context.Background(), "bogus://nope", "", "")

	assert.Error(t, err)
}
