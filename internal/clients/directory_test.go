package clients

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const directoryYAML = `
clients:
  - phone_number_id: "111"
    name: Cabinet Lumière
    access_token: token-111
    instructions: |
      Tu es l'assistante du cabinet Lumière.
    active: true
  - phone_number_id: "222"
    name: Ancien cabinet
    access_token: token-222
    active: false
`

func TestParseDirectory(t *testing.T) {
	d, err := ParseDirectory([]byte(directoryYAML))
	require.NoError(t, err)
	assert.Equal(t, 1, d.Len())

	p, err := d.FindActive(context.Background(), "111")
	require.NoError(t, err)
	assert.Equal(t, "Cabinet Lumière", p.DisplayName)
	assert.Equal(t, "token-111", p.AccessToken)
	assert.Equal(t, "Tu es l'assistante du cabinet Lumière.\n", p.Instructions)

	_, err = d.FindActive(context.Background(), "222")
	assert.ErrorIs(t, err, ErrNoProfile)
}

func TestParseProfiles_KeepsInactive(t *testing.T) {
	profiles, err := ParseProfiles([]byte(directoryYAML))
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "222", profiles[1].EndpointID)
	assert.False(t, profiles[1].Active)
	assert.Equal(t, "token-222", profiles[1].AccessToken)
}

func TestParseDirectory_MissingNumber(t *testing.T) {
	_, err := ParseDirectory([]byte("clients:\n  - name: sans numero\n    active: true\n"))
	assert.Error(t, err)
}

func TestLoadInstructions(t *testing.T) {
	dir := t.TempDir()

	plain := filepath.Join(dir, "plain.txt")
	require.NoError(t, os.WriteFile(plain, []byte("Sois concise.\n"), 0o600))
	got, err := LoadInstructions(plain)
	require.NoError(t, err)
	assert.Equal(t, "Sois concise.", got)

	structured := filepath.Join(dir, "instructions.yaml")
	require.NoError(t, os.WriteFile(structured, []byte("instructions: |\n  Sois chaleureuse.\n"), 0o600))
	got, err = LoadInstructions(structured)
	require.NoError(t, err)
	assert.Equal(t, "Sois chaleureuse.", got)

	got, err = LoadInstructions("")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = LoadInstructions(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
