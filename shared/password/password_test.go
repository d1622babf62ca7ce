package password_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"hotelops/shared/password"
)

func TestHash(t *testing.T) {
	tests := []struct {
		name    string
		plain   string
		wantErr error
	}{
		{name: "staff password", plain: "frontdesk-2024"},
		{name: "exactly 72 bytes", plain: strings.Repeat("a", 72)},
		{name: "empty", plain: "", wantErr: password.ErrEmptyPassword},
		{name: "over 72 bytes", plain: strings.Repeat("a", 73), wantErr: password.ErrPasswordTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hashed, err := password.Hash(tt.plain)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, hashed)

				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, tt.plain, hashed)
			assert.NoError(t, password.Verify(tt.plain, hashed))
		})
	}
}

func TestHash_Salted(t *testing.T) {
	first, err := password.Hash("reception")
	require.NoError(t, err)

	second, err := password.Hash("reception")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerify(t *testing.T) {
	hashed, err := password.Hash("housekeeping")
	require.NoError(t, err)

	tests := []struct {
		name    string
		plain   string
		hashed  string
		wantErr error
		anyErr  bool
	}{
		{name: "match", plain: "housekeeping", hashed: hashed},
		{name: "wrong password", plain: "Housekeeping", hashed: hashed, wantErr: password.ErrInvalidPassword},
		{name: "empty password", plain: "", hashed: hashed, wantErr: password.ErrInvalidPassword},
		{name: "empty hash", plain: "housekeeping", hashed: "", wantErr: password.ErrInvalidPassword},
		{name: "malformed hash", plain: "housekeeping", hashed: "not-a-bcrypt-hash", anyErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := password.Verify(tt.plain, tt.hashed)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				assert.Error(t, err)
				assert.NotErrorIs(t, err, password.ErrInvalidPassword)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestNeedsRehash(t *testing.T) {
	current, err := password.Hash("night-audit")
	require.NoError(t, err)

	weak, err := bcrypt.GenerateFromPassword([]byte("night-audit"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.False(t, password.NeedsRehash(current))
	assert.True(t, password.NeedsRehash(string(weak)))
	assert.True(t, password.NeedsRehash("garbage"))
}
