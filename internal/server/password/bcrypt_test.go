package password

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("Secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret1", hash)

	assert.True(t, h.Verify("Secret1", hash))
	assert.False(t, h.Verify("secret1", hash))
	assert.False(t, h.Verify("", hash))
}

func TestBcryptHasher_SaltsEachHash(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, h.Verify("same", a))
	assert.True(t, h.Verify("same", b))
}

func TestBcryptHasher_MalformedHashIsFalse(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	for _, bad := range []string{"", "plain", "$2a$10$short", "Secret1"} {
		assert.False(t, h.Verify("Secret1", bad), "hash %q", bad)
	}
}

func TestBcryptHasher_TooLongPasswordFails(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	_, err := h.Hash(strings.Repeat("x", 73))
	assert.Error(t, err)
}

func TestNewBcryptHasher_CostClamp(t *testing.T) {
	assert.Equal(t, DefaultCost, NewBcryptHasher(0).Cost())
	assert.Equal(t, bcrypt.MinCost, NewBcryptHasher(1).Cost())
	assert.Equal(t, bcrypt.MaxCost, NewBcryptHasher(99).Cost())
	assert.Equal(t, 12, NewBcryptHasher(12).Cost())
}

func TestBcryptHasher_Concurrent(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hash, err := h.Hash("pw123456")
			if err != nil || !h.Verify("pw123456", hash) {
				t.Errorf("concurrent hash/verify failed: %v", err)
			}
		}()
	}
	wg.Wait()
}
