package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	for _, env := range []string{"development", "production", ""} {
		log, err := New(env, "test")
		require.NoError(t, err)
		require.NotNil(t, log)
	}
}
