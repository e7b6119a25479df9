package identity_test

import (
	"strings"
	"testing"

	"codeberg.org/mutker/airnode/internal/identity"
	"github.com/stretchr/testify/assert"
)

func TestDeviceIDStableWithinProcess(t *testing.T) {
	first := identity.DeviceID()
	second := identity.DeviceID()

	assert.Equal(t, first, second)
	assert.True(t, strings.HasPrefix(first, "airnode-"))
	assert.Greater(t, len(first), len("airnode-"))
}

func TestDeviceIDIsTopicSafe(t *testing.T) {
	id := identity.DeviceID()

	// The identity is interpolated into topic templates and must not
	// introduce separators or wildcards
	assert.NotContains(t, id, "/")
	assert.NotContains(t, id, "+")
	assert.NotContains(t, id, "#")
	assert.NotContains(t, id, " ")
}
