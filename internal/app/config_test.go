package app

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/wedsite-backend/internal/services"
)

func TestConfigFieldsOmitSecrets(t *testing.T) {
	cfg := Config{HTTPAddr: ":9090", Auth: services.AuthConfig{JWTSecretKey: "super-secret-signing-key"}}

	fields := configFields(cfg)
	require.Zero(t, len(fields)%2, "fields must be key/value pairs")
	kv := map[string]interface{}{}
	for i := 0; i < len(fields); i += 2 {
		kv[fields[i].(string)] = fields[i+1]
		assert.NotContains(t, fmt.Sprint(fields[i+1]), "super-secret-signing-key")
	}
	assert.NotContains(t, kv, "jwt_secret_key")
	assert.Equal(t, true, kv["jwt_secret_set"])
	assert.Equal(t, ":9090", kv["http_addr"])

	cfg.Auth.JWTSecretKey = ""
	for i, f := range configFields(cfg) {
		if f == "jwt_secret_set" {
			assert.Equal(t, false, configFields(cfg)[i+1])
		}
	}
}
