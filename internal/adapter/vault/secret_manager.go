package vault

import (
	"context"
	"fmt"

	"github.com/hashicorp/vault/api"
	"go.uber.org/zap"
)

// SecretManager reads the AI credential from a KV v2 mount.
type SecretManager struct {
	client *api.Client
	path   string
	log    *zap.Logger
}

func NewSecretManager(address, token, path string, log *zap.Logger) (*SecretManager, error) {
	config := api.DefaultConfig()
	config.Address = address

	client, err := api.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}

	client.SetToken(token)

	return &SecretManager{client: client, path: path, log: log}, nil
}

func (sm *SecretManager) GetGeminiAPIKey(ctx context.Context) (string, error) {
	secret, err := sm.client.Logical().ReadWithContext(ctx, sm.path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", sm.path, err)
	}
	return apiKeyFromSecret(secret)
}

func apiKeyFromSecret(secret *api.Secret) (string, error) {
	if secret == nil || secret.Data == nil {
		return "", fmt.Errorf("secret not found")
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("secret has no data section")
	}

	key, ok := data["api_key"].(string)
	if !ok {
		return "", fmt.Errorf("secret has no api_key string")
	}

	return key, nil
}
