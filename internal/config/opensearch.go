package config

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"github.com/opensearch-project/opensearch-go/v2"
)

type OpenSearchConfig struct {
	Host          string
	Port          string
	Username      string
	Password      string
	IndexPrefix   string
	SkipTLSVerify bool
}

func DefaultOpenSearchConfig() *OpenSearchConfig {
	return &OpenSearchConfig{
		Host:          getEnvWithDefault("OPENSEARCH_HOST", "localhost"),
		Port:          getEnvWithDefault("OPENSEARCH_PORT", "9200"),
		Username:      getEnvWithDefault("OPENSEARCH_USERNAME", ""),
		Password:      getEnvWithDefault("OPENSEARCH_PASSWORD", ""),
		IndexPrefix:   getEnvWithDefault("OPENSEARCH_INDEX_PREFIX", "tenant_guard_audit"),
		SkipTLSVerify: getEnvWithDefault("OPENSEARCH_SKIP_TLS_VERIFY", "true") == "true",
	}
}

func (c *OpenSearchConfig) GetClient() (*opensearch.Client, error) {
	config := opensearch.Config{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: c.SkipTLSVerify,
			},
		},
		Addresses: []string{
			fmt.Sprintf("http://%s:%s", c.Host, c.Port),
		},
	}

	if c.Username != "" && c.Password != "" {
		config.Username = c.Username
		config.Password = c.Password
	}

	return opensearch.NewClient(config)
}

// GetIndexName returns the monthly index an entry created at t belongs to.
// Format: <prefix>_YYYY_MM
func (c *OpenSearchConfig) GetIndexName(t time.Time) string {
	return fmt.Sprintf("%s_%s", c.IndexPrefix, t.UTC().Format("2006_01"))
}

// GetIndexPattern matches every monthly audit index.
func (c *OpenSearchConfig) GetIndexPattern() string {
	return c.IndexPrefix + "_*"
}
