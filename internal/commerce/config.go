package commerce

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Environment keys reported in MissingConfigurationError
const (
	KeyClientID     = "SALESFORCE_CLIENT_ID"
	KeyClientSecret = "SALESFORCE_CLIENT_SECRET"
	KeyUsername     = "SALESFORCE_USERNAME"
	KeyPassword     = "SALESFORCE_PASSWORD"
	KeyBaseEndpoint = "SALESFORCE_BASE_ENDPOINT"
	KeyAPIVersion   = "SALESFORCE_API_VERSION"
	KeyPricebookID  = "SALESFORCE_PRICEBOOK_ID"
	KeyOrderUser    = "SALESFORCE_ORDER_USER"
)

var (
	credentialKeys = []string{KeyClientID, KeyClientSecret, KeyUsername, KeyPassword, KeyBaseEndpoint}
	catalogKeys    = []string{KeyBaseEndpoint, KeyAPIVersion, KeyPricebookID}
	submissionKeys = []string{KeyBaseEndpoint, KeyAPIVersion, KeyOrderUser}
)

// Config holds the commerce backend connection settings
type Config struct {
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	BaseEndpoint string
	APIVersion   string
	PricebookID  string
	OrderUser    string

	TokenCacheTTL     time.Duration
	SubmissionTimeout time.Duration
	RetryMax          int
}

func (c Config) value(key string) string {
	switch key {
	case KeyClientID:
		return c.ClientID
	case KeyClientSecret:
		return c.ClientSecret
	case KeyUsername:
		return c.Username
	case KeyPassword:
		return c.Password
	case KeyBaseEndpoint:
		return c.BaseEndpoint
	case KeyAPIVersion:
		return c.APIVersion
	case KeyPricebookID:
		return c.PricebookID
	case KeyOrderUser:
		return c.OrderUser
	}
	return ""
}

func (c Config) require(keys ...string) error {
	var missing []string
	for _, key := range keys {
		if strings.TrimSpace(c.value(key)) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return &MissingConfigurationError{Keys: missing}
	}
	return nil
}

// Validate reports every unset key
func (c Config) Validate() error {
	seen := make(map[string]bool)
	var all []string
	for _, group := range [][]string{credentialKeys, catalogKeys, submissionKeys} {
		for _, key := range group {
			if !seen[key] {
				seen[key] = true
				all = append(all, key)
			}
		}
	}
	if err := c.require(all...); err != nil {
		return err
	}
	_, err := c.versionSegment()
	return err
}

// versionSegment formats the API version as the URL segment, e.g. "60"
// becomes "v60.0".
func (c Config) versionSegment() (string, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(c.APIVersion), 64)
	if err != nil {
		return "", &MissingConfigurationError{
			Keys:   []string{KeyAPIVersion},
			Reason: fmt.Sprintf("invalid version %q", c.APIVersion),
		}
	}
	return fmt.Sprintf("v%.1f", v), nil
}

func (c Config) dataURL(base, path string) (string, error) {
	version, err := c.versionSegment()
	if err != nil {
		return "", err
	}
	return strings.TrimRight(base, "/") + "/services/data/" + version + "/" + strings.TrimLeft(path, "/"), nil
}
