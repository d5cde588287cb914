package config_entries

type ApplePushSecretConfig struct {
	BundleID string `json:"bundle_id" yaml:"bundle_id"`
	// content of the .p8 auth key
	AuthKey string `json:"auth_key" yaml:"auth_key"`
	KeyID   string `json:"key_id" yaml:"key_id"`
	TeamID  string `json:"team_id" yaml:"team_id"`
}

// Enabled reports whether enough is configured to build a token based APNs client.
func (c ApplePushSecretConfig) Enabled() bool {
	return len(c.AuthKey) > 0 && len(c.KeyID) > 0 && len(c.TeamID) > 0
}

type FirebaseConfig struct {
	ProjectID                 string `json:"project_id" yaml:"project_id"`
	ServiceAccountFileContent string `json:"service_account_file_content" yaml:"service_account_file_content"`
	ServiceAccountFile        string `json:"service_account_file" yaml:"service_account_file"`
	// iOS bundle id the APNs tokens belong to, sent as "application" to the IID API
	BundleID string `json:"bundle_id" yaml:"bundle_id"`
	// true when the APNs tokens come from the sandbox environment
	Sandbox bool `json:"sandbox" yaml:"sandbox"`
	// overrides https://iid.googleapis.com, mostly for tests
	IIDEndpoint string `json:"iid_endpoint" yaml:"iid_endpoint"`
	// max attempts of one APNs -> FCM token exchange
	MaxExchangeRetries int `json:"max_exchange_retries" yaml:"max_exchange_retries"`
}
