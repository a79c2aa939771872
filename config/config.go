package config

// AppConfig holds the application configuration
type AppConfig struct {
	DBURL        string
	RedisAddress string
	BearerToken  string
	ListenAddr   string
	UploadDir    string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPass     string
}

// GetBearerToken returns the BearerToken from the config
func (c *AppConfig) GetBearerToken() string {
	return c.BearerToken
}

// MailEnabled reports whether SMTP delivery is configured.
func (c *AppConfig) MailEnabled() bool {
	return c.SMTPHost != "" && c.SMTPUser != ""
}
