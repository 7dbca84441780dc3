package config

// Config holds all configuration for the application.
type Config struct {
	DBName             string
	Port               string
	Turso              TursoConfig
	Admin              AdminConfig
	CORSAllowedOrigins []string
	Slack              SlackConfig
	ProjectID          string
	R2                 R2Config
	DefaultPlayerImage string
}
type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}
type AdminConfig struct {
	Username     string
	PasswordHash string
}
type SlackConfig struct {
	Token     string
	ChannelID string
}
type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicBaseURL   string
}

// Enabled reports whether every R2 setting is present.
func (c R2Config) Enabled() bool {
	return c.AccountID != "" && c.AccessKeyID != "" && c.SecretAccessKey != "" && c.BucketName != "" && c.PublicBaseURL != ""
}
