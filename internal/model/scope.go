package model

// Scope carries the identity of the user a request is acting for.
type Scope struct {
	UserID   string // e.g. "telegram_123456"
	Username string
}

// Environment names the deployment environment.
type Environment string

const (
	EnvironmentDevelopment Environment = "development"
	EnvironmentProduction  Environment = "production"
)
