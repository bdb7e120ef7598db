package server

import "time"

// Configuration of fishmap server.
//
// to get `ServerConfig` instance, use `ServerConfigMarshall.TrySeal()` .
type ServerConfig struct {
	port             int
	baseURL          string
	corsOrigins      []string
	secureCookies    bool
	database         string
	schemaRepository string
	tokens           *TokensConfig
	otp              *OTPConfig
	classifier       *ClassifierConfig
	uploads          *UploadsConfig
	mail             *MailConfig
	rateLimit        *RateLimitConfig
}

func (c *ServerConfig) Port() int {
	return c.port
}

// URL where the server is reachable. default = "http://localhost:<port>"
func (c *ServerConfig) BaseURL() string {
	return c.baseURL
}

// Origins allowed by CORS. default = ["http://localhost:5173"]
func (c *ServerConfig) CorsOrigins() []string {
	return append([]string{}, c.corsOrigins...)
}

func (c *ServerConfig) SecureCookies() bool {
	return c.secureCookies
}

// Connection string for database.
func (c *ServerConfig) Database() string {
	return c.database
}

// Directory of versioned schema. Empty when not configured.
func (c *ServerConfig) SchemaRepository() string {
	return c.schemaRepository
}

func (c *ServerConfig) Tokens() *TokensConfig {
	return c.tokens
}

func (c *ServerConfig) OTP() *OTPConfig {
	return c.otp
}

func (c *ServerConfig) Classifier() *ClassifierConfig {
	return c.classifier
}

func (c *ServerConfig) Uploads() *UploadsConfig {
	return c.uploads
}

func (c *ServerConfig) Mail() *MailConfig {
	return c.mail
}

func (c *ServerConfig) RateLimit() *RateLimitConfig {
	return c.rateLimit
}

type TokensConfig struct {
	user  *TokenConfig
	admin *TokenConfig
}

func (t *TokensConfig) User() *TokenConfig {
	return t.user
}

func (t *TokensConfig) Admin() *TokenConfig {
	return t.admin
}

type TokenConfig struct {
	accessSecret  string
	refreshSecret string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func (t *TokenConfig) AccessSecret() string {
	return t.accessSecret
}

func (t *TokenConfig) RefreshSecret() string {
	return t.refreshSecret
}

func (t *TokenConfig) AccessTTL() time.Duration {
	return t.accessTTL
}

func (t *TokenConfig) RefreshTTL() time.Duration {
	return t.refreshTTL
}

type OTPConfig struct {
	digits int
	ttl    time.Duration
}

// default = 6
func (o *OTPConfig) Digits() int {
	return o.digits
}

// default = 10m
func (o *OTPConfig) TTL() time.Duration {
	return o.ttl
}

type ClassifierConfig struct {
	python        string
	script        string
	timeout       time.Duration
	maxConcurrent int
	confThreshold float64
}

// Python interpreter. default = "python"
func (c *ClassifierConfig) Python() string {
	return c.python
}

// Path to the model script.
func (c *ClassifierConfig) Script() string {
	return c.script
}

// default = 30s
func (c *ClassifierConfig) Timeout() time.Duration {
	return c.timeout
}

// default = 2
func (c *ClassifierConfig) MaxConcurrent() int {
	return c.maxConcurrent
}

// default = 0.3
func (c *ClassifierConfig) ConfThreshold() float64 {
	return c.confThreshold
}

type UploadsConfig struct {
	dir        string
	archiveDir string
	maxBytes   int64
}

// default = "uploads"
func (u *UploadsConfig) Dir() string {
	return u.dir
}

// default = "data/images"
func (u *UploadsConfig) ArchiveDir() string {
	return u.archiveDir
}

// default = 5 MiB
func (u *UploadsConfig) MaxBytes() int64 {
	return u.maxBytes
}

type MailConfig struct {
	host     string
	port     int
	username string
	password string
	from     string
	attempts uint
}

// Enabled reports mail delivery is configured.
func (m *MailConfig) Enabled() bool {
	return m.host != ""
}

func (m *MailConfig) Host() string {
	return m.host
}

// default = 587
func (m *MailConfig) Port() int {
	return m.port
}

func (m *MailConfig) Username() string {
	return m.username
}

func (m *MailConfig) Password() string {
	return m.password
}

// Sender address. default = username
func (m *MailConfig) From() string {
	return m.from
}

// default = 3
func (m *MailConfig) Attempts() uint {
	return m.attempts
}

type RateLimitConfig struct {
	authPerSecond float64
}

// default = 5
func (r *RateLimitConfig) AuthPerSecond() float64 {
	return r.authPerSecond
}
