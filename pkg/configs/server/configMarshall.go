package server

import (
	"fmt"
	"net/url"
	"time"
)

type Marshalled[S any] interface {
	trySeal(string) S
}

// seal marshalled object.
//
// this function CAN CAUSE PANIC if misconfiguration is found.
//
// All types named `pkg/configs/server.XxxMarshall` are `Marshalled[*Xxx]` .
func TrySeal[S any](conf Marshalled[S]) S {
	return conf.trySeal("(root)")
}

// Configuration of fishmap server.
//
// This type is marshalling value and mutable.
// Consider to use immutable version, `ServerConfig`.
type ServerConfigMarshall struct {
	Port             int                       `yaml:"port"`
	BaseURL          string                    `yaml:"baseURL,omitempty"`
	CorsOrigins      []string                  `yaml:"corsOrigins,omitempty"`
	SecureCookies    bool                      `yaml:"secureCookies"`
	Database         string                    `yaml:"database"`
	SchemaRepository string                    `yaml:"schemaRepository,omitempty"`
	Tokens           *TokensConfigMarshall     `yaml:"tokens"`
	OTP              *OTPConfigMarshall        `yaml:"otp,omitempty"`
	Classifier       *ClassifierConfigMarshall `yaml:"classifier"`
	Uploads          *UploadsConfigMarshall    `yaml:"uploads,omitempty"`
	Mail             *MailConfigMarshall       `yaml:"mail,omitempty"`
	RateLimit        *RateLimitConfigMarshall  `yaml:"rateLimit,omitempty"`
}

var _ Marshalled[*ServerConfig] = &ServerConfigMarshall{}

// verify configuration value and create "readonly" version of this.
//
// IT WILL PANIC if any misconfiguration is found.
func (s *ServerConfigMarshall) TrySeal() *ServerConfig {
	return s.trySeal("(root)")
}

func (s *ServerConfigMarshall) trySeal(path string) *ServerConfig {
	port := required(s.Port, path+".port")
	if port < 0 || 65535 < port {
		panic(fmt.Sprintf("%s.port is out of range: %d", path, port))
	}

	baseURL := s.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://localhost:%d", port)
	}
	if _, err := url.Parse(baseURL); err != nil {
		panic(fmt.Errorf("%s.baseURL can not be parsed: %w", path, err))
	}

	origins := s.CorsOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}

	return &ServerConfig{
		port:             port,
		baseURL:          baseURL,
		corsOrigins:      origins,
		secureCookies:    s.SecureCookies,
		database:         required(s.Database, path+".database"),
		schemaRepository: s.SchemaRepository,
		tokens:           nonnil(s.Tokens, path+".tokens").trySeal(path + ".tokens"),
		otp:              orZero(s.OTP).trySeal(path + ".otp"),
		classifier:       nonnil(s.Classifier, path+".classifier").trySeal(path + ".classifier"),
		uploads:          orZero(s.Uploads).trySeal(path + ".uploads"),
		mail:             orZero(s.Mail).trySeal(path + ".mail"),
		rateLimit:        orZero(s.RateLimit).trySeal(path + ".rateLimit"),
	}
}

type TokensConfigMarshall struct {
	User  *TokenConfigMarshall `yaml:"user"`
	Admin *TokenConfigMarshall `yaml:"admin"`
}

func (t *TokensConfigMarshall) trySeal(path string) *TokensConfig {
	return &TokensConfig{
		user: nonnil(t.User, path+".user").
			withDefaultTTL(15*time.Minute, 7*24*time.Hour).
			trySeal(path + ".user"),
		admin: nonnil(t.Admin, path+".admin").
			withDefaultTTL(8*time.Hour, 7*24*time.Hour).
			trySeal(path + ".admin"),
	}
}

type TokenConfigMarshall struct {
	AccessSecret  string        `yaml:"accessSecret"`
	RefreshSecret string        `yaml:"refreshSecret"`
	AccessTTL     time.Duration `yaml:"accessTTL,omitempty"`
	RefreshTTL    time.Duration `yaml:"refreshTTL,omitempty"`
}

func (t *TokenConfigMarshall) withDefaultTTL(access, refresh time.Duration) *TokenConfigMarshall {
	ret := *t
	if ret.AccessTTL == 0 {
		ret.AccessTTL = access
	}
	if ret.RefreshTTL == 0 {
		ret.RefreshTTL = refresh
	}
	return &ret
}

func (t *TokenConfigMarshall) trySeal(path string) *TokenConfig {
	access := required(t.AccessSecret, path+".accessSecret")
	refresh := required(t.RefreshSecret, path+".refreshSecret")
	if access == refresh {
		panic(path + ".accessSecret and " + path + ".refreshSecret should differ")
	}
	return &TokenConfig{
		accessSecret:  access,
		refreshSecret: refresh,
		accessTTL:     positive(t.AccessTTL, path+".accessTTL"),
		refreshTTL:    positive(t.RefreshTTL, path+".refreshTTL"),
	}
}

type OTPConfigMarshall struct {
	Digits int           `yaml:"digits,omitempty"`
	TTL    time.Duration `yaml:"ttl,omitempty"`
}

func (o *OTPConfigMarshall) trySeal(path string) *OTPConfig {
	return &OTPConfig{
		digits: positive(orDefault(o.Digits, 6), path+".digits"),
		ttl:    positive(orDefault(o.TTL, 10*time.Minute), path+".ttl"),
	}
}

type ClassifierConfigMarshall struct {
	Python        string        `yaml:"python,omitempty"`
	Script        string        `yaml:"script"`
	Timeout       time.Duration `yaml:"timeout,omitempty"`
	MaxConcurrent int           `yaml:"maxConcurrent,omitempty"`
	ConfThreshold float64       `yaml:"confThreshold,omitempty"`
}

func (c *ClassifierConfigMarshall) trySeal(path string) *ClassifierConfig {
	threshold := orDefault(c.ConfThreshold, 0.3)
	if threshold < 0 || 1 < threshold {
		panic(fmt.Sprintf("%s.confThreshold should be in [0, 1]: %v", path, threshold))
	}
	return &ClassifierConfig{
		python:        orDefault(c.Python, "python"),
		script:        required(c.Script, path+".script"),
		timeout:       positive(orDefault(c.Timeout, 30*time.Second), path+".timeout"),
		maxConcurrent: positive(orDefault(c.MaxConcurrent, 2), path+".maxConcurrent"),
		confThreshold: threshold,
	}
}

type UploadsConfigMarshall struct {
	Dir        string `yaml:"dir,omitempty"`
	ArchiveDir string `yaml:"archiveDir,omitempty"`
	MaxBytes   int64  `yaml:"maxBytes,omitempty"`
}

func (u *UploadsConfigMarshall) trySeal(path string) *UploadsConfig {
	return &UploadsConfig{
		dir:        orDefault(u.Dir, "uploads"),
		archiveDir: orDefault(u.ArchiveDir, "data/images"),
		maxBytes:   positive(orDefault(u.MaxBytes, 5<<20), path+".maxBytes"),
	}
}

type MailConfigMarshall struct {
	Host     string `yaml:"host,omitempty"`
	Port     int    `yaml:"port,omitempty"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	From     string `yaml:"from,omitempty"`
	Attempts uint   `yaml:"attempts,omitempty"`
}

func (m *MailConfigMarshall) trySeal(path string) *MailConfig {
	if m.Host == "" {
		return &MailConfig{}
	}
	from := m.From
	if from == "" {
		from = m.Username
	}
	return &MailConfig{
		host:     m.Host,
		port:     orDefault(m.Port, 587),
		username: m.Username,
		password: m.Password,
		from:     required(from, path+".from"),
		attempts: orDefault(m.Attempts, 3),
	}
}

type RateLimitConfigMarshall struct {
	AuthPerSecond float64 `yaml:"authPerSecond,omitempty"`
}

func (r *RateLimitConfigMarshall) trySeal(path string) *RateLimitConfig {
	return &RateLimitConfig{
		authPerSecond: positive(orDefault(r.AuthPerSecond, 5), path+".authPerSecond"),
	}
}

func nonnil[T any](v *T, path string) *T {
	if v == nil {
		panic(path + " is required")
	}
	return v
}

func orZero[T any](v *T) *T {
	if v == nil {
		return new(T)
	}
	return v
}

func required[T comparable](v T, path string) T {
	if v == *new(T) {
		panic(path + " is required")
	}
	return v
}

func orDefault[T comparable](v T, def T) T {
	if v == *new(T) {
		return def
	}
	return v
}

func positive[T int | int64 | float64 | time.Duration](v T, path string) T {
	if v <= 0 {
		panic(fmt.Sprintf("%s should be positive: %v", path, v))
	}
	return v
}
