package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-d database DSN
//	-redis-address redis address in format host:port
//	-c/-config json file path with configs
//	-token-sign-key credential signing key
//	-token-issuer credential issuer name
//	-bcrypt-cost bcrypt work factor
//	-lockout-threshold failed attempts before lockout
//	-session-duration session TTL (e.g., "168h")
//	-reset-token-duration password-reset token TTL (e.g., "1h")
//	-csrf-token-duration CSRF token TTL (e.g., "1h")
//	-sweep-interval expired token sweep interval (e.g., "1h")
//	-request-timeout request timeout (e.g., "30s", "1m")
func ParseFlags() *StructuredConfig {
	var serverAddress NetAddress
	var databaseDSN string
	var redisAddress string
	var jsonConfigPath string
	var tokenSignKey string
	var tokenIssuer string
	var bcryptCost int
	var lockoutThreshold int
	var sessionDuration time.Duration
	var resetTokenDuration time.Duration
	var csrfTokenDuration time.Duration
	var sweepInterval time.Duration
	var requestTimeout time.Duration

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&redisAddress, "redis-address", "", "Redis address host:port")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&tokenSignKey, "token-sign-key", "", "Credential signing key")
	flag.StringVar(&tokenIssuer, "token-issuer", "", "Credential issuer")
	flag.IntVar(&bcryptCost, "bcrypt-cost", 0, "Bcrypt work factor")
	flag.IntVar(&lockoutThreshold, "lockout-threshold", 0, "Failed attempts before lockout")
	flag.DurationVar(&sessionDuration, "session-duration", 0, "Session TTL (e.g., 168h)")
	flag.DurationVar(&resetTokenDuration, "reset-token-duration", 0, "Password-reset token TTL (e.g., 1h)")
	flag.DurationVar(&csrfTokenDuration, "csrf-token-duration", 0, "CSRF token TTL (e.g., 1h)")
	flag.DurationVar(&sweepInterval, "sweep-interval", 0, "Expired token sweep interval (e.g., 1h)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")

	flag.Parse()

	return &StructuredConfig{
		Auth: Auth{
			TokenSignKey:       tokenSignKey,
			TokenIssuer:        tokenIssuer,
			BcryptCost:         bcryptCost,
			LockoutThreshold:   lockoutThreshold,
			SessionDuration:    sessionDuration,
			ResetTokenDuration: resetTokenDuration,
			CsrfTokenDuration:  csrfTokenDuration,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
			Redis: Redis{
				Address: redisAddress,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Workers: Workers{
			SweepInterval: sweepInterval,
		},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
