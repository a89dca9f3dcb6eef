package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON tags and
// string-friendly durations for file-based configuration.
type StructuredJSONConfig struct {
	Auth struct {
		TokenSignKey       string   `json:"token_sign_key"`
		TokenIssuer        string   `json:"token_issuer"`
		BcryptCost         int      `json:"bcrypt_cost"`
		LockoutThreshold   int      `json:"lockout_threshold"`
		SessionDuration    Duration `json:"session_duration"`
		ResetTokenDuration Duration `json:"reset_token_duration"`
		CsrfTokenDuration  Duration `json:"csrf_token_duration"`
	} `json:"auth,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		Redis struct {
			Address  string `json:"address"`
			Password string `json:"password"`
			Database int    `json:"database"`
		} `json:"redis,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	RateLimit struct {
		CredentialWindow Duration `json:"credential_window"`
		CredentialLimit  int      `json:"credential_limit"`
		GeneralWindow    Duration `json:"general_window"`
		GeneralLimit     int      `json:"general_limit"`
	} `json:"rate_limit,omitempty"`

	Workers struct {
		SweepInterval Duration `json:"sweep_interval"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Auth: Auth{
			TokenSignKey:       jsonCfg.Auth.TokenSignKey,
			TokenIssuer:        jsonCfg.Auth.TokenIssuer,
			BcryptCost:         jsonCfg.Auth.BcryptCost,
			LockoutThreshold:   jsonCfg.Auth.LockoutThreshold,
			SessionDuration:    time.Duration(jsonCfg.Auth.SessionDuration),
			ResetTokenDuration: time.Duration(jsonCfg.Auth.ResetTokenDuration),
			CsrfTokenDuration:  time.Duration(jsonCfg.Auth.CsrfTokenDuration),
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
			Redis: Redis{
				Address:  jsonCfg.Storage.Redis.Address,
				Password: jsonCfg.Storage.Redis.Password,
				Database: jsonCfg.Storage.Redis.Database,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		RateLimit: RateLimit{
			CredentialWindow: time.Duration(jsonCfg.RateLimit.CredentialWindow),
			CredentialLimit:  jsonCfg.RateLimit.CredentialLimit,
			GeneralWindow:    time.Duration(jsonCfg.RateLimit.GeneralWindow),
			GeneralLimit:     jsonCfg.RateLimit.GeneralLimit,
		},
		Workers: Workers{
			SweepInterval: time.Duration(jsonCfg.Workers.SweepInterval),
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
