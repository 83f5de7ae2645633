package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] for the JSON file. Secrets
// may be kept out of the file and supplied through the environment instead.
type StructuredJSONConfig struct {
	App struct {
		Version  string `json:"version"`
		LogLevel string `json:"log_level"`
	} `json:"app,omitempty"`

	Auth struct {
		JWTSecret     string   `json:"jwt_secret"`
		TokenIssuer   string   `json:"token_issuer"`
		TokenDuration Duration `json:"token_duration"`
		AdminUserIDs  []int64  `json:"admin_user_ids"`
	} `json:"auth,omitempty"`

	Cookie struct {
		Name     string `json:"name"`
		Domain   string `json:"domain"`
		Secure   bool   `json:"secure"`
		SameSite string `json:"same_site"`
	} `json:"cookie,omitempty"`

	Points struct {
		SignupBonus int64 `json:"signup_bonus"`
	} `json:"points,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
		AuthRateLimit  int      `json:"auth_rate_limit"`
		AllowedOrigins []string `json:"allowed_origins"`
	} `json:"server,omitempty"`

	Adapter struct {
		Google struct {
			RedirectURL  string `json:"redirect_url"`
			PostLoginURL string `json:"post_login_url"`
		} `json:"google,omitempty"`
		Stripe struct {
			SuccessURL string `json:"success_url"`
			CancelURL  string `json:"cancel_url"`
		} `json:"stripe,omitempty"`
		Replicate struct {
			BaseURL string   `json:"base_url"`
			Timeout Duration `json:"timeout"`
		} `json:"replicate,omitempty"`
	} `json:"adapter,omitempty"`
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
		App: App{
			Version:  jsonCfg.App.Version,
			LogLevel: jsonCfg.App.LogLevel,
		},
		Auth: Auth{
			JWTSecret:     jsonCfg.Auth.JWTSecret,
			TokenIssuer:   jsonCfg.Auth.TokenIssuer,
			TokenDuration: time.Duration(jsonCfg.Auth.TokenDuration),
			AdminUserIDs:  jsonCfg.Auth.AdminUserIDs,
		},
		Cookie: Cookie{
			Name:     jsonCfg.Cookie.Name,
			Domain:   jsonCfg.Cookie.Domain,
			Secure:   jsonCfg.Cookie.Secure,
			SameSite: jsonCfg.Cookie.SameSite,
		},
		Points: Points{
			SignupBonus: jsonCfg.Points.SignupBonus,
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
			AuthRateLimit:  jsonCfg.Server.AuthRateLimit,
			AllowedOrigins: jsonCfg.Server.AllowedOrigins,
		},
		Adapter: Adapter{
			Google: Google{
				RedirectURL:  jsonCfg.Adapter.Google.RedirectURL,
				PostLoginURL: jsonCfg.Adapter.Google.PostLoginURL,
			},
			Stripe: Stripe{
				SuccessURL: jsonCfg.Adapter.Stripe.SuccessURL,
				CancelURL:  jsonCfg.Adapter.Stripe.CancelURL,
			},
			Replicate: Replicate{
				BaseURL: jsonCfg.Adapter.Replicate.BaseURL,
				Timeout: time.Duration(jsonCfg.Adapter.Replicate.Timeout),
			},
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
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
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
