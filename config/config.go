// Package config provides configuration management for the payment window service.
// Configuration can be loaded from YAML files and overridden by environment variables.
package config

import (
	"fmt"
	"github.com/ilyakaznacheev/cleanenv"
	"sync"
)

// Config holds all configuration for the payment window service.
// Values can be set via YAML configuration file or environment variables.
// Environment variables take precedence over YAML values.
type Config struct {
	IsDebug bool `yaml:"is_debug" env:"DEBUG" env-default:"false"`
	Listen  struct {
		Type     string `yaml:"type" env:"LISTEN_TYPE" env-default:"port"`
		BindIP   string `yaml:"bind_ip" env:"BIND_IP" env-default:"0.0.0.0"`
		Port     string `yaml:"port" env:"PORT" env-default:"5200"`
		TLS      bool   `yaml:"tls_enabled" env:"TLS_ENABLED" env-default:"false"`
		CertFile string `yaml:"cert_file" env:"TLS_CERT_FILE" env-default:""`
		KeyFile  string `yaml:"key_file" env:"TLS_KEY_FILE" env-default:""`
	} `yaml:"listen"`
	Mongo struct {
		Enabled  bool   `yaml:"enabled" env:"MONGO_ENABLED" env-default:"false"`
		Host     string `yaml:"host" env:"MONGO_HOST" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env:"MONGO_PORT" env-default:"27017"`
		User     string `yaml:"user" env:"MONGO_USER" env-default:"admin"`
		Password string `yaml:"password" env:"MONGO_PASSWORD" env-default:"pass"`
		Database string `yaml:"database" env:"MONGO_DATABASE" env-default:""`
	} `yaml:"mongo"`
	Gateway Gateway `yaml:"gateway"`
}

// Gateway holds the payment window account and the defaults applied to every order.
type Gateway struct {
	GatewayId   string `yaml:"gateway_id" env:"GATEWAY_ID" env-default:""`
	Secret      string `yaml:"secret" env:"GATEWAY_SECRET" env-default:""`
	ActionUrl   string `yaml:"action_url" env:"GATEWAY_ACTION_URL" env-default:"https://onpay.io/window/v3/"`
	Currency    string `yaml:"currency" env:"GATEWAY_CURRENCY" env-default:"DKK"`
	AcceptUrl   string `yaml:"accept_url" env:"GATEWAY_ACCEPT_URL" env-default:""`
	DeclineUrl  string `yaml:"decline_url" env:"GATEWAY_DECLINE_URL" env-default:""`
	CallbackUrl string `yaml:"callback_url" env:"GATEWAY_CALLBACK_URL" env-default:""`
	Language    string `yaml:"language" env:"GATEWAY_LANGUAGE" env-default:""`
	Design      string `yaml:"design" env:"GATEWAY_DESIGN" env-default:""`
	TestMode    bool   `yaml:"test_mode" env:"GATEWAY_TEST_MODE" env-default:"false"`
	Secure      bool   `yaml:"secure" env:"GATEWAY_SECURE" env-default:"false"`
	// VerifyMode: "lowercase" hashes callbacks the same way windows are signed, "exact" hashes them as received
	VerifyMode string `yaml:"verify_mode" env:"GATEWAY_VERIFY_MODE" env-default:"lowercase"`
}

var instance *Config
var once sync.Once

// GetConfig loads configuration from the specified YAML file path.
// Configuration values can be overridden by environment variables.
// This function uses a singleton pattern and only loads the config once.
//
// Example:
//
//	cfg, err := config.GetConfig("config.yml")
//	if err != nil {
//	    log.Fatal(err)
//	}
func GetConfig(path string) (*Config, error) {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("load config: %w; %s", err, desc)
			instance = nil
		}
	})
	return instance, err
}
