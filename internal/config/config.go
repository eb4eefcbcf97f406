package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func LoadConfig() {
	viper.SetConfigName("config")           // name of config file (without extension)
	viper.SetConfigType("yaml")             // REQUIRED if the config file does not have the extension in the name
	viper.AddConfigPath("/etc/simplesoap/") // path to look for the config file in
	viper.AddConfigPath(".")                // optionally look for config in the working directory
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Debug().Msg("Config file not found, using defaults")
		} else {
			log.Panic().Err(err).Msg("Fatal error reading config file")
		}
	}
	SetDefaultConfig()
}

func SetDefaultConfig() {
	// SOAP client
	viper.SetDefault("soap.strict", false)
	viper.SetDefault("soap.timeout", 30)
	viper.SetDefault("soap.user_agent", "simplesoap")
	viper.SetDefault("soap.headers", map[string]string{})
	viper.SetDefault("soap.insecure_skip_verify", false)
	viper.SetDefault("soap.username", "")
	viper.SetDefault("soap.password", "")
	viper.SetDefault("soap.wsse", false)

	// WSDL acquisition
	viper.SetDefault("wsdl.cache_dir", "/tmp/wsdls")
	viper.SetDefault("wsdl.use_cache", true)
	viper.SetDefault("wsdl.fetch_concurrency", 4)
	viper.SetDefault("wsdl.max_depth", 10)
	viper.SetDefault("wsdl.headers", map[string]string{})
}

// Settings is the validated view of the configuration used by the commands.
type Settings struct {
	Strict             bool              `validate:"-"`
	Timeout            time.Duration     `validate:"gt=0"`
	UserAgent          string            `validate:"required"`
	Headers            map[string]string `validate:"dive,keys,required,endkeys"`
	InsecureSkipVerify bool
	Username           string `validate:"required_with=Password"`
	Password           string
	// WSSE sends the credentials as a WS-Security UsernameToken instead
	// of HTTP basic auth.
	WSSE             bool
	CacheDir         string            `validate:"required_if=UseCache true"`
	UseCache         bool
	FetchConcurrency int               `validate:"min=1,max=64"`
	MaxDepth         int               `validate:"min=0"`
	FetchHeaders     map[string]string `validate:"dive,keys,required,endkeys"`
}

// Load reads the current viper values into a Settings and validates them.
func Load() (*Settings, error) {
	s := &Settings{
		Strict:             viper.GetBool("soap.strict"),
		Timeout:            time.Duration(viper.GetInt("soap.timeout")) * time.Second,
		UserAgent:          viper.GetString("soap.user_agent"),
		Headers:            viper.GetStringMapString("soap.headers"),
		InsecureSkipVerify: viper.GetBool("soap.insecure_skip_verify"),
		Username:           viper.GetString("soap.username"),
		Password:           viper.GetString("soap.password"),
		WSSE:               viper.GetBool("soap.wsse"),
		CacheDir:           viper.GetString("wsdl.cache_dir"),
		UseCache:           viper.GetBool("wsdl.use_cache"),
		FetchConcurrency:   viper.GetInt("wsdl.fetch_concurrency"),
		MaxDepth:           viper.GetInt("wsdl.max_depth"),
		FetchHeaders:       viper.GetStringMapString("wsdl.headers"),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) Validate() error {
	validate := validator.New()
	if err := validate.Struct(s); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		var problems []string
		for _, fieldErr := range validationErrors {
			problems = append(problems, fmt.Sprintf("%s failed on %s", fieldErr.Field(), fieldErr.Tag()))
		}
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// CacheDirectory returns the document cache directory, or "" when caching
// is disabled.
func (s *Settings) CacheDirectory() string {
	if !s.UseCache {
		return ""
	}
	return s.CacheDir
}
