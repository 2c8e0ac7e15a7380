package config

import (
	"net"
	"net/http"
	"os"
	"time"

	"adventure_shop/relay"
	"adventure_shop/session"
	"adventure_shop/story"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Upstream kinds accepted by RELAY_UPSTREAM.
const (
	UpstreamHTTP   = "http"
	UpstreamGemini = "gemini"
)

// Config holds everything read from the environment.
type Config struct {
	Addr      string `envconfig:"ADDR" default:":9779"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"console"` // console or json

	// Relay endpoint.
	Upstream        string        `envconfig:"RELAY_UPSTREAM" default:"http"`
	UpstreamURL     string        `envconfig:"RELAY_UPSTREAM_URL" default:"https://uiuc.chat/api/chat-api/chat"`
	UpstreamTimeout time.Duration `envconfig:"RELAY_UPSTREAM_TIMEOUT" default:"0s"` // 0 disables the timeout
	GeminiModel     string        `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`

	// Conversation controller.
	RelayURL    string  `envconfig:"RELAY_URL"` // empty means the relay served on Addr
	Model       string  `envconfig:"CHAT_MODEL" default:"gpt-4o-mini"`
	Temperature float64 `envconfig:"CHAT_TEMPERATURE" default:"0.7"`
	CourseName  string  `envconfig:"COURSE_NAME" default:"adventure-shop"`
	APIKey      string  `envconfig:"UIUC_API_KEY"`
	StartHP     int     `envconfig:"START_HP" default:"10"`
	StartDEF    int     `envconfig:"START_DEF" default:"10"`
	StartATK    int     `envconfig:"START_ATK" default:"10"`

	// Chat UI.
	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"30m"` // 0 keeps sessions until Back
}

// Load reads an optional .env file and then the environment.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrap(err, "failed to load .env file")
	} else if err != nil {
		log.Debug().Msg("no .env file found, using the environment only")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Upstream {
	case UpstreamHTTP, UpstreamGemini:
	default:
		return errors.Errorf("unknown RELAY_UPSTREAM %q (want %q or %q)", c.Upstream, UpstreamHTTP, UpstreamGemini)
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		return errors.Errorf("unknown LOG_FORMAT %q (want console or json)", c.LogFormat)
	}
	if c.StartHP < 0 || c.StartDEF < 0 || c.StartATK < 0 {
		return errors.New("starting stats must not be negative")
	}
	if c.UpstreamTimeout < 0 {
		return errors.New("RELAY_UPSTREAM_TIMEOUT must not be negative")
	}
	if c.SessionTTL < 0 {
		return errors.New("SESSION_TTL must not be negative")
	}
	return nil
}

// RelayEndpoint is the URL the conversation controller posts to: RELAY_URL
// when set, otherwise the relay endpoint of the server listening on Addr.
func (c *Config) RelayEndpoint() string {
	if c.RelayURL != "" {
		return c.RelayURL
	}
	host, port, err := net.SplitHostPort(c.Addr)
	if err != nil {
		host, port = "", "9779"
	}
	switch host {
	case "", "0.0.0.0", "::":
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port) + relay.EndpointPath
}

// SessionOptions is what the conversation controller puts in every request.
func (c *Config) SessionOptions() session.Options {
	return session.Options{
		Model:        c.Model,
		Temperature:  c.Temperature,
		CourseName:   c.CourseName,
		APIKey:       c.APIKey,
		InitialStats: story.Stats{HP: c.StartHP, DEF: c.StartDEF, ATK: c.StartATK},
	}
}

// NewUpstream builds the relay's upstream from the configured kind.
func (c *Config) NewUpstream() relay.Upstream {
	if c.Upstream == UpstreamGemini {
		return relay.NewGeminiUpstream(c.GeminiModel)
	}
	return relay.NewHTTPUpstream(c.UpstreamURL, &http.Client{Timeout: c.UpstreamTimeout})
}
