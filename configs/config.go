package configs

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv         string
	Port           string
	DBDriver       string
	DBSource       string
	JWTSecret      string
	JWTTTL         time.Duration
	AdminEmail     string
	AdminPassword  string
	CORSOrigins    []string
	AMQPURL        string
	AMQPExchange   string
	GoogleAIKey    string
	AIModel        string
	LogLevel       string
	// shown in the guest thank-you broadcast
	RestaurantName string
}

func (c *Config) IsProduction() bool { return c.AppEnv == "production" }

func init() {
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("PORT", "8000")
	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("DB_SOURCE", "frontdesk.db")
	viper.SetDefault("JWT_SECRET", "changeme")
	viper.SetDefault("JWT_TTL", "24h")
	viper.SetDefault("CORS_ORIGINS", "*")
	viper.SetDefault("AMQP_EXCHANGE", "frontdesk.events")
	viper.SetDefault("AI_MODEL", "gemini-1.5-flash")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("RESTAURANT_NAME", "")
}

// LoadConfig reads .env (if present) and the environment. Values bound to
// cobra flags through viper take precedence.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file, using environment only")
	}
	viper.AutomaticEnv()

	ttl, err := time.ParseDuration(viper.GetString("JWT_TTL"))
	if err != nil {
		log.Warn().Str("JWT_TTL", viper.GetString("JWT_TTL")).Msg("invalid JWT_TTL, falling back to 24h")
		ttl = 24 * time.Hour
	}

	return &Config{
		AppEnv:         viper.GetString("APP_ENV"),
		Port:           viper.GetString("PORT"),
		DBDriver:       viper.GetString("DB_DRIVER"),
		DBSource:       viper.GetString("DB_SOURCE"),
		JWTSecret:      viper.GetString("JWT_SECRET"),
		JWTTTL:         ttl,
		AdminEmail:     viper.GetString("ADMIN_EMAIL"),
		AdminPassword:  viper.GetString("ADMIN_PASSWORD"),
		CORSOrigins:    splitList(viper.GetString("CORS_ORIGINS")),
		AMQPURL:        viper.GetString("AMQP_URL"),
		AMQPExchange:   viper.GetString("AMQP_EXCHANGE"),
		GoogleAIKey:    viper.GetString("GOOGLE_AI_API_KEY"),
		AIModel:        viper.GetString("AI_MODEL"),
		LogLevel:       viper.GetString("LOG_LEVEL"),
		RestaurantName: viper.GetString("RESTAURANT_NAME"),
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
