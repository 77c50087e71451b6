package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App    AppConfig
	DB     DBConfig
	JWT    JWTConfig
	HTTP   HTTPConfig
	Google GoogleConfig
	SMTP   SMTPConfig
	Upload UploadConfig
	Render RenderConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env         string // development, staging, production
	Name        string
	LogLevel    string
	BaseURL     string // URL pública del API (enlaces de verificación de email)
	FrontendURL string // destino del redirect tras el login con Google
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	Migrate     bool // aplicar migraciones goose al arrancar
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos; por defecto un día
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host        string
	Port        int
	CORSOrigins string
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GoogleConfig credenciales OAuth de Google. Vacío = login federado deshabilitado.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
}

// Enabled indica si hay credenciales suficientes para el flujo OAuth.
func (c GoogleConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// SMTPConfig transporte de correo saliente (verificación de email).
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// UploadConfig almacenamiento en disco de las firmas.
type UploadConfig struct {
	Dir       string
	PublicURL string // prefijo público con el que se sirven los archivos
}

// RenderConfig límites del motor de PDF.
type RenderConfig struct {
	Concurrency int
	Timeout     time.Duration
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:         getString(v, "APP_ENV", "development"),
			Name:        getString(v, "APP_NAME", "invoicegen-api"),
			LogLevel:    getString(v, "LOG_LEVEL", "info"),
			BaseURL:     getString(v, "BASE_URL", "http://localhost:3000"),
			FrontendURL: getString(v, "FRONTEND_URL", "http://localhost:3001"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "invoicegenerator"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			Migrate:     getBool(v, "DB_MIGRATE", true),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 24*60),
			Issuer:     getString(v, "JWT_ISSUER", "invoicegen-api"),
		},
		HTTP: HTTPConfig{
			Host:        getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:        getInt(v, "HTTP_PORT", 3000),
			CORSOrigins: getString(v, "CORS_ORIGINS", "http://localhost:3001"),
		},
		Google: GoogleConfig{
			ClientID:     getString(v, "GOOGLE_CLIENT_ID", ""),
			ClientSecret: getString(v, "GOOGLE_CLIENT_SECRET", ""),
			CallbackURL:  getString(v, "GOOGLE_CALLBACK_URL", "http://localhost:3000/api/auth/google/callback"),
		},
		SMTP: SMTPConfig{
			Host:     getString(v, "SMTP_HOST", "smtp.gmail.com"),
			Port:     getInt(v, "SMTP_PORT", 587),
			User:     getString(v, "SMTP_USER", ""),
			Password: getString(v, "SMTP_PASSWORD", ""),
			From:     getString(v, "SMTP_FROM", ""),
		},
		Upload: UploadConfig{
			Dir:       getString(v, "UPLOAD_DIR", "uploads/signatures"),
			PublicURL: getString(v, "UPLOAD_PUBLIC_URL", "/uploads/signatures"),
		},
		Render: RenderConfig{
			Concurrency: getInt(v, "RENDER_CONCURRENCY", 4),
			Timeout:     time.Duration(getInt(v, "RENDER_TIMEOUT_SECONDS", 30)) * time.Second,
		},
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET es obligatorio")
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}
