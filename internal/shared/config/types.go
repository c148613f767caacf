package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	Timezone       string   `mapstructure:"timezone"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig selects MySQL (default) or a SQLite file at Path.
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	Path            string `mapstructure:"path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

func (d *DatabaseConfig) IsSQLite() bool {
	return d.Driver == "sqlite"
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type JWTConfig struct {
	Secret           string `mapstructure:"secret"`
	AccessExpMinutes int    `mapstructure:"access_exp_minutes"`
}

type AuthConfig struct {
	JWT          JWTConfig `mapstructure:"jwt"`
	AdminUserIDs []uint    `mapstructure:"admin_user_ids"`
	BcryptCost   int       `mapstructure:"bcrypt_cost"`
}

type EmailConfig struct {
	// Driver is one of smtp, sendgrid or log.
	Driver         string `mapstructure:"driver"`
	SMTPHost       string `mapstructure:"smtp_host"`
	SMTPPort       int    `mapstructure:"smtp_port"`
	SMTPUser       string `mapstructure:"smtp_user"`
	SMTPPassword   string `mapstructure:"smtp_password"`
	SendGridAPIKey string `mapstructure:"sendgrid_api_key"`
	FromAddress    string `mapstructure:"from_address"`
	FromName       string `mapstructure:"from_name"`
}

type NtfyConfig struct {
	URL            string   `mapstructure:"url"`
	Topic          string   `mapstructure:"topic"`
	Token          string   `mapstructure:"token"`
	User           string   `mapstructure:"user"`
	Pass           string   `mapstructure:"pass"`
	AlertAddresses []string `mapstructure:"alert_addresses"`
}

func (n *NtfyConfig) Enabled() bool {
	return n.URL != "" && n.Topic != ""
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type DiscordConfig struct {
	BotToken          string        `mapstructure:"bot_token"`
	ApplicationID     string        `mapstructure:"application_id"`
	GuildID           string        `mapstructure:"guild_id"`
	ArchiveCategoryID string        `mapstructure:"archive_category_id"`
	NotifyRoleID      string        `mapstructure:"notify_role_id"`
	NotifyUserID      string        `mapstructure:"notify_user_id"`
	ReadyTimeout      time.Duration `mapstructure:"ready_timeout"`
}

func (d *DiscordConfig) Enabled() bool {
	return d.BotToken != ""
}

type RetentionConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	SoftDeletedDays int           `mapstructure:"soft_deleted_days"`
	Interval        time.Duration `mapstructure:"interval"`
}
