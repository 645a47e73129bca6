package config

import (
	"errors"
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
		MaxUploadSize   int64  `env:"MAX_UPLOAD_SIZE" envDefault:"10485760"` // 10 MB
	} `envPrefix:"SERVER_"`
	Database struct {
		DSN                string `env:"DSN,required"`
		ConnectTimeout     int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout       int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		TransactionTimeout int    `env:"TRANSACTION_TIMEOUT" envDefault:"20"`
		MaxOpenConns       int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns       int    `env:"MAX_IDLE_CONNS" envDefault:"2"`
		MaxIdleTime        int    `env:"MAX_IDLE_TIME" envDefault:"60"`
		MigrationsDir      string `env:"MIGRATIONS_DIR" envDefault:"assets/migrations"`
	} `envPrefix:"DATABASE_"`
	JWT struct {
		// 令牌由外部的认证服务签发，这里只负责校验
		Secret     string `env:"SECRET,required"`
		CookieName string `env:"COOKIE_NAME" envDefault:"__setup_sheet_token"`
	} `envPrefix:"JWT_"`
	Email struct {
		StoreDomain string `env:"STORE_DOMAIN,required"`
		SMTP        struct {
			Username    string `env:"USERNAME,required"`
			Password    string `env:"PASSWORD,required"`
			Host        string `env:"HOST,required"`
			Port        int    `env:"PORT" envDefault:"465"`
			DialTimeout int    `env:"DIAL_TIMEOUT" envDefault:"10"`
		} `envPrefix:"SMTP_"`
	} `envPrefix:"EMAIL_"`
	RabbitMQ struct {
		DSN            string `env:"DSN,required"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
		MailQueue      string `env:"MAIL_QUEUE" envDefault:"email_queue"`
	} `envPrefix:"RABBITMQ_"`
	Redis struct {
		Host             string `env:"HOST" envDefault:"localhost"`
		Port             int    `env:"PORT" envDefault:"6379"`
		Password         string `env:"PASSWORD"`
		DB               int    `env:"DB" envDefault:"0"`
		ConnectTimeout   int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		OperationTimeout int    `env:"OPERATION_TIMEOUT" envDefault:"5"`
	} `envPrefix:"REDIS_"`
	Store struct {
		// 0 表示周日，1 表示周一，以此类推
		WeekStartDay int    `env:"WEEK_START_DAY" envDefault:"1"`
		Timezone     string `env:"TIMEZONE" envDefault:"Asia/Shanghai"`
	} `envPrefix:"STORE_"`
	Roster struct {
		Expiration int `env:"EXPIRATION" envDefault:"1209600"` // 14 天
	} `envPrefix:"ROSTER_"`
	Replacement struct {
		// 开启后替班人必须出现在当天的排班表中
		Strict bool `env:"STRICT" envDefault:"false"`
	} `envPrefix:"REPLACEMENT_"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// 只返回第一个错误使得日志更清晰
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	if cfg.Store.WeekStartDay < 0 || cfg.Store.WeekStartDay > 6 {
		return nil, fmt.Errorf("STORE_WEEK_START_DAY 必须在 0 到 6 之间，当前为 %d", cfg.Store.WeekStartDay)
	}
	if _, err := time.LoadLocation(cfg.Store.Timezone); err != nil {
		return nil, fmt.Errorf("无效的 STORE_TIMEZONE: %w", err)
	}

	return cfg, nil
}

// Location 返回门店所在时区，LoadConfig 已经校验过时区名称
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Store.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) WeekStartDay() time.Weekday {
	return time.Weekday(c.Store.WeekStartDay)
}
