package config

import (
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// SysConfig system basics
type SysConfig struct {
	Appid    string `yaml:"appid" envconfig:"STOCKMATE_SYSTEM_APPID"`
	Location string `yaml:"location" envconfig:"STOCKMATE_SYSTEM_LOCATION"`
	Workdir  string `yaml:"workdir" envconfig:"STOCKMATE_SYSTEM_WORKDIR"`
	Debug    bool   `yaml:"debug" envconfig:"STOCKMATE_SYSTEM_DEBUG"`
}

// WebConfig admin web server settings
type WebConfig struct {
	Host          string `yaml:"host" envconfig:"STOCKMATE_WEB_HOST"`
	Port          int    `yaml:"port" envconfig:"STOCKMATE_WEB_PORT"`
	JwtSecret     string `yaml:"secret" envconfig:"STOCKMATE_WEB_SECRET"`
	AdminUsername string `yaml:"admin_username" envconfig:"STOCKMATE_WEB_ADMIN_USERNAME"`
	AdminPassword string `yaml:"admin_password" envconfig:"STOCKMATE_WEB_ADMIN_PASSWORD"`
}

// DBConfig database settings
type DBConfig struct {
	Type     string `yaml:"type" envconfig:"STOCKMATE_DB_TYPE"`
	Host     string `yaml:"host" envconfig:"STOCKMATE_DB_HOST"`
	Port     int    `yaml:"port" envconfig:"STOCKMATE_DB_PORT"`
	Name     string `yaml:"name" envconfig:"STOCKMATE_DB_NAME"`
	User     string `yaml:"user" envconfig:"STOCKMATE_DB_USER"`
	Passwd   string `yaml:"passwd" envconfig:"STOCKMATE_DB_PWD"`
	MaxConn  int    `yaml:"max_conn" envconfig:"STOCKMATE_DB_MAX_CONN"`
	IdleConn int    `yaml:"idle_conn" envconfig:"STOCKMATE_DB_IDLE_CONN"`
}

// LogConfig logger settings
type LogConfig struct {
	Mode       string `yaml:"mode" envconfig:"STOCKMATE_LOGGER_MODE"`
	FileEnable bool   `yaml:"file_enable" envconfig:"STOCKMATE_LOGGER_FILE_ENABLE"`
	Filename   string `yaml:"filename" envconfig:"STOCKMATE_LOGGER_FILENAME"`
}

type AppConfig struct {
	System   SysConfig `yaml:"system" json:"system"`
	Web      WebConfig `yaml:"web" json:"web"`
	Database DBConfig  `yaml:"database" json:"database"`
	Logger   LogConfig `yaml:"logger" json:"logger"`
}

// DefaultAppConfig is used when no config file is supplied.
var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "stockmate",
		Location: "Asia/Shanghai",
		Workdir:  "/var/stockmate",
		Debug:    true,
	},
	Web: WebConfig{
		Host:          "0.0.0.0",
		Port:          1816,
		JwtSecret:     "",
		AdminUsername: "admin",
		AdminPassword: "stockmate",
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "stockmate_v1",
		User:     "postgres",
		Passwd:   "root",
		MaxConn:  100,
		IdleConn: 10,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: false,
		Filename:   "/var/stockmate/stockmate.log",
	},
}

// LoadConfig reads the YAML config file if present and applies environment
// variable overrides on top of it.
func LoadConfig(cfile string) *AppConfig {
	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig

	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			_ = yaml.Unmarshal(data, cfg)
		}
	}

	_ = envconfig.Process("stockmate", cfg)
	return cfg
}
