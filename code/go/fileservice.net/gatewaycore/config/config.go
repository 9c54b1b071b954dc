package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// SetupDefaultConfig - setup the default config options that can be overridden via the config file
func SetupDefaultConfig() {
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.console", false)

	viper.SetDefault("server.host", "")
	viper.SetDefault("server.port", 5050)

	viper.SetDefault("public.base_url", "http://localhost")
	viper.SetDefault("public.port", 50000)

	viper.SetDefault("ftp.port", 21)
	viper.SetDefault("ftp.base_dir", "/upload")
	viper.SetDefault("ftp.timeout", "30s")
	viper.SetDefault("ftp.dial_retries", 3)

	viper.SetDefault("db.port", "5432")

	viper.SetDefault("rate_limiters.file_rps", 0.0)
	viper.SetDefault("rate_limiters.general_rps", 0.0)
	viper.SetDefault("rate_limiters.proxy", false)

	viper.SetDefault("sweeper.grace_period", time.Hour)
	viper.SetDefault("sweeper.num_workers", 5)

	viper.SetDefault("max_upload_size", 64<<20)
}

/*SetupConfig - setup the configuration system */
func SetupConfig(configPath string) {
	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(replacer)
	viper.AutomaticEnv()
	viper.SetConfigName("fileservice")

	if configPath == "" {
		viper.AddConfigPath("./config")
	} else {
		viper.AddConfigPath(configPath)
	}

	err := viper.ReadInConfig() // Find and read the config file
	if err != nil {             // Handle errors reading the config file
		panic(fmt.Errorf("fatal error config file: %s", err))
	}
}

const (
	DeploymentDevelopment = 0
	DeploymentTest        = 1
	DeploymentProduction  = 2
)

// FTPConfig holds the connection settings of the remote storage backend. It is
// injected into the transfer layer, never read as ambient state from there.
type FTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	BaseDir     string
	Timeout     time.Duration
	DialRetries int
}

type Config struct {
	DeploymentMode byte

	ServerHost string
	ServerPort int

	// PublicBaseURL and PublicPort form the externally-visible address used to
	// build retrieval URLs.
	PublicBaseURL string
	PublicPort    int

	FTP FTPConfig

	DBHost     string
	DBPort     string
	DBName     string
	DBUserName string
	DBPassword string

	MaxUploadSize int64

	SweeperGracePeriod time.Duration
	SweeperNumWorkers  int
}

/*Configuration of the system */
var Configuration Config

/*Development - is the program running in development mode? */
func Development() bool {
	return Configuration.DeploymentMode == DeploymentDevelopment
}

// ReadConfig copies viper state into the global Configuration.
func ReadConfig(deploymentMode int) {
	Configuration.DeploymentMode = byte(deploymentMode)

	Configuration.ServerHost = viper.GetString("server.host")
	Configuration.ServerPort = viper.GetInt("server.port")

	Configuration.PublicBaseURL = viper.GetString("public.base_url")
	Configuration.PublicPort = viper.GetInt("public.port")

	// read key by key so the env overrides (FTP_PASSWORD, ...) apply
	Configuration.FTP.Host = viper.GetString("ftp.host")
	Configuration.FTP.Port = viper.GetInt("ftp.port")
	Configuration.FTP.Username = viper.GetString("ftp.username")
	Configuration.FTP.Password = viper.GetString("ftp.password")
	Configuration.FTP.BaseDir = viper.GetString("ftp.base_dir")
	Configuration.FTP.Timeout = viper.GetDuration("ftp.timeout")
	Configuration.FTP.DialRetries = viper.GetInt("ftp.dial_retries")

	Configuration.DBHost = viper.GetString("db.host")
	Configuration.DBPort = viper.GetString("db.port")
	Configuration.DBName = viper.GetString("db.name")
	Configuration.DBUserName = viper.GetString("db.user")
	Configuration.DBPassword = viper.GetString("db.password")

	Configuration.MaxUploadSize = viper.GetInt64("max_upload_size")

	Configuration.SweeperGracePeriod = viper.GetDuration("sweeper.grace_period")
	Configuration.SweeperNumWorkers = viper.GetInt("sweeper.num_workers")
}
