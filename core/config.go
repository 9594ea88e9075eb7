package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Env          string
		Build        string
		Debug        bool
		TestMode     bool
		AppName      string
		SecretKey    string
		RollbarToken string

		Server     ServerConfig
		Admin      AdminConfig
		GitHub     GitHubConfig
		Agenda     AgendaConfig
		Timetable  TimetableConfig
		Email      EmailConfig
		Suggestion SuggestionConfig
		Remote     RemoteConfig
	}

	ServerConfig struct {
		Host                   string
		Address                string
		ShutdownTimeout        time.Duration
		SessionExpirationDelta time.Duration
	}

	AdminConfig struct {
		Username     string
		PasswordHash string // bcrypt; see `admin hashpassword`
	}

	GitHubConfig struct {
		Owner      string
		Repo       string
		Branch     string
		AgendaPath string
		Token      string
		APIBaseURL string // empty: api.github.com
	}

	AgendaConfig struct {
		Backend          string // github | memory
		RetentionDays    int
		CleanupInterval  time.Duration // 0 disables the janitor
		MaxWriteAttempts int
	}

	TimetableConfig struct {
		ClassBaseURL   string
		RoomTreeURL    string
		RoomRawBaseURL string
		CacheDir       string // empty: no room index cache
		CacheTTL       time.Duration
	}

	EmailConfig struct {
		Backend          string // console | smtp | sendgrid
		DefaultFromEmail string
		SuggestionTo     string
		SendgridAPIKey   string
		SMTPHost         string
		SMTPPort         int
		SMTPUsername     string
		SMTPPassword     string
	}

	SuggestionConfig struct {
		Limit  int
		Window time.Duration
	}

	RemoteConfig struct {
		Timeout time.Duration
	}
)

// NewConfig loads the configuration from env vars prefixed with the current ENV (DEV by default),
// after loading `config/.env.<env>` from the working directory when it exists.
func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("testMode", false)
	conf.SetDefault("build", "dev")
	conf.SetDefault("appName", "IIW24")
	conf.SetDefault("secretKey", "w7#t(-kq2!vz@p0e=9b1x+u&m4c^y)h3r6n$8d*j5s_a%f")
	conf.SetDefault("rollbarToken", "")

	conf.SetDefault("serverHost", "localhost")
	conf.SetDefault("serverAddress", ":8000")
	conf.SetDefault("serverShutdownTimeout", 5*time.Second)
	conf.SetDefault("sessionExpirationDelta", 7*24*time.Hour)

	conf.SetDefault("adminUsername", "admin")
	conf.SetDefault("adminPasswordHash", "")

	conf.SetDefault("githubOwner", "")
	conf.SetDefault("githubRepo", "")
	conf.SetDefault("githubBranch", "main")
	conf.SetDefault("githubAgendaPath", "data/agenda.json")
	conf.SetDefault("githubToken", "")
	conf.SetDefault("githubApiBaseUrl", "")

	conf.SetDefault("agendaBackend", "github")
	conf.SetDefault("agendaRetentionDays", 30)
	conf.SetDefault("agendaCleanupInterval", 6*time.Hour)
	conf.SetDefault("agendaMaxWriteAttempts", 3)

	conf.SetDefault("timetableClassBaseUrl", "https://raw.githubusercontent.com/vonmecheln/ifpr-horarios/refs/heads/main/docs/turma")
	conf.SetDefault("timetableRoomTreeUrl", "https://github.com/vonmecheln/ifpr-horarios/tree/main/docs/sala/")
	conf.SetDefault("timetableRoomRawBaseUrl", "https://raw.githubusercontent.com/vonmecheln/ifpr-horarios/refs/heads/main/docs/sala")
	conf.SetDefault("timetableCacheDir", "")
	conf.SetDefault("timetableCacheTtl", time.Hour)

	conf.SetDefault("emailBackend", "console")
	conf.SetDefault("defaultFromEmail", "noreply@localhost")
	conf.SetDefault("suggestionTo", "")
	conf.SetDefault("sendgridApiKey", "")
	conf.SetDefault("smtpHost", "smtp.gmail.com")
	conf.SetDefault("smtpPort", 587)
	conf.SetDefault("smtpUsername", "")
	conf.SetDefault("smtpPassword", "")

	conf.SetDefault("suggestionLimit", 3)
	conf.SetDefault("suggestionWindow", time.Hour)

	conf.SetDefault("remoteTimeout", 10*time.Second)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	if env == "TEST" {
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	if wd, err := os.Getwd(); err == nil {
		dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
		if _, err := os.Stat(dotEnvPath); err == nil {
			if err := godotenv.Load(dotEnvPath); err != nil {
				log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
			}
		} else if !os.IsNotExist(err) {
			log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
		}
	}
	conf.AutomaticEnv()

	return &Config{
		Env:          env,
		Build:        conf.GetString("build"),
		Debug:        conf.GetBool("debug"),
		TestMode:     conf.GetBool("testMode"),
		AppName:      conf.GetString("appName"),
		SecretKey:    conf.GetString("secretKey"),
		RollbarToken: conf.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:                   conf.GetString("serverHost"),
			Address:                conf.GetString("serverAddress"),
			ShutdownTimeout:        conf.GetDuration("serverShutdownTimeout"),
			SessionExpirationDelta: conf.GetDuration("sessionExpirationDelta"),
		},
		Admin: AdminConfig{
			Username:     conf.GetString("adminUsername"),
			PasswordHash: conf.GetString("adminPasswordHash"),
		},
		GitHub: GitHubConfig{
			Owner:      conf.GetString("githubOwner"),
			Repo:       conf.GetString("githubRepo"),
			Branch:     conf.GetString("githubBranch"),
			AgendaPath: conf.GetString("githubAgendaPath"),
			Token:      conf.GetString("githubToken"),
			APIBaseURL: conf.GetString("githubApiBaseUrl"),
		},
		Agenda: AgendaConfig{
			Backend:          conf.GetString("agendaBackend"),
			RetentionDays:    conf.GetInt("agendaRetentionDays"),
			CleanupInterval:  conf.GetDuration("agendaCleanupInterval"),
			MaxWriteAttempts: conf.GetInt("agendaMaxWriteAttempts"),
		},
		Timetable: TimetableConfig{
			ClassBaseURL:   conf.GetString("timetableClassBaseUrl"),
			RoomTreeURL:    conf.GetString("timetableRoomTreeUrl"),
			RoomRawBaseURL: conf.GetString("timetableRoomRawBaseUrl"),
			CacheDir:       conf.GetString("timetableCacheDir"),
			CacheTTL:       conf.GetDuration("timetableCacheTtl"),
		},
		Email: EmailConfig{
			Backend:          conf.GetString("emailBackend"),
			DefaultFromEmail: conf.GetString("defaultFromEmail"),
			SuggestionTo:     conf.GetString("suggestionTo"),
			SendgridAPIKey:   conf.GetString("sendgridApiKey"),
			SMTPHost:         conf.GetString("smtpHost"),
			SMTPPort:         conf.GetInt("smtpPort"),
			SMTPUsername:     conf.GetString("smtpUsername"),
			SMTPPassword:     conf.GetString("smtpPassword"),
		},
		Suggestion: SuggestionConfig{
			Limit:  conf.GetInt("suggestionLimit"),
			Window: conf.GetDuration("suggestionWindow"),
		},
		Remote: RemoteConfig{
			Timeout: conf.GetDuration("remoteTimeout"),
		},
	}
}
