package config

const (
	defaultInboxDir           = "~/inbox"
	defaultLibraryDir         = "~/library"
	defaultQuarantineDir      = "~/.local/share/librairy/quarantine"
	defaultReviewDir          = "~/review"
	defaultLogDir             = "~/.local/share/librairy/logs"
	defaultDataDir            = "~/.local/share/librairy"
	defaultMinConfidence      = 0.5
	defaultCaseStyle          = "keep"
	defaultBucket             = "other"
	defaultRetentionDays      = 30
	defaultLogRetentionDays   = 60
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultNotifyTimeout      = 10
	defaultWatchSettleSeconds = 5
	defaultMinFreeGiB         = 1
	defaultLLMBaseURL         = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel           = "google/gemini-3-flash-preview"
	defaultLLMReferer         = "https://github.com/solosoyfranco/LibrAIry"
	defaultLLMTitle           = "LibrAIry Classifier"
	defaultLLMTimeoutSeconds  = 60
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			InboxDirs:     []string{defaultInboxDir},
			LibraryDir:    defaultLibraryDir,
			QuarantineDir: defaultQuarantineDir,
			ReviewDir:     defaultReviewDir,
			LogDir:        defaultLogDir,
			DataDir:       defaultDataDir,
		},
		Dedupe: Dedupe{
			RestrictToManaged: true,
		},
		Organize: Organize{
			MinConfidence: defaultMinConfidence,
			CaseStyle:     defaultCaseStyle,
			DefaultBucket: defaultBucket,
		},
		Purge: Purge{
			RetentionDays: defaultRetentionDays,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Referer:        defaultLLMReferer,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			Runs:           true,
			Review:         true,
			Errors:         true,
		},
		Workflow: Workflow{
			WatchSettleSeconds: defaultWatchSettleSeconds,
			MinFreeGiB:         defaultMinFreeGiB,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
