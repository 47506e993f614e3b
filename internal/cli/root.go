// Package cli wires configuration and commands around the engine.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/anatolykoptev/go_recipe/internal/app"
	"github.com/anatolykoptev/go_recipe/internal/engine"
	"github.com/anatolykoptev/go_recipe/internal/engine/sources"
	"github.com/anatolykoptev/go_recipe/internal/speech"
)

var rootCmd = &cobra.Command{
	Use:   "go_recipe",
	Short: "Chat with the transcript of a cooking video",
	Long: `go_recipe turns a YouTube cooking video into a chat partner:
it fetches the captions, checks that the video is actually about
cooking, and answers questions grounded in the transcript — speaking
the answers aloud when a TTS engine is installed.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

var transcriptCmd = &cobra.Command{
	Use:   "transcript <url>",
	Short: "Fetch and print the caption transcript of a video",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), engine.Cfg.FetchTimeout)
		defer cancel()
		video, err := sources.LoadVideo(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("# %s\n# %s\n\n", video.Title, video.URL)
		for _, seg := range video.Segments {
			fmt.Printf("[%7.2f] %s\n", seg.Offset, seg.Text)
		}
		return nil
	},
}

var smokeCmd = &cobra.Command{
	Use:   "smoke <url>",
	Short: "Run the full pipeline once and print what happened",
	Long: `smoke loads the video, runs the recipe check, asks the model one
canned question, and dumps the counters. Useful for checking keys,
network access, and caption availability without entering the TUI.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		video, err := sources.LoadVideo(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("title:      %s\n", video.Title)
		fmt.Printf("segments:   %d\n", len(video.Segments))
		fmt.Printf("transcript: %d chars\n", len(video.Transcript))

		isRecipe, err := engine.ClassifyRecipe(ctx, video.Transcript)
		if err != nil {
			return fmt.Errorf("classify: %w", err)
		}
		fmt.Printf("recipe:     %v\n", isRecipe)

		conv := engine.NewConversation(video.Title, video.Transcript, nil)
		conv.Ask(ctx, "What are the main ingredients?")
		turns := conv.Turns()
		fmt.Printf("\nassistant: %s\n", turns[len(turns)-1].Content)

		fmt.Printf("\n%s", engine.FormatMetrics())
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("go_recipe " + Version)
	},
}

// Version is stamped by the build; "dev" otherwise.
var Version = "dev"

func init() {
	rootCmd.AddCommand(transcriptCmd, smokeCmd, versionCmd)
}

// Execute is the entry point called from main.
func Execute() {
	cobra.OnInitialize(func() {
		if err := setup(); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
	})
	err := rootCmd.Execute()
	engine.StopCache()
	if err != nil {
		os.Exit(1)
	}
}

// setup resolves configuration and initializes the engine. Key resolution
// order: environment → .env files → manual entry in the TUI. The key is
// never persisted by this program.
func setup() error {
	// Optional .env files; missing files are fine.
	_ = godotenv.Load(".env")
	if home, err := os.UserHomeDir(); err == nil {
		_ = godotenv.Load(filepath.Join(home, ".config", "go_recipe", ".env"))
	}

	v := viper.New()
	v.SetEnvPrefix("RECIPE")
	v.AutomaticEnv()

	_ = v.BindEnv("api_key", "RECIPE_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("api_base", "RECIPE_API_BASE", "OPENAI_BASE_URL")

	v.SetDefault("model", "gpt-4o-mini")
	v.SetDefault("temperature", 0.4)
	v.SetDefault("max_tokens", 600)
	v.SetDefault("rate_per_min", 20)
	v.SetDefault("history_chars", 12000)
	v.SetDefault("langs", []string{"en"})
	v.SetDefault("fetch_timeout", "45s")
	v.SetDefault("cache_ttl", "6h")
	v.SetDefault("cache_max_entries", 256)
	v.SetDefault("cache_cleanup", "5m")
	v.SetDefault("speech", true)
	v.SetDefault("speech_language", "en")
	v.SetDefault("speech_rate", 1.0)
	v.SetDefault("speech_pitch", 1.0)

	setupLogging(v.GetString("log_file"))

	httpClient := &http.Client{Timeout: v.GetDuration("fetch_timeout")}

	cfg := engine.Config{
		LLMAPIKey:      v.GetString("api_key"),
		LLMAPIBase:     v.GetString("api_base"),
		LLMModel:       v.GetString("model"),
		LLMTemperature: v.GetFloat64("temperature"),
		LLMMaxTokens:   v.GetInt("max_tokens"),
		LLMRatePerMin:  v.GetInt("rate_per_min"),

		HistoryCharBudget: v.GetInt("history_chars"),

		TranscriptLangs: v.GetStringSlice("langs"),
		FetchTimeout:    v.GetDuration("fetch_timeout"),

		RedisURL:             v.GetString("redis_url"),
		CacheTTL:             v.GetDuration("cache_ttl"),
		CacheMaxEntries:      v.GetInt("cache_max_entries"),
		CacheCleanupInterval: v.GetDuration("cache_cleanup"),

		SpeechEnabled:  v.GetBool("speech"),
		SpeechLanguage: v.GetString("speech_language"),
		SpeechRate:     v.GetFloat64("speech_rate"),
		SpeechPitch:    v.GetFloat64("speech_pitch"),

		HTTPClient: httpClient,
	}

	if err := engine.Init(cfg); err != nil {
		return fmt.Errorf("engine init: %w", err)
	}
	engine.InitCache(cfg.RedisURL, cfg.CacheTTL, cfg.CacheMaxEntries, cfg.CacheCleanupInterval)
	return nil
}

// setupLogging sends slog to a file when configured, otherwise discards it.
// The TUI owns the terminal, so stderr logging would corrupt the screen.
func setupLogging(path string) {
	var w io.Writer = io.Discard
	if path != "" {
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
			w = f
		}
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})))
}

// runTUI detects speech capability, starts the playback worker, and hands
// the terminal to the app.
func runTUI() error {
	var speaker *speech.Speaker
	speechOK := false
	if engine.Cfg.SpeechEnabled {
		if synth, ok := speech.Detect(); ok {
			speechOK = true
			speaker = speech.NewSpeaker(synth, speech.Options{
				Language: engine.Cfg.SpeechLanguage,
				Rate:     engine.Cfg.SpeechRate,
				Pitch:    engine.Cfg.SpeechPitch,
			})
			defer speaker.Close()
		}
	}

	p := tea.NewProgram(app.New(speaker, speechOK), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
