package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	settingsPath     string
	systemPromptPath string
	dataDir          string
	uiLanguage       string
	debugMode        bool

	dateRangeLabel string
	translateQuery bool
	listMode       bool

	providerName string
	modelName    string
	temperature  float64
	maxTokens    int
	interactive  bool

	importDate string
	importOut  string

	serveAddr string
)

var rootCmd = &cobra.Command{
	Use:   "samachar",
	Short: "Search and write bilingual English/Gujarati news articles",
	Long: `Searches a local corpus of English/Gujarati news articles by keyword and
date range, optionally translating the query, and generates news text with a
language model.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debugMode {
			SetDebugMode(true)
		}
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the article corpus",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		processor := mustProcessor(cmd)
		settings := processor.Settings()

		dateRange, err := ParseDateRange(dateRangeLabel)
		if err != nil {
			log.Fatalf("Invalid --range: %v", err)
		}

		translate := settings.Search.Translate
		if cmd.Flags().Changed("translate") {
			translate = translateQuery
		}

		result, err := processor.Search(cmd.Context(), SearchRequest{
			Query:     strings.Join(args, " "),
			Range:     dateRange,
			Translate: translate,
		})
		if err != nil {
			log.Fatalf("Search failed: %v", err)
		}

		RenderSearchResult(cmd.OutOrStdout(), result, MessagesFor(language(settings)), listMode)
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate <prompt>",
	Short: "Generate a news article from a prompt",
	Args:  cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		processor := mustProcessor(cmd)
		msgs := MessagesFor(language(processor.Settings()))

		if interactive {
			runInteractive(cmd, processor, msgs)
			return
		}

		prompt := strings.TrimSpace(strings.Join(args, " "))
		if prompt == "" {
			log.Fatal(msgs.PleaseEnter)
		}

		entry, err := processor.Generate(cmd.Context(), generationRequest(cmd, processor, prompt))
		if errors.Is(err, ErrMissingCredential) {
			log.Fatalf("%s (%v)", msgs.APIKeyMissing, err)
		}
		if err != nil {
			log.Fatalf("%s%v", msgs.GenerationFailed, err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, msgs.GeneratedArticle)
		fmt.Fprintln(out, entry.Result)
	},
}

func generationRequest(cmd *cobra.Command, processor *Processor, prompt string) GenerationRequest {
	req := GenerationRequest{
		Prompt:      prompt,
		Model:       modelName,
		Temperature: processor.Settings().Generator.Temperature,
		MaxTokens:   maxTokens,
	}
	if cmd.Flags().Changed("temperature") {
		req.Temperature = temperature
	}
	return req
}

// runInteractive reads one prompt per line until EOF. The lines "history"
// and "clear" show and reset the session history.
func runInteractive(cmd *cobra.Command, processor *Processor, msgs Messages) {
	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())

	fmt.Fprint(out, "> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			fmt.Fprintln(out, msgs.PleaseEnter)
		case "history":
			RenderHistory(out, processor.History().Entries(), msgs)
		case "clear":
			processor.History().Clear()
		default:
			entry, err := processor.Generate(cmd.Context(), generationRequest(cmd, processor, line))
			if errors.Is(err, ErrMissingCredential) {
				log.Fatalf("%s (%v)", msgs.APIKeyMissing, err)
			}
			if err != nil {
				fmt.Fprintf(out, "%s%v\n", msgs.GenerationFailed, err)
				break
			}
			fmt.Fprintln(out, msgs.GeneratedArticle)
			fmt.Fprintln(out, entry.Result)
		}
		fmt.Fprint(out, "> ")
	}
	fmt.Fprintln(out)
}

var importCmd = &cobra.Command{
	Use:   "import <url>",
	Short: "Fetch a web page and append it to the corpus",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		processor := mustProcessor(cmd)

		req := ImportRequest{
			URL:     args[0],
			OutFile: importOut,
		}
		if req.OutFile == "" {
			req.OutFile = filepath.Join(processor.Settings().DataDirectory, "imported.txt")
		}
		if importDate != "" {
			date, err := time.Parse(DateLayout, importDate)
			if err != nil {
				log.Fatalf("Invalid --date %q: expected DD-MM-YYYY", importDate)
			}
			req.Date = date
		}

		article, err := processor.Import(cmd.Context(), req)
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", article.Date.Format(DateLayout), article.Title)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON HTTP API",
	Run: func(cmd *cobra.Command, args []string) {
		processor := mustProcessor(cmd)

		addr := serveAddr
		if addr == "" {
			addr = processor.Settings().Server.Address
		}

		log.Printf("→ Listening on %s", addr)
		if err := NewServer(processor).Start(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	},
}

// mustProcessor loads settings with the command line overrides applied
func mustProcessor(cmd *cobra.Command) *Processor {
	overrides := &ConfigOverrides{}
	if settingsPath != "" {
		overrides.SettingsPath = &settingsPath
	}
	if systemPromptPath != "" {
		overrides.SystemPromptPath = &systemPromptPath
	}
	if dataDir != "" {
		overrides.DataDirectory = &dataDir
	}

	settings, err := LoadSettings(overrides)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}

	if cmd.Flags().Changed("provider") {
		settings.Generator.Provider = providerName
		if err := settings.Validate(); err != nil {
			log.Fatalf("Invalid --provider: %v", err)
		}
	}

	return NewProcessor(settings, overrides)
}

func language(settings *Settings) string {
	if uiLanguage != "" {
		return uiLanguage
	}
	return settings.Language
}

func init() {
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "", "Path to settings file (default .samachar/settings.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "Corpus directory with *.txt article files")
	rootCmd.PersistentFlags().StringVar(&uiLanguage, "lang", "", "Output language: en or gu")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	searchCmd.Flags().StringVarP(&dateRangeLabel, "range", "r", "all", "Date range: all, 24h, week, month")
	searchCmd.Flags().BoolVarP(&translateQuery, "translate", "t", false, "Also match the query translated into the other language")
	searchCmd.Flags().BoolVarP(&listMode, "list", "l", false, "Print only a date/title list")

	generateCmd.Flags().StringVar(&providerName, "provider", "", "Generation provider: openai or anthropic")
	generateCmd.Flags().StringVar(&modelName, "model", "", "Model name (default: the provider's model in settings)")
	generateCmd.Flags().Float64Var(&temperature, "temperature", 0.7, "Creativity level, 0.0 to 1.0")
	generateCmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "Maximum length, 100 to 2000 (default from settings)")
	generateCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Read prompts from stdin, one per line")
	generateCmd.Flags().StringVar(&systemPromptPath, "system-prompt", "", "Path to custom system prompt file")

	importCmd.Flags().StringVar(&importDate, "date", "", "Publication date DD-MM-YYYY (default from page metadata)")
	importCmd.Flags().StringVarP(&importOut, "out", "o", "", "Corpus file to append to (default <data>/imported.txt)")

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from settings)")

	rootCmd.AddCommand(searchCmd, generateCmd, importCmd, serveCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
