// romind is the ROMIND conversational core: an HTTP service and a console
// REPL around the emotional state + memory engine.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	romind "github.com/scentunivers/romind-go"
	"github.com/scentunivers/romind-go/httpapi"
	"github.com/scentunivers/romind-go/logging"
	"github.com/scentunivers/romind-go/store"
)

var (
	flagAddr     string
	flagDataDir  string
	flagStore    string
	flagRedis    string
	flagSQLite   string
	flagLexicon  string
	flagMatrix   string
	flagLogLevel string
	flagLogFmt   string
)

var rootCmd = &cobra.Command{
	Use:   "romind",
	Short: "ROMIND emotional conversation core",
	Long:  "Persona-driven conversational state, layered memory and prompt generation for the ROMIND agent.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(flagLogLevel, flagLogFmt)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, closeFn, err := buildEngine()
		if err != nil {
			return err
		}
		defer closeFn()
		return httpapi.NewServer(engine).Run(flagAddr)
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to ROMIND on the console",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, closeFn, err := buildEngine()
		if err != nil {
			return err
		}
		defer closeFn()

		fmt.Println("ROMIND is listening. Type /persona <id> to switch, /state for a snapshot, /quit to leave.")
		scanner := bufio.NewScanner(os.Stdin)
		persona := ""
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				return scanner.Err()
			}
			line := strings.TrimSpace(scanner.Text())
			switch {
			case line == "/quit":
				return nil
			case line == "/state":
				snap := engine.Session(romind.DefaultSessionID).State.Describe()
				fmt.Printf("persona=%s emotion=%s trust=%.3f role=%s\n",
					snap.Persona, snap.Emotion, snap.Trust, snap.RoleContext)
				continue
			case strings.HasPrefix(line, "/persona "):
				persona = strings.TrimSpace(strings.TrimPrefix(line, "/persona "))
				continue
			}

			out := engine.Process(context.Background(), romind.Inbound{
				SessionID: romind.DefaultSessionID,
				Persona:   persona,
				Message:   line,
			})
			persona = ""
			fmt.Println(out.Reply)
		}
	},
}

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print the system prompt for the default session",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, closeFn, err := buildEngine()
		if err != nil {
			return err
		}
		defer closeFn()
		fmt.Println(engine.SystemPromptFor(romind.DefaultSessionID))
		return nil
	},
}

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the current state snapshot for the default session",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, closeFn, err := buildEngine()
		if err != nil {
			return err
		}
		defer closeFn()
		snap := engine.Session(romind.DefaultSessionID).State.Describe()
		fmt.Printf("persona=%s emotion=%s trust=%.3f role=%s updated=%s\n",
			snap.Persona, snap.Emotion, snap.Trust, snap.RoleContext,
			snap.LastUpdated.Format("2006-01-02 15:04:05"))
		return nil
	},
}

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Print what ROMIND remembers about the default session",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, closeFn, err := buildEngine()
		if err != nil {
			return err
		}
		defer closeFn()
		session := engine.Session(romind.DefaultSessionID)
		fmt.Println(session.Biography.Summarize())
		fmt.Println()
		fmt.Println(session.Rules.Digest(10))
		fmt.Printf("\nEpisodes: %d, average trust: %.3f\n",
			session.Episodic.Len(), session.Episodic.AverageTrust())
		return nil
	},
}

// buildEngine assembles the backend, lexicon, persona matrix and model
// client from flags and environment.
func buildEngine() (*romind.Engine, func(), error) {
	closeFn := func() {}

	var backend store.Backend
	switch flagStore {
	case "memory":
		backend = store.NewMemory()
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: flagRedis})
		rb := store.NewRedis(client)
		backend = rb
		closeFn = func() { rb.Close() }
	case "sqlite":
		sb, err := store.NewSQLite(flagSQLite)
		if err != nil {
			return nil, nil, err
		}
		backend = sb
		closeFn = func() { sb.Close() }
	default:
		backend = store.NewFile(flagDataDir)
	}

	var completer romind.Completer
	if c := romind.NewOpenAICompleterFromEnv(); c != nil {
		completer = c
	}

	engine := romind.NewEngine(romind.EngineConfig{
		Backend:   backend,
		Lexicon:   romind.LoadLexicon(flagLexicon),
		Completer: completer,
		Matrix:    romind.LoadPersonaMatrix(flagMatrix),
	})
	return engine, closeFn, nil
}

func main() {
	dataDir := os.Getenv("ROMIND_DATA_DIR")
	if dataDir == "" {
		dataDir = "romind-data"
	}
	addr := os.Getenv("ROMIND_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", dataDir, "directory for file-backed memory")
	rootCmd.PersistentFlags().StringVar(&flagStore, "store", "file", "persistence backend: file|sqlite|redis|memory")
	rootCmd.PersistentFlags().StringVar(&flagRedis, "redis-addr", "localhost:6379", "redis address (store=redis)")
	rootCmd.PersistentFlags().StringVar(&flagSQLite, "sqlite-path", "romind.db", "sqlite database path (store=sqlite)")
	rootCmd.PersistentFlags().StringVar(&flagLexicon, "lexicon", "", "YAML lexicon override file")
	rootCmd.PersistentFlags().StringVar(&flagMatrix, "persona-matrix", "", "YAML persona matrix file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level: debug|info|warn|error")
	rootCmd.PersistentFlags().StringVar(&flagLogFmt, "log-format", "text", "log format: text|json")
	serveCmd.Flags().StringVar(&flagAddr, "addr", addr, "listen address")

	rootCmd.AddCommand(serveCmd, chatCmd, stateCmd, promptCmd, memoryCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
