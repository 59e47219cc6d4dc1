// Command termcoder is an interactive terminal coding agent. It wires
// the Gemini-backed agent loop, the sandboxed tool set and the Bubble
// Tea interface together.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"

	"github.com/Cyclone1070/termcoder/internal/config"
	"github.com/Cyclone1070/termcoder/internal/permission"
	"github.com/Cyclone1070/termcoder/internal/provider"
	"github.com/Cyclone1070/termcoder/internal/provider/gemini"
	"github.com/Cyclone1070/termcoder/internal/tool/directory"
	"github.com/Cyclone1070/termcoder/internal/tool/file"
	"github.com/Cyclone1070/termcoder/internal/tool/gitutil"
	"github.com/Cyclone1070/termcoder/internal/tool/pathutil"
	"github.com/Cyclone1070/termcoder/internal/tool/shell"
	"github.com/Cyclone1070/termcoder/internal/tool/web"
	"github.com/Cyclone1070/termcoder/internal/ui"
	uiservices "github.com/Cyclone1070/termcoder/internal/ui/services"
	"github.com/Cyclone1070/termcoder/internal/workflow"
	"github.com/Cyclone1070/termcoder/internal/workflow/loop"
	"github.com/Cyclone1070/termcoder/internal/workflow/toolmanager"
)

const systemPrompt = `You are a coding agent working inside the user's project directory.
Use the available tools to read, write and edit files, list directories,
run shell commands and search the web. Paths are relative to the project
root; you cannot touch files outside it. Prefer edit_file with a small
unique snippet over rewriting whole files. After changing code, verify
your work by running the project's build or tests with run_bash. Answer
in plain text when you are done.`

// options are the parsed command line flags.
type options struct {
	model string
	mode  permission.Mode
}

func parseFlags(args []string) (options, error) {
	fs := flag.NewFlagSet("termcoder", flag.ContinueOnError)
	model := fs.String("model", "", "model to use (overrides config)")
	fs.StringVar(model, "m", "", "shorthand for --model")
	acceptEdits := fs.Bool("accept-edits", false, "auto-approve file edits")
	yolo := fs.Bool("yolo", false, "auto-approve all tool calls")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	opts := options{model: *model, mode: permission.ModeDefault}
	// yolo wins when both flags are given
	if *acceptEdits {
		opts.mode = permission.ModeAcceptEdits
	}
	if *yolo {
		opts.mode = permission.ModeYolo
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		fmt.Fprintf(os.Stderr, "Using default configuration.\n")
		cfg = config.DefaultConfig()
	}
	if opts.model == "" {
		opts.model = cfg.Provider.DefaultModel
	}

	renderer, err := uiservices.NewGlamourRenderer(100)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing renderer: %v\n", err)
		os.Exit(1)
	}

	runInteractive(context.Background(), cfg, opts, ui.New(renderer))
}

// newProvider builds the Gemini provider from the environment.
func newProvider(ctx context.Context, model string) (provider.Provider, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}
	return gemini.NewFromAPIKey(ctx, apiKey, model)
}

// newToolManager builds the tool set rooted at the working directory.
func newToolManager(cfg *config.Config, gate *permission.Gate, workspaceRoot string) (*toolmanager.ToolManager, error) {
	root, err := pathutil.CanonicaliseRoot(workspaceRoot)
	if err != nil {
		return nil, fmt.Errorf("canonicalise workspace root: %w", err)
	}

	var ignore gitutil.Matcher
	matcher, err := gitutil.NewIgnoreMatcher(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .gitignore: %v\n", err)
		ignore = gitutil.NoOpMatcher{}
	} else {
		ignore = matcher
	}

	webClient := web.NewClient(cfg.Tools.WebAPIBaseURL)

	return toolmanager.NewToolManager(gate,
		file.NewReadTool(root, cfg.Tools),
		file.NewWriteTool(root, cfg.Tools),
		file.NewEditTool(root, cfg.Tools),
		directory.NewListTool(root, ignore),
		shell.NewRunner(root, cfg.Tools),
		web.NewSearchTool(webClient, cfg.Tools),
		web.NewFetchTool(webClient, cfg.Tools),
	), nil
}

// turnCanceller tracks the cancel function of the in-flight turn so the
// Esc key can interrupt it.
type turnCanceller struct {
	mu     sync.Mutex
	cancel context.CancelFunc
}

func (t *turnCanceller) set(cancel context.CancelFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancel = cancel
}

func (t *turnCanceller) fire() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

func runInteractive(ctx context.Context, cfg *config.Config, opts options, userInterface ui.UserInterface) {
	appCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup

	gate := permission.NewGate(opts.mode, userInterface)
	events := make(chan workflow.Event, 64)
	turns := &turnCanceller{}

	var providerClient provider.Provider
	var agentLoop *loop.Loop
	providerReady := make(chan struct{})

	// Goroutine #1: initialize and run the REPL.
	wg.Add(1)
	go func() {
		defer wg.Done()

		<-userInterface.Ready()
		userInterface.SetMode(gate.Mode().String())
		userInterface.WriteStatus("thinking", "Initializing workspace...")

		workspaceRoot, err := os.Getwd()
		if err != nil {
			failStartup(userInterface, fmt.Errorf("get working directory: %w", err))
			return
		}
		tools, err := newToolManager(cfg, gate, workspaceRoot)
		if err != nil {
			failStartup(userInterface, err)
			return
		}

		userInterface.WriteStatus("thinking", "Initializing AI...")
		p, err := newProvider(appCtx, opts.model)
		if err != nil {
			failStartup(userInterface, err)
			return
		}
		providerClient = p
		userInterface.SetModel(p.GetModel())

		agentLoop = loop.NewLoop(p, tools, events, systemPrompt, cfg.Tools.MaxIterations)
		close(providerReady)

		userInterface.WriteStatus("ready", "")

		for {
			select {
			case <-appCtx.Done():
				return
			default:
			}

			input, err := userInterface.ReadInput(appCtx)
			if err != nil {
				return
			}

			turnCtx, turnCancel := context.WithCancel(appCtx)
			turns.set(turnCancel)
			if err := agentLoop.Run(turnCtx, input); err != nil {
				userInterface.WriteMessage("system", fmt.Sprintf("Error: %v", err))
			}
			turnCancel()
			turns.set(nil)
			userInterface.WriteStatus("ready", "")
		}
	}()

	// Goroutine #2: bridge workflow events to the UI.
	wg.Add(1)
	go func() {
		defer wg.Done()
		var totalTokens int
		for {
			select {
			case <-appCtx.Done():
				return
			case ev := <-events:
				switch e := ev.(type) {
				case workflow.ThinkingEvent:
					userInterface.WriteStatus("thinking", "")
				case workflow.TextEvent:
					userInterface.WriteMessage("assistant", e.Text)
				case workflow.ToolStartEvent:
					display := e.RequestDisplay
					if display == "" {
						display = e.ToolName
					}
					userInterface.WriteStatus("executing", display)
					userInterface.WriteMessage("tool", display)
				case workflow.ToolEndEvent:
					if !e.Success {
						userInterface.WriteMessage("tool", fmt.Sprintf("%s failed: %s", e.ToolName, e.Display))
					}
				case workflow.UsageEvent:
					totalTokens += e.PromptTokens + e.CompletionTokens
					userInterface.SetTokens(totalTokens)
				case workflow.DoneEvent:
					if e.Err != nil {
						userInterface.WriteStatus("error", e.Err.Error())
					} else {
						userInterface.WriteStatus("done", "")
					}
				}
			}
		}
	}()

	// Goroutine #3: handle slash commands and cancellation.
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-appCtx.Done():
				return
			case cmd := <-userInterface.Commands():
				switch cmd.Type {
				case "cancel":
					turns.fire()

				case "quit":
					cancel()

				case "cycle_mode":
					mode := gate.CycleMode()
					userInterface.SetMode(mode.String())
					userInterface.WriteMessage("system", fmt.Sprintf("Permission mode: %s", mode))

				case "clear":
					select {
					case <-providerReady:
						agentLoop.Clear()
						userInterface.WriteMessage("system", "Conversation cleared.")
					case <-appCtx.Done():
						return
					}

				case "show_tokens":
					select {
					case <-providerReady:
						u := agentLoop.Usage()
						userInterface.WriteMessage("system", fmt.Sprintf(
							"Session tokens: %d prompt + %d completion = %d total",
							u.PromptTokens, u.CompletionTokens, u.Total()))
					case <-appCtx.Done():
						return
					}

				case "list_models":
					select {
					case <-providerReady:
						models, err := providerClient.ListModels(appCtx)
						if err != nil {
							userInterface.WriteMessage("system", fmt.Sprintf("Error listing models: %v", err))
							continue
						}
						names := make([]string, 0, len(models))
						for _, m := range models {
							names = append(names, m.Name)
						}
						userInterface.WriteModelList(names)
					case <-appCtx.Done():
						return
					}

				case "switch_model":
					select {
					case <-providerReady:
						model := cmd.Args["model"]
						if err := providerClient.SetModel(model); err != nil {
							userInterface.WriteMessage("system", fmt.Sprintf("Error switching model: %v", err))
							continue
						}
						userInterface.SetModel(model)
						userInterface.WriteMessage("system", fmt.Sprintf("Switched to model: %s", model))
					case <-appCtx.Done():
						return
					}
				}
			}
		}
	}()

	// UI runs on the main goroutine until exit.
	if err := userInterface.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running UI: %v\n", err)
		os.Exit(1)
	}

	cancel()
	wg.Wait()
}

func failStartup(userInterface ui.UserInterface, err error) {
	userInterface.WriteStatus("error", "Initialization failed")
	userInterface.WriteMessage("system", fmt.Sprintf("Error: %v", err))
	userInterface.WriteMessage("system", "The application cannot start. Press Ctrl+C to exit.")
}
