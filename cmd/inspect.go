package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/timvw/termsense/internal/awareness"
	"github.com/timvw/termsense/internal/model"
	"github.com/timvw/termsense/internal/mux"
)

var flagJSON bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <target>",
	Short: "Classify what a pane is doing right now",
	Long: `Capture a pane once and print its awareness state: input-waiting
classification, output pattern, and environment context.

Exit status is 0 when the pane is safe to send input to (idle prompt or
no waiting state), and 2 when it is blocked on sensitive input (password,
editor, pager) — useful for scripting pre-flight checks before an agent
issues a command.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := args[0]

		m, err := getMultiplexer()
		if err != nil {
			return err
		}

		acc, err := mux.CaptureAccessor(cmd.Context(), m, target)
		if err != nil {
			return fmt.Errorf("failed to capture pane %q: %w", target, err)
		}

		state := awareness.New(acc).State()

		if flagJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(state); err != nil {
				return err
			}
		} else {
			printState(state)
			if flagVerbose {
				fmt.Println()
				for _, line := range acc.Lines {
					fmt.Println(line)
				}
			}
		}

		switch state.Input.Type {
		case model.InputPassword, model.InputEditor, model.InputPager:
			os.Exit(2)
		}
		return nil
	},
}

func init() {
	inspectCmd.Flags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(inspectCmd)
}

// printState renders a compact human-readable summary.
func printState(state model.TerminalAwarenessState) {
	if state.Input.IsWaiting {
		fmt.Printf("input:   %s (%.2f)", state.Input.Type, state.Input.Confidence)
		if state.Input.Prompt != "" {
			fmt.Printf("  %q", state.Input.Prompt)
		}
		if state.Input.SuggestedResponse != "" {
			fmt.Printf("  suggest %q", state.Input.SuggestedResponse)
		}
		fmt.Println()
	} else {
		fmt.Println("input:   none")
	}

	fmt.Printf("output:  %s (%.2f)", state.Output.Type, state.Output.Confidence)
	if d := state.Output.Details; d != nil {
		var parts []string
		if d.Progress != nil {
			parts = append(parts, fmt.Sprintf("%d%%", *d.Progress))
		}
		if d.ETA != "" {
			parts = append(parts, "eta "+d.ETA)
		}
		if d.TestsPassed != nil {
			parts = append(parts, fmt.Sprintf("%d passed", *d.TestsPassed))
		}
		if d.TestsFailed != nil {
			parts = append(parts, fmt.Sprintf("%d failed", *d.TestsFailed))
		}
		if d.ErrorCount != nil {
			parts = append(parts, fmt.Sprintf("%d errors", *d.ErrorCount))
		}
		if len(parts) > 0 {
			fmt.Printf("  [%s]", strings.Join(parts, ", "))
		}
	}
	fmt.Println()

	ctx := state.Context
	fmt.Printf("context: ")
	switch {
	case ctx.User != "" && ctx.Hostname != "":
		fmt.Printf("%s@%s", ctx.User, ctx.Hostname)
	case ctx.User != "":
		fmt.Print(ctx.User)
	case ctx.Hostname != "":
		fmt.Print(ctx.Hostname)
	default:
		fmt.Print("unknown")
	}
	if ctx.IsRoot {
		fmt.Print(" (root)")
	}
	if ctx.CwdFromPrompt != "" {
		fmt.Printf("  cwd=%s", ctx.CwdFromPrompt)
	}
	if len(ctx.ActiveEnvs) > 0 {
		fmt.Printf("  envs=%s", strings.Join(ctx.ActiveEnvs, ","))
	}
	if ctx.SSHDepth > 0 {
		fmt.Printf("  ssh=%d", ctx.SSHDepth)
	}
	fmt.Printf("  shell=%s\n", ctx.PromptType)
}
