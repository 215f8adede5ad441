package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/stepr/internal/hooks"
	"github.com/mark3labs/stepr/internal/mcpserver"
	"github.com/mark3labs/stepr/internal/stepper"
	"github.com/mark3labs/stepr/internal/tui"
	"github.com/spf13/cobra"
)

var runFlags struct {
	linear   bool
	vertical bool
	rtl      bool
	start    int
	resume   bool
	mcp      bool
}

var runCmd = &cobra.Command{
	Use:   "run <wizard.yml>",
	Short: "Run a wizard in the terminal",
	Long: `Run a wizard interactively.

Tab switches between the step headers and the current step. On the headers,
arrow keys move the cursor and enter or space opens the step under it. In
linear mode a step only opens once every earlier required step is complete.`,
	Args: cobra.ExactArgs(1),
	RunE: runWizard,
}

func init() {
	runCmd.Flags().BoolVar(&runFlags.linear, "linear", false, "Only open a step once the ones before it are complete")
	runCmd.Flags().BoolVar(&runFlags.vertical, "vertical", false, "Stack step headers vertically")
	runCmd.Flags().BoolVar(&runFlags.rtl, "rtl", false, "Right-to-left layout")
	runCmd.Flags().IntVar(&runFlags.start, "start", 0, "Index of the step to start on")
	runCmd.Flags().BoolVar(&runFlags.resume, "resume", false, "Resume from the journal")
	runCmd.Flags().BoolVar(&runFlags.mcp, "mcp", false, "Also expose the wizard over MCP while it runs")
}

func runWizard(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if runFlags.rtl {
		cfg.Direction = string(stepper.RTL)
	}

	var opts []stepper.Option
	if runFlags.linear {
		opts = append(opts, stepper.WithLinear(true))
	}
	if runFlags.vertical {
		opts = append(opts, stepper.WithOrientation(stepper.Vertical))
	}
	if cmd.Flags().Changed("start") {
		opts = append(opts, stepper.WithSelectedIndex(runFlags.start))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := openWizard(ctx, cfg, args[0], runFlags.resume, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if err := rt.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
		}
	}()

	if runFlags.mcp {
		srv := mcpserver.New(rt.sess)
		if _, err := srv.Start(ctx, cfg.MCPAddr); err != nil {
			return err
		}
		defer func() { _ = srv.Stop() }()
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP endpoint: %s\n", srv.URL())
	}

	res, err := tui.Run(ctx, rt.sess, tui.Options{DataDir: cfg.DataDir, Bidi: rt.bidi})
	if err != nil {
		return err
	}
	if !res.Finished {
		fmt.Fprintln(cmd.ErrOrStderr(), "Wizard not finished; progress is kept in the journal.")
		return nil
	}

	out := cmd.OutOrStdout()
	values := make(map[string]string)
	for _, st := range res.Status.Steps {
		if st.Field != "" {
			fmt.Fprintf(out, "%s=%s\n", st.Field, st.Value)
			values[st.Field] = st.Value
		}
	}

	w := rt.sess.Wizard()
	if len(w.Hooks.OnFinish) == 0 {
		return nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	piped, err := hooks.ExecuteAllPiped(ctx, w.Hooks.OnFinish, wd, hooks.Variables{Wizard: w.Name, Values: values})
	if err != nil {
		return fmt.Errorf("on_finish hooks interrupted: %w", err)
	}
	if piped != "" {
		fmt.Fprint(out, piped)
	}
	return nil
}
