package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/stepr/internal/logger"
	"github.com/mark3labs/stepr/internal/mcpserver"
	"github.com/spf13/cobra"
)

var serveFlags struct {
	addr   string
	resume bool
}

var serveCmd = &cobra.Command{
	Use:   "serve <wizard.yml>",
	Short: "Expose a wizard over MCP without a terminal UI",
	Long: `Start a headless wizard session and serve its tools over MCP
streamable HTTP. The endpoint URL is printed on startup; the server runs
until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", "", "Listen address (default: from config, random port)")
	serveCmd.Flags().BoolVar(&serveFlags.resume, "resume", false, "Resume from the journal")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	addr := cfg.MCPAddr
	if serveFlags.addr != "" {
		addr = serveFlags.addr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := openWizard(ctx, cfg, args[0], serveFlags.resume)
	if err != nil {
		return err
	}
	defer func() {
		if err := rt.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
		}
	}()

	srv := mcpserver.New(rt.sess)
	if _, err := srv.Start(ctx, addr); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), srv.URL())
	logger.Info("Serving wizard %s at %s", rt.sess.Wizard().Name, srv.URL())

	<-ctx.Done()
	fmt.Fprintln(cmd.ErrOrStderr(), "\nShutting down gracefully...")
	return srv.Stop()
}
