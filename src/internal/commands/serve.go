package commands

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/maksimkurb/fwgen/src/internal/api"
	"github.com/maksimkurb/fwgen/src/internal/config"
	"github.com/maksimkurb/fwgen/src/internal/log"
	"github.com/maksimkurb/fwgen/src/internal/service"
)

// ServeCommand runs the HTTP API bound to the loaded configuration.
type ServeCommand struct {
	fs  *flag.FlagSet
	ctx *AppContext
	cfg *config.Config

	bindAddr string
}

// CreateServeCommand creates a new serve command.
func CreateServeCommand() *ServeCommand {
	c := &ServeCommand{
		fs: flag.NewFlagSet("serve", flag.ExitOnError),
	}

	c.fs.StringVar(&c.bindAddr, "bind", "", "Address to bind the HTTP server (default: general.api_listen)")

	return c
}

// Name returns the command name.
func (c *ServeCommand) Name() string {
	return c.fs.Name()
}

// Init initializes the serve command with arguments.
func (c *ServeCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx

	if err := c.fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	if c.bindAddr == "" {
		c.bindAddr = cfg.GetAPIListen()
	}

	return nil
}

// newHandler wires the API handler for the loaded configuration.
func (c *ServeCommand) newHandler() (http.Handler, error) {
	hasher := config.NewConfigHasher(c.ctx.ConfigPath)
	if err := hasher.SetLoadedConfig(c.cfg); err != nil {
		return nil, err
	}

	deps := c.ctx.dependencies(c.cfg)
	fw := service.NewFirewallService(c.cfg, deps.RuleEngine(), deps.SetEngine(), deps.SnapshotStore())
	validator := service.NewValidationService(deps.InterfaceLister())
	handler := api.NewHandler(c.cfg, fw, validator).WithConfigHasher(hasher)
	return api.NewRouter(handler), nil
}

// Run starts the HTTP API server.
func (c *ServeCommand) Run() error {
	log.Infof("Starting fwgen API server on %s", c.bindAddr)
	log.Infof("Configuration loaded from: %s", c.ctx.ConfigPath)
	if c.ctx.Namespace != "" {
		log.Infof("Network namespace: %s", c.ctx.Namespace)
	}
	log.Infof("Requests from public IPs will be rejected with 403 Forbidden")

	handler, err := c.newHandler()
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:         c.bindAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		log.Infof("API endpoints available at http://%s/api/v1", c.bindAddr)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-shutdown:
		log.Infof("Received signal %v, shutting down server...", sig)

		// Lets an in-flight lifecycle operation finish.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Errorf("Error during server shutdown: %v", err)
			if err := server.Close(); err != nil {
				return fmt.Errorf("failed to close server: %w", err)
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		log.Infof("Server stopped gracefully")
	}

	return nil
}
