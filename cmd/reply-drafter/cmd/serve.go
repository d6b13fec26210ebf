package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"

	"github.com/hal9000y/gmail-reply-drafter/internal/auth"
	"github.com/hal9000y/gmail-reply-drafter/internal/config"
	"github.com/hal9000y/gmail-reply-drafter/internal/gservice"
	"github.com/hal9000y/gmail-reply-drafter/internal/tool"
)

var (
	serveHTTPAddr string
	serveOAuthURL string
	serveStdio    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server exposing the drafting tools",
	Long: `Serve the drafting tools over MCP streamable HTTP at /mcp, and over stdio
with --stdio. The same listener handles the Google OAuth callback at /oauth; a
browser is opened for sign-in when no token is stored yet.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHTTPAddr, "http-addr", "localhost:0", "HTTP server listen addr")
	serveCmd.Flags().StringVar(&serveOAuthURL, "oauth-url", "", "OAuth redirect URL, derived from the listen addr when empty")
	serveCmd.Flags().BoolVar(&serveStdio, "stdio", false, "Enable stdio transport for MCP")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", serveHTTPAddr)
	if err != nil {
		return fmt.Errorf("net.Listen failed: %w", err)
	}

	oauthURL := fmt.Sprintf("http://%s/oauth", ln.Addr().String())
	if serveOAuthURL != "" {
		oauthURL = serveOAuthURL
	}

	oauthCfg, err := newOAuthConfig(cfg, oauthURL)
	if err != nil {
		return err
	}

	tok, err := auth.NewToken(oauthCfg, tokenStore(cfg))
	if err != nil {
		return fmt.Errorf("auth.NewToken failed: %w", err)
	}

	defer func() {
		log.Println("Persisting token if exists")
		if err := tok.Persist(); err != nil {
			log.Println(fmt.Errorf("tok.Persist failed: %w", err))
		}
	}()

	gmailSvc := gservice.NewGmail(tok, senderAddress(cfg))
	drafter, err := newDrafter(cfg, gmailSvc)
	if err != nil {
		return err
	}

	mcpServer := tool.NewServer(gmailSvc, drafter)

	mux := http.NewServeMux()
	mux.Handle("/oauth", auth.NewHTTPHandler(tok))
	mux.Handle("/mcp", mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server { return mcpServer }, nil))

	srv := &http.Server{
		Handler: mux,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(shutdown)

	if _, err := tok.OAuthToken(); errors.Is(err, auth.ErrTokenNotSet) {
		openBrowser(oauthCfg.RedirectURL)
	}

	stopHTTP, errHTTPCh := serveHTTP(srv, ln)
	defer stopHTTP()

	var errStdioCh <-chan error
	if serveStdio {
		var stopStdio func()
		stopStdio, errStdioCh = serveStdioTransport(mcpServer)
		defer stopStdio()
	}

	select {
	case err := <-errHTTPCh:
		log.Println("Error http server", err)
		return err
	case err := <-errStdioCh:
		log.Println("Error stdio", err)
		return err
	case <-shutdown:
		log.Println("Shutdown signal received")
	}

	return nil
}

func newOAuthConfig(cfg *config.Config, redirectURL string) (*oauth2.Config, error) {
	if cfg.Gmail.ClientID == "" || cfg.Gmail.ClientSecret == "" {
		return nil, errors.New("env variables OAUTH_GOOGLE_CLIENT_ID and OAUTH_GOOGLE_CLIENT_SECRET must be set")
	}

	return &oauth2.Config{
		ClientID:     cfg.Gmail.ClientID,
		ClientSecret: cfg.Gmail.ClientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{gmail.GmailReadonlyScope, gmail.GmailComposeScope},
		Endpoint:     google.Endpoint,
	}, nil
}

func tokenStore(cfg *config.Config) auth.TokenStore {
	if cfg.Gmail.TokenStore == "keyring" {
		return auth.KeyringStore{}
	}
	return auth.FileStore{Path: cfg.Gmail.TokenFile}
}

func serveStdioTransport(srv *mcp.Server) (func(), <-chan error) {
	errStdioCh := make(chan error, 1)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		defer close(errStdioCh)
		log.Println("Starting stdio transport")

		if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil {
			err = fmt.Errorf("srv.Run failed: %w", err)
			errStdioCh <- err
		}
	}()

	return func() {
		cancel()

		<-errStdioCh
		log.Println("Stdio transport stopped")
	}, errStdioCh
}

func serveHTTP(srv *http.Server, ln net.Listener) (func(), <-chan error) {
	errHTTPCh := make(chan error, 1)
	go func() {
		defer close(errHTTPCh)

		log.Println("Starting http server on", ln.Addr().String())

		err := srv.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			err = fmt.Errorf("srv.Serve failed: %w", err)
			log.Println(err)
			errHTTPCh <- err
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Println(fmt.Errorf("srv.Shutdown failed: %w", err))
		}

		<-errHTTPCh
		log.Println("HTTP server stopped")
	}, errHTTPCh
}

func openBrowser(url string) {
	url = fmt.Sprintf("%s?redirect=1", url)
	var err error
	switch runtime.GOOS {
	case "linux":
		err = exec.Command("xdg-open", url).Start()
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		err = exec.Command("open", url).Start()
	default:
		err = fmt.Errorf("unsupported platform")
	}

	if err != nil {
		log.Printf("Could not open browser automatically: %v; please copy and open link in the browser: %s\n", err, url)
	}
}
