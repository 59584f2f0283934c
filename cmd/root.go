package cmd

import (
	"context"
	"fmt"
	u "net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/swoopdl/swoop/internal/auth"
	"github.com/swoopdl/swoop/internal/download"
	"github.com/swoopdl/swoop/internal/output"
	"github.com/swoopdl/swoop/internal/utils"
)

var (
	outputPath    string
	username      string
	password      string
	token         string
	connections   int
	chunkSize     int
	interval      time.Duration
	timeout       time.Duration
	verifyTLS     bool
	quiet         bool
	debug         bool
	urlListFile   string
	batchParallel int
	headers       []string
	userAgent     string
)

var SwoopVersion = "dev"

var rootCmd = &cobra.Command{
	Use:     "swoop [URL]",
	Short:   "Swoop is a fast multi-connection HTTP(S) download manager",
	Version: SwoopVersion,
	Args:    cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		utils.InitLogger(debug)
		if len(args) == 0 && urlListFile == "" {
			output.PrintError("No URL or URL list provided")
			os.Exit(1)
		}
		if urlListFile != "" && len(args) > 0 {
			output.PrintError("Cannot specify url argument and --urllist together, choose one")
			os.Exit(1)
		}
		if (username == "") != (password == "") {
			output.PrintError("Basic auth needs both --username and --password")
			os.Exit(1)
		}
		if username != "" && token != "" {
			output.PrintError("Choose basic auth or a bearer token, not both")
			os.Exit(1)
		}
		cfg := utils.Config{
			Connections:      connections,
			ChunkSize:        chunkSize,
			ProgressInterval: interval,
			Timeout:          timeout,
			VerifyTLS:        verifyTLS,
		}
		httpCfg := utils.HTTPClientConfig{
			Timeout:   timeout,
			VerifyTLS: verifyTLS,
			UserAgent: userAgent,
			Headers:   utils.ParseHeaderArgs(headers),
		}
		cred := auth.Credential{Username: username, Password: password, Token: token}

		if urlListFile != "" {
			entries, err := utils.ReadDownloadList(urlListFile)
			if err != nil {
				output.PrintError("Failed to read URL list file")
				os.Exit(1)
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := download.RunBatch(ctx, entries, batchParallel, cfg, httpCfg, cred); err != nil {
				output.PrintError("Encountered failed download(s)")
				os.Exit(1)
			}
			output.PrintSuccess(fmt.Sprintf("Downloaded %d files", len(entries)))
			return
		}

		url := args[0]
		if _, err := u.Parse(url); err != nil {
			output.PrintError("Invalid URL format")
			os.Exit(1)
		}
		dest := outputPath
		if dest == "" {
			dest = utils.InferOutputPath(url)
		}
		if _, err := os.Stat(dest); err == nil {
			dest = utils.RenewOutputPath(dest)
		}

		if !quiet {
			output.PrintHeader("Swoop Download")
			output.PrintDetail(fmt.Sprintf("URL: %s", url))
			output.PrintDetail(fmt.Sprintf("Output: %s", dest))
			if !cred.IsZero() {
				output.PrintDetail(fmt.Sprintf("Auth: %s", cred.Describe()))
			}
		}

		dl := download.New(cfg)
		dl.HTTPConfig = httpCfg
		dl.Console = !quiet

		// The CLI is the only place that bridges OS interrupts into
		// the download's cancellation token.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)
		go func() {
			<-sigCh
			fmt.Println()
			output.PrintWarning("Interrupting download...")
			dl.Cancel()
		}()

		ok, snap := dl.Download(url, dest, cred, nil)
		if !ok {
			output.PrintError(output.StyleSymbols["fail"] + " Download failed")
			os.Exit(1)
		}
		output.PrintSuccess(fmt.Sprintf("%s Downloaded %s (%s)", output.StyleSymbols["pass"], dest, utils.FormatBytes(uint64(snap.DownloadedBytes))))
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (inferred from the URL if not provided)")
	rootCmd.Flags().StringVarP(&username, "username", "u", "", "Username for basic authentication")
	rootCmd.Flags().StringVarP(&password, "password", "p", "", "Password for basic authentication")
	rootCmd.Flags().StringVarP(&token, "token", "t", "", "Bearer token for authentication")
	rootCmd.Flags().IntVarP(&connections, "connections", "c", utils.DefaultConnections, "Number of connections per download")
	rootCmd.Flags().IntVar(&chunkSize, "chunk-size", utils.DefaultChunkSize, "Network read chunk size in bytes (capped at 8192 for interrupt responsiveness)")
	rootCmd.Flags().DurationVar(&interval, "interval", utils.DefaultProgressInterval, "Progress update interval (eg. 100ms, 1s)")
	rootCmd.Flags().DurationVar(&timeout, "timeout", utils.DefaultTimeout, "Request timeout (eg. 30s, 5m)")
	rootCmd.Flags().StringVarP(&urlListFile, "urllist", "l", "", "Path to YAML file containing URLs and output paths")
	rootCmd.Flags().IntVarP(&batchParallel, "workers", "w", 1, "Number of list entries to download in parallel")
	rootCmd.Flags().StringArrayVarP(&headers, "header", "H", []string{}, "Custom headers (like 'X-Api-Key: abc'); can be specified multiple times")
	rootCmd.Flags().StringVarP(&userAgent, "user-agent", "a", utils.ToolUserAgent, "User agent")

	// flags without shorthand
	rootCmd.Flags().BoolVar(&verifyTLS, "verify-tls", false, "Enable TLS certificate verification (default: disabled)")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode - no progress display")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")
}
