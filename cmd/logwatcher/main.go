package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	serverrun "github.com/cezarfuhr/primoia-log-watcher/internal/cmd/server"
	cfgpkg "github.com/cezarfuhr/primoia-log-watcher/internal/config"
	logpkg "github.com/cezarfuhr/primoia-log-watcher/pkg/log"
)

func main() {
	level := os.Getenv("LOGWATCHER_LOG_LEVEL")
	parsed, err := logpkg.ParseLevel(level)
	if err != nil || level == "" {
		parsed = logpkg.InfoLevel
	}
	logger := logpkg.NewLogger(
		logpkg.WithLevel(parsed),
		logpkg.WithFormatter(&logpkg.TextFormatter{}),
		logpkg.WithOutput(logpkg.NewConsoleOutput()),
	)

	rootCmd := &cobra.Command{
		Use:   "logwatcher",
		Short: "Log Watcher CLI",
		Long:  "Log Watcher is a centralized log ingestion hub. This CLI manages the server and basic operations.",
	}

	// server start
	serverCmd := &cobra.Command{Use: "server", Short: "Server commands"}
	serverStartCmd := &cobra.Command{
		Use:     "start",
		Short:   "Start the log-watcher HTTP server",
		Aliases: []string{"run"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			host, _ := cmd.Flags().GetString("host")
			port, _ := cmd.Flags().GetInt("port")
			logLevel, _ := cmd.Flags().GetString("log-level")
			logFormat, _ := cmd.Flags().GetString("log-format")

			cfg := cfgpkg.Default()
			if cfgPath != "" {
				loaded, err := cfgpkg.Load(cfgPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			cfgpkg.FromEnv(&cfg)
			if cmd.Flags().Changed("host") {
				cfg.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if cmd.Flags().Changed("log-format") {
				cfg.LogFormat = logFormat
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return serverrun.Run(ctx, serverrun.Options{Config: cfg})
		},
	}
	serverStartCmd.Flags().String("config", "", "path to a JSON or YAML config file")
	serverStartCmd.Flags().String("host", "0.0.0.0", "bind host")
	serverStartCmd.Flags().Int("port", 8000, "bind port")
	serverStartCmd.Flags().String("log-level", "info", "log level (debug|info|warn|error)")
	serverStartCmd.Flags().String("log-format", "text", "log format (text|json)")
	serverCmd.AddCommand(serverStartCmd)
	rootCmd.AddCommand(serverCmd)

	// service list/add/remove
	serviceCmd := &cobra.Command{Use: "service", Short: "Registered service commands"}
	serviceCmd.PersistentFlags().String("addr", "http://127.0.0.1:8000", "server base URL")

	serviceListCmd := &cobra.Command{
		Use:   "list",
		Short: "List registered services",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			return getAndPrint(addr + "/api/v1/admin/services")
		},
	}
	serviceAddCmd := &cobra.Command{
		Use:   "add <name> <api-key>",
		Short: "Register a service identity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			serviceType, _ := cmd.Flags().GetString("type")
			rateLimit, _ := cmd.Flags().GetInt("rate-limit")
			body, _ := json.Marshal(map[string]any{
				"service_name": args[0],
				"service_type": serviceType,
				"api_key":      args[1],
				"rate_limit":   rateLimit,
			})
			return postAndPrint(addr+"/api/v1/admin/services", body)
		},
	}
	serviceAddCmd.Flags().String("type", "other", "declared service type")
	serviceAddCmd.Flags().Int("rate-limit", 1000, "advisory logs/minute limit")
	serviceRemoveCmd := &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a registered service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			req, err := http.NewRequest(http.MethodDelete, addr+"/api/v1/admin/services/"+args[0], nil)
			if err != nil {
				return err
			}
			return doAndPrint(req)
		},
	}
	serviceCmd.AddCommand(serviceListCmd, serviceAddCmd, serviceRemoveCmd)
	rootCmd.AddCommand(serviceCmd)

	// stats global/top
	statsCmd := &cobra.Command{Use: "stats", Short: "Metrics commands"}
	statsCmd.PersistentFlags().String("addr", "http://127.0.0.1:8000", "server base URL")

	statsGlobalCmd := &cobra.Command{
		Use:   "global",
		Short: "Show the cross-service metrics snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			return getAndPrint(addr + "/api/v1/stats/global")
		},
	}
	statsTopCmd := &cobra.Command{
		Use:   "top",
		Short: "Show services ranked by log volume",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			limit, _ := cmd.Flags().GetInt("limit")
			return getAndPrint(addr + "/api/v1/stats/top-services?limit=" + strconv.Itoa(limit))
		},
	}
	statsTopCmd.Flags().Int("limit", 10, "number of services to show")
	statsCmd.AddCommand(statsGlobalCmd, statsTopCmd)
	rootCmd.AddCommand(statsCmd)

	// queue retry-failed/clear-failed/stats
	queueCmd := &cobra.Command{Use: "queue", Short: "Work queue maintenance commands"}
	queueCmd.PersistentFlags().String("addr", "http://127.0.0.1:8000", "server base URL")

	queueStatsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show queue depths and counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			return getAndPrint(addr + "/api/v1/admin/queue/stats")
		},
	}
	queueRetryCmd := &cobra.Command{
		Use:   "retry-failed",
		Short: "Requeue every dead-lettered task",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			return postAndPrint(addr+"/api/v1/admin/queue/retry-failed", nil)
		},
	}
	queueClearCmd := &cobra.Command{
		Use:   "clear-failed",
		Short: "Discard every dead-lettered task",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			return postAndPrint(addr+"/api/v1/admin/queue/clear-failed", nil)
		},
	}
	queueCmd.AddCommand(queueStatsCmd, queueRetryCmd, queueClearCmd)
	rootCmd.AddCommand(queueCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", logpkg.Err(err))
		os.Exit(1)
	}
}

var httpClient = &http.Client{Timeout: 10 * time.Second}

func getAndPrint(url string) error {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	return doAndPrint(req)
}

func postAndPrint(url string, body []byte) error {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return doAndPrint(req)
}

func doAndPrint(req *http.Request) error {
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, bytes.TrimSpace(b))
	}
	var pretty bytes.Buffer
	if json.Indent(&pretty, b, "", "  ") == nil {
		fmt.Println(pretty.String())
	} else {
		fmt.Println(string(bytes.TrimSpace(b)))
	}
	return nil
}
