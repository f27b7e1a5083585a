package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"LWA-backend/docs"
	"LWA-backend/internal/library"
	"LWA-backend/internal/platform/auth"
	"LWA-backend/internal/platform/config"
	"LWA-backend/internal/platform/storage"
	"LWA-backend/internal/web"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:           "lwa",
		Short:         "Library Work Automate: students, seats, payments and attendance",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to config.yaml")
	root.AddCommand(serveCmd(), exportCmd(), importCmd())

	if err := root.Execute(); err != nil {
		log.Fatalf("[ERROR] %v", err)
	}
}

// openPersister loads config and opens the configured store.
func openPersister() (*config.Config, storage.Store, *library.Persister, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	store, err := storage.Open(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, store, library.NewPersister(store, cfg.Storage.Key), nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web UI and JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func exportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the stored state document as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, p, err := openPersister()
			if err != nil {
				return err
			}
			defer store.Close()

			blob, err := p.Export(cmd.Context())
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(append(blob, '\n'))
				return err
			}
			return os.WriteFile(out, blob, 0o644)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Replace the stored state document with a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var blob []byte
			var err error
			if args[0] == "-" {
				blob, err = io.ReadAll(cmd.InOrStdin())
			} else {
				blob, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}

			_, store, p, err := openPersister()
			if err != nil {
				return err
			}
			defer store.Close()

			st, err := p.Import(cmd.Context(), blob)
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}
			log.Printf("[INFO] imported %d students, %d bookings, %d payments, %d attendance records",
				len(st.Students), len(st.Bookings), len(st.Payments), len(st.Attendance))
			return nil
		},
	}
}

func serve() error {
	cfg, store, p, err := openPersister()
	if err != nil {
		return err
	}
	defer store.Close()

	mode := cfg.Mode
	log.Printf("[INFO] mode:%s storage:%s", mode, cfg.Storage.Driver)

	svc := library.NewService(p, cfg.Location())
	svc.Load(context.Background())

	tokens := auth.NewService(svc.Authenticator(), []byte(cfg.Server.JWTSecret), cfg.TokenTTL())

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	_ = r.SetTrustedProxies(nil)

	if mode == config.ModeDev {
		// CORS is only needed for the dev frontend
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.Server.CORSOrigins,
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))
	}

	r.GET("/healthz", func(c *gin.Context) {
		if !storage.Healthy(c.Request.Context(), store) {
			c.String(http.StatusServiceUnavailable, "storage unavailable")
			return
		}
		c.String(http.StatusOK, "ok")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.InstanceName(docs.SwaggerInfo.InstanceName())))

	api := r.Group("/api/v1")
	auth.RegisterRoutes(api, tokens, library.AuthStatus)
	library.RegisterRoutes(api, svc, tokens.Secret())

	certFile, keyFile := tlsFiles(cfg)
	web.RegisterRoutes(r.Group("/"), svc, web.NewSessionStore([]byte(cfg.Server.SessionSecret), certFile != ""))

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		var err error
		if certFile != "" {
			log.Printf("[INFO] listening on https://%s", cfg.Server.Addr)
			err = srv.ListenAndServeTLS(certFile, keyFile)
		} else {
			log.Printf("[INFO] listening on http://%s", cfg.Server.Addr)
			err = srv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("[INFO] shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// tlsFiles resolves the certificate pair under config/tls/<mode>/, or empty
// strings when none is configured.
func tlsFiles(cfg *config.Config) (string, string) {
	if cfg.Certificate.Cert == "" || cfg.Certificate.Key == "" {
		return "", ""
	}
	return fmt.Sprintf("config/tls/%s/%s", cfg.Mode, cfg.Certificate.Cert),
		fmt.Sprintf("config/tls/%s/%s", cfg.Mode, cfg.Certificate.Key)
}
