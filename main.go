package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "travelweb/internal/config"
	router "travelweb/internal/http"
	"travelweb/internal/http/handlers"
	"travelweb/internal/http/middleware"
	"travelweb/internal/repositories"
	"travelweb/internal/services"
	"travelweb/internal/upstream"

	"github.com/gin-gonic/gin"
)

func main() {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	session, err := services.NewSessionService(services.SessionConfig{
		Secret:     env.CookieSecret,
		CookieName: env.RefreshCookieName,
		Domain:     env.CookieDomain,
		Secure:     env.CookieSecure,
		MaxAge:     env.RefreshCookieMaxAge,
	})
	if err != nil {
		log.Fatalf("Gagal menyiapkan session (COOKIE_SECRET wajib diisi): %v", err)
	}

	hs := &handlers.Handlers{
		Client:  upstream.New(env.BackendURL, env.BackendTimeout),
		Session: session,
	}

	if db := intconfig.ConnectDB(env.DBDSN); db != nil {
		hs.Audit = services.AuditService{Store: &repositories.AuditRepository{DB: db}}
		hs.DBPing = intconfig.PingDB
	}
	defer intconfig.CloseDB()

	authLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Rate:   env.AuthRateLimit,
		Window: time.Minute,
		Burst:  env.AuthRateBurst,
	})
	defer authLimiter.Stop()

	// Router (Gin engine)
	r := router.NewRouter(env, hs, authLimiter)
	handlers.SetRouter(r)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		// PDF rendering waits on two backend calls
		WriteTimeout: env.BackendTimeout*2 + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Gateway berjalan di http://localhost%s -> %s", env.AppAddr, env.BackendURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Gagal menjalankan server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Mematikan server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Shutdown server gagal: %v", err)
	}

	log.Println("Server berhenti dengan aman.")
}
