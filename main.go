package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/harshbookstore/backend/config"
	"github.com/harshbookstore/backend/handlers"
	"github.com/harshbookstore/backend/middleware"
	"github.com/harshbookstore/backend/storage"
	"github.com/harshbookstore/backend/store"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config:", err)
	}

	ctx := context.Background()
	db, err := store.NewMongoDB(ctx, cfg.MongoURI, cfg.DBName)
	if err != nil {
		log.Fatal("mongodb:", err)
	}
	defer func() {
		if err := db.Disconnect(context.Background()); err != nil {
			log.Println("mongodb disconnect:", err)
		}
	}()

	files, err := storage.New(cfg.UploadDir)
	if err != nil {
		log.Fatal("storage:", err)
	}

	booksHandler := &handlers.BooksHandler{Store: db}
	uploadHandler := &handlers.UploadHandler{
		Store:    db,
		Files:    files,
		MaxBytes: (2*cfg.MaxUploadMB + 1) * 1024 * 1024,
	}
	statsHandler := &handlers.StatsHandler{Store: db}

	r := chi.NewRouter()
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"Bookstore backend is live"}`))
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/books", booksHandler.List)
		r.Post("/books/upload", uploadHandler.Upload)
		r.Get("/stats", statsHandler.Stats)
	})

	// Stored files are served straight from the uploads root.
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))

	ln, addr, err := listenWithFallback(cfg.Port, 20)
	if err != nil {
		log.Fatal("listen:", err)
	}

	server := &http.Server{Handler: r}
	go func() {
		log.Println("server listening on", addr)
		if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("shutdown:", err)
	}
}

// listenWithFallback binds the first free TCP port at or above the
// configured one, trying at most attempts ports.
func listenWithFallback(start string, attempts int) (net.Listener, string, error) {
	port, err := strconv.Atoi(start)
	if err != nil {
		return nil, "", fmt.Errorf("invalid port %q: %w", start, err)
	}
	for i := 0; i < attempts; i++ {
		addr := fmt.Sprintf(":%d", port+i)
		ln, err := net.Listen("tcp", addr)
		if err == nil {
			if i > 0 {
				log.Printf("port %d is busy, using %d", port, port+i)
			}
			return ln, addr, nil
		}
	}
	return nil, "", fmt.Errorf("no free port in range %d-%d", port, port+attempts-1)
}
