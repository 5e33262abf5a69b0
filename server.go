package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"gregoryjjb/ringd/circularlist"
)

var srvlog zerolog.Logger

func init() {
	srvlog = log.With().Str("component", "server").Logger()
}

type BuildInfo struct {
	Version    string    `json:"version"`
	BuildTime  time.Time `json:"build_time"`
	CommitHash string    `json:"commit_hash"`
}

/////////////////////
// Response helpers

func RespondInternalServiceError(w http.ResponseWriter, err error) {
	w.WriteHeader(http.StatusInternalServerError)
	w.Write([]byte(err.Error()))
}

func RespondNotFoundError(w http.ResponseWriter, body string) {
	w.WriteHeader(http.StatusNotFound)
	if body == "" {
		body = "Not found"
	}
	RespondText(w, body)
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	w.WriteHeader(http.StatusBadRequest)
	RespondText(w, message)
}

func RespondText(w http.ResponseWriter, body string) {
	w.Write([]byte(body))
}

func RespondJSON(w http.ResponseWriter, body any) {
	w.Header().Add("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		RespondInternalServiceError(w, err)
	}
}

// RespondError maps domain errors to status codes.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrRingNotFound):
		RespondNotFoundError(w, err.Error())
	case errors.Is(err, ErrValidation), errors.Is(err, circularlist.ErrInvalidArgument):
		RespondBadRequest(w, err.Error())
	case errors.Is(err, ErrRingExists), errors.Is(err, circularlist.ErrEmptyContainer):
		w.WriteHeader(http.StatusConflict)
		RespondText(w, err.Error())
	default:
		srvlog.Err(err).Msg("Unhandled error")
		RespondInternalServiceError(w, err)
	}
}

type RingView struct {
	Name  string   `json:"name"`
	Size  int      `json:"size"`
	Items []string `json:"items"`
}

type itemBody struct {
	Item string `json:"item"`
}

// ringCtx resolves {name} and hands the ring to fn.
func ringCtx(rings *RingSet, fn func(w http.ResponseWriter, r *http.Request, ring *Ring)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ring, err := rings.Get(chi.URLParam(r, "name"))
		if err != nil {
			RespondError(w, err)
			return
		}
		fn(w, r, ring)
	}
}

func NewRouter(info BuildInfo, rings *RingSet) http.Handler {
	r := chi.NewRouter()
	r.Use(LoggerMiddleware(&log.Logger))

	r.Route("/api", func(r chi.Router) {
		r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
			RespondJSON(w, info)
		})

		r.Get("/rings", func(w http.ResponseWriter, r *http.Request) {
			RespondJSON(w, rings.Names())
		})

		r.Route("/rings/{name}", func(r chi.Router) {
			r.Post("/", func(w http.ResponseWriter, r *http.Request) {
				ring, err := rings.Create(chi.URLParam(r, "name"))
				if err != nil {
					RespondError(w, err)
					return
				}
				w.WriteHeader(http.StatusCreated)
				RespondJSON(w, RingView{Name: ring.Name(), Items: []string{}})
			})

			r.Delete("/", func(w http.ResponseWriter, r *http.Request) {
				if err := rings.Delete(chi.URLParam(r, "name")); err != nil {
					RespondError(w, err)
					return
				}
				w.WriteHeader(http.StatusNoContent)
			})

			r.Get("/", ringCtx(rings, func(w http.ResponseWriter, r *http.Request, ring *Ring) {
				w.Header().Add("Cache-Control", "no-cache, no-store")
				items := ring.Items()
				RespondJSON(w, RingView{
					Name:  ring.Name(),
					Size:  len(items),
					Items: items,
				})
			}))

			r.Get("/text", ringCtx(rings, func(w http.ResponseWriter, r *http.Request, ring *Ring) {
				w.Header().Add("Content-Type", "text/plain; charset=utf-8")
				RespondText(w, ring.Render())
			}))

			r.Get("/first", ringCtx(rings, func(w http.ResponseWriter, r *http.Request, ring *Ring) {
				item, err := ring.Front()
				if err != nil {
					RespondError(w, err)
					return
				}
				RespondJSON(w, itemBody{Item: item})
			}))

			r.Get("/last", ringCtx(rings, func(w http.ResponseWriter, r *http.Request, ring *Ring) {
				item, err := ring.Back()
				if err != nil {
					RespondError(w, err)
					return
				}
				RespondJSON(w, itemBody{Item: item})
			}))

			r.Post("/first", ringCtx(rings, func(w http.ResponseWriter, r *http.Request, ring *Ring) {
				pushHandler(w, r, ring.PushFront)
			}))

			r.Post("/last", ringCtx(rings, func(w http.ResponseWriter, r *http.Request, ring *Ring) {
				pushHandler(w, r, ring.PushBack)
			}))

			r.Delete("/first", ringCtx(rings, func(w http.ResponseWriter, r *http.Request, ring *Ring) {
				item, err := ring.PopFront()
				if err != nil {
					RespondError(w, err)
					return
				}
				RespondJSON(w, itemBody{Item: item})
			}))

			r.Post("/rotate", ringCtx(rings, func(w http.ResponseWriter, r *http.Request, ring *Ring) {
				front, err := ring.Rotate()
				if err != nil {
					RespondError(w, err)
					return
				}
				RespondJSON(w, map[string]string{"front": front})
			}))

			r.Get("/history", ringCtx(rings, func(w http.ResponseWriter, r *http.Request, ring *Ring) {
				RespondJSON(w, ring.History())
			}))

			r.Get("/equal/{other}", ringCtx(rings, func(w http.ResponseWriter, r *http.Request, ring *Ring) {
				other, err := rings.Get(chi.URLParam(r, "other"))
				if err != nil {
					RespondError(w, err)
					return
				}
				RespondJSON(w, map[string]bool{"equal": ring.Equal(other)})
			}))

			r.Get("/ws", ringCtx(rings, createWebsocketHandler))
		})
	})

	return r
}

func pushHandler(w http.ResponseWriter, r *http.Request, push func(string) error) {
	var body itemBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		RespondBadRequest(w, fmt.Sprintf("invalid body: %s", err))
		return
	}
	if err := push(body.Item); err != nil {
		RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StartServer serves until ctx is cancelled, then shuts down gracefully.
func StartServer(ctx context.Context, config *Config, info BuildInfo, rings *RingSet) error {
	srv := &http.Server{
		Addr:    config.Address(),
		Handler: NewRouter(info, rings),
	}

	errCh := make(chan error, 1)
	go func() {
		srvlog.Info().Str("listen", srv.Addr).Msg("launching server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
