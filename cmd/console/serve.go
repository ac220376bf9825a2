package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/octoberswimmer/console"
	"github.com/octoberswimmer/console/internal/ctxlog"
)

func newServeCmd(a *app) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the console over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			logger := ctxlog.FromContext(ctx)
			if !cmd.Flags().Changed("port") {
				port = a.cfg.ServePort
			}

			wc, err := newWebConsole(a, logger)
			if err != nil {
				return err
			}
			defer wc.Close()

			actualPort, ln, err := findFreePort(port, logger)
			if err != nil {
				return fmt.Errorf("error finding free port: %w", err)
			}
			fmt.Fprintf(a.stdout, "Serving console at http://localhost:%d\n", actualPort)
			return serveUntilDone(ctx, ln, wc.Handler(), logger)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 8000, "Port to listen on")
	return cmd
}

// webConsole is a console whose log is presented in a gost-dom window. The
// sink, the dispatcher and the window all live on one looper, so concurrent
// requests never interleave demo output and the DOM is never touched from
// two goroutines.
type webConsole struct {
	title     string
	reg       *console.Registry
	looper    *console.Looper
	sink      *console.LogSink
	dispatch  *console.Dispatcher
	surface   *console.DOMSurface
	presenter *console.ScrollPresenter
}

func newWebConsole(a *app, logger *slog.Logger) (*webConsole, error) {
	wc := &webConsole{
		title:  a.cfg.Title,
		reg:    a.reg,
		looper: console.NewLooper(console.WithLooperLogger(logger)),
	}
	wc.sink = console.NewLogSink(wc.looper)
	wc.dispatch = console.NewDispatcher(a.reg, wc.sink, console.WithDispatcherLogger(logger))

	var err error
	wc.looper.Post(func() {
		win, werr := console.NewConsoleWindow(a.cfg.Title)
		if werr != nil {
			err = werr
			return
		}
		wc.surface, err = console.NewDOMSurface(win, console.ConsoleSelector)
	})
	wc.looper.Sync()
	if err != nil {
		wc.looper.Close()
		return nil, err
	}

	var popts []console.PresenterOption
	if a.cfg.ScrollDelay > 0 {
		popts = append(popts, console.WithScrollDelay(a.cfg.ScrollDelay))
	}
	wc.presenter = console.NewScrollPresenter(wc.sink, wc.surface, wc.looper, popts...)

	for _, line := range a.cfg.Banner {
		wc.sink.Append(line)
	}
	wc.settle()
	return wc, nil
}

// settle waits for queued demo runs, the log updates they post and the
// scroll step those post in turn.
func (wc *webConsole) settle() {
	for i := 0; i < 3; i++ {
		wc.looper.Sync()
	}
}

// Close stops presenting and shuts the looper down.
func (wc *webConsole) Close() {
	wc.presenter.Close()
	wc.looper.Close()
}

// run executes id on the looper and waits for its output to be presented.
func (wc *webConsole) run(id string) {
	wc.looper.Post(func() { wc.dispatch.Run(id) })
	wc.settle()
}

func (wc *webConsole) clear() {
	wc.sink.Clear()
	wc.settle()
}

// document reads the rendered console body and scroll line on the looper.
func (wc *webConsole) document() (body string, line int) {
	wc.looper.Post(func() {
		body = wc.surface.HTML()
		line = wc.surface.ScrollLine()
	})
	wc.looper.Sync()
	return body, line
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 1.5em; }
.menu form { display: inline; }
.console { background: #111; color: #ddd; height: 24em; overflow-y: auto; padding: 0.5em; }
</style>
</head>
<body>
<nav class="menu">
{{range .Demos}}<form method="post" action="/run/{{.ID}}"><button title="{{.ID}}">{{.DisplayName}}</button></form>
{{end}}<form method="post" action="/clear"><button>Clear</button></form>
</nav>
{{.Body}}
<script>
const c = document.getElementById("console");
if (c) { c.scrollTop = c.scrollHeight; }
</script>
</body>
</html>
`))

type demoJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Handler serves the console page, the plain log and the demo actions.
func (wc *webConsole) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		body, line := wc.document()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("X-Scroll-Line", fmt.Sprint(line))
		err := pageTemplate.Execute(w, struct {
			Title string
			Demos []console.DemoEntry
			Body  template.HTML
		}{wc.title, wc.reg.Entries(), template.HTML(body)})
		if err != nil {
			ctxlog.FromContext(r.Context()).Error("render page", "error", err)
		}
	})

	mux.HandleFunc("GET /log", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, wc.sink.CurrentSnapshot().Text)
	})

	mux.HandleFunc("GET /demos", func(w http.ResponseWriter, r *http.Request) {
		entries := wc.reg.Entries()
		out := make([]demoJSON, 0, len(entries))
		for _, e := range entries {
			out = append(out, demoJSON{ID: e.ID, Name: e.DisplayName})
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(out); err != nil {
			ctxlog.FromContext(r.Context()).Error("encode demos", "error", err)
		}
	})

	mux.HandleFunc("POST /run/{id}", func(w http.ResponseWriter, r *http.Request) {
		wc.run(r.PathValue("id"))
		wc.respond(w, r)
	})

	mux.HandleFunc("POST /clear", func(w http.ResponseWriter, r *http.Request) {
		wc.clear()
		wc.respond(w, r)
	})

	return mux
}

// respond redirects browsers back to the page and gives other clients the
// log text.
func (wc *webConsole) respond(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Accept") == "text/plain" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, wc.sink.CurrentSnapshot().Text)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// findFreePort tries the preferred port first, then lets the OS pick one.
func findFreePort(preferredPort int, logger *slog.Logger) (int, net.Listener, error) {
	if preferredPort > 0 {
		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", preferredPort))
		if err == nil {
			return preferredPort, ln, nil
		}
		logger.Info("port in use, finding alternative", "port", preferredPort)
	}

	ln, err := net.Listen("tcp", ":0")
	if err != nil {
		return 0, nil, err
	}
	port := ln.Addr().(*net.TCPAddr).Port
	return port, ln, nil
}

func serveUntilDone(ctx context.Context, ln net.Listener, h http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Debug("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
