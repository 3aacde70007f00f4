// Package viewer shows an image in the users browser & waits for them to close it.
//
// The image is served from a local http server alongside a small page. The
// page keeps a websocket open back to us; once every page has gone (and
// none has come back within the grace period) Display returns.
package viewer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"image"
	"image/png"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/voidshard/chunkview/internal/ctxlog"
)

const page = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
html, body { margin: 0; padding: 0; background: #111; }
img { display: block; max-width: 100vw; max-height: 100vh; margin: auto; }
</style>
</head>
<body>
<img src="/canvas.png" alt="{{.Title}}" width="{{.Width}}" height="{{.Height}}">
<script>
(function () {
	var ws = new WebSocket("ws://" + location.host + "/ws");
	ws.onclose = function () { document.title = "{{.Title}} (closed)"; };
})();
</script>
</body>
</html>
`

var pageTmpl = template.Must(template.New("page").Parse(page))

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Viewer serves one image at a time over http
type Viewer struct {
	// Addr to listen on, defaults to 127.0.0.1:0 (a random free port)
	Addr string

	Title string

	// how long to wait for a page to reconnect (eg. on refresh) before
	// deciding the user is done. Defaults to 2s.
	Grace time.Duration

	// Ready is called with the page url once we're listening
	Ready func(url string)
}

// New returns a viewer with default settings
func New(title string) *Viewer {
	return &Viewer{Addr: "127.0.0.1:0", Title: title, Grace: 2 * time.Second}
}

// Display serves `im` & blocks until the page is closed or ctx is done.
func (v *Viewer) Display(ctx context.Context, im image.Image) error {
	log := ctxlog.FromContext(ctx)

	buff := new(bytes.Buffer)
	err := png.Encode(buff, im)
	if err != nil {
		return errors.Wrap(err, "encoding canvas")
	}

	addr := v.Addr
	if addr == "" {
		addr = "127.0.0.1:0"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "listening on %s", addr)
	}

	sess := newSession(v.Grace)
	srv := &http.Server{Handler: v.handler(ctx, im.Bounds(), buff.Bytes(), sess)}

	served := make(chan error, 1)
	go func() {
		served <- srv.Serve(ln)
	}()

	url := fmt.Sprintf("http://%s/", ln.Addr().String())
	log.Info("viewer ready, close the page to finish", "url", url)
	if v.Ready != nil {
		v.Ready(url)
	}

	var result error
	select {
	case <-ctx.Done():
		log.Info("viewer cancelled")
	case <-sess.done:
		log.Info("viewer closed")
	case err := <-served:
		result = errors.Wrap(err, "viewer server stopped")
	}

	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	sess.closeAll()
	if err := srv.Shutdown(shutdown); err != nil {
		log.Warn("viewer shutdown", "err", err)
	}

	return result
}

func (v *Viewer) handler(ctx context.Context, bnds image.Rectangle, pngdata []byte, sess *session) http.Handler {
	log := ctxlog.FromContext(ctx)

	title := v.Title
	if title == "" {
		title = "chunkview"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err := pageTmpl.Execute(w, struct {
			Title         string
			Width, Height int
		}{title, bnds.Dx(), bnds.Dy()})
		if err != nil {
			log.Warn("writing viewer page", "err", err)
		}
	})
	mux.HandleFunc("/canvas.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		if _, err := w.Write(pngdata); err != nil {
			log.Warn("writing canvas", "err", err)
		}
	})
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return // Upgrade has already replied
		}
		sess.add(conn)
		defer sess.remove(conn)

		for {
			// we never expect anything, reading only tells us when it's gone
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	return mux
}

// session tracks open pages
type session struct {
	lock  sync.Mutex
	conns map[*websocket.Conn]bool
	grace time.Duration
	timer *time.Timer
	once  sync.Once
	done  chan struct{}
}

func newSession(grace time.Duration) *session {
	if grace <= 0 {
		grace = 2 * time.Second
	}
	return &session{
		conns: map[*websocket.Conn]bool{},
		grace: grace,
		done:  make(chan struct{}),
	}
}

func (s *session) add(conn *websocket.Conn) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.conns[conn] = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *session) remove(conn *websocket.Conn) {
	s.lock.Lock()
	defer s.lock.Unlock()

	conn.Close()
	delete(s.conns, conn)
	if len(s.conns) > 0 {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.grace, s.finish)
}

func (s *session) finish() {
	s.lock.Lock()
	open := len(s.conns)
	s.lock.Unlock()
	if open > 0 {
		return
	}
	s.once.Do(func() { close(s.done) })
}

func (s *session) closeAll() {
	s.lock.Lock()
	defer s.lock.Unlock()
	for conn := range s.conns {
		conn.Close()
	}
	if s.timer != nil {
		s.timer.Stop()
	}
}
