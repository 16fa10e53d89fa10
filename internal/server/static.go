package server

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tdewolff/minify/v2/json"
	"github.com/tdewolff/minify/v2/svg"
)

type asset struct {
	contentType string
	data        []byte
}

// static serves a frontend tree minified once at startup.
type static struct {
	assets  map[string]asset
	modTime time.Time
}

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("image/svg+xml", svg.Minify)
	m.AddFuncRegexp(regexp.MustCompile(`^(application|text)/(x-)?(java|ecma)script$`), js.Minify)
	m.AddFuncRegexp(regexp.MustCompile(`[/+]json$`), json.Minify)
	return m
}

func newStatic(fsys fs.FS) (*static, error) {
	m := newMinifier()
	s := &static{assets: make(map[string]asset), modTime: time.Now()}

	err := fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return err
		}
		ct := mime.TypeByExtension(path.Ext(name))
		if ct == "" {
			ct = http.DetectContentType(raw)
		}
		data := raw
		if mt, _, err := mime.ParseMediaType(ct); err == nil {
			if out, err := m.Bytes(mt, raw); err == nil {
				data = out
			} else if !errors.Is(err, minify.ErrNotExist) {
				return fmt.Errorf("minify %s: %w", name, err)
			}
		}
		s.assets["/"+name] = asset{contentType: ct, data: data}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *static) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Path
	if strings.HasSuffix(name, "/") {
		name += "index.html"
	}
	a, ok := s.assets[name]
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", a.contentType)
	http.ServeContent(w, r, name, s.modTime, bytes.NewReader(a.data))
}
