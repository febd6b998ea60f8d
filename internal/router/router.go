package router

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"github.com/nikif9/user-account-service/internal/model"
)

// Handler is the target of a route. Path placeholders are delivered as
// positional params in left-to-right pattern order.
type Handler interface {
	Serve(w http.ResponseWriter, r *http.Request, params []string)
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(w http.ResponseWriter, r *http.Request, params []string)

func (f HandlerFunc) Serve(w http.ResponseWriter, r *http.Request, params []string) {
	f(w, r, params)
}

type route struct {
	method  string
	pattern string
	matcher *regexp.Regexp
	handler Handler
}

// Router matches a method and path against routes in registration order
// and invokes the first match. It is safe for concurrent use once all
// routes are registered.
type Router struct {
	routes []route
}

func New() *Router {
	return &Router{}
}

// placeholders are {name} tokens standing for exactly one path segment.
// QuoteMeta escapes the braces, hence the escaped form here.
var placeholderPattern = regexp.MustCompile(`\\\{[a-zA-Z]+\\\}`)

// Register stores a route. Patterns use literal segments and {name}
// placeholders; a placeholder matches one or more of [A-Za-z0-9_-] and
// never spans a slash.
func (rt *Router) Register(method string, pattern string, handler Handler) {
	normalized := normalizePath(pattern)
	rt.routes = append(rt.routes, route{
		method:  strings.ToUpper(method),
		pattern: normalized,
		matcher: compilePattern(normalized),
		handler: handler,
	})
}

func (rt *Router) Get(pattern string, handler Handler) {
	rt.Register(http.MethodGet, pattern, handler)
}

func (rt *Router) Post(pattern string, handler Handler) {
	rt.Register(http.MethodPost, pattern, handler)
}

func (rt *Router) Put(pattern string, handler Handler) {
	rt.Register(http.MethodPut, pattern, handler)
}

func (rt *Router) Delete(pattern string, handler Handler) {
	rt.Register(http.MethodDelete, pattern, handler)
}

// Dispatch routes the request and always writes exactly one response;
// an unmatched method+path pair produces a 404 body.
func (rt *Router) Dispatch(w http.ResponseWriter, r *http.Request) {
	method := strings.ToUpper(r.Method)
	path := normalizePath(r.URL.Path)

	for _, candidate := range rt.routes {
		if candidate.method != method {
			continue
		}

		match := candidate.matcher.FindStringSubmatch(path)
		if match == nil {
			continue
		}

		candidate.handler.Serve(w, r, match[1:])
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse{Error: "endpoint not found"})
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rt.Dispatch(w, r)
}

// normalizePath strips redundant slashes so /users/1, users/1/ and
// //users/1 all address the same route.
func normalizePath(path string) string {
	return "/" + strings.Trim(path, "/")
}

func compilePattern(pattern string) *regexp.Regexp {
	quoted := regexp.QuoteMeta(pattern)
	expr := placeholderPattern.ReplaceAllString(quoted, `([A-Za-z0-9_-]+)`)
	return regexp.MustCompile("^" + expr + "$")
}
